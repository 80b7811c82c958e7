package repository

import (
	"context"
	"strings"
	"time"
)

// Role del usuario. El default para altas es RoleCustomer.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleCustomer  Role = "customer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleCustomer:
		return true
	}
	return false
}

// AuthProvider indica qué credencial es autoritativa para la identidad.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
	ProviderGithub   AuthProvider = "github"
)

func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderFacebook, ProviderGithub:
		return true
	}
	return false
}

// Language preferido para emails y mensajes de error.
type Language string

const (
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
)

func (l Language) Valid() bool { return l == LanguageEN || l == LanguageFR }

// User es la identidad local. Para provider=email la credencial es PasswordHash;
// para providers SSO es (Provider, SSOProviderID) y PasswordHash queda vacío.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Language     Language
	Confirmed    bool

	SSOConfirmationCode string
	Provider            AuthProvider
	SSOProviderID       string

	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	Postcode  string
	Region    string // dirección: estado/provincia (columna "state")

	Lifecycle
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// FullName "First Last" sin espacios sobrantes.
func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// NormalizeEmail: trim + lowercase. Se aplica antes de cualquier lookup o alta.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// UserRepository define la persistencia de usuarios.
type UserRepository interface {
	// GetByID retorna ErrNotFound si no existe o está archivado (sin WithArchived).
	GetByID(ctx context.Context, id string, opts ReadOptions) (*User, error)

	// GetByEmail busca por email normalizado, sin importar el provider.
	GetByEmail(ctx context.Context, email string, opts ReadOptions) (*User, error)

	// GetByProvider busca por (provider, sso_provider_id).
	GetByProvider(ctx context.Context, provider AuthProvider, externalID string, opts ReadOptions) (*User, error)

	List(ctx context.Context, opts ListOptions) ([]User, error)

	// Create asigna ID y timestamps si vienen vacíos. ErrConflict ante email o
	// (provider, sso_provider_id) duplicados.
	Create(ctx context.Context, u *User) error

	// Update persiste los campos mutables (perfil, rol, password, idioma, confirmed).
	Update(ctx context.Context, u *User) error

	// SetSSOCode reemplaza el código de confirmación SSO vigente.
	SetSSOCode(ctx context.Context, id, code string) error

	// ConsumeSSOCode limpia el código sólo si sigue siendo code.
	// Retorna false si otro request ya lo consumió o fue regenerado.
	ConsumeSSOCode(ctx context.Context, id, code string) (bool, error)

	Archive(ctx context.Context, id string, at time.Time) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// Package providers define los proveedores de login social.
//
// Architecture:
// - Provider interface: URL de autorización + canje de code por identidad
// - Registry: factories registradas al inicio, una instancia por provider habilitado
// - Implementaciones: un sub-paquete por provider (google, github, facebook)
//
// Cada implementación normaliza la respuesta del proveedor a Identity.
package providers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Provider defines the interface all social login providers must implement.
type Provider interface {
	Name() string

	// AuthCodeURL arma la URL de redirección al proveedor. nonce puede
	// ignorarse si el proveedor no es OIDC.
	AuthCodeURL(state, nonce string) string

	// Identity canjea el code y retorna la identidad externa normalizada.
	Identity(ctx context.Context, code, nonce string) (*Identity, error)
}

// Identity es la identidad externa normalizada que consume la reconciliación SSO.
type Identity struct {
	Provider      string
	ProviderID    string // id estable asignado por el proveedor (sub, id)
	Email         string
	EmailVerified bool
	FirstName     string
	LastName      string
}

// Config de una instancia de provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// Overrides para tests o proveedores self-hosted. Zero value = endpoints públicos.
	Endpoint   oauth2.Endpoint
	APIBaseURL string
	HTTPClient *http.Client
}

var (
	ErrNotConfigured   = errors.New("provider: client id and secret required")
	ErrExchangeFailed  = errors.New("provider: code exchange failed")
	ErrIDTokenInvalid  = errors.New("provider: id_token invalid")
	ErrUserInfoFailed  = errors.New("provider: user info request failed")
	ErrEmailMissing    = errors.New("provider: email missing")
	ErrEmailUnverified = errors.New("provider: email not verified")
)

// Validate chequea los campos mínimos.
func (c Config) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrNotConfigured
	}
	return nil
}

// WithHTTPClient inyecta el cliente HTTP configurado en el contexto que usa oauth2.
func (c Config) WithHTTPClient(ctx context.Context) context.Context {
	if c.HTTPClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, c.HTTPClient)
}

// SplitName parte "Ada Lovelace King" en ("Ada", "Lovelace King").
func SplitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}

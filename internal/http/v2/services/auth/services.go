// Package auth contiene los services de autenticación V2: registro, login,
// refresh y recuperación de contraseña.
package auth

import (
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/security/password"
)

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Users    repository.UserRepository
	Codec    *jwtx.Codec
	Hasher   *password.Hasher
	Policy   password.Policy
	Notifier email.Notifier
	// WebAppURL base del frontend para el link de reset.
	WebAppURL string
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Auth AuthService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{Auth: NewAuthService(d)}
}

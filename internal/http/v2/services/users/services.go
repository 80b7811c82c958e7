// Package users contiene los services de gestión de usuarios: perfil propio,
// administración y alta abierta.
package users

import (
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	"github.com/dropDatabas3/authkit/internal/security/password"
)

// Deps contiene las dependencias para crear los services users.
type Deps struct {
	Users    repository.UserRepository
	Hasher   *password.Hasher
	Policy   password.Policy
	Notifier email.Notifier
	// OpenRegistration habilita POST /users/open.
	OpenRegistration bool
	// WebAppURL se usa en el link del email new_account.
	WebAppURL string
}

// Services agrupa todos los services del dominio users.
type Services struct {
	Users UserService
}

// NewServices crea el agregador de services users.
func NewServices(d Deps) Services {
	return Services{Users: NewUserService(d)}
}

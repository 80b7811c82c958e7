// Package email contiene los services de envío de emails operativos.
package email

import "github.com/dropDatabas3/authkit/internal/email"

// Deps contiene las dependencias para crear los services email.
type Deps struct {
	Notifier email.Notifier
}

// Services agrupa todos los services del dominio email.
type Services struct {
	Test TestEmailService
}

// NewServices crea el agregador de services email.
func NewServices(d Deps) Services {
	return Services{Test: NewTestEmailService(d)}
}

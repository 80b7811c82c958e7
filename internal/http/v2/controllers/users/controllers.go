// Package users contiene los controllers de gestión de usuarios.
package users

import (
	"errors"
	"net/http"

	authctrl "github.com/dropDatabas3/authkit/internal/http/v2/controllers/auth"
	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/users"
)

// Controllers agrupa todos los controllers del dominio users.
type Controllers struct {
	Users *UsersController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Users: NewUsersController(s.Users)}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrRegistrationClosed):
		httperrors.Write(w, r, httperrors.ErrRegistrationClosed)
	case errors.Is(err, svc.ErrInvalidRole):
		httperrors.Write(w, r, httperrors.ErrInvalidFormat.WithDetail("invalid role"))
	case errors.Is(err, svc.ErrInvalidLanguage):
		httperrors.Write(w, r, httperrors.ErrInvalidFormat.WithDetail("invalid language"))
	case errors.Is(err, svc.ErrInvalidProfile):
		httperrors.Write(w, r, httperrors.ErrInvalidFormat.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrPasswordNotAllowed):
		httperrors.Write(w, r, httperrors.ErrPasswordNotAllowed)
	default:
		authctrl.WriteError(w, r, err)
	}
}

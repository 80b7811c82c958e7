// Package utils contiene endpoints operativos para administradores.
package utils

import (
	"errors"
	"net/http"

	dtoauth "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	"github.com/dropDatabas3/authkit/internal/http/v2/helpers"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/email"
)

// Controllers agrupa los controllers de utils.
type Controllers struct {
	Utils *UtilsController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Utils: &UtilsController{email: s.Test}}
}

type UtilsController struct {
	email svc.TestEmailService
}

// TestEmail maneja POST /utils/test-email?email_to=... (admin)
func (c *UtilsController) TestEmail(w http.ResponseWriter, r *http.Request) {
	err := c.email.Send(r.Context(), mw.CurrentUser(r.Context()), r.URL.Query().Get("email_to"))
	switch {
	case err == nil:
		helpers.WriteJSON(w, http.StatusCreated, dtoauth.MessageResponse{Msg: "Test email sent"})
	case errors.Is(err, svc.ErrInvalidRecipient):
		httperrors.Write(w, r, httperrors.ErrInvalidFormat.WithDetail("invalid email_to"))
	default:
		httperrors.Write(w, r, err)
	}
}

// Package auth contiene los controllers de autenticación: registro, login,
// refresh y recuperación de contraseña.
package auth

import (
	"errors"
	"net/http"
	"time"

	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	"github.com/dropDatabas3/authkit/internal/http/v2/dto/users"
	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
)

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Auth *AuthController
}

// NewControllers crea el agregador de controllers auth.
// accessTTL se informa como expires_in en las respuestas con tokens.
func NewControllers(s svc.Services, accessTTL time.Duration) *Controllers {
	return &Controllers{Auth: NewAuthController(s.Auth, accessTTL)}
}

// SessionResponse arma la respuesta con el par de tokens y el usuario.
func SessionResponse(sess *svc.Session, accessTTL time.Duration) dto.TokenResponse {
	resp := dto.TokenResponse{
		AccessToken:  sess.Tokens.AccessToken,
		RefreshToken: sess.Tokens.RefreshToken,
		TokenType:    sess.Tokens.TokenType,
		ExpiresIn:    int64(accessTTL.Seconds()),
	}
	if sess.User != nil {
		u := users.FromUser(sess.User)
		resp.User = &u
	}
	return resp
}

// WriteError traduce los errores del dominio auth. Los que no reconoce
// los resuelve httperrors.FromError.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.Write(w, r, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrInvalidEmail):
		httperrors.Write(w, r, httperrors.ErrInvalidFormat.WithDetail("invalid email"))
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.Write(w, r, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrDuplicateEmail):
		httperrors.Write(w, r, httperrors.ErrEmailTaken)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.Write(w, r, httperrors.ErrNotFound.WithDetail("user not found"))
	case errors.Is(err, svc.ErrPasswordNotAllowed):
		httperrors.Write(w, r, httperrors.ErrPasswordNotAllowed)
	case errors.Is(err, svc.ErrPasswordPolicy):
		httperrors.Write(w, r, httperrors.ErrPolicyViolation.WithDetail(err.Error()))
	default:
		httperrors.Write(w, r, err)
	}
}

// Package social contiene los controllers del login federado.
package social

import (
	"errors"
	"net/http"
	"time"

	authctrl "github.com/dropDatabas3/authkit/internal/http/v2/controllers/auth"
	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/social"
)

// Controllers agrupa todos los controllers del dominio social.
type Controllers struct {
	Social *SocialController
}

// NewControllers crea el agregador de controllers social.
func NewControllers(s svc.Services, accessTTL time.Duration) *Controllers {
	return &Controllers{Social: NewSocialController(s, accessTTL)}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, svc.ErrProviderUnknown):
		httperrors.Write(w, r, httperrors.ErrProviderNotEnabled)
	case errors.Is(err, svc.ErrReturnURLRequired):
		httperrors.Write(w, r, httperrors.ErrMissingFields.WithDetail("return_url"))
	case errors.Is(err, svc.ErrReturnURLNotAllowed):
		httperrors.Write(w, r, httperrors.ErrReturnURLNotAllowed)
	case errors.Is(err, svc.ErrInvalidState), errors.Is(err, svc.ErrProviderMismatch):
		httperrors.Write(w, r, httperrors.ErrInvalidState)
	case errors.Is(err, svc.ErrEmailConflict):
		httperrors.Write(w, r, httperrors.ErrSSOEmailConflict)
	case errors.Is(err, svc.ErrAccountArchived):
		httperrors.Write(w, r, httperrors.ErrAccountArchived)
	case errors.Is(err, svc.ErrInvalidIdentity):
		httperrors.Write(w, r, httperrors.ErrProviderFailed.WithDetail("invalid identity"))
	case errors.Is(err, svc.ErrMissingToken):
		httperrors.Write(w, r, httperrors.ErrMissingFields.WithDetail("token"))
	case errors.Is(err, svc.ErrSSOCodeMismatch):
		httperrors.Write(w, r, httperrors.ErrSSOCodeMismatch)
	case errors.Is(err, svc.ErrNotFound):
		httperrors.Write(w, r, httperrors.ErrNotFound.WithDetail("user not found"))
	default:
		authctrl.WriteError(w, r, err)
	}
}

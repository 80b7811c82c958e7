package social

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/authkit/internal/http/v2/controllers/auth"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/social"
	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	"github.com/dropDatabas3/authkit/internal/http/v2/helpers"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/social"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// SocialController maneja /auth/{provider}/login, /auth/{provider}/callback
// y /auth/sso/confirm.
type SocialController struct {
	services  svc.Services
	accessTTL time.Duration
}

func NewSocialController(s svc.Services, accessTTL time.Duration) *SocialController {
	return &SocialController{services: s, accessTTL: accessTTL}
}

// Login maneja GET /auth/{provider}/login?return_url=...
// Redirige (302) a la pantalla de autorización del proveedor.
func (c *SocialController) Login(w http.ResponseWriter, r *http.Request) {
	target, err := c.services.Start.BeginLogin(r.Context(), chi.URLParam(r, "provider"), r.URL.Query().Get("return_url"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Callback maneja GET /auth/{provider}/callback?state=...&code=...
// Redirige (302) a return_url con el token de confirmación SSO.
func (c *SocialController) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		logger.From(r.Context()).Info("provider returned error",
			logger.Provider(provider), logger.String("error", e))
		httperrors.Write(w, r, httperrors.ErrProviderFailed.WithDetail(e))
		return
	}
	state, code := q.Get("state"), q.Get("code")
	if state == "" || code == "" {
		httperrors.Write(w, r, httperrors.ErrMissingFields.WithDetail("state and code are required"))
		return
	}

	target, err := c.services.Callback.Callback(r.Context(), provider, state, code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Confirm maneja POST /auth/sso/confirm
func (c *SocialController) Confirm(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	sess, err := c.services.Confirm.Confirm(r.Context(), req.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, authctrl.SessionResponse(sess, c.accessTTL))
}

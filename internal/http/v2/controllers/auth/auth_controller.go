package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	"github.com/dropDatabas3/authkit/internal/http/v2/dto/users"
	httperrors "github.com/dropDatabas3/authkit/internal/http/v2/errors"
	"github.com/dropDatabas3/authkit/internal/http/v2/helpers"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// AuthController maneja los endpoints /auth/*.
type AuthController struct {
	service   svc.AuthService
	accessTTL time.Duration
}

// NewAuthController crea un nuevo AuthController.
func NewAuthController(service svc.AuthService, accessTTL time.Duration) *AuthController {
	return &AuthController{service: service, accessTTL: accessTTL}
}

// Register maneja POST /auth/register
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	sess, err := c.service.Register(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SessionResponse(sess, c.accessTTL))
}

// Login maneja POST /auth/login/access-token. Acepta el form OAuth2
// (username, password) o el mismo par en JSON.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.Contains(ct, "application/x-www-form-urlencoded") || strings.Contains(ct, "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, helpers.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			log.Debug("invalid form", logger.Err(err))
			httperrors.Write(w, r, httperrors.ErrBadRequest.WithDetail("invalid form body"))
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	} else if !helpers.ReadJSON(w, r, &req) {
		return
	}

	sess, err := c.service.Login(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SessionResponse(sess, c.accessTTL))
}

// Refresh maneja POST /auth/refresh
func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	sess, err := c.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, SessionResponse(sess, c.accessTTL))
}

// TestToken maneja POST /auth/login/test-token. Requiere RequireAuth.
func (c *AuthController) TestToken(w http.ResponseWriter, r *http.Request) {
	u := mw.CurrentUser(r.Context())
	if u == nil {
		httperrors.Write(w, r, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users.FromUser(u))
}

// PasswordRecovery maneja POST /auth/password-recovery/{email}
func (c *AuthController) PasswordRecovery(w http.ResponseWriter, r *http.Request) {
	if err := c.service.RequestPasswordReset(r.Context(), chi.URLParam(r, "email")); err != nil {
		WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Msg: "Password recovery email sent"})
}

// ResetPassword maneja POST /auth/reset-password
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := c.service.ResetPassword(r.Context(), req); err != nil {
		WriteError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.MessageResponse{Msg: "Password updated successfully"})
}

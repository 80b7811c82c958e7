package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
)

// registerAuthRoutes registra /auth/*. Todas las respuestas llevan
// Cache-Control: no-store; login, register, recovery y sso confirm
// pasan por el rate limiter.
func registerAuthRoutes(api chi.Router, deps Deps) {
	a := deps.Controllers.Auth.Auth
	s := deps.Controllers.Social.Social

	api.Route("/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		r.With(limited(deps, "register")).Post("/register", a.Register)
		r.With(limited(deps, "login")).Post("/login/access-token", a.Login)
		r.Post("/refresh", a.Refresh)
		r.With(authed(deps)).Post("/login/test-token", a.TestToken)
		r.With(limited(deps, "password-recovery")).Post("/password-recovery/{email}", a.PasswordRecovery)
		r.Post("/reset-password", a.ResetPassword)

		// Social login
		r.With(limited(deps, "sso-confirm")).Post("/sso/confirm", s.Confirm)
		r.Get("/{provider}/login", s.Login)
		r.Get("/{provider}/callback", s.Callback)
	})
}

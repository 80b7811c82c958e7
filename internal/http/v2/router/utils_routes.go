package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
)

// registerUtilsRoutes registra /utils/* (admin).
func registerUtilsRoutes(api chi.Router, deps Deps) {
	c := deps.Controllers.Utils.Utils

	api.Route("/utils", func(r chi.Router) {
		r.Use(authed(deps), mw.RequireAdmin())
		r.Post("/test-email", c.TestEmail)
	})
}

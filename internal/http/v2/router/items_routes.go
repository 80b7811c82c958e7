package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
)

// registerItemsRoutes registra /items/*. Todas requieren auth.
func registerItemsRoutes(api chi.Router, deps Deps) {
	c := deps.Controllers.Items.Items

	api.Route("/items", func(r chi.Router) {
		r.Use(authed(deps))

		r.Get("/", c.List)
		r.Post("/", c.Create)
		r.With(mw.RequireAdmin()).Post("/admin/{user_id}", c.CreateFor)

		r.Get("/{id}", c.Get)
		r.Put("/{id}", c.Update)
		r.Delete("/{id}", c.Delete)
		r.Post("/{id}/archive", c.Archive)
		r.Post("/{id}/unarchive", c.Unarchive)
	})
}

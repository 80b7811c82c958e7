package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
)

// registerUsersRoutes registra /users/*. El control fino (self vs admin)
// lo hace el service; RequireAdmin sólo en rutas exclusivas de admin.
func registerUsersRoutes(api chi.Router, deps Deps) {
	c := deps.Controllers.Users.Users

	api.Route("/users", func(r chi.Router) {
		r.With(limited(deps, "register")).Post("/open", c.Open)

		r.Group(func(r chi.Router) {
			r.Use(authed(deps))

			r.Get("/me", c.Me)
			r.Put("/me", c.UpdateMe)
			r.Post("/me/archive", c.ArchiveMe)

			r.With(mw.RequireAdmin()).Get("/", c.List)
			r.With(mw.RequireAdmin()).Post("/", c.Create)

			r.Get("/{id}", c.Get)
			r.With(mw.RequireAdmin()).Put("/{id}", c.Update)
			r.With(mw.RequireAdmin()).Post("/{id}/archive", c.Archive)
			r.With(mw.RequireAdmin()).Post("/{id}/unarchive", c.Unarchive)
			r.With(mw.RequireAdmin()).Delete("/{id}", c.Delete)
		})
	})
}

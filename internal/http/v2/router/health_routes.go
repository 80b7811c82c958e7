package router

import "github.com/go-chi/chi/v5"

// registerHealthRoutes registra /healthz, /readyz y /metrics.
// Públicos, fuera del prefijo de la API.
func registerHealthRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Health

	r.Get("/healthz", c.Health.Live)
	r.Get("/readyz", c.Health.Ready)

	if deps.Metrics != nil {
		r.Method("GET", "/metrics", deps.Metrics.Handler())
	}
}

// Package router arma el chi.Router de la API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/authkit/internal/http/v2/controllers"
	"github.com/dropDatabas3/authkit/internal/http/v2/errors"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	"github.com/dropDatabas3/authkit/internal/rate"
)

// DefaultAPIPrefix prefijo de las rutas de negocio.
const DefaultAPIPrefix = "/api/v1"

// Deps contiene todas las dependencias del router.
type Deps struct {
	Controllers *controllers.Controllers
	// Resolver valida el bearer token (el AuthService).
	Resolver mw.UserResolver

	// Opcionales
	Limiter     rate.Limiter // nil = sin rate limiting
	Metrics     *mw.Metrics  // nil = sin /metrics
	CORSOrigins []string
	APIPrefix   string
}

// New crea el handler raíz.
func New(deps Deps) http.Handler {
	if deps.APIPrefix == "" {
		deps.APIPrefix = DefaultAPIPrefix
	}

	r := chi.NewRouter()
	r.Use(mw.WithRecover(), mw.WithRequestID())
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}
	r.Use(mw.WithLogging(), mw.WithSecurityHeaders(), mw.WithCORS(deps.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errors.Write(w, req, errors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		errors.Write(w, req, errors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, deps)

	r.Route(deps.APIPrefix, func(api chi.Router) {
		registerAuthRoutes(api, deps)
		registerUsersRoutes(api, deps)
		registerItemsRoutes(api, deps)
		registerUtilsRoutes(api, deps)
	})
	return r
}

// authed exige bearer token válido.
func authed(deps Deps) func(http.Handler) http.Handler {
	return mw.RequireAuth(deps.Resolver)
}

// limited aplica el limiter con la clave IP + name.
func limited(deps Deps, name string) func(http.Handler) http.Handler {
	return mw.WithRateLimit(deps.Limiter, mw.RouteRateKey(name))
}

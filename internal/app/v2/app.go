// Package appv2 cablea services, controllers y router sobre dependencias
// ya construidas. La infraestructura (store, cache, SMTP, providers) la arma
// server.BuildV2Handler.
package appv2

import (
	"errors"
	"net/http"
	"time"

	"github.com/dropDatabas3/authkit/internal/cache"
	"github.com/dropDatabas3/authkit/internal/email"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/http/v2/router"
	"github.com/dropDatabas3/authkit/internal/http/v2/services"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/rate"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store"
)

// Config holds configuration for the V2 app.
type Config struct {
	APIPrefix         string
	CORSOrigins       []string
	WebAppURL         string
	OpenRegistration  bool
	SSOStateTTL       time.Duration
	AllowedReturnURLs []string
}

// Deps holds raw dependencies required to build the app.
type Deps struct {
	Store     store.Connection
	Cache     cache.Client
	Codec     *jwtx.Codec
	Hasher    *password.Hasher
	Policy    password.Policy
	Notifier  email.Notifier
	Providers *providers.Registry

	// Opcionales
	Limiter rate.Limiter
	Metrics *mw.Metrics
}

// App represents the wired V2 application.
type App struct {
	Handler  http.Handler
	Services *services.Services
}

// New creates and wires the V2 application.
func New(cfg Config, deps Deps) (*App, error) {
	if deps.Store == nil || deps.Codec == nil || deps.Hasher == nil || deps.Notifier == nil {
		return nil, errors.New("appv2: store, codec, hasher and notifier are required")
	}
	if deps.Providers == nil {
		deps.Providers = providers.NewRegistry()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemory("authkit")
	}

	// 1. Services
	svcs := services.New(services.Deps{
		Store:             deps.Store,
		Cache:             deps.Cache,
		Codec:             deps.Codec,
		Hasher:            deps.Hasher,
		Policy:            deps.Policy,
		Notifier:          deps.Notifier,
		Providers:         deps.Providers,
		WebAppURL:         cfg.WebAppURL,
		OpenRegistration:  cfg.OpenRegistration,
		SSOStateTTL:       cfg.SSOStateTTL,
		AllowedReturnURLs: cfg.AllowedReturnURLs,
	})

	// 2. Controllers
	ctrls := controllers.New(svcs, deps.Codec.TTL(jwtx.ContextAccess))

	// 3. Router
	handler := router.New(router.Deps{
		Controllers: ctrls,
		Resolver:    svcs.Auth.Auth,
		Limiter:     deps.Limiter,
		Metrics:     deps.Metrics,
		CORSOrigins: cfg.CORSOrigins,
		APIPrefix:   cfg.APIPrefix,
	})

	return &App{Handler: handler, Services: svcs}, nil
}

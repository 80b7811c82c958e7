// Package services agrupa todos los services HTTP V2.
// Este es el "composition root" de services: cada dominio expone
// Deps/Services/NewServices en su sub-paquete y acá se cablean.
package services

import (
	"context"
	"time"

	"github.com/dropDatabas3/authkit/internal/cache"
	"github.com/dropDatabas3/authkit/internal/email"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
	emailsvc "github.com/dropDatabas3/authkit/internal/http/v2/services/email"
	"github.com/dropDatabas3/authkit/internal/http/v2/services/health"
	"github.com/dropDatabas3/authkit/internal/http/v2/services/items"
	"github.com/dropDatabas3/authkit/internal/http/v2/services/social"
	"github.com/dropDatabas3/authkit/internal/http/v2/services/users"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store"
)

// Deps contiene las dependencias base para crear los services.
type Deps struct {
	// ─── Infraestructura ───
	Store     store.Connection
	Cache     cache.Client
	Codec     *jwtx.Codec
	Hasher    *password.Hasher
	Policy    password.Policy
	Notifier  email.Notifier
	Providers *providers.Registry

	// ─── Configuración ───
	WebAppURL         string
	OpenRegistration  bool
	SSOStateTTL       time.Duration
	AllowedReturnURLs []string
}

// Services agrupa todos los sub-services por dominio.
type Services struct {
	Auth   auth.Services
	Social social.Services
	Users  users.Services
	Items  items.Services
	Email  emailsvc.Services
	Health health.Services
}

// New crea el agregador de services con todas las dependencias.
func New(d Deps) *Services {
	usersRepo := d.Store.Users()

	var cacheCheck func(ctx context.Context) error
	if d.Cache != nil {
		cacheCheck = d.Cache.Ping
	}

	return &Services{
		Auth: auth.NewServices(auth.Deps{
			Users:     usersRepo,
			Codec:     d.Codec,
			Hasher:    d.Hasher,
			Policy:    d.Policy,
			Notifier:  d.Notifier,
			WebAppURL: d.WebAppURL,
		}),
		Social: social.NewServices(social.Deps{
			Users:             usersRepo,
			Codec:             d.Codec,
			Providers:         d.Providers,
			Cache:             d.Cache,
			StateTTL:          d.SSOStateTTL,
			AllowedReturnURLs: d.AllowedReturnURLs,
		}),
		Users: users.NewServices(users.Deps{
			Users:            usersRepo,
			Hasher:           d.Hasher,
			Policy:           d.Policy,
			Notifier:         d.Notifier,
			OpenRegistration: d.OpenRegistration,
			WebAppURL:        d.WebAppURL,
		}),
		Items: items.NewServices(items.Deps{
			Items: d.Store.Items(),
			Users: usersRepo,
		}),
		Email: emailsvc.NewServices(emailsvc.Deps{Notifier: d.Notifier}),
		Health: health.NewServices(health.Deps{
			Codec:      d.Codec,
			DBCheck:    d.Store.Ping,
			CacheCheck: cacheCheck,
		}),
	}
}

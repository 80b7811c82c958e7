// Package social contiene los services del dominio social login:
// inicio del flujo, callback del proveedor, reconciliación de identidades
// y canje del token de confirmación SSO.
package social

import (
	"time"

	"github.com/dropDatabas3/authkit/internal/cache"
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
)

// Deps contiene las dependencias para crear los services social.
type Deps struct {
	Users     repository.UserRepository
	Codec     *jwtx.Codec
	Providers *providers.Registry
	Cache     cache.Client  // state de login (un solo uso)
	StateTTL  time.Duration // default 10m
	// AllowedReturnURLs prefijos aceptados para return_url. Vacío = cualquiera.
	AllowedReturnURLs []string
}

// Services agrupa todos los services del dominio social.
type Services struct {
	Start        StartService
	Callback     CallbackService
	Provisioning ProvisioningService
	Confirm      ConfirmService
}

// NewServices crea el agregador de services social.
func NewServices(d Deps) Services {
	if d.StateTTL <= 0 {
		d.StateTTL = 10 * time.Minute
	}
	states := &stateStore{cache: d.Cache, ttl: d.StateTTL}

	provisioning := NewProvisioningService(ProvisioningDeps{
		Users: d.Users,
		Codec: d.Codec,
	})

	return Services{
		Start: NewStartService(StartDeps{
			Providers:         d.Providers,
			States:            states,
			AllowedReturnURLs: d.AllowedReturnURLs,
		}),
		Callback: NewCallbackService(CallbackDeps{
			Providers:    d.Providers,
			States:       states,
			Provisioning: provisioning,
		}),
		Provisioning: provisioning,
		Confirm: NewConfirmService(ConfirmDeps{
			Users: d.Users,
			Codec: d.Codec,
		}),
	}
}

// Package controllers compone los controllers HTTP de cada dominio.
package controllers

import (
	"time"

	"github.com/dropDatabas3/authkit/internal/http/v2/controllers/auth"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers/health"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers/items"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers/social"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers/users"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers/utils"
	"github.com/dropDatabas3/authkit/internal/http/v2/services"
)

// Controllers agrupa los controllers de todos los dominios.
type Controllers struct {
	Auth   *auth.Controllers
	Social *social.Controllers
	Users  *users.Controllers
	Items  *items.Controllers
	Utils  *utils.Controllers
	Health *health.Controllers
}

// New crea los controllers a partir del agregador de services.
// accessTTL se expone como expires_in.
func New(s *services.Services, accessTTL time.Duration) *Controllers {
	return &Controllers{
		Auth:   auth.NewControllers(s.Auth, accessTTL),
		Social: social.NewControllers(s.Social, accessTTL),
		Users:  users.NewControllers(s.Users),
		Items:  items.NewControllers(s.Items),
		Utils:  utils.NewControllers(s.Email),
		Health: health.NewControllers(s.Health),
	}
}

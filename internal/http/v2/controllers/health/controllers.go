// Package health contiene los controllers de liveness y readiness.
package health

import (
	"net/http"

	"github.com/dropDatabas3/authkit/internal/http/v2/helpers"
	svc "github.com/dropDatabas3/authkit/internal/http/v2/services/health"
)

// Controllers agrupa los controllers de health.
type Controllers struct {
	Health *HealthController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{Health: &HealthController{service: s.Health}}
}

type HealthController struct {
	service svc.HealthService
}

// Live maneja GET /healthz. No toca dependencias.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready maneja GET /readyz. 503 sólo si falla un componente crítico.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Check(r.Context())
	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}

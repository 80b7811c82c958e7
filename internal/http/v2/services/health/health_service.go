// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/health"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Codec      *jwtx.Codec
	DBCheck    func(ctx context.Context) error // store ping
	CacheCheck func(ctx context.Context) error
	// Timeout por componente. Default 2s.
	Timeout time.Duration
}

// Services agrupa los services de health.
type Services struct {
	Health HealthService
}

func NewServices(d Deps) Services {
	return Services{Health: NewHealthService(d)}
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

const componentHealth = "health"

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component(componentHealth),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
		Version:    os.Getenv("SERVICE_VERSION"),
		Commit:     os.Getenv("SERVICE_COMMIT"),
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Token codec (crítico)
	if s.deps.Codec != nil {
		if err := s.checkCodec(); err != nil {
			response.Components["token_codec"] = dto.HealthStatus{Status: "error", Message: err.Error()}
			hasCriticalErrors = true
			log.Error("token codec check failed", logger.Err(err))
		} else {
			response.Components["token_codec"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["token_codec"] = dto.HealthStatus{Status: "error", Message: "codec not initialized"}
		hasCriticalErrors = true
	}

	// 2) Store (crítico)
	if err := s.ping(ctx, s.deps.DBCheck); err != nil {
		response.Components["store"] = dto.HealthStatus{
			Status:  "error",
			Message: fmt.Sprintf("unavailable: %v", err),
		}
		hasCriticalErrors = true
		log.Error("store unavailable", logger.Err(err))
	} else {
		response.Components["store"] = dto.HealthStatus{Status: "ok"}
	}

	// 3) Cache (no crítico)
	if s.deps.CacheCheck != nil {
		if err := s.ping(ctx, s.deps.CacheCheck); err != nil {
			response.Components["cache"] = dto.HealthStatus{
				Status:  "error",
				Message: fmt.Sprintf("unavailable: %v", err),
			}
			hasErrors = true
			log.Warn("cache unavailable", logger.Err(err))
		} else {
			response.Components["cache"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["cache"] = dto.HealthStatus{Status: "disabled"}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}
	return response
}

func (s *healthService) ping(ctx context.Context, check func(ctx context.Context) error) error {
	if check == nil {
		return fmt.Errorf("not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
	defer cancel()
	return check(ctx)
}

// checkCodec firma y verifica un access token descartable.
func (s *healthService) checkCodec() error {
	raw, err := s.deps.Codec.Issue("selfcheck", jwtx.ContextAccess)
	if err != nil {
		return fmt.Errorf("sign failed: %w", err)
	}
	claims, err := s.deps.Codec.Verify(raw, jwtx.ContextAccess)
	if err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	if claims.UserID != "selfcheck" {
		return fmt.Errorf("verify failed: unexpected subject")
	}
	return nil
}

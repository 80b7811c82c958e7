package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	tokens "github.com/dropDatabas3/authkit/internal/security/token"
)

// StartService arma la redirección al proveedor.
type StartService interface {
	// BeginLogin retorna la URL de autorización del proveedor.
	BeginLogin(ctx context.Context, provider, returnURL string) (string, error)
}

// Errores de inicio/callback
var (
	ErrProviderUnknown     = errors.New("provider not enabled")
	ErrReturnURLRequired   = errors.New("return_url required")
	ErrReturnURLNotAllowed = errors.New("return_url not allowed")
	ErrInvalidState        = errors.New("invalid state")
)

// StartDeps contiene las dependencias del start service.
type StartDeps struct {
	Providers         *providers.Registry
	States            *stateStore
	AllowedReturnURLs []string
}

type startService struct {
	deps StartDeps
}

func NewStartService(d StartDeps) StartService {
	return &startService{deps: d}
}

func (s *startService) BeginLogin(ctx context.Context, provider, returnURL string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.start"),
		logger.Provider(provider),
	)

	p, ok := s.deps.Providers.Get(provider)
	if !ok {
		return "", ErrProviderUnknown
	}
	returnURL = strings.TrimSpace(returnURL)
	if returnURL == "" {
		return "", ErrReturnURLRequired
	}
	if !s.returnURLAllowed(returnURL) {
		log.Warn("return_url rejected", logger.String("return_url", returnURL))
		return "", ErrReturnURLNotAllowed
	}

	state, err := tokens.GenerateOpaqueToken(24)
	if err != nil {
		return "", fmt.Errorf("state: %w", err)
	}
	nonce, err := tokens.GenerateOpaqueToken(16)
	if err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	if err := s.deps.States.save(ctx, state, loginState{
		Provider:  provider,
		ReturnURL: returnURL,
		Nonce:     nonce,
	}); err != nil {
		return "", fmt.Errorf("save state: %w", err)
	}

	log.Debug("redirecting to provider")
	return p.AuthCodeURL(state, nonce), nil
}

// returnURLAllowed acepta URLs absolutas (incluye deep links de apps móviles)
// que empiecen con alguno de los prefijos configurados.
func (s *startService) returnURLAllowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return false
	}
	if len(s.deps.AllowedReturnURLs) == 0 {
		return true
	}
	for _, prefix := range s.deps.AllowedReturnURLs {
		if prefix != "" && strings.HasPrefix(raw, prefix) {
			return true
		}
	}
	return false
}

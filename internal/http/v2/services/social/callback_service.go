package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// CallbackService procesa el retorno del proveedor.
type CallbackService interface {
	// Callback valida el state, obtiene la identidad externa, la reconcilia
	// y retorna return_url con ?token=<sso confirmation token>.
	Callback(ctx context.Context, provider, state, code string) (string, error)
}

var ErrProviderMismatch = errors.New("provider mismatch")

// CallbackDeps contiene las dependencias del callback service.
type CallbackDeps struct {
	Providers    *providers.Registry
	States       *stateStore
	Provisioning ProvisioningService
}

type callbackService struct {
	deps CallbackDeps
}

func NewCallbackService(d CallbackDeps) CallbackService {
	return &callbackService{deps: d}
}

func (s *callbackService) Callback(ctx context.Context, provider, state, code string) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.callback"),
		logger.Provider(provider),
	)

	p, ok := s.deps.Providers.Get(provider)
	if !ok {
		return "", ErrProviderUnknown
	}
	st, err := s.deps.States.take(ctx, state)
	if err != nil {
		return "", err
	}
	if st.Provider != provider {
		return "", ErrProviderMismatch
	}

	id, err := p.Identity(ctx, code, st.Nonce)
	if err != nil {
		log.Warn("provider identity failed", logger.Err(err))
		return "", err
	}

	tok, err := s.deps.Provisioning.Reconcile(ctx, *id)
	if err != nil {
		return "", err
	}

	u, err := url.Parse(st.ReturnURL)
	if err != nil {
		return "", fmt.Errorf("return_url: %w", err)
	}
	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

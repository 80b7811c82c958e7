package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	tokens "github.com/dropDatabas3/authkit/internal/security/token"
)

// ProvisioningService reconcilia una identidad externa con una cuenta local.
type ProvisioningService interface {
	// Reconcile busca o crea la cuenta, regenera su código SSO y retorna el
	// token de confirmación que el cliente canjea en /sso/confirm.
	Reconcile(ctx context.Context, id providers.Identity) (string, error)
}

// Errores de reconciliación
var (
	ErrEmailConflict   = errors.New("an account with this email already exists under a different provider")
	ErrAccountArchived = errors.New("account archived")
	ErrInvalidIdentity = errors.New("invalid external identity")
)

// ProvisioningDeps contiene las dependencias del provisioning service.
type ProvisioningDeps struct {
	Users repository.UserRepository
	Codec *jwtx.Codec
}

type provisioningService struct {
	deps ProvisioningDeps
}

func NewProvisioningService(d ProvisioningDeps) ProvisioningService {
	return &provisioningService{deps: d}
}

func (s *provisioningService) Reconcile(ctx context.Context, id providers.Identity) (string, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.provisioning"),
		logger.Op("Reconcile"),
		logger.Provider(id.Provider),
	)

	provider := repository.AuthProvider(id.Provider)
	if !provider.Valid() || provider == repository.ProviderEmail || strings.TrimSpace(id.ProviderID) == "" {
		return "", ErrInvalidIdentity
	}
	email := repository.NormalizeEmail(id.Email)
	if email == "" {
		return "", providers.ErrEmailMissing
	}

	u, err := s.findOrCreate(ctx, provider, email, id)
	if err != nil {
		return "", err
	}
	log = log.With(logger.UserID(u.ID))

	// Cada intento regenera el código: tokens de confirmación previos quedan inválidos.
	code, err := tokens.SSOCode()
	if err != nil {
		return "", fmt.Errorf("sso code: %w", err)
	}
	if err := s.deps.Users.SetSSOCode(ctx, u.ID, code); err != nil {
		return "", fmt.Errorf("set sso code: %w", err)
	}

	tok, err := s.deps.Codec.IssueSSOConfirmation(u.ID, code)
	if err != nil {
		return "", fmt.Errorf("issue sso token: %w", err)
	}
	log.Info("sso identity reconciled")
	return tok, nil
}

func (s *provisioningService) findOrCreate(ctx context.Context, provider repository.AuthProvider, email string, id providers.Identity) (*repository.User, error) {
	u, err := s.lookupByProvider(ctx, provider, id.ProviderID)
	if err == nil {
		return u, nil
	}
	if !repository.IsNotFound(err) {
		return nil, err
	}

	// Nunca se fusionan cuentas: el email ya tomado por otra identidad es conflicto.
	if _, err := s.deps.Users.GetByEmail(ctx, email, repository.ReadOptions{}); err == nil {
		return nil, ErrEmailConflict
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	u = &repository.User{
		Email:         email,
		Role:          repository.RoleCustomer,
		Language:      repository.LanguageEN,
		Confirmed:     id.EmailVerified,
		Provider:      provider,
		SSOProviderID: id.ProviderID,
		FirstName:     strings.TrimSpace(id.FirstName),
		LastName:      strings.TrimSpace(id.LastName),
	}
	if err := s.deps.Users.Create(ctx, u); err != nil {
		if !repository.IsConflict(err) {
			return nil, fmt.Errorf("create user: %w", err)
		}
		// Otro callback concurrente creó la misma identidad.
		if u, err := s.lookupByProvider(ctx, provider, id.ProviderID); err == nil {
			return u, nil
		}
		return nil, ErrEmailConflict
	}
	return u, nil
}

// lookupByProvider incluye archivados: una identidad archivada no se recrea.
func (s *provisioningService) lookupByProvider(ctx context.Context, provider repository.AuthProvider, externalID string) (*repository.User, error) {
	u, err := s.deps.Users.GetByProvider(ctx, provider, externalID, repository.ReadOptions{WithArchived: true})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("lookup provider: %w", err)
	}
	if u.IsArchived() {
		return nil, ErrAccountArchived
	}
	return u, nil
}

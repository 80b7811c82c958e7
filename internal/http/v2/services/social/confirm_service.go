package social

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/authkit/internal/audit"
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	authsvc "github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// ConfirmService canjea el token de confirmación SSO por una sesión.
type ConfirmService interface {
	Confirm(ctx context.Context, token string) (*authsvc.Session, error)
}

var (
	ErrMissingToken    = errors.New("missing token")
	ErrSSOCodeMismatch = errors.New("sso confirmation code mismatch")
	ErrNotFound        = errors.New("user not found")
)

// ConfirmDeps contiene las dependencias del confirm service.
type ConfirmDeps struct {
	Users repository.UserRepository
	Codec *jwtx.Codec
}

type confirmService struct {
	deps ConfirmDeps
}

func NewConfirmService(d ConfirmDeps) ConfirmService {
	return &confirmService{deps: d}
}

func (s *confirmService) Confirm(ctx context.Context, token string) (*authsvc.Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("social.confirm"),
		logger.Op("Confirm"),
	)

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.deps.Codec.Verify(token, jwtx.ContextSSOConfirmation)
	if err != nil {
		log.Debug("sso token rejected", logger.Err(err))
		return nil, err
	}

	u, err := s.deps.Users.GetByID(ctx, claims.UserID, repository.ReadOptions{})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	log = log.With(logger.UserID(u.ID))

	code := claims.SSOConfirmationCode
	if code == "" || subtle.ConstantTimeCompare([]byte(code), []byte(u.SSOConfirmationCode)) != 1 {
		log.Info("stale sso confirmation token")
		return nil, ErrSSOCodeMismatch
	}
	// Compare-and-clear: el código sirve una sola vez aunque lleguen dos canjes a la vez.
	ok, err := s.deps.Users.ConsumeSSOCode(ctx, u.ID, code)
	if err != nil {
		return nil, fmt.Errorf("consume sso code: %w", err)
	}
	if !ok {
		return nil, ErrSSOCodeMismatch
	}
	u.SSOConfirmationCode = ""
	audit.Log(ctx, audit.EventSSOConfirmed, logger.UserID(u.ID), logger.Provider(string(u.Provider)))

	return authsvc.IssueSession(s.deps.Codec, u)
}

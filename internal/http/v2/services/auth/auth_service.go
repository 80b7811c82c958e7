package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dropDatabas3/authkit/internal/audit"
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/validation"
)

// AuthService orquesta los flujos de credenciales.
type AuthService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*Session, error)
	Login(ctx context.Context, in dto.LoginRequest) (*Session, error)
	// Refresh rota ambos tokens.
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	// CurrentUser resuelve el usuario de un access token.
	CurrentUser(ctx context.Context, accessToken string) (*repository.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error
}

// Errores de auth
var (
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrPasswordPolicy     = errors.New("password policy violation")
	// Las cuentas SSO no tienen credencial local.
	ErrPasswordNotAllowed = errors.New("password not allowed for sso accounts")
)

// Session es el resultado de un login exitoso: par de tokens + usuario.
type Session struct {
	Tokens jwtx.TokenPair
	User   *repository.User
}

// IssueSession emite el par access/refresh para u.
func IssueSession(codec *jwtx.Codec, u *repository.User) (*Session, error) {
	pair, err := codec.IssuePair(u.ID)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &Session{Tokens: pair, User: u}, nil
}

type authService struct {
	deps Deps
}

// NewAuthService crea el service con Deps ya validadas por el wiring.
func NewAuthService(d Deps) AuthService {
	return &authService{deps: d}
}

// PolicyError envuelve ErrPasswordPolicy con los motivos de rechazo.
func PolicyError(reasons []string) error {
	return fmt.Errorf("%w: %s", ErrPasswordPolicy, strings.Join(reasons, ", "))
}

func (s *authService) checkPassword(pw string) error {
	if ok, reasons := s.deps.Policy.Validate(pw); !ok {
		return PolicyError(reasons)
	}
	return nil
}

func (s *authService) Register(ctx context.Context, in dto.RegisterRequest) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Register"),
	)

	email := repository.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := s.checkPassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.deps.Users.GetByEmail(ctx, email, repository.ReadOptions{}); err == nil {
		log.Debug("email already registered", logger.Email(email))
		return nil, ErrDuplicateEmail
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.deps.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	lang := repository.Language(strings.ToLower(strings.TrimSpace(in.Language)))
	if !lang.Valid() {
		lang = repository.LanguageEN
	}

	u := &repository.User{
		Email:        email,
		PasswordHash: hash,
		Role:         repository.RoleCustomer,
		Language:     lang,
		Provider:     repository.ProviderEmail,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
	}
	if err := s.deps.Users.Create(ctx, u); err != nil {
		// Carrera con otro alta del mismo email: decide el índice único.
		if repository.IsConflict(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered", logger.UserID(u.ID))
	audit.Log(ctx, audit.EventRegistered, logger.UserID(u.ID))
	return IssueSession(s.deps.Codec, u)
}

func (s *authService) Login(ctx context.Context, in dto.LoginRequest) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	email := repository.NormalizeEmail(in.Username)
	if email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.deps.Users.GetByEmail(ctx, email, repository.ReadOptions{})
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("lookup email: %w", err)
		}
		log.Debug("user not found")
		audit.Log(ctx, audit.EventLoginFailed, logger.Email(email))
		return nil, ErrInvalidCredentials
	}

	log = log.With(logger.UserID(u.ID))

	// Usuarios SSO sin password y hashes corruptos caen acá: Verify retorna false.
	if !s.deps.Hasher.Verify(in.Password, u.PasswordHash) {
		log.Debug("password check failed")
		audit.Log(ctx, audit.EventLoginFailed, logger.UserID(u.ID))
		return nil, ErrInvalidCredentials
	}

	log.Info("login ok")
	audit.Log(ctx, audit.EventLoginSucceeded, logger.UserID(u.ID))
	return IssueSession(s.deps.Codec, u)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Refresh"),
	)

	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, ErrMissingFields
	}
	claims, err := s.deps.Codec.Verify(refreshToken, jwtx.ContextRefresh)
	if err != nil {
		log.Debug("refresh token rejected", logger.Err(err))
		return nil, err
	}

	u, err := s.lookupUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return IssueSession(s.deps.Codec, u)
}

func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*repository.User, error) {
	claims, err := s.deps.Codec.Verify(strings.TrimSpace(accessToken), jwtx.ContextAccess)
	if err != nil {
		return nil, err
	}
	return s.lookupUser(ctx, claims.UserID)
}

func (s *authService) lookupUser(ctx context.Context, id string) (*repository.User, error) {
	u, err := s.deps.Users.GetByID(ctx, id, repository.ReadOptions{})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

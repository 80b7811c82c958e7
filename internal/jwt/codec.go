// Package jwt emite y valida los tokens HS256 de la API.
//
// Cada token lleva un "context" firmado (access_token, refresh_token,
// sso_confirmation_token) y sólo se acepta en el flujo que espera ese context.
// Los tokens de reset de contraseña usan un esquema aparte (ver reset.go).
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	tokens "github.com/dropDatabas3/authkit/internal/security/token"
)

// Context indica en qué flujo es válido un token.
type Context string

const (
	ContextAccess          Context = "access_token"
	ContextRefresh         Context = "refresh_token"
	ContextSSOConfirmation Context = "sso_confirmation_token"
)

// Lifetimes por defecto.
const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 8 * 24 * time.Hour
	DefaultSSOTTL     = 30 * time.Second
	DefaultResetTTL   = 48 * time.Hour
)

var (
	ErrTokenSignatureInvalid = errors.New("jwt: invalid signature")
	ErrTokenExpired          = errors.New("jwt: token expired")
	ErrTokenContextMismatch  = errors.New("jwt: context mismatch")
	ErrMissingSecret         = errors.New("jwt: missing secret")
)

// Config es inmutable: se arma una vez en el wiring de la app.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	SSOTTL     time.Duration
	ResetTTL   time.Duration
	// Now permite fijar el reloj en tests. nil = time.Now.
	Now func() time.Time
}

// Claims del token de API. iat/exp se serializan como epoch (NumericDate).
type Claims struct {
	UserID              string  `json:"user_id"`
	Context             Context `json:"context"`
	SSOConfirmationCode string  `json:"sso_confirmation_code,omitempty"`
	RandomValue         string  `json:"random_value"`
	jwtv5.RegisteredClaims
}

// TokenPair es la respuesta de register/login/refresh/sso confirm.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Codec struct {
	cfg Config
}

func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	if cfg.SSOTTL <= 0 {
		cfg.SSOTTL = DefaultSSOTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = DefaultResetTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.Secret = append([]byte(nil), cfg.Secret...)
	return &Codec{cfg: cfg}, nil
}

// TTL retorna el lifetime configurado para un context.
func (c *Codec) TTL(tc Context) time.Duration {
	switch tc {
	case ContextAccess:
		return c.cfg.AccessTTL
	case ContextRefresh:
		return c.cfg.RefreshTTL
	case ContextSSOConfirmation:
		return c.cfg.SSOTTL
	}
	return 0
}

type issueOptions struct {
	expiresIn *time.Duration
	ssoCode   string
}

type IssueOption func(*issueOptions)

// WithExpiry fija exp = iat + d. d puede ser negativo (tokens ya vencidos en tests).
func WithExpiry(d time.Duration) IssueOption {
	return func(o *issueOptions) { o.expiresIn = &d }
}

// WithSSOCode embebe el código de confirmación SSO.
func WithSSOCode(code string) IssueOption {
	return func(o *issueOptions) { o.ssoCode = code }
}

// Issue firma un token para userID en el context dado. Sin WithExpiry el token no expira.
func (c *Codec) Issue(userID string, tc Context, opts ...IssueOption) (string, error) {
	var o issueOptions
	for _, opt := range opts {
		opt(&o)
	}
	nonce, err := tokens.Nonce()
	if err != nil {
		return "", fmt.Errorf("jwt: nonce: %w", err)
	}

	now := c.cfg.Now()
	claims := Claims{
		UserID:              userID,
		Context:             tc,
		SSOConfirmationCode: o.ssoCode,
		RandomValue:         nonce,
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt: jwtv5.NewNumericDate(now),
		},
	}
	if o.expiresIn != nil {
		claims.ExpiresAt = jwtv5.NewNumericDate(now.Add(*o.expiresIn))
	}

	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(c.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, nil
}

// IssuePair emite access + refresh con sus lifetimes configurados.
func (c *Codec) IssuePair(userID string) (TokenPair, error) {
	access, err := c.Issue(userID, ContextAccess, WithExpiry(c.cfg.AccessTTL))
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.Issue(userID, ContextRefresh, WithExpiry(c.cfg.RefreshTTL))
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// IssueSSOConfirmation emite el token corto que el cliente canjea en /sso/confirm.
func (c *Codec) IssueSSOConfirmation(userID, code string) (string, error) {
	return c.Issue(userID, ContextSSOConfirmation, WithExpiry(c.cfg.SSOTTL), WithSSOCode(code))
}

// Verify valida firma, expiración y context, en ese orden.
func (c *Codec) Verify(raw string, expected Context) (*Claims, error) {
	claims := &Claims{}
	if err := c.parse(raw, claims); err != nil {
		return nil, err
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(c.cfg.Now()) {
		return nil, ErrTokenExpired
	}
	if claims.Context != expected {
		return nil, fmt.Errorf("%w: got %q want %q", ErrTokenContextMismatch, claims.Context, expected)
	}
	return claims, nil
}

// parse verifica sólo la firma; la validación temporal se hace con el reloj del codec.
func (c *Codec) parse(raw string, claims jwtv5.Claims) error {
	_, err := jwtv5.ParseWithClaims(raw, claims,
		func(*jwtv5.Token) (any, error) { return c.cfg.Secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithoutClaimsValidation(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTokenSignatureInvalid, err)
	}
	return nil
}

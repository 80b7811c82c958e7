package jwt

import (
	"errors"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var ErrResetTokenInvalid = errors.New("jwt: invalid password reset token")

// resetClaims: sub=email, exp, nbf. Sin context ni user_id.
type resetClaims struct {
	jwtv5.RegisteredClaims
}

// IssueReset emite el token de recuperación de contraseña para email.
func (c *Codec) IssueReset(email string) (string, error) {
	now := c.cfg.Now()
	claims := resetClaims{jwtv5.RegisteredClaims{
		Subject:   email,
		NotBefore: jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(c.cfg.ResetTTL)),
	}}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(c.cfg.Secret)
}

// VerifyReset retorna el email del token. Cualquier falla es ErrResetTokenInvalid.
func (c *Codec) VerifyReset(raw string) (string, error) {
	claims := &resetClaims{}
	if err := c.parse(raw, claims); err != nil {
		return "", ErrResetTokenInvalid
	}
	now := c.cfg.Now()
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return "", ErrResetTokenInvalid
	}
	if claims.NotBefore != nil && claims.NotBefore.Time.After(now) {
		return "", ErrResetTokenInvalid
	}
	email := strings.TrimSpace(claims.Subject)
	if email == "" {
		return "", ErrResetTokenInvalid
	}
	return email, nil
}

// ResetTTL se usa para el "valid_hours" del email.
func (c *Codec) ResetTTL() time.Duration { return c.cfg.ResetTTL }

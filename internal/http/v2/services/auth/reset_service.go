package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dropDatabas3/authkit/internal/audit"
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
)

// RequestPasswordReset emite el token de reset y lo envía por email.
// Un email desconocido es ErrNotFound; el envío nunca falla el request.
func (s *authService) RequestPasswordReset(ctx context.Context, addr string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("RequestPasswordReset"),
	)

	addr = repository.NormalizeEmail(addr)
	if addr == "" {
		return ErrMissingFields
	}
	u, err := s.deps.Users.GetByEmail(ctx, addr, repository.ReadOptions{})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if u.Provider != repository.ProviderEmail {
		log.Debug("password reset for sso account", logger.UserID(u.ID), logger.Provider(string(u.Provider)))
		return ErrPasswordNotAllowed
	}

	tok, err := s.deps.Codec.IssueReset(u.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	s.deps.Notifier.Send(ctx, email.TemplateResetPassword, u.Email, map[string]any{
		"link":        s.resetLink(tok),
		"valid_hours": int(s.deps.Codec.ResetTTL().Hours()),
	})
	log.Info("password reset requested", logger.UserID(u.ID))
	audit.Log(ctx, audit.EventResetRequested, logger.UserID(u.ID))
	return nil
}

// ResetPassword valida el token y reemplaza la credencial.
func (s *authService) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("ResetPassword"),
	)

	raw := strings.TrimSpace(in.Token)
	if raw == "" || in.NewPassword == "" {
		return ErrMissingFields
	}
	addr, err := s.deps.Codec.VerifyReset(raw)
	if err != nil {
		return err
	}
	if err := s.checkPassword(in.NewPassword); err != nil {
		return err
	}

	u, err := s.deps.Users.GetByEmail(ctx, addr, repository.ReadOptions{})
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if u.Provider != repository.ProviderEmail {
		log.Debug("password reset for sso account", logger.UserID(u.ID), logger.Provider(string(u.Provider)))
		return ErrPasswordNotAllowed
	}

	hash, err := s.deps.Hasher.Hash(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	if err := s.deps.Users.Update(ctx, u); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	log.Info("password reset", logger.UserID(u.ID))
	audit.Log(ctx, audit.EventPasswordReset, logger.UserID(u.ID))
	return nil
}

func (s *authService) resetLink(tok string) string {
	return strings.TrimRight(s.deps.WebAppURL, "/") + "/reset-password?token=" + url.QueryEscape(tok)
}

package email

import (
	"context"
	"errors"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	"github.com/dropDatabas3/authkit/internal/observability/logger"
	"github.com/dropDatabas3/authkit/internal/security/authz"
	"github.com/dropDatabas3/authkit/internal/validation"
)

// TestEmailService envía el template test_email para verificar SMTP.
type TestEmailService interface {
	Send(ctx context.Context, actor *repository.User, to string) error
}

var ErrInvalidRecipient = errors.New("invalid recipient")

type testEmailService struct {
	deps Deps
}

func NewTestEmailService(d Deps) TestEmailService {
	return &testEmailService{deps: d}
}

func (s *testEmailService) Send(ctx context.Context, actor *repository.User, to string) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	to = repository.NormalizeEmail(to)
	if !validation.ValidEmail(to) {
		return ErrInvalidRecipient
	}
	s.deps.Notifier.Send(ctx, email.TemplateTestEmail, to, nil)
	logger.From(ctx).Info("test email queued",
		logger.Layer("service"), logger.Op("email.Test"), logger.UserID(actor.ID), logger.Email(to))
	return nil
}

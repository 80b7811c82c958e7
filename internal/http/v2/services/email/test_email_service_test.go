package email

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	"github.com/dropDatabas3/authkit/internal/security/authz"
)

type captureNotifier struct {
	template, to string
	calls        int
}

func (n *captureNotifier) Send(_ context.Context, template, to string, _ map[string]any) {
	n.template, n.to = template, to
	n.calls++
}

func TestTestEmail_Send(t *testing.T) {
	n := &captureNotifier{}
	svc := NewServices(Deps{Notifier: n}).Test
	ctx := context.Background()

	admin := &repository.User{ID: "a1", Role: repository.RoleAdmin}
	customer := &repository.User{ID: "c1", Role: repository.RoleCustomer}

	require.NoError(t, svc.Send(ctx, admin, " Ops@Example.com "))
	assert.Equal(t, email.TemplateTestEmail, n.template)
	assert.Equal(t, "ops@example.com", n.to)

	assert.ErrorIs(t, svc.Send(ctx, customer, "ops@example.com"), authz.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Send(ctx, admin, "not-an-email"), ErrInvalidRecipient)
	assert.Equal(t, 1, n.calls)
}

package bootstrap

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store/adapters/memory"
)

func baseConfig() AdminBootstrapConfig {
	return AdminBootstrapConfig{
		Users:  memory.New().Users(),
		Hasher: password.NewHasher(password.Params{N: 1024, R: 8, P: 1, KeyLen: 32, SaltLen: 16}),
		Policy: password.DefaultPolicy,
	}
}

func TestEnsureFirstSuperuser(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.AdminEmail = " Root@Example.com "
	cfg.AdminPassword = "super-secret"

	u, created, err := EnsureFirstSuperuser(ctx, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "root@example.com", u.Email)
	assert.Equal(t, repository.RoleAdmin, u.Role)
	assert.True(t, cfg.Hasher.Verify("super-secret", u.PasswordHash))

	again, created, err := EnsureFirstSuperuser(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
}

func TestEnsureFirstSuperuser_Archived(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.AdminEmail, cfg.AdminPassword = "root@example.com", "super-secret"

	u, _, err := EnsureFirstSuperuser(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, cfg.Users.Archive(ctx, u.ID, u.CreatedAt))

	_, created, err := EnsureFirstSuperuser(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, created, "un archivado conserva el email")
}

func TestEnsureFirstSuperuser_Invalid(t *testing.T) {
	ctx := context.Background()

	_, _, err := EnsureFirstSuperuser(ctx, baseConfig())
	assert.ErrorIs(t, err, ErrMissingCredentials)

	cfg := baseConfig()
	cfg.AdminEmail, cfg.AdminPassword = "root@example.com", "short"
	_, _, err = EnsureFirstSuperuser(ctx, cfg)
	assert.ErrorContains(t, err, "too_short")
}

func TestEnsureFirstSuperuser_Prompt(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func() ([]byte, error) { return []byte("prompted-secret"), nil }

	cfg := baseConfig()
	cfg.Prompt = true
	cfg.In = strings.NewReader("admin@example.com\n")
	out := &bytes.Buffer{}
	cfg.Out = out

	u, created, err := EnsureFirstSuperuser(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Contains(t, out.String(), "Confirm Password")
}

package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	base := []string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--env-file="}
	root.SetArgs(append(args[:1:1], append(base, args[1:]...)...))
	err := root.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "seed", "smtp-diag"})
}

func TestSeedCommand(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("TAG", "dev")
	t.Setenv("FIRST_SUPERUSER", "Root@Example.com")
	t.Setenv("FIRST_SUPERUSER_PASSWORD", "changethis-admin")

	out, err := run(t, "seed", "--migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "superuser created: root@example.com")
}

func TestSeedCommandMissingCredentials(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("TAG", "dev")
	t.Setenv("FIRST_SUPERUSER", "")
	t.Setenv("FIRST_SUPERUSER_PASSWORD", "")

	_, err := run(t, "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestMigrateCommandMemory(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("TAG", "dev")

	_, err := run(t, "migrate")
	assert.NoError(t, err)
}

func TestSMTPDiagNotConfigured(t *testing.T) {
	t.Setenv("TAG", "dev")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("EMAILS_FROM_EMAIL", "")

	_, err := run(t, "smtp-diag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp not configured")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", c.App.APIPrefix)
	assert.Equal(t, 24*time.Hour, c.JWT.AccessTTL)
	assert.Equal(t, 192*time.Hour, c.JWT.RefreshTTL)
	assert.Equal(t, 30*time.Second, c.JWT.SSOTTL)
	assert.Equal(t, 48*time.Hour, c.JWT.ResetTTL)
	assert.NotEmpty(t, c.JWT.Secret, "dev genera un secreto efímero")
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	p := writeYAML(t, `
app:
  tag: staging
  name: shop
jwt:
  secret: from-yaml
  access_ttl: 1h
database:
  driver: postgres
  dsn: postgres://localhost/app
providers:
  google:
    client_id: gid
`)
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("ACCESS_TOKEN_EXPIRES_SECONDS", "120")
	t.Setenv("GOOGLE_CLIENT_SECRET", "gsecret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "shop", c.App.Name)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 2*time.Minute, c.JWT.AccessTTL)
	assert.True(t, c.Providers.Google.Enabled())
	assert.False(t, c.Providers.Github.Enabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.CORSOrigins)
	assert.Equal(t, "http://localhost:8080/api/v1/auth/google/callback", c.ProviderRedirectURL("google"))
}

func TestLoad_SecretRequiredOutsideDev(t *testing.T) {
	p := writeYAML(t, "app:\n  tag: prod\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestValidate(t *testing.T) {
	c := Default()
	c.JWT.Secret = "s"
	require.NoError(t, c.Validate())

	bad := c
	bad.App.Tag = "qa"
	assert.Error(t, bad.Validate())

	bad = c
	bad.Auth.FirstSuperuser = "admin@x.com"
	assert.Error(t, bad.Validate())

	bad = c
	bad.Database.Driver = "postgres"
	assert.Error(t, bad.Validate())

	bad = c
	bad.Cache.Driver = "memcached"
	assert.Error(t, bad.Validate())
}

func TestLoad_ResetHoursEnv(t *testing.T) {
	t.Setenv("EMAIL_RESET_TOKEN_EXPIRE_HOURS", "24")
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, c.JWT.ResetTTL)
}

func TestLoad_InvalidYAML(t *testing.T) {
	p := writeYAML(t, "app: [unclosed")
	_, err := Load(p)
	assert.Error(t, err)
}

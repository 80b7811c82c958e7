package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.JWT.Secret = "wiring-test-secret"
	return cfg
}

func TestBuildV2Handler_Memory(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.Google = config.ProviderConfig{ClientID: "id", ClientSecret: "secret"}

	b, err := BuildV2Handler(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, b.Close()) })

	w := httptest.NewRecorder()
	b.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	b.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	b.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/auth/google/login?return_url=https://app.example.com/cb", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "accounts.google.com")
}

func TestBuildV2Handler_BadDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "nope"
	_, err := BuildV2Handler(context.Background(), cfg)
	assert.Error(t, err)
}

func TestBuildPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blacklist.txt")
	require.NoError(t, os.WriteFile(path, []byte("Password123\n# comentario\nqwertyuiop\n"), 0o600))

	p, err := BuildPolicy(config.AuthConfig{PasswordMinLength: 10, PasswordBlacklistPath: path})
	require.NoError(t, err)
	assert.Equal(t, 10, p.MinLength)
	ok, reasons := p.Validate("qwertyuiop")
	assert.False(t, ok)
	assert.Contains(t, reasons, "blacklisted")

	_, err = BuildPolicy(config.AuthConfig{PasswordBlacklistPath: filepath.Join(dir, "missing.txt")})
	assert.Error(t, err)
}

func TestBuildProviders(t *testing.T) {
	cfg := testConfig()
	cfg.Providers.Github = config.ProviderConfig{ClientID: "id", ClientSecret: "secret"}

	reg, err := BuildProviders(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"github"}, reg.Enabled())

	p, ok := reg.Get("github")
	require.True(t, ok)
	assert.Contains(t, p.AuthCodeURL("st", "n"), "redirect_uri="+"http%3A%2F%2Flocalhost%3A8080%2Fapi%2Fv1%2Fauth%2Fgithub%2Fcallback")
}

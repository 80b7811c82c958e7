package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/cache"
	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/http/v2/controllers"
	mw "github.com/dropDatabas3/authkit/internal/http/v2/middlewares"
	"github.com/dropDatabas3/authkit/internal/http/v2/providers"
	"github.com/dropDatabas3/authkit/internal/http/v2/services"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/rate"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store/adapters/memory"
)

var testParams = password.Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}

type nopNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *nopNotifier) Send(_ context.Context, template, to string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, template+":"+to)
}

type fakeIdP struct{}

func (fakeIdP) Name() string { return "google" }

func (fakeIdP) AuthCodeURL(state, nonce string) string {
	return "https://idp.test/authorize?" + url.Values{"state": {state}, "nonce": {nonce}}.Encode()
}

func (fakeIdP) Identity(_ context.Context, code, _ string) (*providers.Identity, error) {
	if code != "ok" {
		return nil, providers.ErrExchangeFailed
	}
	return &providers.Identity{
		Provider: "google", ProviderID: "g-1", Email: "sso@example.com", EmailVerified: true,
	}, nil
}

type env struct {
	handler  http.Handler
	conn     *memory.Conn
	hasher   *password.Hasher
	notifier *nopNotifier
}

func newEnv(t *testing.T, limiter rate.Limiter) *env {
	t.Helper()

	codec, err := jwtx.NewCodec(jwtx.Config{Secret: []byte("router-test-secret")})
	require.NoError(t, err)

	reg := providers.NewRegistry()
	reg.RegisterFactory("google", func(providers.Config) (providers.Provider, error) { return fakeIdP{}, nil })
	require.NoError(t, reg.Enable("google", providers.Config{}))

	metrics, err := mw.NewMetrics(nil)
	require.NoError(t, err)

	e := &env{conn: memory.New(), hasher: password.NewHasher(testParams), notifier: &nopNotifier{}}
	svcs := services.New(services.Deps{
		Store:            e.conn,
		Cache:            cache.NewMemory("test"),
		Codec:            codec,
		Hasher:           e.hasher,
		Policy:           password.DefaultPolicy,
		Notifier:         e.notifier,
		Providers:        reg,
		WebAppURL:        "https://app.example.com",
		OpenRegistration: true,
	})

	e.handler = New(Deps{
		Controllers: controllers.New(svcs, codec.TTL(jwtx.ContextAccess)),
		Resolver:    svcs.Auth.Auth,
		Limiter:     limiter,
		Metrics:     metrics,
		CORSOrigins: []string{"https://app.example.com"},
	})
	return e
}

func (e *env) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, strings.NewReader(string(b)))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	return w
}

func (e *env) seedAdmin(t *testing.T) string {
	t.Helper()
	hash, err := e.hasher.Hash("admin-password")
	require.NoError(t, err)
	require.NoError(t, e.conn.Users().Create(context.Background(), &repository.User{
		Email: "admin@example.com", PasswordHash: hash, Role: repository.RoleAdmin,
		Language: repository.LanguageEN, Provider: repository.ProviderEmail, Confirmed: true,
	}))
	return e.login(t, "admin@example.com", "admin-password")
}

func (e *env) login(t *testing.T, user, pw string) string {
	t.Helper()
	form := url.Values{"username": {user}, "password": {pw}}
	r := httptest.NewRequest("POST", "/api/v1/auth/login/access-token", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["access_token"].(string)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())
	return m
}

func TestAuthFlow(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "Ada@Example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	body := decode(t, w)
	assert.Equal(t, "bearer", body["token_type"])
	assert.NotEmpty(t, body["refresh_token"])
	assert.EqualValues(t, jwtx.DefaultAccessTTL.Seconds(), body["expires_in"])
	assert.Equal(t, "ada@example.com", body["user"].(map[string]any)["email"])

	access := e.login(t, "ada@example.com", "correct-horse")

	w = e.do(t, "POST", "/api/v1/auth/login/test-token", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decode(t, w)["email"])

	w = e.do(t, "POST", "/api/v1/auth/refresh", "", map[string]string{"refresh_token": body["refresh_token"].(string)})
	require.Equal(t, http.StatusOK, w.Code)

	// El access token no sirve como refresh.
	w = e.do(t, "POST", "/api/v1/auth/refresh", "", map[string]string{"refresh_token": access})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "ada@example.com", "password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = e.do(t, "POST", "/api/v1/auth/login/access-token", "", map[string]string{
		"username": "ada@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, "POST", "/api/v1/auth/password-recovery/ada@example.com", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, "POST", "/api/v1/auth/password-recovery/nobody@example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSSOFlow(t *testing.T) {
	e := newEnv(t, nil)

	w := e.do(t, "GET", "/api/v1/auth/google/login?return_url="+url.QueryEscape("myapp://callback"), "", nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	w = e.do(t, "GET", "/api/v1/auth/google/callback?code=ok&state="+state, "", nil)
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	back, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "myapp", back.Scheme)
	token := back.Query().Get("token")
	require.NotEmpty(t, token)

	// El state es de un solo uso.
	w = e.do(t, "GET", "/api/v1/auth/google/callback?code=ok&state="+state, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, "POST", "/api/v1/auth/sso/confirm", "", map[string]string{"token": token})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "google", decode(t, w)["user"].(map[string]any)["provider"])

	w = e.do(t, "POST", "/api/v1/auth/sso/confirm", "", map[string]string{"token": token})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, "POST", "/api/v1/auth/password-recovery/sso@example.com", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PASSWORD_NOT_ALLOWED", decode(t, w)["code"])

	w = e.do(t, "GET", "/api/v1/auth/github/login?return_url=https://app.example.com", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersAndItems(t *testing.T) {
	e := newEnv(t, nil)
	admin := e.seedAdmin(t)

	w := e.do(t, "GET", "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, "POST", "/api/v1/users/", admin, map[string]string{
		"email": "bob@example.com", "password": "bob-password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobID := decode(t, w)["id"].(string)
	assert.Contains(t, e.notifier.sent, "new_account:bob@example.com")

	bob := e.login(t, "bob@example.com", "bob-password")

	w = e.do(t, "GET", "/api/v1/users/", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, "PUT", "/api/v1/users/me", bob, map[string]string{"first_name": "Bob"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Bob", decode(t, w)["first_name"])

	w = e.do(t, "POST", "/api/v1/items/", bob, map[string]string{"name": "notebook"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	itemID := decode(t, w)["id"].(string)

	w = e.do(t, "POST", "/api/v1/items/admin/"+bobID, admin, map[string]string{"name": "gift"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	giftID := decode(t, w)["id"].(string)

	w = e.do(t, "GET", "/api/v1/items/", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["count"])

	w = e.do(t, "POST", "/api/v1/items/"+itemID+"/archive", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "archived", decode(t, w)["lifecycle_state"])

	w = e.do(t, "DELETE", "/api/v1/items/"+giftID, bob, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, "POST", "/api/v1/users/"+bobID+"/archive", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Archivado: el token sigue firmado pero el usuario ya no resuelve.
	w = e.do(t, "GET", "/api/v1/users/me", bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, "POST", "/api/v1/utils/test-email?email_to=ops@example.com", admin, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRateLimitOnLogin(t *testing.T) {
	e := newEnv(t, rate.NewMemoryLimiter(2, time.Minute))
	body := map[string]string{"username": "x@example.com", "password": "nope"}

	assert.Equal(t, http.StatusUnauthorized, e.do(t, "POST", "/api/v1/auth/login/access-token", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, "POST", "/api/v1/auth/login/access-token", "", body).Code)
	w := e.do(t, "POST", "/api/v1/auth/login/access-token", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Refresh no está limitado.
	assert.NotEqual(t, http.StatusTooManyRequests,
		e.do(t, "POST", "/api/v1/auth/refresh", "", map[string]string{"refresh_token": "x"}).Code)
}

func TestOpsRoutes(t *testing.T) {
	e := newEnv(t, nil)

	assert.Equal(t, http.StatusOK, e.do(t, "GET", "/healthz", "", nil).Code)

	w := e.do(t, "GET", "/readyz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decode(t, w)["status"])

	w = e.do(t, "GET", "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ROUTE_NOT_FOUND", decode(t, w)["code"])

	w = e.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `route="/healthz"`)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestLocalizedErrors(t *testing.T) {
	e := newEnv(t, nil)
	r := httptest.NewRequest("GET", "/api/v1/users/me", nil)
	r.Header.Set("Accept-Language", "fr-CA,fr;q=0.9")
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentification requise.", decode(t, w)["message"])
}

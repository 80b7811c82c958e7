package auth

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/auth"
	jwtx "github.com/dropDatabas3/authkit/internal/jwt"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store/adapters/memory"
)

type sentMail struct {
	template string
	to       string
	vars     map[string]any
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) Send(_ context.Context, template, to string, vars map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{template: template, to: to, vars: vars})
}

func (n *recordingNotifier) last(t *testing.T) sentMail {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	svc      AuthService
	users    repository.UserRepository
	codec    *jwtx.Codec
	hasher   *password.Hasher
	notifier *recordingNotifier
}

// scrypt barato para tests.
var testParams = password.Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	codec, err := jwtx.NewCodec(jwtx.Config{Secret: []byte("test-secret")})
	require.NoError(t, err)

	f := &fixture{
		users:    memory.New().Users(),
		codec:    codec,
		hasher:   password.NewHasher(testParams),
		notifier: &recordingNotifier{},
	}
	f.svc = NewServices(Deps{
		Users:     f.users,
		Codec:     codec,
		Hasher:    f.hasher,
		Policy:    password.DefaultPolicy,
		Notifier:  f.notifier,
		WebAppURL: "https://app.example/",
	}).Auth
	return f
}

func (f *fixture) register(t *testing.T, addr, pw string) jwtx.TokenPair {
	t.Helper()
	sess, err := f.svc.Register(context.Background(), dto.RegisterRequest{Email: addr, Password: pw})
	require.NoError(t, err)
	require.NotNil(t, sess.User)
	return sess.Tokens
}

func TestRegister_IssuesPairAndRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.register(t, "a@x.com", "password-1")
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := f.codec.Verify(pair.AccessToken, jwtx.ContextAccess)
	require.NoError(t, err)
	u, err := f.users.GetByID(ctx, claims.UserID, repository.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, repository.RoleCustomer, u.Role)
	assert.Equal(t, repository.ProviderEmail, u.Provider)
	assert.Equal(t, repository.LanguageEN, u.Language)
	assert.True(t, f.hasher.Verify("password-1", u.PasswordHash))

	_, err = f.svc.Register(ctx, dto.RegisterRequest{Email: "A@X.com ", Password: "password-2"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, dto.RegisterRequest{Email: "", Password: "password-1"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.Register(ctx, dto.RegisterRequest{Email: "not-an-email", Password: "password-1"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.svc.Register(ctx, dto.RegisterRequest{Email: "b@x.com", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordPolicy)
	assert.Contains(t, err.Error(), "too_short")
}

func TestRegister_ArchivedEmailCanBeReused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair := f.register(t, "a@x.com", "password-1")
	claims, err := f.codec.Verify(pair.AccessToken, jwtx.ContextAccess)
	require.NoError(t, err)
	require.NoError(t, f.users.Archive(ctx, claims.UserID, time.Now()))

	_, err = f.svc.Register(ctx, dto.RegisterRequest{Email: "a@x.com", Password: "password-2"})
	assert.NoError(t, err)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "password-1")

	sess, err := f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com", Password: "password-1"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sess.User.Email)
	_, err = f.codec.Verify(sess.Tokens.RefreshToken, jwtx.ContextRefresh)
	assert.NoError(t, err)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "nobody@x.com", Password: "password-1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_SSOAccountAndCorruptHash(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &repository.User{
		Email: "sso@x.com", Role: repository.RoleCustomer,
		Provider: repository.ProviderGoogle, SSOProviderID: "g1",
	}))
	_, err := f.svc.Login(ctx, dto.LoginRequest{Username: "sso@x.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, f.users.Create(ctx, &repository.User{
		Email: "bad@x.com", Role: repository.RoleCustomer,
		Provider: repository.ProviderEmail, PasswordHash: "zz-not-hex",
	}))
	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "bad@x.com", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_ArchivedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pair := f.register(t, "a@x.com", "password-1")
	claims, err := f.codec.Verify(pair.AccessToken, jwtx.ContextAccess)
	require.NoError(t, err)
	require.NoError(t, f.users.Archive(ctx, claims.UserID, time.Now()))

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com", Password: "password-1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pair := f.register(t, "a@x.com", "password-1")

	next, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.Tokens.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, next.Tokens.AccessToken)

	_, err = f.svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, jwtx.ErrTokenContextMismatch)

	_, err = f.svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, jwtx.ErrTokenSignatureInvalid)

	claims, err := f.codec.Verify(pair.AccessToken, jwtx.ContextAccess)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, claims.UserID))
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pair := f.register(t, "a@x.com", "password-1")

	u, err := f.svc.CurrentUser(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)

	_, err = f.svc.CurrentUser(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, jwtx.ErrTokenContextMismatch)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "password-1")

	require.NoError(t, f.svc.RequestPasswordReset(ctx, "A@x.com"))

	mail := f.notifier.last(t)
	assert.Equal(t, email.TemplateResetPassword, mail.template)
	assert.Equal(t, "a@x.com", mail.to)
	assert.Equal(t, 48, mail.vars["valid_hours"])

	link, err := url.Parse(mail.vars["link"].(string))
	require.NoError(t, err)
	assert.Equal(t, "app.example", link.Host)
	assert.Equal(t, "/reset-password", link.Path)
	tok := link.Query().Get("token")
	require.NotEmpty(t, tok)

	addr, err := f.codec.VerifyReset(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", addr)

	require.NoError(t, f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: tok, NewPassword: "password-2"}))

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com", Password: "password-1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com", Password: "password-2"})
	assert.NoError(t, err)
}

func TestPasswordReset_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "password-1")

	assert.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "nobody@x.com"), ErrNotFound)
	assert.Empty(t, f.notifier.sent)

	err := f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: "garbage", NewPassword: "password-2"})
	assert.ErrorIs(t, err, jwtx.ErrResetTokenInvalid)

	// Un access token no sirve como token de reset.
	sess, err := f.svc.Login(ctx, dto.LoginRequest{Username: "a@x.com", Password: "password-1"})
	require.NoError(t, err)
	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: sess.Tokens.AccessToken, NewPassword: "password-2"})
	assert.ErrorIs(t, err, jwtx.ErrResetTokenInvalid)

	tok, err := f.codec.IssueReset("a@x.com")
	require.NoError(t, err)
	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: tok, NewPassword: "short"})
	assert.ErrorIs(t, err, ErrPasswordPolicy)

	tok, err = f.codec.IssueReset("ghost@x.com")
	require.NoError(t, err)
	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: tok, NewPassword: "password-2"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordReset_SSOAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.users.Create(ctx, &repository.User{
		Email: "sso@x.com", Role: repository.RoleCustomer,
		Provider: repository.ProviderGoogle, SSOProviderID: "g1",
	}))

	assert.ErrorIs(t, f.svc.RequestPasswordReset(ctx, "sso@x.com"), ErrPasswordNotAllowed)
	assert.Empty(t, f.notifier.sent)

	// Un token de reset válido tampoco le crea credencial local.
	tok, err := f.codec.IssueReset("sso@x.com")
	require.NoError(t, err)
	err = f.svc.ResetPassword(ctx, dto.ResetPasswordRequest{Token: tok, NewPassword: "password-2"})
	assert.ErrorIs(t, err, ErrPasswordNotAllowed)

	u, err := f.users.GetByEmail(ctx, "sso@x.com", repository.ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, u.PasswordHash)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "sso@x.com", Password: "password-2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

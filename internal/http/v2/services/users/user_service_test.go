package users

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/email"
	dto "github.com/dropDatabas3/authkit/internal/http/v2/dto/users"
	authsvc "github.com/dropDatabas3/authkit/internal/http/v2/services/auth"
	"github.com/dropDatabas3/authkit/internal/security/authz"
	"github.com/dropDatabas3/authkit/internal/security/password"
	"github.com/dropDatabas3/authkit/internal/store/adapters/memory"
)

type recordingNotifier struct {
	mu        sync.Mutex
	templates []string
	to        []string
}

func (n *recordingNotifier) Send(_ context.Context, template, to string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.templates = append(n.templates, template)
	n.to = append(n.to, to)
}

type fixture struct {
	svc      UserService
	users    repository.UserRepository
	hasher   *password.Hasher
	notifier *recordingNotifier
	admin    *repository.User
	alice    *repository.User
}

func newFixture(t *testing.T, open bool) *fixture {
	t.Helper()
	f := &fixture{
		users:    memory.New().Users(),
		hasher:   password.NewHasher(password.Params{N: 1024, R: 8, P: 1, KeyLen: 64, SaltLen: 16}),
		notifier: &recordingNotifier{},
	}
	f.svc = NewUserService(Deps{
		Users:            f.users,
		Hasher:           f.hasher,
		Policy:           password.Policy{MinLength: 8},
		Notifier:         f.notifier,
		OpenRegistration: open,
		WebAppURL:        "https://app.example",
	})

	ctx := context.Background()
	f.admin = &repository.User{Email: "root@x.com", Role: repository.RoleAdmin, Provider: repository.ProviderEmail, Language: repository.LanguageEN}
	f.alice = &repository.User{Email: "alice@x.com", Role: repository.RoleCustomer, Provider: repository.ProviderEmail, Language: repository.LanguageEN}
	require.NoError(t, f.users.Create(ctx, f.admin))
	require.NoError(t, f.users.Create(ctx, f.alice))
	return f
}

func strp(s string) *string { return &s }

func TestCreate_AdminOnly(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	in := dto.CreateRequest{Email: " Bob@X.com ", Password: "s3cret-pass", Role: "moderator"}

	_, err := f.svc.Create(ctx, f.alice, in)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	u, err := f.svc.Create(ctx, f.admin, in)
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", u.Email)
	assert.Equal(t, repository.RoleModerator, u.Role)
	assert.Equal(t, repository.ProviderEmail, u.Provider)
	assert.True(t, f.hasher.Verify("s3cret-pass", u.PasswordHash))
	assert.Equal(t, []string{email.TemplateNewAccount}, f.notifier.templates)
	assert.Equal(t, []string{"bob@x.com"}, f.notifier.to)

	_, err = f.svc.Create(ctx, f.admin, in)
	assert.ErrorIs(t, err, authsvc.ErrDuplicateEmail)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	tests := []struct {
		name string
		in   dto.CreateRequest
		want error
	}{
		{"missing email", dto.CreateRequest{Password: "s3cret-pass"}, authsvc.ErrMissingFields},
		{"bad email", dto.CreateRequest{Email: "nope", Password: "s3cret-pass"}, authsvc.ErrInvalidEmail},
		{"weak password", dto.CreateRequest{Email: "c@x.com", Password: "short"}, authsvc.ErrPasswordPolicy},
		{"bad role", dto.CreateRequest{Email: "c@x.com", Password: "s3cret-pass", Role: "root"}, ErrInvalidRole},
		{"bad language", dto.CreateRequest{Email: "c@x.com", Password: "s3cret-pass", Profile: dto.Profile{Language: strp("de")}}, ErrInvalidLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, f.admin, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.notifier.templates)
}

func TestOpenRegister(t *testing.T) {
	ctx := context.Background()
	in := dto.OpenRegisterRequest{Email: "new@x.com", Password: "s3cret-pass", FirstName: "New"}

	closed := newFixture(t, false)
	_, err := closed.svc.OpenRegister(ctx, in)
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	open := newFixture(t, true)
	u, err := open.svc.OpenRegister(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, repository.RoleCustomer, u.Role)
	assert.Equal(t, "New", u.FirstName)
}

func TestGet_SelfOrAdmin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	u, err := f.svc.Get(ctx, f.alice, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice.Email, u.Email)

	_, err = f.svc.Get(ctx, f.alice, f.admin.ID)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = f.svc.Get(ctx, f.admin, "missing")
	assert.ErrorIs(t, err, authsvc.ErrNotFound)

	require.NoError(t, f.svc.Archive(ctx, f.admin, f.alice.ID))
	u, err = f.svc.Get(ctx, f.admin, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, u.IsArchived())
}

func TestUpdateMe(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	u, err := f.svc.UpdateMe(ctx, f.alice, dto.UpdateMeRequest{
		Password: strp("n3w-password"),
		Profile:  dto.Profile{FirstName: strp(" Alice "), City: strp("Paris"), Language: strp("fr")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.FirstName)
	assert.Equal(t, "Paris", u.City)
	assert.Equal(t, repository.LanguageFR, u.Language)
	assert.Equal(t, repository.RoleCustomer, u.Role)
	assert.True(t, f.hasher.Verify("n3w-password", u.PasswordHash))

	_, err = f.svc.UpdateMe(ctx, f.alice, dto.UpdateMeRequest{Email: strp("root@x.com")})
	assert.ErrorIs(t, err, authsvc.ErrDuplicateEmail)

	u, err = f.svc.UpdateMe(ctx, f.alice, dto.UpdateMeRequest{Email: strp("Alice2@x.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice2@x.com", u.Email)
}

func TestUpdateMe_SSOAccountHasNoPassword(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	sso := &repository.User{Email: "g@x.com", Role: repository.RoleCustomer, Provider: repository.ProviderGoogle, SSOProviderID: "g1"}
	require.NoError(t, f.users.Create(ctx, sso))

	_, err := f.svc.UpdateMe(ctx, sso, dto.UpdateMeRequest{Password: strp("s3cret-pass")})
	assert.ErrorIs(t, err, ErrPasswordNotAllowed)
}

func TestUpdate_Admin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Update(ctx, f.alice, f.alice.ID, dto.UpdateRequest{Role: strp("admin")})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	confirmed := true
	u, err := f.svc.Update(ctx, f.admin, f.alice.ID, dto.UpdateRequest{Role: strp("moderator"), Confirmed: &confirmed})
	require.NoError(t, err)
	assert.Equal(t, repository.RoleModerator, u.Role)
	assert.True(t, u.Confirmed)

	_, err = f.svc.Update(ctx, f.admin, f.admin.ID, dto.UpdateRequest{Role: strp("customer")})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
}

func TestArchiveLifecycle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Archive(ctx, f.alice, f.admin.ID), authz.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.Archive(ctx, f.admin, f.admin.ID), authz.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.ArchiveMe(ctx, f.admin), authz.ErrPermissionDenied)

	require.NoError(t, f.svc.ArchiveMe(ctx, f.alice))
	_, err := f.users.GetByID(ctx, f.alice.ID, repository.ReadOptions{})
	assert.True(t, repository.IsNotFound(err))

	require.NoError(t, f.svc.Unarchive(ctx, f.admin, f.alice.ID))
	_, err = f.users.GetByID(ctx, f.alice.ID, repository.ReadOptions{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.admin, f.alice.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.admin, f.alice.ID), authsvc.ErrNotFound)
}

func TestUnarchive_EmailTakenMeanwhile(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.svc.Archive(ctx, f.admin, f.alice.ID))
	_, err := f.svc.Create(ctx, f.admin, dto.CreateRequest{Email: "alice@x.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Unarchive(ctx, f.admin, f.alice.ID), authsvc.ErrDuplicateEmail)
}

func TestList(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.List(ctx, f.alice, repository.ListOptions{})
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	require.NoError(t, f.svc.Archive(ctx, f.admin, f.alice.ID))
	list, err := f.svc.List(ctx, f.admin, repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = f.svc.List(ctx, f.admin, repository.ListOptions{WithArchived: true})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

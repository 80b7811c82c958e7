package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
	"github.com/dropDatabas3/authkit/internal/store"
)

func TestAdapter_Registered(t *testing.T) {
	conn, err := store.Open(context.Background(), store.AdapterConfig{Name: "memory"})
	require.NoError(t, err)
	assert.Equal(t, "memory", conn.Name())
	require.NoError(t, store.Migrate(context.Background(), conn))
}

func TestUsers_CreateAndLookups(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := &repository.User{Email: " A@X.com ", Provider: repository.ProviderEmail, Role: repository.RoleCustomer}
	require.NoError(t, users.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, repository.StateActive, u.Lifecycle.State)

	got, err := users.GetByEmail(ctx, "a@x.com", repository.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByID(ctx, "missing", repository.ReadOptions{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_CreateWithRegionKeepsLifecycle(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := &repository.User{Email: "a@x.com", Provider: repository.ProviderEmail, Region: "CA"}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByID(ctx, u.ID, repository.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "CA", got.Region)
	assert.Equal(t, repository.StateActive, got.Lifecycle.State)
	assert.Nil(t, got.ArchivedAt)
}

func TestUsers_UniqueEmailAmongActive(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	first := &repository.User{Email: "a@x.com", Provider: repository.ProviderEmail}
	require.NoError(t, users.Create(ctx, first))
	err := users.Create(ctx, &repository.User{Email: "A@x.com", Provider: repository.ProviderEmail})
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, users.Archive(ctx, first.ID, time.Now()))
	second := &repository.User{Email: "a@x.com", Provider: repository.ProviderEmail}
	require.NoError(t, users.Create(ctx, second))

	// restaurar el primero violaría el índice único
	assert.ErrorIs(t, users.Unarchive(ctx, first.ID), repository.ErrConflict)
}

func TestUsers_ProviderLookupAndUnique(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := &repository.User{Email: "g@x.com", Provider: repository.ProviderGoogle, SSOProviderID: "g123"}
	require.NoError(t, users.Create(ctx, u))

	got, err := users.GetByProvider(ctx, repository.ProviderGoogle, "g123", repository.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = users.GetByProvider(ctx, repository.ProviderGithub, "g123", repository.ReadOptions{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := &repository.User{Email: "other@x.com", Provider: repository.ProviderGoogle, SSOProviderID: "g123"}
	assert.ErrorIs(t, users.Create(ctx, dup), repository.ErrConflict)
}

func TestUsers_ArchiveFiltersReads(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := &repository.User{Email: "a@x.com"}
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.Archive(ctx, u.ID, time.Now()))

	_, err := users.GetByID(ctx, u.ID, repository.ReadOptions{})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	got, err := users.GetByID(ctx, u.ID, repository.ReadOptions{WithArchived: true})
	require.NoError(t, err)
	assert.True(t, got.IsArchived())
	assert.NotNil(t, got.ArchivedAt)

	list, err := users.List(ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = users.List(ctx, repository.ListOptions{WithArchived: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUsers_SSOCode(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := &repository.User{Email: "a@x.com"}
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.SetSSOCode(ctx, u.ID, "CODE0001"))

	ok, err := users.ConsumeSSOCode(ctx, u.ID, "OTHER001")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = users.ConsumeSSOCode(ctx, u.ID, "CODE0001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.ConsumeSSOCode(ctx, u.ID, "CODE0001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUsers_UpdateKeepsManagedFields(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	u := &repository.User{Email: "a@x.com", FirstName: "A"}
	require.NoError(t, users.Create(ctx, u))
	require.NoError(t, users.SetSSOCode(ctx, u.ID, "CODE0001"))

	u.FirstName = "B"
	u.SSOConfirmationCode = ""
	require.NoError(t, users.Update(ctx, u))

	got, err := users.GetByID(ctx, u.ID, repository.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "B", got.FirstName)
	assert.Equal(t, "CODE0001", got.SSOConfirmationCode)
}

func TestItems_CRUDAndOwnership(t *testing.T) {
	ctx := context.Background()
	conn := New()

	owner := &repository.User{Email: "o@x.com"}
	require.NoError(t, conn.Users().Create(ctx, owner))
	other := &repository.User{Email: "p@x.com"}
	require.NoError(t, conn.Users().Create(ctx, other))

	items := conn.Items()
	a := &repository.Item{Name: "a", OwnerID: owner.ID}
	require.NoError(t, items.Create(ctx, a))
	require.NoError(t, items.Create(ctx, &repository.Item{Name: "b", OwnerID: other.ID}))
	assert.ErrorIs(t, items.Create(ctx, &repository.Item{Name: "c", OwnerID: "ghost"}), repository.ErrInvalidInput)

	mine, err := items.ListByOwner(ctx, owner.ID, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a", mine[0].Name)

	a.Description = "desc"
	require.NoError(t, items.Update(ctx, a))

	require.NoError(t, items.Archive(ctx, a.ID, time.Now()))
	all, err := items.List(ctx, repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, items.Unarchive(ctx, a.ID))
	got, err := items.GetByID(ctx, a.ID, repository.ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "desc", got.Description)

	// borrar el usuario borra sus items
	require.NoError(t, conn.Users().Delete(ctx, owner.ID))
	_, err = items.GetByID(ctx, a.ID, repository.ReadOptions{WithArchived: true})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestList_Pagination(t *testing.T) {
	ctx := context.Background()
	users := New().Users()
	for _, e := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		require.NoError(t, users.Create(ctx, &repository.User{Email: e}))
		time.Sleep(time.Millisecond)
	}

	page, err := users.List(ctx, repository.ListOptions{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b@x.com", page[0].Email)

	page, err = users.List(ctx, repository.ListOptions{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

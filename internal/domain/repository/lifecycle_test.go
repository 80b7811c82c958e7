package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifecycle_ArchiveRestore(t *testing.T) {
	l := LifecycleFrom(nil)
	assert.False(t, l.IsArchived())
	assert.True(t, ReadOptions{}.Visible(l))

	l.Archive(time.Now())
	assert.True(t, l.IsArchived())
	assert.NotNil(t, l.ArchivedAt)
	assert.False(t, ReadOptions{}.Visible(l))
	assert.True(t, ReadOptions{WithArchived: true}.Visible(l))

	l.Restore()
	assert.Equal(t, StateActive, l.State)
	assert.Nil(t, l.ArchivedAt)
}

func TestListOptions_Normalize(t *testing.T) {
	o := ListOptions{Skip: -3, Limit: 0}.Normalize()
	assert.Equal(t, 0, o.Skip)
	assert.Equal(t, DefaultListLimit, o.Limit)

	o = ListOptions{Limit: 10_000}.Normalize()
	assert.Equal(t, MaxListLimit, o.Limit)
}

func TestUser_Derived(t *testing.T) {
	u := User{FirstName: " Ada ", LastName: "Lovelace", Role: RoleAdmin}
	assert.Equal(t, "Ada Lovelace", u.FullName())
	assert.True(t, u.IsAdmin())
	assert.False(t, u.HasPassword())

	assert.Equal(t, "", (&User{}).FullName())
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}

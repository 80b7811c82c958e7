package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type userRepo struct{ c *Conn }

func (r *userRepo) GetByID(_ context.Context, id string, opts repository.ReadOptions) (*repository.User, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	u, ok := r.c.users[id]
	if !ok || !opts.Visible(u.Lifecycle) {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string, opts repository.ReadOptions) (*repository.User, error) {
	email = repository.NormalizeEmail(email)
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	for _, u := range r.c.users {
		if u.Email == email && opts.Visible(u.Lifecycle) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) GetByProvider(_ context.Context, provider repository.AuthProvider, externalID string, opts repository.ReadOptions) (*repository.User, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	for _, u := range r.c.users {
		if u.Provider == provider && u.SSOProviderID != "" && u.SSOProviderID == externalID && opts.Visible(u.Lifecycle) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) List(_ context.Context, opts repository.ListOptions) ([]repository.User, error) {
	r.c.mu.RLock()
	all := make([]repository.User, 0, len(r.c.users))
	for _, u := range r.c.users {
		if opts.WithArchived || !u.IsArchived() {
			all = append(all, u)
		}
	}
	r.c.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, opts), nil
}

func (r *userRepo) Create(_ context.Context, u *repository.User) error {
	if u.Email == "" {
		return repository.ErrInvalidInput
	}
	u.Email = repository.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Lifecycle.State == "" {
		u.Lifecycle = repository.LifecycleFrom(u.ArchivedAt)
	}

	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, exists := r.c.users[u.ID]; exists {
		return repository.ErrConflict
	}
	if r.violatesUniqueLocked(*u) {
		return repository.ErrConflict
	}
	r.c.users[u.ID] = *u
	return nil
}

func (r *userRepo) Update(_ context.Context, u *repository.User) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	cur, ok := r.c.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := *u
	next.Email = repository.NormalizeEmail(next.Email)
	next.CreatedAt = cur.CreatedAt
	next.Lifecycle = cur.Lifecycle
	next.SSOConfirmationCode = cur.SSOConfirmationCode
	next.UpdatedAt = time.Now().UTC()
	if r.violatesUniqueLocked(next) {
		return repository.ErrConflict
	}
	r.c.users[u.ID] = next
	*u = next
	return nil
}

func (r *userRepo) SetSSOCode(_ context.Context, id, code string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	u, ok := r.c.users[id]
	if !ok || u.IsArchived() {
		return repository.ErrNotFound
	}
	u.SSOConfirmationCode = code
	u.UpdatedAt = time.Now().UTC()
	r.c.users[id] = u
	return nil
}

func (r *userRepo) ConsumeSSOCode(_ context.Context, id, code string) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	u, ok := r.c.users[id]
	if !ok || u.IsArchived() || code == "" || u.SSOConfirmationCode != code {
		return false, nil
	}
	u.SSOConfirmationCode = ""
	u.UpdatedAt = time.Now().UTC()
	r.c.users[id] = u
	return true, nil
}

func (r *userRepo) Archive(_ context.Context, id string, at time.Time) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	u, ok := r.c.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Archive(at)
	r.c.users[id] = u
	return nil
}

func (r *userRepo) Unarchive(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	u, ok := r.c.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Restore()
	if r.violatesUniqueLocked(u) {
		return repository.ErrConflict
	}
	r.c.users[id] = u
	return nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.c.users, id)
	for iid, it := range r.c.items {
		if it.OwnerID == id {
			delete(r.c.items, iid)
		}
	}
	return nil
}

// violatesUniqueLocked replica los índices únicos de postgres:
// email entre no archivados, (provider, sso_provider_id) entre todos.
func (r *userRepo) violatesUniqueLocked(u repository.User) bool {
	for id, other := range r.c.users {
		if id == u.ID {
			continue
		}
		if !u.IsArchived() && !other.IsArchived() && other.Email == u.Email {
			return true
		}
		if u.SSOProviderID != "" && other.Provider == u.Provider && other.SSOProviderID == u.SSOProviderID {
			return true
		}
	}
	return false
}

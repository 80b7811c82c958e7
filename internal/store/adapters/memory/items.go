package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type itemRepo struct{ c *Conn }

func (r *itemRepo) GetByID(_ context.Context, id string, opts repository.ReadOptions) (*repository.Item, error) {
	r.c.mu.RLock()
	defer r.c.mu.RUnlock()
	it, ok := r.c.items[id]
	if !ok || !opts.Visible(it.Lifecycle) {
		return nil, repository.ErrNotFound
	}
	return &it, nil
}

func (r *itemRepo) List(ctx context.Context, opts repository.ListOptions) ([]repository.Item, error) {
	return r.list(func(repository.Item) bool { return true }, opts), nil
}

func (r *itemRepo) ListByOwner(ctx context.Context, ownerID string, opts repository.ListOptions) ([]repository.Item, error) {
	return r.list(func(it repository.Item) bool { return it.OwnerID == ownerID }, opts), nil
}

func (r *itemRepo) list(match func(repository.Item) bool, opts repository.ListOptions) []repository.Item {
	r.c.mu.RLock()
	all := make([]repository.Item, 0, len(r.c.items))
	for _, it := range r.c.items {
		if match(it) && (opts.WithArchived || !it.IsArchived()) {
			all = append(all, it)
		}
	}
	r.c.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return page(all, opts)
}

func (r *itemRepo) Create(_ context.Context, it *repository.Item) error {
	if it.OwnerID == "" || it.Name == "" {
		return repository.ErrInvalidInput
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if it.CreatedAt.IsZero() {
		it.CreatedAt = now
	}
	it.UpdatedAt = now
	if it.State == "" {
		it.Lifecycle = repository.LifecycleFrom(it.ArchivedAt)
	}

	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.users[it.OwnerID]; !ok {
		return repository.ErrInvalidInput
	}
	if _, exists := r.c.items[it.ID]; exists {
		return repository.ErrConflict
	}
	r.c.items[it.ID] = *it
	return nil
}

func (r *itemRepo) Update(_ context.Context, it *repository.Item) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	cur, ok := r.c.items[it.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Name = it.Name
	cur.Description = it.Description
	cur.UpdatedAt = time.Now().UTC()
	r.c.items[it.ID] = cur
	*it = cur
	return nil
}

func (r *itemRepo) Archive(_ context.Context, id string, at time.Time) error {
	return r.mutate(id, func(it *repository.Item) { it.Archive(at) })
}

func (r *itemRepo) Unarchive(_ context.Context, id string) error {
	return r.mutate(id, func(it *repository.Item) { it.Restore() })
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if _, ok := r.c.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.c.items, id)
	return nil
}

func (r *itemRepo) mutate(id string, fn func(*repository.Item)) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	it, ok := r.c.items[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&it)
	it.UpdatedAt = time.Now().UTC()
	r.c.items[id] = it
	return nil
}

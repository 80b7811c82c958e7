package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type itemRepo struct {
	pool *pgxpool.Pool
}

const itemColumns = `id, name, description, owner_id, archived_at, created_at, updated_at`

func scanItem(row pgx.Row) (*repository.Item, error) {
	var (
		it         repository.Item
		archivedAt *time.Time
	)
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.OwnerID, &archivedAt, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Lifecycle = repository.LifecycleFrom(archivedAt)
	return &it, nil
}

func (r *itemRepo) GetByID(ctx context.Context, id string, opts repository.ReadOptions) (*repository.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	q := `SELECT ` + itemColumns + ` FROM item WHERE id = $1` + archivedFilter(opts.WithArchived)
	it, err := scanItem(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, mapErr("get item", err)
	}
	return it, nil
}

func (r *itemRepo) List(ctx context.Context, opts repository.ListOptions) ([]repository.Item, error) {
	opts = opts.Normalize()
	q := `SELECT ` + itemColumns + ` FROM item WHERE TRUE` + archivedFilter(opts.WithArchived) +
		` ORDER BY created_at, id OFFSET $1 LIMIT $2`
	return r.query(ctx, "list items", q, opts.Skip, opts.Limit)
}

func (r *itemRepo) ListByOwner(ctx context.Context, ownerID string, opts repository.ListOptions) ([]repository.Item, error) {
	opts = opts.Normalize()
	q := `SELECT ` + itemColumns + ` FROM item WHERE owner_id = $1` + archivedFilter(opts.WithArchived) +
		` ORDER BY created_at, id OFFSET $2 LIMIT $3`
	return r.query(ctx, "list items by owner", q, ownerID, opts.Skip, opts.Limit)
}

func (r *itemRepo) query(ctx context.Context, op, q string, args ...any) ([]repository.Item, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, mapErr(op, err)
	}
	defer rows.Close()

	var out []repository.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, mapErr(op, err)
		}
		out = append(out, *it)
	}
	return out, mapErr(op, rows.Err())
}

func (r *itemRepo) Create(ctx context.Context, it *repository.Item) error {
	if it.OwnerID == "" || it.Name == "" {
		return repository.ErrInvalidInput
	}
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	const q = `INSERT INTO item (id, name, description, owner_id) VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`
	if err := r.pool.QueryRow(ctx, q, it.ID, it.Name, it.Description, it.OwnerID).Scan(&it.CreatedAt, &it.UpdatedAt); err != nil {
		return mapErr("create item", err)
	}
	it.Lifecycle = repository.LifecycleFrom(nil)
	return nil
}

func (r *itemRepo) Update(ctx context.Context, it *repository.Item) error {
	const q = `UPDATE item SET name = $2, description = $3, updated_at = now() WHERE id = $1 RETURNING updated_at`
	return mapErr("update item", r.pool.QueryRow(ctx, q, it.ID, it.Name, it.Description).Scan(&it.UpdatedAt))
}

func (r *itemRepo) Archive(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "archive item",
		`UPDATE item SET archived_at = COALESCE(archived_at, $2), updated_at = now() WHERE id = $1`, id, at.UTC())
}

func (r *itemRepo) Unarchive(ctx context.Context, id string) error {
	return r.execOne(ctx, "unarchive item", `UPDATE item SET archived_at = NULL, updated_at = now() WHERE id = $1`, id)
}

func (r *itemRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete item", `DELETE FROM item WHERE id = $1`, id)
}

func (r *itemRepo) execOne(ctx context.Context, op, q string, args ...any) error {
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return mapErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pg: %s: %w", op, repository.ErrNotFound)
	}
	return nil
}

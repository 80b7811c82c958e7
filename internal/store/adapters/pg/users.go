package pg

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

type userRepo struct {
	pool *pgxpool.Pool
}

const userColumns = `id, email, password_hash, role, language, confirmed, sso_confirmation_code,
	provider, sso_provider_id, first_name, last_name, phone, address, city, postcode, state,
	archived_at, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var (
		u                     repository.User
		pwd, code, externalID *string
		role, lang, provider  string
		archivedAt            *time.Time
	)
	err := row.Scan(&u.ID, &u.Email, &pwd, &role, &lang, &u.Confirmed, &code,
		&provider, &externalID, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &u.City, &u.Postcode, &u.Region,
		&archivedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = deref(pwd)
	u.SSOConfirmationCode = deref(code)
	u.SSOProviderID = deref(externalID)
	u.Role = repository.Role(role)
	u.Language = repository.Language(lang)
	u.Provider = repository.AuthProvider(provider)
	u.Lifecycle = repository.LifecycleFrom(archivedAt)
	return &u, nil
}

// archivedFilter agrega el filtro por defecto de soft-delete.
func archivedFilter(withArchived bool) string {
	if withArchived {
		return ""
	}
	return " AND archived_at IS NULL"
}

func (r *userRepo) getOne(ctx context.Context, op, where string, opts repository.ReadOptions, args ...any) (*repository.User, error) {
	q := `SELECT ` + userColumns + ` FROM person WHERE ` + where + archivedFilter(opts.WithArchived) + ` LIMIT 1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string, opts repository.ReadOptions) (*repository.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, repository.ErrNotFound
	}
	return r.getOne(ctx, "get user by id", `id = $1`, opts, id)
}

func (r *userRepo) GetByEmail(ctx context.Context, email string, opts repository.ReadOptions) (*repository.User, error) {
	// Con WithArchived puede haber más de una fila: se prefiere la activa.
	q := `SELECT ` + userColumns + ` FROM person WHERE lower(email) = $1` + archivedFilter(opts.WithArchived) +
		` ORDER BY archived_at NULLS FIRST LIMIT 1`
	u, err := scanUser(r.pool.QueryRow(ctx, q, repository.NormalizeEmail(email)))
	if err != nil {
		return nil, mapErr("get user by email", err)
	}
	return u, nil
}

func (r *userRepo) GetByProvider(ctx context.Context, provider repository.AuthProvider, externalID string, opts repository.ReadOptions) (*repository.User, error) {
	return r.getOne(ctx, "get user by provider", `provider = $1 AND sso_provider_id = $2`, opts, string(provider), externalID)
}

func (r *userRepo) List(ctx context.Context, opts repository.ListOptions) ([]repository.User, error) {
	opts = opts.Normalize()
	q := `SELECT ` + userColumns + ` FROM person WHERE TRUE` + archivedFilter(opts.WithArchived) +
		` ORDER BY created_at, id OFFSET $1 LIMIT $2`
	rows, err := r.pool.Query(ctx, q, opts.Skip, opts.Limit)
	if err != nil {
		return nil, mapErr("list users", err)
	}
	defer rows.Close()

	out := make([]repository.User, 0, opts.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr("scan user", err)
		}
		out = append(out, *u)
	}
	return out, mapErr("list users", rows.Err())
}

func (r *userRepo) Create(ctx context.Context, u *repository.User) error {
	if strings.TrimSpace(u.Email) == "" {
		return repository.ErrInvalidInput
	}
	u.Email = repository.NormalizeEmail(u.Email)
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = repository.RoleCustomer
	}
	if u.Language == "" {
		u.Language = repository.LanguageEN
	}
	if u.Provider == "" {
		u.Provider = repository.ProviderEmail
	}

	const q = `INSERT INTO person (id, email, password_hash, role, language, confirmed, sso_confirmation_code,
		provider, sso_provider_id, first_name, last_name, phone, address, city, postcode, state)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		u.ID, u.Email, nullIfEmpty(u.PasswordHash), string(u.Role), string(u.Language), u.Confirmed,
		nullIfEmpty(u.SSOConfirmationCode), string(u.Provider), nullIfEmpty(u.SSOProviderID),
		u.FirstName, u.LastName, u.Phone, u.Address, u.City, u.Postcode, u.Region,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapErr("create user", err)
	}
	u.Lifecycle = repository.LifecycleFrom(nil)
	return nil
}

func (r *userRepo) Update(ctx context.Context, u *repository.User) error {
	const q = `UPDATE person SET email = $2, password_hash = $3, role = $4, language = $5, confirmed = $6,
		first_name = $7, last_name = $8, phone = $9, address = $10, city = $11, postcode = $12, state = $13,
		updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q,
		u.ID, repository.NormalizeEmail(u.Email), nullIfEmpty(u.PasswordHash), string(u.Role), string(u.Language), u.Confirmed,
		u.FirstName, u.LastName, u.Phone, u.Address, u.City, u.Postcode, u.Region,
	).Scan(&u.UpdatedAt)
	return mapErr("update user", err)
}

func (r *userRepo) SetSSOCode(ctx context.Context, id, code string) error {
	return r.execOne(ctx, "set sso code",
		`UPDATE person SET sso_confirmation_code = $2, updated_at = now() WHERE id = $1 AND archived_at IS NULL`,
		id, nullIfEmpty(code))
}

func (r *userRepo) ConsumeSSOCode(ctx context.Context, id, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE person SET sso_confirmation_code = NULL, updated_at = now()
		 WHERE id = $1 AND sso_confirmation_code = $2 AND archived_at IS NULL`, id, code)
	if err != nil {
		return false, mapErr("consume sso code", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *userRepo) Archive(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "archive user",
		`UPDATE person SET archived_at = COALESCE(archived_at, $2), updated_at = now() WHERE id = $1`, id, at.UTC())
}

func (r *userRepo) Unarchive(ctx context.Context, id string) error {
	return r.execOne(ctx, "unarchive user",
		`UPDATE person SET archived_at = NULL, updated_at = now() WHERE id = $1`, id)
}

// Delete borra el usuario; sus items caen por ON DELETE CASCADE.
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete user", `DELETE FROM person WHERE id = $1`, id)
}

func (r *userRepo) execOne(ctx context.Context, op, q string, args ...any) error {
	tag, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		return mapErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pg: %s: %w", op, repository.ErrNotFound)
	}
	return nil
}

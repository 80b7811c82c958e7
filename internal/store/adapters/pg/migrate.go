package pg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	migrations "github.com/dropDatabas3/authkit/migrations/postgres"
)

// gooseUpContext es un seam para tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var openDBFromPool = func(pool *pgxpool.Pool) *sql.DB {
	return stdlib.OpenDBFromPool(pool)
}

// RunMigrations aplica las migraciones embebidas (goose, dialecto pgx).
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("pg: goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, migrations.Dir); err != nil {
		return fmt.Errorf("pg: migrate: %w", err)
	}
	return nil
}

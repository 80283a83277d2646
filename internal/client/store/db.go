// Package store opens the client-side SQLite database and applies embedded
// goose migrations. The database holds the entity mirrors, the sync queue,
// and the settings table; it is durable across restarts but scoped to one
// installation, never shared across devices.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukaanly/possync/internal/client/store/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite database at dsn and brings the
// schema up to date. The sqlite driver serializes writers, so a single
// connection pool is safe for concurrent repository use.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

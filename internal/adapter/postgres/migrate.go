package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
)

// Migrator applies goose migrations from an fs.FS. goose needs *sql.DB, so it
// opens its own database/sql handle through the pgx stdlib driver.
type Migrator struct {
	db       *sql.DB
	provider *goose.Provider
}

// NewMigrator opens dsn and prepares a goose provider over fsys.
// The provider handles $$-delimited PL/pgSQL bodies wrapped in
// StatementBegin/StatementEnd.
func NewMigrator(ctx context.Context, dsn string, fsys fs.FS) (*Migrator, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("goose new provider: %w", err)
	}

	return &Migrator{db: db, provider: provider}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return results, fmt.Errorf("goose up: %w", err)
	}
	return results, nil
}

// Status reports applied and pending migrations.
func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	status, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	return status, nil
}

// Close releases the database handle.
func (m *Migrator) Close() error {
	return m.db.Close()
}

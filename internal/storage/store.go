// Package storage is the SQL persistence layer. It speaks two dialects,
// SQLite for single-node setups and PostgreSQL for shared ones, through the
// same query text: parameters use the $N form both drivers accept, dates are
// stored as ISO-8601 text and amounts as integer cents, so range scans and
// upserts behave identically on either backend.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"fintrack/internal/ledger"
)

// Supported driver names, matching the DATA_BACKEND configuration values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Repository holds the database handle and implements both the ledger's
// unit-of-work store and the report service's read-only store.
type Repository struct {
	db     *sql.DB
	driver string
}

// Open connects to the database, verifies the connection and applies any
// pending migrations for the chosen dialect.
func Open(driver, dsn string) (*Repository, error) {
	switch driver {
	case DriverSQLite:
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	if driver == DriverSQLite {
		// A single connection sidesteps SQLITE_BUSY under concurrent
		// readers and keeps in-memory databases on one handle.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, driver: driver}, nil
}

// Ping reports whether the database is reachable. Used by readiness checks.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Begin starts a unit of work for the ledger service.
func (r *Repository) Begin(ctx context.Context) (ledger.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return &ledgerTx{tx: tx}, nil
}

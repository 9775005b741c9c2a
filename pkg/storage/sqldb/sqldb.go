// Package sqldb implements storage.Store on a SQL table, for PostgreSQL
// (lib/pq) and SQLite (modernc).
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"storefront/pkg/storage"
)

// Supported driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS storefront_state (
	state_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// Store persists values in the storefront_state table.
type Store struct {
	db *sqlx.DB
}

// Open connects with driver and dsn, verifies the connection and creates
// the table when missing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// database/sql would otherwise hand each :memory: connection its own database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection. The caller must run Migrate once.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the state table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create storefront_state: %w", err)
	}
	return nil
}

// Get retrieves the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, s.db.Rebind("SELECT payload FROM storefront_state WHERE state_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(payload), nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	q := s.db.Rebind(`INSERT INTO storefront_state (state_key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (state_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`)
	if _, err := s.db.ExecContext(ctx, q, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM storefront_state WHERE state_key = ?"), key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Package store provides scoped transactional access to the shared lock
// table. All writes and reads against the table happen through short
// transactions opened here; transient storage failures (deadlocks,
// serialization conflicts) are retried internally so that callers only see
// genuine outcomes or fatal errors.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DefaultTable is the lock table name used when none is configured.
const DefaultTable = "resource_lock"

// Config holds store connection parameters.
type Config struct {
	// Driver is the database/sql driver name, e.g. "sqlite", "mysql" or "pgx".
	Driver string
	// DSN is the driver-specific connection string.
	DSN string
	// Table is the lock table name. Defaults to DefaultTable.
	Table string
}

// Store wraps a connection pool against the database holding the lock table.
type Store struct {
	db    *sqlx.DB
	table string
}

// New opens a Store from c.
func New(c Config) (*Store, error) {
	if c.Table == "" {
		c.Table = DefaultTable
	}

	db, err := sqlx.Open(c.Driver, c.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &Store{db: db, table: c.Table}, nil
}

// NewWithDB wraps an existing pool. An empty table name selects DefaultTable.
func NewWithDB(db *sqlx.DB, table string) *Store {
	if table == "" {
		table = DefaultTable
	}

	return &Store{db: db, table: table}
}

// Table returns the configured lock table name.
func (s *Store) Table() string {
	return s.table
}

// Rebind translates a '?' placeholder query into the pool's bind variety.
func (s *Store) Rebind(query string) string {
	return s.db.Rebind(query)
}

// WithinTx runs fn inside a transaction at the given isolation level using
// the pool directly. It commits on a nil return and rolls back otherwise.
// This is the lighter granularity for untracked work (bulk deletes, schema
// maintenance, inspection queries); consumers that need a connection of
// their own use OpenSession instead.
func (s *Store) WithinTx(ctx context.Context, iso sql.IsolationLevel, fn func(*sqlx.Tx) error) error {
	return withRetry(ctx, func() error {
		tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: iso})
		if err != nil {
			return err
		}
		return runTx(tx, fn)
	})
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// runTx drives fn to a deterministic commit or rollback.
func runTx(tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if err := fn(tx); err != nil {
		// The rollback error, if any, doesn't mask fn's.
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Session is a dedicated connection checked out of the pool, owned by
// exactly one consumer for its entire lifetime. It must not be shared
// across goroutines or used after Close.
type Session struct {
	conn  *sqlx.Conn
	table string

	mu     sync.Mutex
	closed bool
}

// OpenSession checks a dedicated connection out of the pool.
func (s *Store) OpenSession(ctx context.Context) (*Session, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}

	return &Session{conn: conn, table: s.table}, nil
}

// Table returns the lock table name the session operates on.
func (se *Session) Table() string {
	return se.table
}

// WithinTx runs fn inside a transaction at the given isolation level on the
// session's connection, committing on a nil return and rolling back
// otherwise. Transient storage errors abort the attempt and fn is re-run,
// bounded by the store retry policy; fn must therefore be safe to repeat.
func (se *Session) WithinTx(ctx context.Context, iso sql.IsolationLevel, fn func(*sqlx.Tx) error) error {
	return withRetry(ctx, func() error {
		tx, err := se.conn.BeginTxx(ctx, &sql.TxOptions{Isolation: iso})
		if err != nil {
			return err
		}
		return runTx(tx, fn)
	})
}

// Close returns the connection to the pool. Repeated calls are no-ops.
func (se *Session) Close() error {
	se.mu.Lock()
	defer se.mu.Unlock()

	if se.closed {
		return nil
	}
	se.closed = true

	return se.conn.Close()
}

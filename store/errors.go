package store

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MySQL server error numbers classified transient.
const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// Postgres SQLSTATE codes classified transient.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsTransient reports whether err is a storage-level hiccup worth re-running
// the transaction for: a serialization conflict, deadlock, or lock wait
// reported by the store itself. Connectivity and logic errors are not
// transient and propagate to the caller unchanged.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlLockWaitTimeout || myErr.Number == mysqlDeadlock
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// Mask off the extended result bits, e.g. SQLITE_BUSY_SNAPSHOT.
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}

	return false
}

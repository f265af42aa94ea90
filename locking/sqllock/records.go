package sqllock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/usarskyy/sqlock/store"
)

// LockRecord is one row of the shared lock table. A record is live for its
// resource while created_at is younger than the acquiring caller's timeout;
// older records are stale and treated as absent, which is what recovers a
// lock whose holder crashed without releasing.
type LockRecord struct {
	Resource  string `db:"resource"`
	CreatedAt int64  `db:"created_at"`
}

// Session is the capability set a SQLLock requires from the shared store:
// short transactions against the lock table plus deterministic disposal.
type Session interface {
	// TryAcquire atomically checks for a live record and, finding none,
	// inserts a claim created at now. It reports whether the claim was won.
	// Records at or below expiredThreshold are stale and don't count.
	TryAcquire(ctx context.Context, resource string, now, expiredThreshold int64) (bool, error)
	// Delete removes all records for resource, returning the count removed.
	Delete(ctx context.Context, resource string) (int64, error)
	Close() error
}

// errMissed aborts a TryAcquire transaction that observed a live record,
// so the read-only attempt ends in a rollback rather than a commit.
var errMissed = errors.New("lock is held")

// sqlSession implements Session over a dedicated store session.
type sqlSession struct {
	s *store.Session
}

func (q sqlSession) TryAcquire(ctx context.Context, resource string, now, expiredThreshold int64) (bool, error) {
	// Serializable isolation is load-bearing here: the protocol is
	// check-then-insert, and anything weaker admits two winners.
	err := q.s.WithinTx(ctx, sql.LevelSerializable, func(tx *sqlx.Tx) error {
		var n int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE resource = ? AND created_at > ?", q.s.Table())
		if err := tx.GetContext(ctx, &n, tx.Rebind(query), resource, expiredThreshold); err != nil {
			return err
		}
		if n > 0 {
			return errMissed
		}

		insert := fmt.Sprintf("INSERT INTO %s (resource, created_at) VALUES (?, ?)", q.s.Table())
		_, err := tx.ExecContext(ctx, tx.Rebind(insert), resource, now)
		return err
	})

	if errors.Is(err, errMissed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (q sqlSession) Delete(ctx context.Context, resource string) (int64, error) {
	var n int64

	err := q.s.WithinTx(ctx, sql.LevelDefault, func(tx *sqlx.Tx) error {
		query := fmt.Sprintf("DELETE FROM %s WHERE resource = ?", q.s.Table())
		res, err := tx.ExecContext(ctx, tx.Rebind(query), resource)
		if err != nil {
			return err
		}

		n, err = res.RowsAffected()
		return err
	})

	return n, err
}

func (q sqlSession) Close() error {
	return q.s.Close()
}

// Package sqllock implements distributed locking over a shared relational
// store. One row per held lock is arbitrated purely through serializable
// transactions; contending processes need no channel besides the database.
package sqllock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/usarskyy/sqlock/clock"
	"github.com/usarskyy/sqlock/store"
)

// PollInterval is the fixed delay between acquisition attempts.
const PollInterval = 100 * time.Millisecond

// lockState tracks a SQLLock through its lifecycle. Released and failed are
// terminal; a SQLLock is single-use.
type lockState int

const (
	stateIdle lockState = iota
	stateAcquiring
	stateHeld
	stateReleased
	stateFailed
)

func (s lockState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAcquiring:
		return "acquiring"
	case stateHeld:
		return "held"
	case stateReleased:
		return "released"
	case stateFailed:
		return "failed"
	}
	return "unknown"
}

// SQLLock is a single-use distributed lock. It owns one store session for
// its entire lifetime; the session is never shared and never survives Close.
type SQLLock struct {
	s   Session
	clk clock.Clock
	// id distinguishes this instance in log lines.
	id string

	mu       sync.Mutex
	state    lockState
	resource string
	timeout  time.Duration
	closed   bool
}

// NewSQLLock opens a dedicated session against st for the life of the lock.
func NewSQLLock(ctx context.Context, st *store.Store) (*SQLLock, error) {
	sess, err := st.OpenSession(ctx)
	if err != nil {
		return nil, err
	}

	return NewSQLLockWithSession(sqlSession{s: sess}, clock.New()), nil
}

// NewSQLLockWithSession builds a lock over an injected session and clock.
func NewSQLLockWithSession(s Session, clk clock.Clock) *SQLLock {
	return &SQLLock{
		s:   s,
		clk: clk,
		id:  uuid.NewString(),
	}
}

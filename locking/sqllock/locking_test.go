package sqllock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/usarskyy/sqlock/clock"
	"github.com/usarskyy/sqlock/locking"
)

var _ locking.Lock = (*SQLLock)(nil)

func TestAcquire(t *testing.T) {
	lock, m := newMockSQLLock()

	// This lock should succeed normally.
	err := lock.Acquire(context.Background(), "queue:default", 10*time.Second)
	assert.Nil(t, err)
	assert.Equal(t, 1, m.recordCount("queue:default"))
}

// seedHeld plants a record that stays live against any threshold a test
// will compute. A fresh wall-clock record is unusable for this: with
// epoch-second granularity, a short lease can look expired within the same
// test run.
func seedHeld(m *mockSession, resource string) {
	m.seed(LockRecord{Resource: resource, CreatedAt: time.Now().Unix() + 3600})
}

func TestAcquireContended(t *testing.T) {
	lock, m := newMockSQLLock()
	seedHeld(m, "queue:default")

	// A contender observing a live record should poll and ultimately time
	// out without adding a record of its own.
	err := lock.Acquire(context.Background(), "queue:default", 1*time.Second)
	assert.Equal(t, ErrLockingTimedOut, err)
	assert.Equal(t, 1, m.recordCount("queue:default"))
}

func TestAcquireTimeoutBounds(t *testing.T) {
	lock, m := newMockSQLLock()
	seedHeld(m, "queue:default")

	// A losing acquire must fail no earlier than its deadline and no later
	// than one poll interval past it.
	start := time.Now()
	err := lock.Acquire(context.Background(), "queue:default", 1*time.Second)
	elapsed := time.Since(start)

	assert.Equal(t, ErrLockingTimedOut, err)
	assert.GreaterOrEqual(t, elapsed, 1*time.Second)
	assert.Less(t, elapsed, 1*time.Second+3*PollInterval, "timeout overshoot should be bounded")
}

func TestAcquireCancellation(t *testing.T) {
	lock, m := newMockSQLLock()
	seedHeld(m, "queue:default")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(150 * time.Millisecond)
		cancel()
	}()

	// Cancellation must win over the deadline and abort within one poll
	// interval, yielding the context error rather than a timeout.
	start := time.Now()
	err := lock.Acquire(ctx, "queue:default", 10*time.Second)
	elapsed := time.Since(start)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Less(t, elapsed, 150*time.Millisecond+3*PollInterval)
}

func TestAcquireCancelledMidAttempt(t *testing.T) {
	lock, m := newMockSQLLock()

	// The cancellation lands while the store attempt is in flight, so the
	// attempt itself reports the context error. It must surface as such
	// rather than as a storage failure.
	ctx, cancel := context.WithCancel(context.Background())
	m.onTryAcquire = cancel
	m.tryAcquireErr = context.Canceled

	err := lock.Acquire(ctx, "queue:default", 10*time.Second)

	assert.True(t, errors.Is(err, context.Canceled))
	var failed ErrLockingFailed
	assert.False(t, errors.As(err, &failed))
}

func TestAcquireZeroTimeout(t *testing.T) {
	lock, m := newMockSQLLock()
	seedHeld(m, "queue:default")

	err := lock.Acquire(context.Background(), "queue:default", 0)

	// One attempt, then an immediate timeout; the deadline equals the start.
	assert.Equal(t, ErrLockingTimedOut, err)
	assert.Equal(t, 1, m.attempts)
}

func TestAcquireStaleRecordIgnored(t *testing.T) {
	clk := clock.NewMock(time.Unix(1700000000, 0))
	m := &mockSession{}
	lock1 := newMockSQLLockWithClock(m, clk)

	err := lock1.Acquire(context.Background(), "queue:default", 10*time.Second)
	assert.Nil(t, err)
	assert.Equal(t, 1, m.recordCount("queue:default"))

	// The holder crashes without releasing. Once the lease has aged past the
	// timeout, a new acquirer treats the record as absent and wins outright.
	clk.Advance(11 * time.Second)

	lock2 := newMockSQLLockWithClock(m, clk)
	err = lock2.Acquire(context.Background(), "queue:default", 10*time.Second)
	assert.Nil(t, err)
	assert.Equal(t, 2, m.recordCount("queue:default"), "the stale record is ignored, not deleted")
}

func TestAcquireStoreError(t *testing.T) {
	lock, m := newMockSQLLock()
	m.tryAcquireErr = errors.New("relation does not exist")

	err := lock.Acquire(context.Background(), "queue:default", time.Second)

	var failed ErrLockingFailed
	assert.True(t, errors.As(err, &failed), "fatal store errors surface as ErrLockingFailed")
}

func TestAcquireNotReusable(t *testing.T) {
	lock, _ := newMockSQLLock()

	err := lock.Acquire(context.Background(), "queue:default", time.Second)
	assert.Nil(t, err)

	// A lock is single-use regardless of how its first acquisition ended.
	err = lock.Acquire(context.Background(), "queue:other", time.Second)
	var failed ErrLockingFailed
	assert.True(t, errors.As(err, &failed))
}

func TestRelease(t *testing.T) {
	lock, m := newMockSQLLock()

	err := lock.Acquire(context.Background(), "queue:default", 10*time.Second)
	assert.Nil(t, err)

	err = lock.Release(context.Background(), "queue:default")
	assert.Nil(t, err)
	assert.Equal(t, 0, m.recordCount("queue:default"))

	// Releasing with no record present is a no-op.
	err = lock.Release(context.Background(), "queue:default")
	assert.Nil(t, err)
}

func TestReleaseWithoutRecord(t *testing.T) {
	lock, _ := newMockSQLLock()

	// No acquisition ever happened; release must not raise.
	assert.Nil(t, lock.Release(context.Background(), "queue:default"))
}

func TestClose(t *testing.T) {
	lock, m := newMockSQLLock()

	err := lock.Acquire(context.Background(), "queue:default", 10*time.Second)
	assert.Nil(t, err)

	// Close releases the held record and disposes the session exactly once.
	assert.Nil(t, lock.Close())
	assert.Equal(t, 0, m.recordCount("queue:default"))
	assert.Equal(t, 1, m.closes)

	// Repeated closes are no-ops.
	assert.Nil(t, lock.Close())
	assert.Equal(t, 1, m.closes)
}

func TestCloseWithoutAcquire(t *testing.T) {
	lock, m := newMockSQLLock()

	// A lock that never acquired still disposes its session.
	assert.Nil(t, lock.Close())
	assert.Equal(t, 1, m.closes)
}

func TestReleaseAfterFailedAcquire(t *testing.T) {
	lock, m := newMockSQLLock()
	seedHeld(m, "queue:default")

	assert.Equal(t, ErrLockingTimedOut, lock.Acquire(context.Background(), "queue:default", 0))

	// The loser never held the lock; releasing it must not delete the
	// holder's live record.
	assert.Nil(t, lock.Release(context.Background(), "queue:default"))
	assert.Equal(t, 1, m.recordCount("queue:default"))
}

func TestCloseAfterFailedAcquire(t *testing.T) {
	lock, m := newMockSQLLock()
	seedHeld(m, "queue:default")

	assert.Equal(t, ErrLockingTimedOut, lock.Acquire(context.Background(), "queue:default", 0))

	// Closing the loser must not delete the holder's record.
	assert.Nil(t, lock.Close())
	assert.Equal(t, 1, m.recordCount("queue:default"))
}

func TestCloseReleaseFailure(t *testing.T) {
	lock, m := newMockSQLLock()

	assert.Nil(t, lock.Acquire(context.Background(), "queue:default", 10*time.Second))
	m.deleteErr = errors.New("connection reset")

	// The release failure is reported, but teardown still completes; the
	// orphaned record expires with its lease.
	err := lock.Close()
	var failed ErrReleaseFailed
	assert.True(t, errors.As(err, &failed))
	assert.Equal(t, 1, m.closes)
}

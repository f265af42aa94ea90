package sqllock

import (
	"context"
	"sync"

	"github.com/usarskyy/sqlock/clock"
)

type mockSession struct {
	mu      sync.Mutex
	records []LockRecord
	// Number of TryAcquire calls observed.
	attempts int
	// Invoked at the start of each TryAcquire, mimicking events that land
	// while an attempt is in flight.
	onTryAcquire func()
	// Forced failures.
	tryAcquireErr error
	deleteErr     error
	closes        int
}

func newMockSQLLock() (*SQLLock, *mockSession) {
	m := &mockSession{}
	return NewSQLLockWithSession(m, clock.New()), m
}

func newMockSQLLockWithClock(m *mockSession, clk clock.Clock) *SQLLock {
	return NewSQLLockWithSession(m, clk)
}

func (m *mockSession) seed(rec LockRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, rec)
}

func (m *mockSession) TryAcquire(ctx context.Context, resource string, now, expiredThreshold int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts++

	if m.onTryAcquire != nil {
		m.onTryAcquire()
	}

	if m.tryAcquireErr != nil {
		return false, m.tryAcquireErr
	}

	// Mimic the store's live-record check: stale records don't count.
	for _, r := range m.records {
		if r.Resource == resource && r.CreatedAt > expiredThreshold {
			return false, nil
		}
	}

	m.records = append(m.records, LockRecord{Resource: resource, CreatedAt: now})
	return true, nil
}

func (m *mockSession) Delete(ctx context.Context, resource string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.deleteErr != nil {
		return 0, m.deleteErr
	}

	var kept []LockRecord
	var n int64
	for _, r := range m.records {
		if r.Resource == resource {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept

	return n, nil
}

func (m *mockSession) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closes++
	return nil
}

func (m *mockSession) recordCount(resource string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for _, r := range m.records {
		if r.Resource == resource {
			n++
		}
	}
	return n
}

package sqllock

import (
	"context"
	"log"
	"time"

	"github.com/usarskyy/sqlock/clock"
	"github.com/usarskyy/sqlock/metrics"
)

// Acquire claims the lock for resource, polling the store until it wins,
// the timeout elapses, or ctx is cancelled. The timeout is fixed at call
// start and doubles as the lease duration: a record older than it is stale
// and ignored, which is how a crashed holder's lock recovers. Cancellation
// surfaces ctx's error; an exhausted deadline surfaces ErrLockingTimedOut.
func (l *SQLLock) Acquire(ctx context.Context, resource string, timeout time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.state != stateIdle {
		return ErrLockingFailed{message: "lock is not reusable (state " + l.state.String() + ")"}
	}

	l.state = stateAcquiring
	l.resource = resource
	l.timeout = timeout

	// The deadline is computed once and never extended by retries.
	deadline := l.clk.Now().Add(timeout)
	leaseSeconds := int64(timeout / time.Second)

	for {
		// Cancellation wins over the deadline and is checked every pass.
		select {
		case <-ctx.Done():
			l.state = stateFailed
			return ctx.Err()
		default:
		}

		now := l.clk.Now()
		expiredThreshold := clock.Epoch(now) - leaseSeconds

		metrics.AcquireAttempts.Inc()
		won, err := l.s.TryAcquire(ctx, resource, clock.Epoch(now), expiredThreshold)
		if err != nil {
			l.state = stateFailed
			// A cancellation landing mid-attempt surfaces as the context
			// error, not a storage failure.
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return ErrLockingFailed{message: err.Error()}
		}
		if won {
			l.state = stateHeld
			metrics.Acquired.Inc()
			metrics.HeldGauge.Inc()
			log.Printf("[lock %s] acquired %q", l.id, resource)
			return nil
		}

		// A live record belongs to someone else. Wait out the poll interval
		// unless the deadline has already passed.
		if !deadline.After(l.clk.Now()) {
			l.state = stateFailed
			metrics.Timeouts.Inc()
			return ErrLockingTimedOut
		}

		t := time.NewTimer(PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			l.state = stateFailed
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Release deletes the lock record for resource. A record that's already gone
// is not an error; release is best-effort and idempotent. Released and
// failed are terminal: releasing a lock that lost or never finished its
// acquisition is a no-op, since the live record belongs to another holder.
func (l *SQLLock) Release(ctx context.Context, resource string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || l.state == stateReleased || l.state == stateFailed {
		return nil
	}

	return l.release(ctx, resource)
}

// release must be called with l.mu held.
func (l *SQLLock) release(ctx context.Context, resource string) error {
	n, err := l.s.Delete(ctx, resource)
	if err != nil {
		return ErrReleaseFailed{message: err.Error()}
	}

	if n == 0 {
		log.Printf("[lock %s] release %q: no lock record present", l.id, resource)
	} else {
		log.Printf("[lock %s] released %q", l.id, resource)
	}

	if l.state == stateHeld && resource == l.resource {
		l.state = stateReleased
		metrics.Releases.Inc()
		metrics.HeldGauge.Dec()
	}

	return nil
}

// Close tears the lock down exactly once. A held lock is released first; the
// session is closed on every path, including when the release fails — in
// that case the release error is returned and the orphaned record expires
// with its lease. Repeated calls and calls on a lock that never acquired are
// no-ops.
func (l *SQLLock) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	var relErr error
	if l.state == stateHeld {
		relErr = l.release(context.Background(), l.resource)
	}

	if err := l.s.Close(); err != nil && relErr == nil {
		relErr = err
	}

	return relErr
}

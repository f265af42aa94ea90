package store

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Bounds for re-running transactions that failed with a transient store
// error. The interval is deliberately short; these retries must stay well
// inside a single lock polling pass.
const (
	retryInterval    = 25 * time.Millisecond
	maxRetryAttempts = 5
)

// withRetry runs op, re-running it on transient store errors up to
// maxRetryAttempts times. Any other error propagates unchanged after a
// single attempt.
func withRetry(ctx context.Context, op func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(retryInterval), maxRetryAttempts-1),
		ctx,
	)

	return backoff.Retry(func() error {
		err := op()
		if err == nil || IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

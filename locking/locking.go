// Package locking specifies locking primitives for coordinating multiple
// worker processes whose only shared channel is a common store.
package locking

import (
	"context"
	"strings"
	"time"
)

// Lock defines a distributed locking service. The resource name identifies
// what's being protected; how a resource maps to shared state is an
// implementation detail that isn't negotiated through this interface.
// The timeout bounds both how long Acquire waits and how long the resulting
// lease stays valid if the holder crashes without releasing.
type Lock interface {
	Acquire(ctx context.Context, resource string, timeout time.Duration) error
	Release(ctx context.Context, resource string) error
	Close() error
}

// CompareByResource compares two resource names case-insensitively,
// returning -1, 0 or +1 in the manner of strings.Compare. Callers that must
// hold several locks at once can sort their resources with this to establish
// a deterministic global acquisition order, which prevents deadlock between
// independently acquired locks.
func CompareByResource(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

package sqllock

import (
	"errors"
	"fmt"
)

var (
	// ErrLockingTimedOut is returned when a lock couldn't be acquired by the
	// caller's deadline.
	ErrLockingTimedOut = errors.New("attempt to acquire lock timed out")
)

// ErrLockingFailed is a fatal storage failure during acquisition.
type ErrLockingFailed struct {
	message string
}

func (e ErrLockingFailed) Error() string {
	return fmt.Sprintf("attempt to acquire lock failed: %s", e.message)
}

// ErrReleaseFailed is a fatal storage failure while releasing a lock. The
// lock row may linger until its lease expires.
type ErrReleaseFailed struct {
	message string
}

func (e ErrReleaseFailed) Error() string {
	return fmt.Sprintf("attempt to release lock failed: %s", e.message)
}

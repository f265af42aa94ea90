// Package clock supplies wall-clock time convertible to epoch seconds.
// Lease math throughout the module goes through a Clock so that tests can
// drive record staleness deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// New returns the system wall clock.
func New() Clock {
	return wallClock{}
}

type wallClock struct{}

func (wallClock) Now() time.Time {
	return time.Now()
}

// Epoch converts t to whole seconds since the Unix epoch.
func Epoch(t time.Time) int64 {
	return t.Unix()
}

// Mock is a manually advanced clock.
type Mock struct {
	mu sync.Mutex
	t  time.Time
}

// NewMock returns a Mock pinned at start.
func NewMock(start time.Time) *Mock {
	return &Mock{t: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.t
}

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.t = m.t.Add(d)
}

// Set pins the clock at t.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.t = t
}

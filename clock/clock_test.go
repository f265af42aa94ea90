package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEpoch(t *testing.T) {
	ts := time.Unix(1700000000, 500000000)
	assert.Equal(t, int64(1700000000), Epoch(ts), "sub-second precision should truncate")
}

func TestMockAdvance(t *testing.T) {
	start := time.Unix(1700000000, 0)
	m := NewMock(start)

	assert.Equal(t, start, m.Now())

	m.Advance(11 * time.Second)
	assert.Equal(t, int64(1700000011), Epoch(m.Now()))

	m.Set(start)
	assert.Equal(t, start, m.Now())
}

func TestWallClock(t *testing.T) {
	c := New()
	before := time.Now().Add(-time.Second)
	assert.True(t, c.Now().After(before))
}

// Package clock provides the time source used for sync timestamps.
package clock

import (
	"sync"
	"time"
)

// Clock provides an abstraction for time operations to enable deterministic testing.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current system time in UTC. The monotonic reading is
// stripped so values compare equal after a JSON round trip.
func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock implements Clock with a controllable time for testing.
// It is safe for concurrent use.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
}

// NewFakeClock creates a new FakeClock with the given time.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t}
}

// Now returns the fixed time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set updates the fixed time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the fixed time forward by the given duration.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// Package session measures how long the launcher window has been open.
package session

import (
	"sync"
	"time"
)

// TimeSource supplies the current time.
type TimeSource interface {
	Now() time.Time
}

// SystemTime reads the wall clock. time.Now carries a monotonic reading,
// so differences between two values are immune to wall clock changes.
type SystemTime struct{}

// Now returns time.Now().
func (SystemTime) Now() time.Time {
	return time.Now()
}

// Clock tracks the origin of the current session.
// The zero value is not usable; create clocks with NewClock.
type Clock struct {
	mu     sync.Mutex
	source TimeSource
	origin time.Time
	active bool
}

// NewClock creates a stopped clock. A nil source uses SystemTime.
func NewClock(source TimeSource) *Clock {
	if source == nil {
		source = SystemTime{}
	}
	return &Clock{source: source}
}

// Start records the session origin. It does nothing while a session is
// already running; call Reset first to begin a new one.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return
	}
	c.origin = c.source.Now()
	c.active = true
}

// Reset clears the origin.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origin = time.Time{}
	c.active = false
}

// Active reports whether a session is running.
func (c *Clock) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// StartedAt returns the session origin, if any.
func (c *Clock) StartedAt() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.origin, c.active
}

// Elapsed returns the running session length, or zero when stopped.
func (c *Clock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0
	}
	d := c.source.Now().Sub(c.origin)
	if d < 0 {
		return 0
	}
	return d
}

// ElapsedSeconds returns the whole seconds of the running session.
func (c *Clock) ElapsedSeconds() int {
	return int(c.Elapsed() / time.Second)
}

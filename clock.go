package clientauth

import "time"

// ClockProvider is the time source consulted for assertion expiry and clock
// skew checks.
type ClockProvider interface {
	Now() time.Time
}

// NewRealClock returns a ClockProvider backed by the system clock.
func NewRealClock() *RealClock {
	return &RealClock{}
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// NewFixedClock returns a clock pinned to t until Set moves it.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// FixedClock is a settable clock for tests.
type FixedClock struct {
	now time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

// Set moves the clock to now.
func (c *FixedClock) Set(now time.Time) {
	c.now = now
}

var (
	_ ClockProvider = (*RealClock)(nil)
	_ ClockProvider = (*FixedClock)(nil)
)

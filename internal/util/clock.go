package util

import "time"

// Clock supplies "today" to calculations that project calendar targets
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock struct {
	FixedNow time.Time
}

// Now returns the fixed instant
func (c *FixedClock) Now() time.Time {
	return c.FixedNow
}

// SetNow moves the fixed instant
func (c *FixedClock) SetNow(now time.Time) {
	c.FixedNow = now
}

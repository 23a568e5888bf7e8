package clock

import "time"

// Clock provides current time; useful for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC
type RealClock struct{}

// Now returns the current time in UTC
func (RealClock) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant
type Fixed time.Time

// Now returns the fixed instant
func (f Fixed) Now() time.Time { return time.Time(f) }

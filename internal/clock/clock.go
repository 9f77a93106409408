// Package clock provides an abstraction for time operations to improve testability.
// The history store stamps run records through a Clock so tests can pin the
// timestamp and the report cleanup can compare file ages against a fixed now.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.At
}

var (
	_ Clock = RealClock{}
	_ Clock = FixedClock{}
)

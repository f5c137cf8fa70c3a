package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time
}

// Timer is a scheduled deferred trigger that can be cancelled.
// Stop reports whether the call prevented the trigger from firing.
type Timer interface {
	Stop() bool
}

// Scheduler schedules deferred triggers. The engine owns the scheduling
// decisions; the mechanism is injected so tests can fire deadlines manually.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// RealScheduler implements Scheduler using time.AfterFunc
type RealScheduler struct{}

// NewScheduler creates a new RealScheduler
func NewScheduler() *RealScheduler {
	return &RealScheduler{}
}

// AfterFunc runs fn in its own goroutine after d has elapsed
func (s *RealScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

package mocks

import (
	"time"

	"github.com/avelkov/godfather/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing
type MockClock struct {
	CurrentTime time.Time
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// Advance moves the mocked clock forward
func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}

// MockTimer is a captured deferred trigger
type MockTimer struct {
	Duration time.Duration
	Fn       func()
	Stopped  bool
}

// Stop marks the timer cancelled
func (t *MockTimer) Stop() bool {
	was := t.Stopped
	t.Stopped = true
	return !was
}

// Fire runs the callback regardless of Stopped, simulating a trigger
// that was already in flight when Stop was called.
func (t *MockTimer) Fire() {
	t.Fn()
}

// MockScheduler captures scheduled timers so tests can fire deadlines manually
type MockScheduler struct {
	Timers []*MockTimer
}

// Ensure MockScheduler implements Scheduler
var _ clock.Scheduler = (*MockScheduler)(nil)

// NewMockScheduler creates an empty MockScheduler
func NewMockScheduler() *MockScheduler {
	return &MockScheduler{}
}

// AfterFunc captures the callback without scheduling anything
func (s *MockScheduler) AfterFunc(d time.Duration, fn func()) clock.Timer {
	t := &MockTimer{Duration: d, Fn: fn}
	s.Timers = append(s.Timers, t)
	return t
}

// Last returns the most recently scheduled timer, or nil if none
func (s *MockScheduler) Last() *MockTimer {
	if len(s.Timers) == 0 {
		return nil
	}
	return s.Timers[len(s.Timers)-1]
}

// FireLast fires the most recently scheduled timer
func (s *MockScheduler) FireLast() {
	if t := s.Last(); t != nil {
		t.Fire()
	}
}

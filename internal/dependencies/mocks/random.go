package mocks

import (
	"github.com/avelkov/godfather/internal/dependencies/random"
)

// MockRandom is a deterministic Random for testing.
// Queued values are returned in order; when the queues are empty it
// falls back to zeros, empty strings and identity shuffles.
type MockRandom struct {
	ints    []int
	strings []string

	// ShuffleFunc overrides shuffle behavior when set; the default
	// leaves element order unchanged.
	ShuffleFunc func(n int, swap func(i, j int))
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates an empty MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// QueueInt queues a value for the next Intn call
func (r *MockRandom) QueueInt(v int) {
	r.ints = append(r.ints, v)
}

// QueueString queues a value for the next String call
func (r *MockRandom) QueueString(s string) {
	r.strings = append(r.strings, s)
}

// Intn returns the next queued int, or 0
func (r *MockRandom) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if n > 0 {
		v %= n
	}
	return v
}

// String returns the next queued string, or an empty string
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.strings) == 0 {
		return ""
	}
	v := r.strings[0]
	r.strings = r.strings[1:]
	return v
}

// Shuffle applies ShuffleFunc, or leaves order unchanged
func (r *MockRandom) Shuffle(n int, swap func(i, j int)) {
	if r.ShuffleFunc != nil {
		r.ShuffleFunc(n, swap)
	}
}

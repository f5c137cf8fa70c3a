package factory

import (
	"time"

	"github.com/avelkov/godfather/internal/dependencies/mocks"
	"github.com/avelkov/godfather/internal/services/auth"
	"github.com/avelkov/godfather/internal/storage/memory"
	"github.com/avelkov/godfather/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock     *mocks.MockClock
	MockScheduler *mocks.MockScheduler
	MockRandom    *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockScheduler := mocks.NewMockScheduler()
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockScheduler, mockRandom, auth.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:           app,
		MockClock:     mockClock,
		MockScheduler: mockScheduler,
		MockRandom:    mockRandom,
	}
}

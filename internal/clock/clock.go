package clock

import "time"

// SecondsPerDay is the length of an epoch-day.
const SecondsPerDay = 86400

// Clock provides time information to the activity ledger.
// This interface allows time to be mocked in tests.
type Clock interface {
	Now() time.Time
}

// RealClock provides actual system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// TestClock provides a settable time for testing.
type TestClock struct {
	CurrentTime time.Time
}

// Now returns the test time.
func (t *TestClock) Now() time.Time {
	return t.CurrentTime
}

// Advance moves the test clock forward by d.
func (t *TestClock) Advance(d time.Duration) {
	t.CurrentTime = t.CurrentTime.Add(d)
}

// Unix returns a TestClock fixed at the given Unix second.
func Unix(sec int64) *TestClock {
	return &TestClock{CurrentTime: time.Unix(sec, 0)}
}

// EpochDay returns the UTC epoch-day number for a Unix timestamp.
// Day boundaries are not timezone aware.
func EpochDay(unix int64) int64 {
	return unix / SecondsPerDay
}

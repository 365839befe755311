package adapter

import "time"

// Clock defines an interface for time operations to enable mocking
//
//go:generate mockgen -source=clock.go -destination=../mocks/clock.go -package=mocks -mock_names=Clock=MockClock
type Clock interface {
	Now() time.Time
	// NowMillis returns the current time as epoch milliseconds, the unit
	// used for signature timestamps and item modification stamps.
	NowMillis() int64
	Since(t time.Time) time.Duration
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewClock creates a new real clock implementation
func NewClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) NowMillis() int64 {
	return time.Now().UnixMilli()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

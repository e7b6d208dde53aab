// internal/app/system/clock/clock.go

// Package clock abstracts wall-clock access so that time-dependent logic
// (digest throttling, watermark advancement) can run against a fixed or
// stepped clock in tests.
package clock

import "time"

// Clock supplies the current time. All times are UTC.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now().UTC() }

// Fixed always returns the same instant. Useful for deterministic tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// Stepped returns a preset instant and advances it by Step on every call.
// Useful for tests that need strictly increasing timestamps.
type Stepped struct {
	T    time.Time
	Step time.Duration
}

func (s *Stepped) Now() time.Time {
	t := s.T
	s.T = s.T.Add(s.Step)
	return t
}

package clock

import "time"

// Clock abstracts wall time so time-triggered transitions (offer expiry,
// overdue detection) are deterministic under test.
type Clock interface {
	Now() time.Time
	// Today is Now truncated to midnight UTC.
	Today() time.Time
}

type system struct{}

func (system) Now() time.Time { return time.Now().UTC() }
func (s system) Today() time.Time {
	n := s.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// System returns the real wall clock.
func System() Clock { return system{} }

// Fixed returns a clock pinned at t (UTC). For tests.
type Fixed struct{ T time.Time }

func (f Fixed) Now() time.Time { return f.T.UTC() }
func (f Fixed) Today() time.Time {
	n := f.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

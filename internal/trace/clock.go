package trace

import "sync/atomic"

// Clock is a monotonic logical clock. Every recorded event is stamped with
// a seq from Clock.Next(), never with wall time: wall clocks make traces
// unreproducible, and replay depends on byte-identical ordering.
//
// Safe for concurrent use, though a recorder is normally driven by the
// single goroutine that owns its machine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a specific sequence number,
// used when appending to a previously recorded run.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

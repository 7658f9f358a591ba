package engine

import "sync/atomic"

// Clock is the engine's monotonic logical clock.
//
// Two notions of time live here:
//   - seq: a strictly increasing counter stamped on every trace event.
//     Replay produces identical ordering because nothing ever consults
//     wall time.
//   - elapsed: accumulated logical seconds, advanced only by frame events.
//     The watchdog deadline and autoplay intervals are measured against it.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// engine's single-writer design means only the Run goroutine advances it.
type Clock struct {
	seq atomic.Int64
	// elapsed is stored in microseconds to stay atomic-friendly.
	elapsedMicros atomic.Int64
}

// NewClock creates a clock at seq 0, elapsed 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// Advance adds dt logical seconds. Negative deltas are ignored.
func (c *Clock) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	c.elapsedMicros.Add(int64(dt * 1e6))
}

// Elapsed returns the accumulated logical seconds.
func (c *Clock) Elapsed() float64 {
	return float64(c.elapsedMicros.Load()) / 1e6
}

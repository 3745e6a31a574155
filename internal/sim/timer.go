package sim

import "time"

// Timer fires every Interval of simulated time. It only advances when
// told to, so a paused session freezes it.
type Timer struct {
	Interval time.Duration
	elapsed  time.Duration
}

// NewTimer creates a timer with the given interval.
func NewTimer(interval time.Duration) Timer {
	return Timer{Interval: interval}
}

// Advance adds dt and reports whether the timer fired. At most one firing
// is reported per call; a long dt does not produce a burst.
func (t *Timer) Advance(dt time.Duration) bool {
	if t.Interval <= 0 || dt <= 0 {
		return false
	}
	t.elapsed += dt
	if t.elapsed < t.Interval {
		return false
	}
	t.elapsed %= t.Interval
	return true
}

// Reset clears accumulated time.
func (t *Timer) Reset() { t.elapsed = 0 }

// Elapsed returns time accumulated toward the next firing.
func (t *Timer) Elapsed() time.Duration { return t.elapsed }

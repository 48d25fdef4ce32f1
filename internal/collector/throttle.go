package collector

import "time"

// DefaultMinInterval is the minimum spacing between two recorded samples
// on one stream.
const DefaultMinInterval = 10 * time.Millisecond

// throttle gates one stream. lastAt holds the window origin until the
// first sample of the window is admitted, then the instant of the last
// admitted sample. The first sample after a reset is always admitted, so
// its delta is measured from the reset instant rather than gated by it.
type throttle struct {
	minInterval time.Duration
	lastAt      time.Time
	fresh       bool
}

func newThrottle(minInterval time.Duration, origin time.Time) throttle {
	return throttle{minInterval: minInterval, lastAt: origin, fresh: true}
}

// admit decides whether an event at now gets recorded. Admission and the
// lastAt update are one step; a drop leaves no trace.
func (t *throttle) admit(now time.Time) (time.Duration, bool) {
	delta := now.Sub(t.lastAt)
	if delta < 0 {
		delta = 0
	}
	if !t.fresh && delta < t.minInterval {
		return 0, false
	}
	t.fresh = false
	t.lastAt = now
	return delta, true
}

// reset realigns the window, typically at a flush instant.
func (t *throttle) reset(now time.Time) {
	t.lastAt = now
	t.fresh = true
}

package collector

import "time"

// Sample is one recorded interaction: delta milliseconds since the
// previous recorded sample on the stream, then x and y. It marshals to a
// bare three-element JSON array.
type Sample [3]uint16

// sampleMax is the top of the unsigned 16-bit wire range shared by
// deltas and coordinates.
const sampleMax = 65535

// clampCoord forces a pixel coordinate into the wire range. Negative
// values from synthetic or boundary events become 0.
func clampCoord(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > sampleMax {
		return sampleMax
	}
	return uint16(v)
}

// clampDelta caps a recorded delta. Deltas are bounded by the flush
// period in practice, so the cap only matters for stalled clocks.
func clampDelta(d time.Duration) uint16 {
	ms := d.Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > sampleMax {
		return sampleMax
	}
	return uint16(ms)
}

// stream is one append-only sample sequence plus its throttle state.
type stream struct {
	throttle
	samples []Sample
}

// record runs an event through the throttle and appends on admission.
func (s *stream) record(now time.Time, x, y int) bool {
	delta, ok := s.admit(now)
	if !ok {
		return false
	}
	s.samples = append(s.samples, Sample{clampDelta(delta), clampCoord(x), clampCoord(y)})
	return true
}

// swap hands the recorded samples to the caller and realigns the stream
// for the next window.
func (s *stream) swap(now time.Time) []Sample {
	out := s.samples
	s.samples = nil
	s.reset(now)
	return out
}

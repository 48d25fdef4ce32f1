// Package insights computes motion statistics over dispatched packets.
// It powers the webai-tap diagnostics tool; nothing here feeds back into
// the capture path.
package insights

import (
	"math"

	"github.com/LucasStill/webai-collector/internal/dispatch"
)

// Summary aggregates motion statistics across packets. The zero value is
// ready to use; fold packets in with Add.
type Summary struct {
	Packets int
	Coords  int
	Clicks  int
	Scrolls int
	Touches int

	// SpanMs is the pointer time covered, summed from the first to the
	// last pointer sample of each packet.
	SpanMs int64
	// PathPx is the pointer path length in pixels, measured between
	// consecutive samples within a packet. Packets are not stitched
	// together, so the jump between two flush windows never counts.
	PathPx float64
	// Turns counts sharp direction changes (more than 90 degrees).
	Turns int
}

// Summarize computes motion statistics for a batch of packets.
func Summarize(packets ...dispatch.Packet) Summary {
	var s Summary
	for _, p := range packets {
		s.Add(p)
	}
	return s
}

// Add folds one packet into the summary.
func (s *Summary) Add(p dispatch.Packet) {
	s.Packets++
	s.Coords += len(p.Coords)
	s.Clicks += len(p.Clicks)
	s.Scrolls += len(p.Scrolls)
	s.Touches += len(p.Touches)

	var lastDirection float64
	haveDirection := false
	for i := 1; i < len(p.Coords); i++ {
		s.SpanMs += int64(p.Coords[i][0])

		dx := float64(p.Coords[i][1]) - float64(p.Coords[i-1][1])
		dy := float64(p.Coords[i][2]) - float64(p.Coords[i-1][2])
		if dx == 0 && dy == 0 {
			continue
		}
		s.PathPx += math.Sqrt(dx*dx + dy*dy)

		direction := math.Atan2(dy, dx)
		if haveDirection {
			angleDiff := math.Abs(direction - lastDirection)
			if angleDiff > math.Pi {
				angleDiff = 2*math.Pi - angleDiff
			}
			if angleDiff > math.Pi/2 { // 90 degrees
				s.Turns++
			}
		}
		lastDirection = direction
		haveDirection = true
	}
}

// Velocity returns the average pointer speed in pixels per second,
// 0 when no pointer time elapsed.
func (s Summary) Velocity() float64 {
	if s.SpanMs == 0 {
		return 0
	}
	return s.PathPx / (float64(s.SpanMs) / 1000.0)
}

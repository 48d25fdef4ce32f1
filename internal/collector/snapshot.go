package collector

import "time"

// PressSpan is one completed touch press: when the finger went down,
// relative to collection start, and how long the press lasted. Spans stay
// local to the host; the wire payload never carries them.
type PressSpan struct {
	PressedAtMs uint32 `json:"pressed_at_ms"`
	DurationMs  uint32 `json:"duration_ms"`
}

// Snapshot is the immutable bundle one flush produces: the drained
// streams plus the geometry and capability readings taken at the flush
// instant. Ownership passes to the dispatcher.
type Snapshot struct {
	Taken    time.Time
	Elapsed  time.Duration
	Page     string
	Geometry Geometry
	HasTouch bool
	HasMouse bool
	Trackpad Trackpad

	Coords  []Sample
	Clicks  []Sample
	Scrolls []Sample
	Touches []Sample
	Presses []PressSpan
}

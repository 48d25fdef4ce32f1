package collector

import "math"

// Geometry mirrors the window and screen readings attached to every
// snapshot. Screen positions can be negative on multi-monitor setups.
type Geometry struct {
	InnerWidth  int
	InnerHeight int
	OuterWidth  int
	OuterHeight int
	XOffset     int
	YOffset     int
	ScreenLeft  int
	ScreenTop   int
	ScreenX     int
	ScreenY     int
}

// Trackpad classifies the scrolling device behind wheel events. The
// state starts unknown and is updated passively as wheel observations
// arrive.
type Trackpad int16

const (
	TrackpadUnknown Trackpad = 0
	TrackpadMouse   Trackpad = 1
	TrackpadFound   Trackpad = 2
)

// Wheel delta modes as reported by DOM WheelEvent.deltaMode.
const (
	DeltaModePixel = 0
	DeltaModeLine  = 1
	DeltaModePage  = 2
)

// wheelTickPixels is the smallest pixel delta a detented mouse wheel
// produces in practice. Finer steps indicate trackpad scrolling.
const wheelTickPixels = 40

// classifyWheel guesses the device behind one wheel event. Line and page
// scrolling comes from detented mouse wheels. Pixel-mode events with a
// horizontal component or fine-grained deltas come from trackpads.
func classifyWheel(deltaX, deltaY float64, deltaMode int) Trackpad {
	if deltaMode != DeltaModePixel {
		return TrackpadMouse
	}
	if deltaX != 0 {
		return TrackpadFound
	}
	if deltaY != math.Trunc(deltaY) {
		return TrackpadFound
	}
	if math.Abs(deltaY) < wheelTickPixels {
		return TrackpadFound
	}
	return TrackpadMouse
}

// merge folds a new observation into the current classification.
// Trackpad evidence is sticky; mouse evidence only settles an unknown
// state, since trackpads can emulate wheel ticks but not the reverse.
func (t Trackpad) merge(observed Trackpad) Trackpad {
	if t == TrackpadFound || observed == TrackpadFound {
		return TrackpadFound
	}
	if t == TrackpadUnknown {
		return observed
	}
	return t
}

package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyWheel(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		mode   int
		want   Trackpad
	}{
		{"line mode is a mouse wheel", 0, 3, DeltaModeLine, TrackpadMouse},
		{"page mode is a mouse wheel", 0, 1, DeltaModePage, TrackpadMouse},
		{"coarse vertical pixels look like a wheel", 0, 120, DeltaModePixel, TrackpadMouse},
		{"negative coarse pixels look like a wheel", 0, -100, DeltaModePixel, TrackpadMouse},
		{"horizontal component means trackpad", 4, 80, DeltaModePixel, TrackpadFound},
		{"fractional delta means trackpad", 0, 2.5, DeltaModePixel, TrackpadFound},
		{"fine delta means trackpad", 0, 8, DeltaModePixel, TrackpadFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyWheel(tt.dx, tt.dy, tt.mode))
		})
	}
}

func TestTrackpadMerge(t *testing.T) {
	assert.Equal(t, TrackpadMouse, TrackpadUnknown.merge(TrackpadMouse))
	assert.Equal(t, TrackpadFound, TrackpadUnknown.merge(TrackpadFound))
	assert.Equal(t, TrackpadMouse, TrackpadMouse.merge(TrackpadMouse))
	assert.Equal(t, TrackpadFound, TrackpadMouse.merge(TrackpadFound))

	// Trackpad evidence never downgrades.
	assert.Equal(t, TrackpadFound, TrackpadFound.merge(TrackpadMouse))
	assert.Equal(t, TrackpadFound, TrackpadFound.merge(TrackpadUnknown))
}

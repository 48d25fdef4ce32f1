package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/dispatch"
)

func TestSummarizeCountsStreams(t *testing.T) {
	p := dispatch.Packet{
		Coords:  []collector.Sample{{5, 0, 0}, {10, 3, 4}},
		Clicks:  []collector.Sample{{12, 100, 200}},
		Scrolls: []collector.Sample{{700, 0, 40}, {20, 0, 80}, {30, 0, 120}},
		Touches: []collector.Sample{},
	}

	s := Summarize(p)

	assert.Equal(t, 1, s.Packets)
	assert.Equal(t, 2, s.Coords)
	assert.Equal(t, 1, s.Clicks)
	assert.Equal(t, 3, s.Scrolls)
	assert.Equal(t, 0, s.Touches)
}

func TestSummarizePathAndVelocity(t *testing.T) {
	// Two 3-4-5 legs, 100ms apart each: 100px over 200ms.
	p := dispatch.Packet{
		Coords: []collector.Sample{
			{5, 0, 0},
			{100, 30, 40},
			{100, 60, 80},
		},
	}

	s := Summarize(p)

	assert.InDelta(t, 100.0, s.PathPx, 1e-9)
	assert.Equal(t, int64(200), s.SpanMs)
	assert.InDelta(t, 500.0, s.Velocity(), 1e-9)
	assert.Equal(t, 0, s.Turns)
}

func TestSummarizeCountsTurns(t *testing.T) {
	tests := []struct {
		name   string
		coords []collector.Sample
		turns  int
	}{
		{
			name:   "straight line",
			coords: []collector.Sample{{5, 0, 0}, {10, 10, 0}, {10, 20, 0}},
			turns:  0,
		},
		{
			name:   "gentle curve",
			coords: []collector.Sample{{5, 0, 0}, {10, 10, 0}, {10, 20, 5}},
			turns:  0,
		},
		{
			name:   "full reversal",
			coords: []collector.Sample{{5, 0, 0}, {10, 10, 0}, {10, 0, 0}},
			turns:  1,
		},
		{
			name:   "zigzag",
			coords: []collector.Sample{{5, 0, 0}, {10, 10, 0}, {10, 0, 0}, {10, 10, 0}, {10, 0, 0}},
			turns:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(dispatch.Packet{Coords: tt.coords})
			assert.Equal(t, tt.turns, s.Turns)
		})
	}
}

func TestSummarizeSkipsStationarySamples(t *testing.T) {
	// The pointer rests mid-packet; the pause adds time but no path, and
	// direction memory survives it.
	p := dispatch.Packet{
		Coords: []collector.Sample{
			{5, 0, 0},
			{10, 10, 0},
			{300, 10, 0},
			{10, 0, 0},
		},
	}

	s := Summarize(p)

	assert.InDelta(t, 20.0, s.PathPx, 1e-9)
	assert.Equal(t, int64(320), s.SpanMs)
	assert.Equal(t, 1, s.Turns)
}

func TestSummarizeDoesNotStitchPackets(t *testing.T) {
	first := dispatch.Packet{
		Coords: []collector.Sample{{5, 0, 0}, {10, 10, 0}},
		Clicks: []collector.Sample{{10, 1, 1}},
	}
	second := dispatch.Packet{
		Coords: []collector.Sample{{5, 500, 500}, {10, 510, 500}},
	}

	s := Summarize(first, second)

	assert.Equal(t, 2, s.Packets)
	assert.Equal(t, 4, s.Coords)
	assert.Equal(t, 1, s.Clicks)
	// 10px inside each packet; the jump between flush windows is not a move.
	assert.InDelta(t, 20.0, s.PathPx, 1e-9)
	assert.Equal(t, int64(20), s.SpanMs)
}

func TestAddAccumulates(t *testing.T) {
	var s Summary
	s.Add(dispatch.Packet{Clicks: []collector.Sample{{1, 2, 3}}})
	s.Add(dispatch.Packet{Clicks: []collector.Sample{{4, 5, 6}}, Touches: []collector.Sample{{7, 8, 9}}})

	assert.Equal(t, 2, s.Packets)
	assert.Equal(t, 2, s.Clicks)
	assert.Equal(t, 1, s.Touches)
}

func TestVelocityZeroWithoutPointerTime(t *testing.T) {
	assert.Zero(t, Summary{}.Velocity())

	s := Summarize(dispatch.Packet{Coords: []collector.Sample{{5, 3, 4}}})
	assert.Zero(t, s.Velocity())
	assert.Equal(t, 1, s.Coords)
}

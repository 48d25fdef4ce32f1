package dispatch

import (
	"math"
	"time"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/identity"
)

// maxPacketBytes is the ingestion server's cap on request body size.
const maxPacketBytes = 5000

// Packet is the wire form of one snapshot posted to /send_packets.
// coords, clicks, scrolls and touches are arrays of [delta_ms, x, y];
// time is elapsed milliseconds since collection start.
type Packet struct {
	SessionUUID string             `json:"session_uuid"`
	Time        int32              `json:"time"`
	InnerWidth  int16              `json:"inner_width"`
	InnerHeight int16              `json:"inner_height"`
	OuterWidth  int16              `json:"outer_width"`
	OuterHeight int16              `json:"outer_height"`
	XOffset     int16              `json:"x_offset"`
	YOffset     int16              `json:"y_offset"`
	ScreenLeft  int16              `json:"screen_left"`
	ScreenTop   int16              `json:"screen_top"`
	ScreenX     int16              `json:"screen_x"`
	ScreenY     int16              `json:"screen_y"`
	HasTouch    bool               `json:"has_touch"`
	HasMouse    bool               `json:"has_mouse"`
	Trackpad    int16              `json:"trackpad"`
	Coords      []collector.Sample `json:"coords"`
	Clicks      []collector.Sample `json:"clicks"`
	Scrolls     []collector.Sample `json:"scrolls"`
	Touches     []collector.Sample `json:"touches"`
	Src         string             `json:"src"`
}

// BuildPacket flattens a snapshot and the session identity into the wire
// form. Press spans stay local and never cross the wire.
func BuildPacket(snap collector.Snapshot, id identity.Identity) Packet {
	return Packet{
		SessionUUID: id.SessionUUID,
		Time:        elapsedMs(snap.Elapsed),
		InnerWidth:  clampDim(snap.Geometry.InnerWidth),
		InnerHeight: clampDim(snap.Geometry.InnerHeight),
		OuterWidth:  clampDim(snap.Geometry.OuterWidth),
		OuterHeight: clampDim(snap.Geometry.OuterHeight),
		XOffset:     clampDim(snap.Geometry.XOffset),
		YOffset:     clampDim(snap.Geometry.YOffset),
		ScreenLeft:  clampDim(snap.Geometry.ScreenLeft),
		ScreenTop:   clampDim(snap.Geometry.ScreenTop),
		ScreenX:     clampDim(snap.Geometry.ScreenX),
		ScreenY:     clampDim(snap.Geometry.ScreenY),
		HasTouch:    snap.HasTouch,
		HasMouse:    snap.HasMouse,
		Trackpad:    int16(snap.Trackpad),
		Coords:      orEmpty(snap.Coords),
		Clicks:      orEmpty(snap.Clicks),
		Scrolls:     orEmpty(snap.Scrolls),
		Touches:     orEmpty(snap.Touches),
		Src:         snap.Page,
	}
}

// clampDim forces a geometry reading into the signed 16-bit wire range.
// Multi-monitor screen positions keep their sign.
func clampDim(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

func elapsedMs(d time.Duration) int32 {
	ms := d.Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(ms)
}

// orEmpty keeps drained streams encoded as JSON arrays, never null.
func orEmpty(samples []collector.Sample) []collector.Sample {
	if samples == nil {
		return []collector.Sample{}
	}
	return samples
}

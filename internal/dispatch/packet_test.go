package dispatch

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/identity"
)

func TestBuildPacketCarriesSnapshot(t *testing.T) {
	snap := collector.Snapshot{
		Elapsed: 2500 * time.Millisecond,
		Page:    "https://shop.example.com/checkout",
		Geometry: collector.Geometry{
			InnerWidth:  1280,
			InnerHeight: 720,
			ScreenLeft:  -1920,
		},
		HasTouch: true,
		HasMouse: true,
		Trackpad: collector.TrackpadFound,
		Coords:   []collector.Sample{{5, 10, 20}, {12, 30, 40}},
		Clicks:   []collector.Sample{{50, 100, 200}},
	}
	id := identity.Identity{DeviceUUID: "dev-1", SessionUUID: "sess-1"}

	packet := BuildPacket(snap, id)

	assert.Equal(t, "sess-1", packet.SessionUUID)
	assert.Equal(t, int32(2500), packet.Time)
	assert.Equal(t, int16(1280), packet.InnerWidth)
	assert.Equal(t, int16(720), packet.InnerHeight)
	assert.Equal(t, int16(-1920), packet.ScreenLeft)
	assert.True(t, packet.HasTouch)
	assert.True(t, packet.HasMouse)
	assert.Equal(t, int16(2), packet.Trackpad)
	assert.Equal(t, []collector.Sample{{5, 10, 20}, {12, 30, 40}}, packet.Coords)
	assert.Equal(t, []collector.Sample{{50, 100, 200}}, packet.Clicks)
	assert.Equal(t, "https://shop.example.com/checkout", packet.Src)
}

func TestBuildPacketClampsOutOfRangeValues(t *testing.T) {
	snap := collector.Snapshot{
		Elapsed: time.Duration(math.MaxInt64),
		Geometry: collector.Geometry{
			InnerWidth: 100000,
			ScreenLeft: -100000,
		},
	}

	packet := BuildPacket(snap, identity.Identity{})

	assert.Equal(t, int32(math.MaxInt32), packet.Time)
	assert.Equal(t, int16(math.MaxInt16), packet.InnerWidth)
	assert.Equal(t, int16(math.MinInt16), packet.ScreenLeft)
}

func TestPacketEncodesDrainedStreamsAsEmptyArrays(t *testing.T) {
	packet := BuildPacket(collector.Snapshot{}, identity.Identity{SessionUUID: "s"})

	body, err := json.Marshal(packet)
	require.NoError(t, err)

	assert.Contains(t, string(body), `"coords":[]`)
	assert.Contains(t, string(body), `"clicks":[]`)
	assert.Contains(t, string(body), `"scrolls":[]`)
	assert.Contains(t, string(body), `"touches":[]`)
	assert.NotContains(t, string(body), "null")
}

func TestPacketWireFieldNames(t *testing.T) {
	snap := collector.Snapshot{
		Geometry: collector.Geometry{XOffset: 3, YOffset: 4, ScreenX: 5, ScreenY: 6},
		Scrolls:  []collector.Sample{{1, 2, 3}},
	}

	body, err := json.Marshal(BuildPacket(snap, identity.Identity{SessionUUID: "s"}))
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &fields))

	for _, name := range []string{
		"session_uuid", "time",
		"inner_width", "inner_height", "outer_width", "outer_height",
		"x_offset", "y_offset", "screen_left", "screen_top", "screen_x", "screen_y",
		"has_touch", "has_mouse", "trackpad",
		"coords", "clicks", "scrolls", "touches", "src",
	} {
		assert.Contains(t, fields, name)
	}
	assert.Equal(t, `[[1,2,3]]`, string(fields["scrolls"]))
}

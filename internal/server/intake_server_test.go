package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/config"
	"github.com/LucasStill/webai-collector/internal/handler"
	"github.com/LucasStill/webai-collector/internal/validation"
)

type captureDispatcher struct {
	mu    sync.Mutex
	snaps []collector.Snapshot
}

func (d *captureDispatcher) Dispatch(snap collector.Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.snaps = append(d.snaps, snap)
}

func (d *captureDispatcher) last() collector.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snaps[len(d.snaps)-1]
}

func newTestServer(t *testing.T) (*httptest.Server, *collector.Collector, *captureDispatcher) {
	t.Helper()

	disp := &captureDispatcher{}
	coll := collector.New(collector.Config{
		Page:          "https://shop.example.com/checkout",
		FlushInterval: time.Hour,
	}, disp)

	h := handler.NewHTTPHandler(coll, validation.NewValidator())
	s := NewIntakeServer(config.IntakeConfig{Addr: ":0"}, h)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, coll, disp
}

func TestIntakeFeedsCollector(t *testing.T) {
	ts, coll, disp := newTestServer(t)

	body := `{"events":[{"kind":"click","x":100,"y":200}]}`
	resp, err := http.Post(ts.URL+"/events", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	coll.Flush()
	require.Len(t, disp.snaps, 1)
	snap := disp.last()
	require.Len(t, snap.Clicks, 1)
	assert.Equal(t, uint16(100), snap.Clicks[0][1])
	assert.Equal(t, uint16(200), snap.Clicks[0][2])
}

func TestIntakeHealthz(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

func TestIntakeMetricsEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "webai_")
}

func TestIntakeCORSPreflight(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

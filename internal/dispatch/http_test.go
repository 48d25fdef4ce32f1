package dispatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/identity"
)

func testSnapshot() collector.Snapshot {
	return collector.Snapshot{
		Elapsed: time.Second,
		Page:    "https://shop.example.com/checkout",
		Clicks:  []collector.Sample{{50, 100, 200}},
	}
}

func TestSendPostsPacket(t *testing.T) {
	var got Packet
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send_packets", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := NewHTTP(server.URL, time.Second, identity.Identity{SessionUUID: "sess-1"})
	require.NoError(t, h.Send(testSnapshot()))

	assert.Equal(t, "sess-1", got.SessionUUID)
	assert.Equal(t, int32(1000), got.Time)
	assert.Equal(t, []collector.Sample{{50, 100, 200}}, got.Clicks)
	assert.Equal(t, "https://shop.example.com/checkout", got.Src)
}

func TestSendReportsRejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := NewHTTP(server.URL, time.Second, identity.Identity{SessionUUID: "sess-1"})
	err := h.Send(testSnapshot())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSendReportsTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	h := NewHTTP(server.URL, time.Second, identity.Identity{SessionUUID: "sess-1"})
	err := h.Send(testSnapshot())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to post packet")
}

func TestDispatchDoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	delivered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		close(delivered)
	}))
	defer server.Close()

	h := NewHTTP(server.URL, 5*time.Second, identity.Identity{SessionUUID: "sess-1"})

	done := make(chan struct{})
	go func() {
		h.Dispatch(testSnapshot())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on the in-flight request")
	}

	close(release)
	select {
	case <-delivered:
	case <-time.After(time.Second):
		t.Fatal("packet never reached the server")
	}
}

func TestNewHTTPNormalizesBaseURL(t *testing.T) {
	h := NewHTTP("http://localhost:7878/", 0, identity.Identity{})
	assert.Equal(t, "http://localhost:7878/send_packets", h.url)
}

package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/identity"
	"github.com/LucasStill/webai-collector/internal/metrics"
)

// HTTP posts packets to the ingestion endpoint. Delivery is fire and
// forget: Dispatch returns immediately and failed sends are only logged,
// never retried.
type HTTP struct {
	client *http.Client
	url    string
	id     identity.Identity
}

// NewHTTP builds a dispatcher for baseURL's /send_packets route. A zero
// timeout leaves the client without a deadline.
func NewHTTP(baseURL string, timeout time.Duration, id identity.Identity) *HTTP {
	return &HTTP{
		client: &http.Client{Timeout: timeout},
		url:    strings.TrimRight(baseURL, "/") + "/send_packets",
		id:     id,
	}
}

// Dispatch hands the snapshot off to a background send.
func (h *HTTP) Dispatch(snap collector.Snapshot) {
	go func() {
		if err := h.Send(snap); err != nil {
			metrics.DispatchTotal.WithLabelValues("error").Inc()
			log.Error().Err(err).Msg("Failed to deliver packet")
			return
		}
		metrics.DispatchTotal.WithLabelValues("ok").Inc()
	}()
}

// Send posts one packet synchronously and reports delivery errors.
func (h *HTTP) Send(snap collector.Snapshot) error {
	packet := BuildPacket(snap, h.id)

	body, err := json.Marshal(packet)
	if err != nil {
		return fmt.Errorf("failed to encode packet: %w", err)
	}

	metrics.PacketBytes.Observe(float64(len(body)))
	if len(body) > maxPacketBytes {
		log.Warn().
			Int("bytes", len(body)).
			Int("limit", maxPacketBytes).
			Msg("Packet exceeds ingestion size limit")
	}

	resp, err := h.client.Post(h.url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to post packet: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("packet rejected with status %d", resp.StatusCode)
	}

	log.Info().
		Int("coords", len(packet.Coords)).
		Int("clicks", len(packet.Clicks)).
		Int("scrolls", len(packet.Scrolls)).
		Int("touches", len(packet.Touches)).
		Int("bytes", len(body)).
		Msg("Packet acknowledged")
	return nil
}

var _ collector.Dispatcher = (*HTTP)(nil)

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Capture metrics, labelled by stream name (coords, clicks, scrolls,
	// touches, presses).
	SamplesRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webai_samples_recorded_total",
		Help: "Samples admitted into a stream buffer",
	}, []string{"stream"})
	SamplesThrottledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webai_samples_throttled_total",
		Help: "Raw events dropped by the per-stream throttle",
	}, []string{"stream"})
	KeyPressesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webai_key_presses_total",
		Help: "Key press events observed (not persisted or transmitted)",
	})

	// Flush cycle metrics.
	FlushesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webai_flushes_total",
		Help: "Flush cycle firings that produced a snapshot",
	})
	FlushesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webai_flushes_skipped_total",
		Help: "Flush cycle firings skipped because pointer, click and scroll buffers were all empty",
	})

	// Dispatch metrics, labelled by outcome (ok, error).
	DispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webai_dispatch_total",
		Help: "Packet dispatch attempts by outcome",
	}, []string{"outcome"})
	PacketBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "webai_packet_bytes",
		Help:    "Serialized packet size in bytes",
		Buckets: prometheus.ExponentialBuckets(64, 2, 10),
	})

	// Readout gauges carry the latest raw value seen per stream and axis.
	Readout = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "webai_readout",
		Help: "Latest raw coordinate observed per stream",
	}, []string{"stream", "axis"})

	registerOnce sync.Once
)

// Register installs all collectors on the default registry. Safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SamplesRecordedTotal,
			SamplesThrottledTotal,
			KeyPressesTotal,
			FlushesTotal,
			FlushesSkippedTotal,
			DispatchTotal,
			PacketBytes,
			Readout,
		)
	})
}

// Handler exposes the default registry for the intake mux.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// ShowReadout records the latest raw value for a stream. Best effort: an
// absent scraper just means nobody is looking.
func ShowReadout(stream string, x, y int) {
	Readout.WithLabelValues(stream, "x").Set(float64(x))
	Readout.WithLabelValues(stream, "y").Set(float64(y))
}

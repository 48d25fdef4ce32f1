package collector

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/metrics"
)

// DefaultFlushInterval is the snapshot period.
const DefaultFlushInterval = time.Second

// Dispatcher receives ownership of each snapshot the flush cycle
// produces. Dispatch must return promptly; delivery runs in the
// background and its outcome never flows back to capture.
type Dispatcher interface {
	Dispatch(snap Snapshot)
}

type Config struct {
	// MinInterval is the per-stream sampling gate. Zero means 10ms.
	MinInterval time.Duration
	// FlushInterval is the snapshot period. Zero means 1s.
	FlushInterval time.Duration
	// Page is the URL reported in every packet.
	Page string
	// Clock overrides time.Now.
	Clock Clock
	// Disabled builds an inert collector: capture methods drop
	// everything and the flush cycle never arms. Used on local page
	// origins.
	Disabled bool
}

// Collector owns all mutable capture state: the four positional streams,
// the press span ledger, geometry and capability readings, and the flush
// cycle that drains them.
type Collector struct {
	mu sync.Mutex

	clock Clock
	start time.Time
	page  string

	coords  stream
	clicks  stream
	scrolls stream
	touches stream

	presses     []PressSpan
	pressOpen   bool
	pressedAt   time.Time
	lastTouchAt time.Time

	geo      Geometry
	hasTouch bool
	hasMouse bool
	trackpad Trackpad

	dispatcher    Dispatcher
	flushInterval time.Duration
	disabled      bool

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// New builds a collector. The flush cycle stays unarmed until Start so
// registration can finish first.
func New(cfg Config, d Dispatcher) *Collector {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultMinInterval
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	now := clock()
	return &Collector{
		clock:         clock,
		start:         now,
		page:          cfg.Page,
		coords:        stream{throttle: newThrottle(cfg.MinInterval, now)},
		clicks:        stream{throttle: newThrottle(cfg.MinInterval, now)},
		scrolls:       stream{throttle: newThrottle(cfg.MinInterval, now)},
		touches:       stream{throttle: newThrottle(cfg.MinInterval, now)},
		dispatcher:    d,
		flushInterval: cfg.FlushInterval,
		disabled:      cfg.Disabled,
		done:          make(chan struct{}),
	}
}

// Start arms the flush cycle. A disabled collector never arms.
func (c *Collector) Start() {
	if c.disabled || c.ticker != nil {
		return
	}
	c.ticker = time.NewTicker(c.flushInterval)
	go c.flushLoop()
}

func (c *Collector) flushLoop() {
	for {
		select {
		case <-c.done:
			return
		case <-c.ticker.C:
			c.Flush()
		}
	}
}

// Stop halts the flush cycle and drains the buffers one last time.
// Calls after the first are no-ops.
func (c *Collector) Stop() {
	if c.ticker == nil {
		return
	}
	c.stopOnce.Do(func() {
		c.ticker.Stop()
		close(c.done)
		c.Flush() // Final flush
	})
}

// PointerMove records a throttled pointer position sample.
func (c *Collector) PointerMove(x, y int) {
	if c.disabled {
		return
	}
	now := c.clock()
	c.mu.Lock()
	recorded := c.coords.record(now, x, y)
	c.mu.Unlock()

	c.count("coords", recorded)
	metrics.ShowReadout("coords", x, y)
}

// Click records a throttled click position sample.
func (c *Collector) Click(x, y int) {
	if c.disabled {
		return
	}
	now := c.clock()
	c.mu.Lock()
	recorded := c.clicks.record(now, x, y)
	c.mu.Unlock()

	c.count("clicks", recorded)
	metrics.ShowReadout("clicks", x, y)
}

// Scroll records a throttled scroll offset sample.
func (c *Collector) Scroll(xOffset, yOffset int) {
	if c.disabled {
		return
	}
	now := c.clock()
	c.mu.Lock()
	recorded := c.scrolls.record(now, xOffset, yOffset)
	c.mu.Unlock()

	c.count("scrolls", recorded)
	metrics.ShowReadout("scrolls", xOffset, yOffset)
}

// TouchMove records a throttled touch position sample and remembers the
// raw instant for press span measurement.
func (c *Collector) TouchMove(x, y int) {
	if c.disabled {
		return
	}
	now := c.clock()
	c.mu.Lock()
	c.lastTouchAt = now
	recorded := c.touches.record(now, x, y)
	c.mu.Unlock()

	c.count("touches", recorded)
	metrics.ShowReadout("touches", x, y)
}

// TouchStart opens a press span. Discrete transitions bypass the
// throttle. An already open span is closed first.
func (c *Collector) TouchStart() {
	if c.disabled {
		return
	}
	now := c.clock()
	c.mu.Lock()
	if c.pressOpen {
		c.closePressLocked(now)
	}
	c.pressOpen = true
	c.pressedAt = now
	c.lastTouchAt = now
	c.mu.Unlock()

	metrics.SamplesRecordedTotal.WithLabelValues("presses").Inc()
}

// TouchEnd closes the open press span. A release without a press is
// ignored.
func (c *Collector) TouchEnd() {
	if c.disabled {
		return
	}
	now := c.clock()
	c.mu.Lock()
	if c.pressOpen {
		c.closePressLocked(now)
	}
	c.mu.Unlock()
}

// closePressLocked seals the open span. The duration runs from the last
// touch move, or from the press itself when no move happened.
func (c *Collector) closePressLocked(now time.Time) {
	since := c.lastTouchAt
	if since.Before(c.pressedAt) {
		since = c.pressedAt
	}
	held := now.Sub(since)
	if held < 0 {
		held = 0
	}
	c.presses = append(c.presses, PressSpan{
		PressedAtMs: c.elapsedMsLocked(c.pressedAt),
		DurationMs:  uint32(held.Milliseconds()),
	})
	c.pressOpen = false
}

// KeyPress counts a key press. Which key was pressed never enters the
// collector, only that one happened.
func (c *Collector) KeyPress() {
	if c.disabled {
		return
	}
	metrics.KeyPressesTotal.Inc()
}

// Wheel folds one wheel observation into the trackpad classification.
func (c *Collector) Wheel(deltaX, deltaY float64, deltaMode int) {
	if c.disabled {
		return
	}
	observed := classifyWheel(deltaX, deltaY, deltaMode)
	c.mu.Lock()
	c.trackpad = c.trackpad.merge(observed)
	c.mu.Unlock()
}

// SetGeometry replaces the viewport and screen readings attached to the
// next snapshot.
func (c *Collector) SetGeometry(g Geometry) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	c.geo = g
	c.mu.Unlock()
}

// SetCapabilities records the input capabilities of the host.
func (c *Collector) SetCapabilities(hasTouch, hasMouse bool) {
	if c.disabled {
		return
	}
	c.mu.Lock()
	c.hasTouch = hasTouch
	c.hasMouse = hasMouse
	c.mu.Unlock()
}

// SetPage updates the page URL reported in packets, e.g. after an
// in-page navigation.
func (c *Collector) SetPage(url string) {
	if c.disabled || url == "" {
		return
	}
	c.mu.Lock()
	c.page = url
	c.mu.Unlock()
}

// Flush drains all streams into a snapshot and hands it to the
// dispatcher. Throttle windows realign at the flush instant. A snapshot
// with no pointer, click or scroll samples is dropped without a send;
// touch activity alone does not warrant one. An open press span is
// throttle-like state, not buffer content, and survives the flush.
func (c *Collector) Flush() {
	if c.disabled {
		return
	}
	now := c.clock()

	c.mu.Lock()
	snap := Snapshot{
		Taken:    now,
		Elapsed:  now.Sub(c.start),
		Page:     c.page,
		Geometry: c.geo,
		HasTouch: c.hasTouch,
		HasMouse: c.hasMouse,
		Trackpad: c.trackpad,
		Coords:   c.coords.swap(now),
		Clicks:   c.clicks.swap(now),
		Scrolls:  c.scrolls.swap(now),
		Touches:  c.touches.swap(now),
		Presses:  c.presses,
	}
	c.presses = nil
	c.mu.Unlock()

	if len(snap.Coords) == 0 && len(snap.Clicks) == 0 && len(snap.Scrolls) == 0 {
		metrics.FlushesSkippedTotal.Inc()
		log.Debug().Msg("Flush skipped, no pointer, click or scroll samples")
		return
	}

	metrics.FlushesTotal.Inc()
	log.Debug().
		Int("coords", len(snap.Coords)).
		Int("clicks", len(snap.Clicks)).
		Int("scrolls", len(snap.Scrolls)).
		Int("touches", len(snap.Touches)).
		Int("presses", len(snap.Presses)).
		Msg("Flushed snapshot")

	if c.dispatcher != nil {
		c.dispatcher.Dispatch(snap)
	}
}

func (c *Collector) count(stream string, recorded bool) {
	if recorded {
		metrics.SamplesRecordedTotal.WithLabelValues(stream).Inc()
	} else {
		metrics.SamplesThrottledTotal.WithLabelValues(stream).Inc()
	}
}

func (c *Collector) elapsedMsLocked(at time.Time) uint32 {
	ms := at.Sub(c.start).Milliseconds()
	if ms < 0 {
		return 0
	}
	if ms > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ms)
}

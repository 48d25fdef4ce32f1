package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/LucasStill/webai-collector/internal/collector"
	"github.com/LucasStill/webai-collector/internal/validation"
)

// Sink receives decoded interaction events, usually the collector.
type Sink interface {
	PointerMove(x, y int)
	Click(x, y int)
	Scroll(xOffset, yOffset int)
	TouchMove(x, y int)
	TouchStart()
	TouchEnd()
	KeyPress()
	Wheel(deltaX, deltaY float64, deltaMode int)
	SetGeometry(g collector.Geometry)
	SetCapabilities(hasTouch, hasMouse bool)
	SetPage(url string)
}

type HTTPHandler struct {
	sink      Sink
	validator *validation.Validator
	upgrader  websocket.Upgrader
}

func NewHTTPHandler(sink Sink, v *validation.Validator) *HTTPHandler {
	return &HTTPHandler{
		sink:      sink,
		validator: v,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type EventBatchRequest struct {
	Events []validation.RawEvent `json:"events"`
}

type EventResponse struct {
	Success       bool     `json:"success"`
	AcceptedCount int      `json:"accepted_count"`
	RejectedCount int      `json:"rejected_count"`
	Errors        []string `json:"errors,omitempty"`
}

func (h *HTTPHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	// Read body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// Parse request
	var req EventBatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	accepted := 0
	rejected := 0
	var errors []string

	for _, event := range req.Events {
		if err := h.apply(event); err != nil {
			rejected++
			errors = append(errors, err.Error())
			continue
		}
		accepted++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(EventResponse{
		Success:       rejected == 0,
		AcceptedCount: accepted,
		RejectedCount: rejected,
		Errors:        errors,
	})
}

// apply validates one event and routes it into the sink.
func (h *HTTPHandler) apply(event validation.RawEvent) error {
	if err := h.validator.Validate(event); err != nil {
		return err
	}

	switch event.Kind {
	case validation.KindPointerMove:
		h.sink.PointerMove(event.X, event.Y)
	case validation.KindClick:
		h.sink.Click(event.X, event.Y)
	case validation.KindScroll:
		h.sink.Scroll(event.X, event.Y)
	case validation.KindTouchMove:
		h.sink.TouchMove(event.X, event.Y)
	case validation.KindTouchStart:
		h.sink.TouchStart()
	case validation.KindTouchEnd:
		h.sink.TouchEnd()
	case validation.KindKeyPress:
		h.sink.KeyPress()
	case validation.KindWheel:
		h.sink.Wheel(event.DeltaX, event.DeltaY, event.DeltaMode)
	case validation.KindViewport:
		h.sink.SetGeometry(collector.Geometry{
			InnerWidth:  event.InnerWidth,
			InnerHeight: event.InnerHeight,
			OuterWidth:  event.OuterWidth,
			OuterHeight: event.OuterHeight,
			XOffset:     event.XOffset,
			YOffset:     event.YOffset,
			ScreenLeft:  event.ScreenLeft,
			ScreenTop:   event.ScreenTop,
			ScreenX:     event.ScreenX,
			ScreenY:     event.ScreenY,
		})
		h.sink.SetCapabilities(event.HasTouch, event.HasMouse)
		h.sink.SetPage(event.URL)
	}
	return nil
}

// HandleStream accepts a websocket connection carrying the same JSON
// batches as POST /events, one batch per message.
func (h *HTTPHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade stream connection")
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("Stream connection dropped")
			}
			return
		}

		var req EventBatchRequest
		if err := json.Unmarshal(message, &req); err != nil {
			log.Warn().Err(err).Msg("Ignoring malformed stream message")
			continue
		}
		for _, event := range req.Events {
			if err := h.apply(event); err != nil {
				log.Warn().Err(err).Msg("Rejected stream event")
			}
		}
	}
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

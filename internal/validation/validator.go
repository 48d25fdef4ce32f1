package validation

import (
	"errors"
	"fmt"
)

// Kind names accepted by the intake endpoint.
const (
	KindPointerMove = "pointer_move"
	KindClick       = "click"
	KindScroll      = "scroll"
	KindTouchMove   = "touch_move"
	KindTouchStart  = "touch_start"
	KindTouchEnd    = "touch_end"
	KindKeyPress    = "key_press"
	KindWheel       = "wheel"
	KindViewport    = "viewport"
)

// RawEvent is one interaction as posted by the page script. Only the
// fields matching the kind are read; the rest stay zero. Key presses
// carry no key identity, just the fact that one happened.
type RawEvent struct {
	Kind string `json:"kind"`

	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	DeltaX    float64 `json:"delta_x,omitempty"`
	DeltaY    float64 `json:"delta_y,omitempty"`
	DeltaMode int     `json:"delta_mode,omitempty"`

	URL         string `json:"url,omitempty"`
	InnerWidth  int    `json:"inner_width,omitempty"`
	InnerHeight int    `json:"inner_height,omitempty"`
	OuterWidth  int    `json:"outer_width,omitempty"`
	OuterHeight int    `json:"outer_height,omitempty"`
	XOffset     int    `json:"x_offset,omitempty"`
	YOffset     int    `json:"y_offset,omitempty"`
	ScreenLeft  int    `json:"screen_left,omitempty"`
	ScreenTop   int    `json:"screen_top,omitempty"`
	ScreenX     int    `json:"screen_x,omitempty"`
	ScreenY     int    `json:"screen_y,omitempty"`
	HasTouch    bool   `json:"has_touch,omitempty"`
	HasMouse    bool   `json:"has_mouse,omitempty"`
}

type Validator struct {
	validKinds map[string]bool
}

func NewValidator() *Validator {
	return &Validator{
		validKinds: map[string]bool{
			KindPointerMove: true,
			KindClick:       true,
			KindScroll:      true,
			KindTouchMove:   true,
			KindTouchStart:  true,
			KindTouchEnd:    true,
			KindKeyPress:    true,
			KindWheel:       true,
			KindViewport:    true,
		},
	}
}

func (v *Validator) Validate(event RawEvent) error {
	if event.Kind == "" {
		return errors.New("kind cannot be empty")
	}
	if !v.validKinds[event.Kind] {
		return fmt.Errorf("unknown event kind: %s", event.Kind)
	}
	if event.Kind == KindWheel && (event.DeltaMode < 0 || event.DeltaMode > 2) {
		return fmt.Errorf("invalid wheel delta_mode: %d", event.DeltaMode)
	}
	return nil
}

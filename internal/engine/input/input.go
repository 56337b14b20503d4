// Package input turns SDL2 events into camera gestures and spatial
// picks: drag to rotate or pan, pinch and wheel to zoom, tap to select
// or place a location.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType tags a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventWheel
	EventFingerDown
	EventFingerMove
	EventFingerUp
)

// Event is a processed input event in pixel coordinates (finger events
// carry normalized coordinates; Translate scales them by the window).
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	X, Y   float32
	Button uint8
	Wheel  float32
	Finger int64
}

// Translator polls SDL events and converts them to engine events.
type Translator struct {
	events []Event

	// Window size for scaling normalized touch coordinates.
	winW, winH float32
}

// NewTranslator creates an event translator for a window of the given
// pixel size.
func NewTranslator(winW, winH int) *Translator {
	return &Translator{
		events: make([]Event, 0, 16),
		winW:   float32(winW),
		winH:   float32(winH),
	}
}

// Update polls SDL and fills the event list for this iteration.
// Returns true when the application should quit.
func (t *Translator) Update() bool {
	t.events = t.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			t.events = append(t.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				t.winW = float32(e.Data1)
				t.winH = float32(e.Data2)
				t.events = append(t.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN {
				t.events = append(t.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseMotionEvent:
			t.events = append(t.events, Event{
				Type: EventPointerMove,
				X:    float32(e.X),
				Y:    float32(e.Y),
			})

		case *sdl.MouseButtonEvent:
			typ := EventPointerDown
			if e.Type == sdl.MOUSEBUTTONUP {
				typ = EventPointerUp
			}
			t.events = append(t.events, Event{
				Type:   typ,
				X:      float32(e.X),
				Y:      float32(e.Y),
				Button: e.Button,
			})

		case *sdl.MouseWheelEvent:
			wy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				wy = -wy
			}
			t.events = append(t.events, Event{Type: EventWheel, Wheel: wy})

		case *sdl.TouchFingerEvent:
			var typ EventType
			switch e.Type {
			case sdl.FINGERDOWN:
				typ = EventFingerDown
			case sdl.FINGERUP:
				typ = EventFingerUp
			default:
				typ = EventFingerMove
			}
			t.events = append(t.events, Event{
				Type:   typ,
				Finger: int64(e.FingerID),
				X:      e.X * t.winW,
				Y:      e.Y * t.winH,
			})
		}
	}

	return false
}

// Events returns the events from the last Update.
func (t *Translator) Events() []Event {
	return t.events
}

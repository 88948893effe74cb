package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{}, Event{Type: EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600},
			true,
		},
		{"focus ignored", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{}, false},
		{
			"key down",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_W},
			true,
		},
		{
			"key repeat",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_W, Repeat: true},
			true,
		},
		{
			"key up",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_Q}},
			Event{Type: EventKeyUp, Key: sdl.SCANCODE_Q},
			true,
		},
		{
			"mouse move",
			&sdl.MouseMotionEvent{X: 10, Y: 20},
			Event{Type: EventMouseMove, MouseX: 10, MouseY: 20},
			true,
		},
		{
			"mouse down",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 1, Y: 2},
			Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT, MouseX: 1, MouseY: 2},
			true,
		},
		{
			"mouse up",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_RIGHT},
			Event{Type: EventMouseUp, Button: sdl.BUTTON_RIGHT},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok || got != tt.want {
				t.Errorf("translate = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsKeyPressedIgnoresRepeat(t *testing.T) {
	i := New()
	i.events = append(i.events,
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12, Repeat: true},
		Event{Type: EventKeyUp, Key: sdl.SCANCODE_1},
	)
	if i.IsKeyPressed(sdl.SCANCODE_F12) {
		t.Error("repeat should not count as a press")
	}
	if i.IsKeyPressed(sdl.SCANCODE_1) {
		t.Error("key up should not count as a press")
	}

	i.events = append(i.events, Event{Type: EventKeyDown, Key: sdl.SCANCODE_F12})
	if !i.IsKeyPressed(sdl.SCANCODE_F12) {
		t.Error("expected F12 press")
	}
}

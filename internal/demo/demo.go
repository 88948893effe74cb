// Package demo defines the scenes the viewer can show and switches
// between them.
package demo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/assets"
	"github.com/Faultbox/earthview/internal/config"
	"github.com/Faultbox/earthview/internal/engine/input"
	"github.com/Faultbox/earthview/internal/engine/renderer"
	"github.com/Faultbox/earthview/internal/engine/texture"
	"github.com/Faultbox/earthview/internal/logger"
	"github.com/Faultbox/earthview/internal/telemetry"
)

// Demo is one scene (shapes, earth).
type Demo interface {
	// Name identifies the demo for switching and logs.
	Name() string

	// Enter is called when the demo becomes current. GL resources are
	// created here.
	Enter() error

	// Exit is called when leaving the demo. GL resources are released.
	Exit() error

	// Update is called every frame with the elapsed seconds.
	Update(dt float64) error

	// Render draws the demo.
	Render() error

	// HandleInput processes one input event.
	HandleInput(ev input.Event) error

	// Resize is called when the viewport size changes.
	Resize(width, height int)
}

// Publisher receives lighting telemetry. telemetry.Hub implements it.
type Publisher interface {
	Publish(f telemetry.Frame) bool
}

// Env is what demos share: the GL renderer, asset access and settings.
type Env struct {
	Config    *config.Config
	Renderer  *renderer.Renderer
	Assets    *assets.Manager
	Textures  *texture.Loader
	Telemetry Publisher // nil when telemetry is off
}

// Manager owns the registered demos and switches between them at frame
// boundaries.
type Manager struct {
	demos   map[string]Demo
	order   []string
	current Demo
	next    Demo
	width   int
	height  int
}

// NewManager creates an empty demo manager.
func NewManager() *Manager {
	return &Manager{demos: make(map[string]Demo)}
}

// Register adds a demo. Names must be unique.
func (m *Manager) Register(d Demo) error {
	name := d.Name()
	if _, dup := m.demos[name]; dup {
		return fmt.Errorf("demo %q already registered", name)
	}
	m.demos[name] = d
	m.order = append(m.order, name)
	return nil
}

// Names returns registered demo names in registration order.
func (m *Manager) Names() []string {
	return append([]string(nil), m.order...)
}

// Current returns the current demo, or nil before the first Update.
func (m *Manager) Current() Demo {
	return m.current
}

// Change schedules a switch to the named demo on the next Update.
func (m *Manager) Change(name string) error {
	d, ok := m.demos[name]
	if !ok {
		return fmt.Errorf("unknown demo %q", name)
	}
	if d == m.current {
		m.next = nil
		return nil
	}
	m.next = d
	return nil
}

// Update processes a pending switch and updates the current demo.
func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		if m.current != nil {
			logger.Info("leaving demo", zap.String("demo", m.current.Name()))
			if err := m.current.Exit(); err != nil {
				return fmt.Errorf("exit %s: %w", m.current.Name(), err)
			}
		}
		m.current = m.next
		m.next = nil
		logger.Info("entering demo", zap.String("demo", m.current.Name()))
		if err := m.current.Enter(); err != nil {
			return fmt.Errorf("enter %s: %w", m.current.Name(), err)
		}
		if m.width > 0 && m.height > 0 {
			m.current.Resize(m.width, m.height)
		}
	}

	if m.current != nil {
		return m.current.Update(dt)
	}
	return nil
}

// Render renders the current demo.
func (m *Manager) Render() error {
	if m.current != nil {
		return m.current.Render()
	}
	return nil
}

// HandleInput forwards an event to the current demo.
func (m *Manager) HandleInput(ev input.Event) error {
	if m.current != nil {
		return m.current.HandleInput(ev)
	}
	return nil
}

// Resize records the viewport size and forwards it to the current demo.
// Demos entered later receive it on entry.
func (m *Manager) Resize(width, height int) {
	m.width, m.height = width, height
	if m.current != nil {
		m.current.Resize(width, height)
	}
}

// Close exits the current demo.
func (m *Manager) Close() error {
	m.next = nil
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}

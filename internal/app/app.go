// Package app runs the viewer: window, renderer, input and the demo loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/assets"
	"github.com/Faultbox/earthview/internal/config"
	"github.com/Faultbox/earthview/internal/demo"
	"github.com/Faultbox/earthview/internal/demo/earth"
	"github.com/Faultbox/earthview/internal/demo/shapes"
	"github.com/Faultbox/earthview/internal/engine/clock"
	"github.com/Faultbox/earthview/internal/engine/debug"
	"github.com/Faultbox/earthview/internal/engine/input"
	"github.com/Faultbox/earthview/internal/engine/renderer"
	"github.com/Faultbox/earthview/internal/engine/texture"
	"github.com/Faultbox/earthview/internal/engine/window"
	"github.com/Faultbox/earthview/internal/logger"
	"github.com/Faultbox/earthview/internal/telemetry"
)

const title = "Earthview"

// command is an app-level key action handled before demos see the event.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdShapes
	cmdEarth
	cmdScreenshot
)

var commandKeys = map[sdl.Scancode]command{
	sdl.SCANCODE_ESCAPE: cmdQuit,
	sdl.SCANCODE_1:      cmdShapes,
	sdl.SCANCODE_2:      cmdEarth,
	sdl.SCANCODE_F12:    cmdScreenshot,
}

// commandFor maps a key press to an app command. Repeats are ignored.
func commandFor(ev input.Event) command {
	if ev.Type != input.EventKeyDown || ev.Repeat {
		return cmdNone
	}
	return commandKeys[ev.Key]
}

// frameBudget returns how long to sleep after a frame that took spent,
// given an FPS limit. A limit of zero or less disables the cap.
func frameBudget(limit int, spent time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	target := time.Second / time.Duration(limit)
	if spent >= target {
		return 0
	}
	return target - spent
}

// App is the viewer instance.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	assets   *assets.Manager
	textures *texture.Loader
	hub      *telemetry.Hub
	demos    *demo.Manager
	shots    *debug.ScreenshotCapture
	clock    *clock.Clock
	log      *zap.Logger
}

// New opens the window, creates the renderer and registers the demos.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		demos: demo.NewManager(),
		shots: debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "earthview"),
		log:   logger.Named("app"),
	}
	a.log.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("demo", cfg.Demo.Start),
	)

	a.assets = assets.NewManager()
	for _, root := range cfg.Data.AssetRoots {
		if err := a.assets.AddRoot(root); err != nil {
			// Missing roots are not fatal: textures fall back to white.
			a.log.Warn("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}

	var err error
	// Window before renderer: the GL context must exist first.
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	width, height := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{Width: width, Height: height})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.textures = texture.NewLoader(a.assets)

	env := &demo.Env{
		Config:   cfg,
		Renderer: a.renderer,
		Assets:   a.assets,
		Textures: a.textures,
	}
	if cfg.Telemetry.Addr != "" {
		a.hub = telemetry.NewHub(cfg.Telemetry.Interval)
		if err := a.hub.Start(cfg.Telemetry.Addr); err != nil {
			a.Close()
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		env.Telemetry = a.hub
	}

	for _, d := range []demo.Demo{shapes.New(env), earth.New(env)} {
		if err := a.demos.Register(d); err != nil {
			a.Close()
			return nil, err
		}
	}
	a.demos.Resize(width, height)
	if err := a.demos.Change(cfg.Demo.Start); err != nil {
		a.Close()
		return nil, err
	}

	a.log.Info("initialized", zap.Strings("demos", a.demos.Names()))
	return a, nil
}

// Run drives the frame loop until the window closes or Escape is pressed.
func (a *App) Run() error {
	a.running = true
	a.clock = clock.New()

	frames := 0
	fpsTimer := time.Now()

	a.log.Info("starting frame loop")

	for a.running {
		start := time.Now()
		dt := a.clock.Delta()

		if a.input.Update() {
			a.running = false
			break
		}
		for _, ev := range a.input.Events() {
			if err := a.handle(ev); err != nil {
				return err
			}
		}
		if !a.running {
			break
		}

		if err := a.demos.Update(dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}
		if err := a.demos.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		a.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Float64("dtMs", dt*1000))
			frames = 0
			fpsTimer = time.Now()
		}

		if d := frameBudget(a.cfg.Graphics.FPSLimit, time.Since(start)); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}

func (a *App) handle(ev input.Event) error {
	switch commandFor(ev) {
	case cmdQuit:
		a.running = false
		return nil
	case cmdShapes:
		return a.demos.Change(shapes.Name)
	case cmdEarth:
		return a.demos.Change(earth.Name)
	case cmdScreenshot:
		a.screenshot()
		return nil
	}

	if ev.Type == input.EventWindowResize {
		// Event sizes are in window points; GL needs pixels.
		w, h := a.window.DrawableSize()
		a.renderer.Resize(w, h)
		a.demos.Resize(w, h)
		return nil
	}
	return a.demos.HandleInput(ev)
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases demos, GL resources, the telemetry server and the window.
func (a *App) Close() {
	a.log.Info("closing")

	if err := a.demos.Close(); err != nil {
		a.log.Warn("closing demo", zap.Error(err))
	}
	if a.hub != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.hub.Close(ctx); err != nil {
			a.log.Warn("closing telemetry", zap.Error(err))
		}
		cancel()
	}
	if a.textures != nil {
		a.textures.Release()
	}
	if a.assets != nil {
		a.assets.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/engine/material"
	"github.com/Faultbox/earthview/internal/engine/shader"
	"github.com/Faultbox/earthview/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Camera is what a pass is viewed through.
type Camera interface {
	Position() mgl32.Vec3
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// Drawable is a GL mesh.
type Drawable interface {
	Draw()
}

// Item is one draw call.
type Item struct {
	Mesh     Drawable
	Material *material.Material
	Model    mgl32.Mat4
}

// Renderer owns the GL context state and the shared shader programs.
type Renderer struct {
	config Config

	// AutoClear clears before every Render call. Turn it off to compose
	// several passes into one frame.
	AutoClear  bool
	ClearColor mgl32.Vec4

	programs map[string]*shader.Program
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:     cfg,
		AutoClear:  true,
		ClearColor: mgl32.Vec4{0, 0, 0, 1},
		programs:   make(map[string]*shader.Program),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	for _, stage := range shader.Stages {
		src, err := shader.Load(stage)
		if err != nil {
			r.Close()
			return nil, err
		}
		p, err := shader.NewProgram(stage, src)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("failed to create shader program: %w", err)
		}
		r.programs[stage] = p
	}

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for name, p := range r.programs {
		p.Delete()
		delete(r.programs, name)
	}
}

// Program returns a bundled shader program by stage name.
func (r *Renderer) Program(stage string) (*shader.Program, error) {
	p, ok := r.programs[stage]
	if !ok {
		return nil, fmt.Errorf("no shader program %q", stage)
	}
	return p, nil
}

// Size returns the viewport size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Clear clears colour and depth.
func (r *Renderer) Clear() {
	c := r.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Render draws items as one pass through cam. Opaque items are drawn
// first, then transparent ones in submission order.
func (r *Renderer) Render(cam Camera, items []Item) {
	if r.AutoClear {
		r.Clear()
	}
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	eye := cam.Position()

	for _, it := range items {
		if !it.Material.Transparent {
			r.draw(it, view, proj, eye)
		}
	}
	for _, it := range items {
		if it.Material.Transparent {
			r.draw(it, view, proj, eye)
		}
	}
}

func (r *Renderer) draw(it Item, view, proj mgl32.Mat4, eye mgl32.Vec3) {
	m := it.Material
	m.Bind()
	p := m.Program
	p.UniformMat4("modelMatrix", it.Model)
	p.UniformMat4("viewMatrix", view)
	p.UniformMat4("projectionMatrix", proj)
	p.UniformMat3("normalMatrix", mgl32.Mat4Normal(it.Model))
	p.Uniform3f("cameraPosition", eye)
	it.Mesh.Draw()
}

// ReadPixels returns the current framebuffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() (pixels []byte, width, height int) {
	width, height = r.config.Width, r.config.Height
	pixels = make([]byte, width*height*4)
	if len(pixels) == 0 {
		return pixels, width, height
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, width, height
}

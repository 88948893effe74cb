// Package shapes is the primitives demo: a spinning wireframe box with
// axes, a vertex-coloured triangle and a plane animated as a sine wave.
package shapes

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/demo"
	"github.com/Faultbox/earthview/internal/engine/camera"
	"github.com/Faultbox/earthview/internal/engine/geometry"
	"github.com/Faultbox/earthview/internal/engine/input"
	"github.com/Faultbox/earthview/internal/engine/material"
	"github.com/Faultbox/earthview/internal/engine/mesh"
	"github.com/Faultbox/earthview/internal/engine/renderer"
	"github.com/Faultbox/earthview/internal/engine/scenegraph"
	"github.com/Faultbox/earthview/internal/engine/shader"
	"github.com/Faultbox/earthview/internal/logger"
)

// Name is the demo name used on the command line.
const Name = "shapes"

// Object names.
const (
	BoxName      = "my-box"
	AxesName     = "my-box-axes"
	TriangleName = "my-triangle"
	WaveName     = "my-wave"
)

// Per-frame animation steps.
const (
	BoxSpinPerFrame  = 0.01
	WaveTimePerFrame = 0.1
)

var (
	red   = mgl32.Vec4{1, 0, 0, 1}
	green = mgl32.Vec4{0, 1, 0, 1}
	white = mgl32.Vec4{1, 1, 1, 1}
)

// part is one drawable scene node.
type part struct {
	node    *scenegraph.Node
	geom    *geometry.Geometry
	mat     *material.Material
	dynamic bool
	mesh    *mesh.Mesh
}

// scene is the CPU side of the demo.
type scene struct {
	root     *scenegraph.Node
	box      *scenegraph.Node
	wave     *part
	triangle *part
	parts    []*part
	waveTime float64
}

func newScene(program *shader.Program, singleColor bool) *scene {
	s := &scene{root: scenegraph.New("Scene", scenegraph.KindGroup)}

	boxNode := scenegraph.New(BoxName, scenegraph.KindMesh)
	box := &part{node: boxNode, geom: geometry.Box(20, 20, 20).Wireframe(), mat: basic(BoxName, program, red, false)}
	s.root.Add(boxNode)
	s.box = boxNode

	axesNode := scenegraph.New(AxesName, scenegraph.KindMesh)
	axes := &part{node: axesNode, geom: geometry.Axes(30), mat: basic(AxesName, program, white, true)}
	boxNode.Add(axesNode)

	triNode := scenegraph.New(TriangleName, scenegraph.KindMesh)
	s.triangle = &part{node: triNode, geom: geometry.Triangle(20), mat: basic(TriangleName, program, white, true)}
	s.setSingleColor(singleColor)
	s.root.Add(triNode)

	waveNode := scenegraph.New(WaveName, scenegraph.KindMesh)
	s.wave = &part{node: waveNode, geom: geometry.Plane(40, 40, 40, 40).Wireframe(), mat: basic(WaveName, program, white, false), dynamic: true}
	s.root.Add(waveNode)

	s.parts = []*part{box, axes, s.triangle, s.wave}
	s.root.UpdateMatrixWorld()
	return s
}

func basic(name string, program *shader.Program, color mgl32.Vec4, vertexColors bool) *material.Material {
	m := material.New(name, program)
	m.Uniforms.SetVec4("color", color)
	m.Uniforms.SetFloat("vertexColors", boolFloat(vertexColors))
	return m
}

// setSingleColor switches the triangle between double-sided vertex
// colours and a plain front-sided green.
func (s *scene) setSingleColor(on bool) {
	m := s.triangle.mat
	if on {
		m.Side = material.FrontSide
		m.Uniforms.SetVec4("color", green)
		m.Uniforms.SetFloat("vertexColors", 0)
		return
	}
	m.Side = material.DoubleSide
	m.Uniforms.SetVec4("color", white)
	m.Uniforms.SetFloat("vertexColors", 1)
}

// step advances the animation by one frame.
func (s *scene) step() {
	s.box.Rotation[1] += BoxSpinPerFrame
	s.waveTime += WaveTimePerFrame
	Wave(s.wave.geom, s.waveTime)
	s.root.UpdateMatrixWorld()
}

// Wave displaces every vertex of g to z = sin(x + t).
func Wave(g *geometry.Geometry, t float64) {
	for i, p := range g.Positions {
		g.Positions[i][2] = float32(math.Sin(float64(p[0]) + t))
	}
}

// Shapes is the primitives demo.
type Shapes struct {
	env         *demo.Env
	camera      *camera.Camera
	scene       *scene
	singleColor bool
	log         *zap.Logger
}

// New creates the demo. Nothing touches GL until Enter.
func New(env *demo.Env) *Shapes {
	return &Shapes{env: env, log: logger.Named(Name)}
}

// Name implements demo.Demo.
func (d *Shapes) Name() string { return Name }

// Enter builds the scene and uploads its meshes.
func (d *Shapes) Enter() error {
	program, err := d.env.Renderer.Program(shader.Basic)
	if err != nil {
		return err
	}

	d.camera = camera.New(35, d.env.Renderer.Aspect(), 1, 1000)
	d.camera.Pos = mgl32.Vec3{0, 0, 100}

	d.scene = newScene(program, d.singleColor)
	for _, p := range d.scene.parts {
		p.mesh, err = mesh.New(p.geom, p.dynamic)
		if err != nil {
			d.release()
			return err
		}
	}
	d.env.Renderer.AutoClear = true
	d.log.Info("shapes ready", zap.Int("meshes", len(d.scene.parts)))
	return nil
}

// Exit releases the meshes.
func (d *Shapes) Exit() error {
	d.release()
	d.scene = nil
	return nil
}

func (d *Shapes) release() {
	if d.scene == nil {
		return
	}
	for _, p := range d.scene.parts {
		if p.mesh != nil {
			p.mesh.Delete()
			p.mesh = nil
		}
	}
}

// Update advances the animation one frame. The steps are per frame, not
// per second, so dt is unused.
func (d *Shapes) Update(dt float64) error {
	d.scene.step()
	return d.scene.wave.mesh.Update(d.scene.wave.geom)
}

// Render draws the scene.
func (d *Shapes) Render() error {
	items := make([]renderer.Item, 0, len(d.scene.parts))
	for _, p := range d.scene.parts {
		items = append(items, renderer.Item{Mesh: p.mesh, Material: p.mat, Model: p.node.MatrixWorld})
	}
	d.env.Renderer.Render(d.camera, items)
	return nil
}

// HandleInput toggles the triangle's single-colour mode with C.
func (d *Shapes) HandleInput(ev input.Event) error {
	if ev.Type == input.EventKeyDown && !ev.Repeat && ev.Key == sdl.SCANCODE_C {
		d.singleColor = !d.singleColor
		d.scene.setSingleColor(d.singleColor)
		d.log.Debug("triangle colour mode", zap.Bool("single", d.singleColor))
	}
	return nil
}

// Resize updates the camera aspect.
func (d *Shapes) Resize(width, height int) {
	if d.camera != nil && height > 0 {
		d.camera.SetAspect(float32(width) / float32(height))
	}
}

func boolFloat(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// Package earth is the planet demo: a normal-mapped Earth with clouds and
// an atmosphere shell under a rotating star sky that follows the camera,
// lit by a sun held fixed on that sky.
package earth

import (
	"fmt"

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
	"github.com/Faultbox/earthview/internal/engine/uniform"
	"github.com/Faultbox/earthview/internal/logger"
	"github.com/Faultbox/earthview/internal/telemetry"
)

// Name is the demo name used on the command line.
const Name = "earth"

// Texture paths relative to the asset roots.
const (
	SkyTexture      = "sky/sky_at_night.jpg"
	DayTexture      = "earth/earth_diffuse.jpg"
	NightTexture    = "earth/earth_diffuse_night.jpg"
	NormalTexture   = "earth/earth_normal_map.png"
	SpecularTexture = "earth/earth_specular_map.png"
	CloudsTexture   = "earth/clouds1.jpg"
)

var keyActions = map[sdl.Scancode]camera.Action{
	sdl.SCANCODE_W:      camera.MoveForward,
	sdl.SCANCODE_S:      camera.MoveBack,
	sdl.SCANCODE_A:      camera.MoveLeft,
	sdl.SCANCODE_D:      camera.MoveRight,
	sdl.SCANCODE_R:      camera.MoveUp,
	sdl.SCANCODE_F:      camera.MoveDown,
	sdl.SCANCODE_UP:     camera.PitchUp,
	sdl.SCANCODE_DOWN:   camera.PitchDown,
	sdl.SCANCODE_LEFT:   camera.YawLeft,
	sdl.SCANCODE_RIGHT:  camera.YawRight,
	sdl.SCANCODE_Q:      camera.RollLeft,
	sdl.SCANCODE_E:      camera.RollRight,
	sdl.SCANCODE_LSHIFT: camera.Slow,
	sdl.SCANCODE_RSHIFT: camera.Slow,
}

// drawable is a scene node with its GL mesh and material.
type drawable struct {
	node *scenegraph.Node
	mesh *mesh.Mesh
	mat  *material.Material
}

// Earth is the planet demo.
type Earth struct {
	env   *demo.Env
	world *world
	sky   []drawable
	main  []drawable
	log   *zap.Logger
}

// New creates the demo. Nothing is loaded until Enter.
func New(env *demo.Env) *Earth {
	return &Earth{env: env, log: logger.Named(Name)}
}

// Name implements demo.Demo.
func (d *Earth) Name() string { return Name }

// Enter loads the scene description, builds the rig, loads textures and
// uploads every mesh.
func (d *Earth) Enter() error {
	cfg := d.env.Config
	data, err := d.env.Assets.Load(cfg.Earth.Scene)
	if err != nil {
		return fmt.Errorf("loading scene: %w", err)
	}
	desc, err := scenegraph.ParseDescription(data)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Earth.Scene, err)
	}

	d.world, err = newWorld(desc, cfg, d.env.Renderer.Aspect())
	if err != nil {
		return err
	}
	d.Resize(d.env.Renderer.Size())

	d.loadTextures()

	if err := d.buildDrawables(); err != nil {
		d.release()
		return err
	}

	// Sky and scene share one clear.
	d.env.Renderer.AutoClear = false

	d.log.Info("earth ready",
		zap.Int("skyMeshes", len(d.sky)),
		zap.Int("sceneMeshes", len(d.main)),
		logger.Vec3("lightDirection", d.world.stabilizer.Direction()),
	)
	return nil
}

func (d *Earth) loadTextures() {
	tex := d.env.Textures
	w := d.world
	w.skyUniforms.SetTexture("diffuseTexture", tex.LoadOrWhite(SkyTexture))
	w.earthUniforms.SetTexture("diffuseTexture", tex.LoadOrWhite(DayTexture))
	w.earthUniforms.SetTexture("diffuseNight", tex.LoadOrWhite(NightTexture))
	w.earthUniforms.SetTexture("normalMap", tex.LoadOrWhite(NormalTexture))
	w.earthUniforms.SetTexture("specularMap", tex.LoadOrWhite(SpecularTexture))
	w.earthUniforms.SetTexture("cloudsMap", tex.LoadOrWhite(CloudsTexture))
}

func (d *Earth) buildDrawables() error {
	w := d.world
	var firstErr error
	add := func(list *[]drawable, n *scenegraph.Node) {
		if firstErr != nil || (n.Kind != scenegraph.KindMesh && n.Kind != scenegraph.KindSprite) {
			return
		}
		dr, err := d.drawableFor(n)
		if err != nil {
			firstErr = fmt.Errorf("object %s: %w", n.Name, err)
			return
		}
		*list = append(*list, dr)
	}
	w.sky.Traverse(func(n *scenegraph.Node) { add(&d.sky, n) })
	w.scene.Traverse(func(n *scenegraph.Node) { add(&d.main, n) })
	return firstErr
}

func (d *Earth) drawableFor(n *scenegraph.Node) (drawable, error) {
	w := d.world
	od, _ := w.desc.Object(n.Name)

	var g *geometry.Geometry
	var err error
	if n.Kind == scenegraph.KindSprite {
		g = geometry.Quad()
	} else if g, err = demo.Geometry(od.Geometry); err != nil {
		return drawable{}, err
	}

	var mat *material.Material
	switch n {
	case w.skybox:
		mat, err = d.material(shader.Skybox, w.skyUniforms)
		if err == nil {
			mat.Side = material.BackSide
			mat.DepthTest = false
			mat.DepthWrite = false
		}
	case w.earth:
		if err = g.ComputeTangents(); err != nil {
			return drawable{}, err
		}
		mat, err = d.material(shader.Earth, w.earthUniforms)
	case w.atmosphere:
		mat, err = d.material(shader.Atmosphere, w.atmosphereUniforms)
		if err == nil {
			mat.Transparent = true
			mat.Blending = material.NormalBlending
		}
	default:
		mat, err = d.defaultMaterial(n, od)
	}
	if err != nil {
		return drawable{}, err
	}

	m, err := mesh.New(g, false)
	if err != nil {
		return drawable{}, err
	}
	return drawable{node: n, mesh: m, mat: mat}, nil
}

// material shares block with the world so stabilizer writes reach the
// shader without copying.
func (d *Earth) material(stage string, block *uniform.Block) (*material.Material, error) {
	p, err := d.env.Renderer.Program(stage)
	if err != nil {
		return nil, err
	}
	m := material.New(block.Name(), p)
	m.Uniforms = block
	return m, nil
}

// defaultMaterial covers nodes without a dedicated shader: sprites are
// additive billboards, other meshes plain white.
func (d *Earth) defaultMaterial(n *scenegraph.Node, od scenegraph.ObjectDesc) (*material.Material, error) {
	if n.Kind == scenegraph.KindSprite {
		p, err := d.env.Renderer.Program(shader.Sprite)
		if err != nil {
			return nil, err
		}
		m := material.New(n.Name, p)
		m.Side = material.DoubleSide
		m.DepthWrite = false
		m.Transparent = true
		m.Blending = material.AdditiveBlending
		m.Uniforms.SetVec4("color", mgl32.Vec4{1, 1, 1, 1})
		if od.Texture != "" {
			m.Uniforms.SetTexture("diffuseTexture", d.env.Textures.LoadOrWhite(od.Texture))
		} else {
			m.Uniforms.SetTexture("diffuseTexture", d.env.Textures.White())
		}
		return m, nil
	}

	p, err := d.env.Renderer.Program(shader.Basic)
	if err != nil {
		return nil, err
	}
	m := material.New(n.Name, p)
	m.Uniforms.SetVec4("color", mgl32.Vec4{1, 1, 1, 1})
	m.Uniforms.SetFloat("vertexColors", 0)
	return m, nil
}

// Exit releases meshes and restores auto-clear. Textures stay cached in
// the shared loader.
func (d *Earth) Exit() error {
	d.release()
	d.env.Renderer.AutoClear = true
	d.world = nil
	return nil
}

func (d *Earth) release() {
	for _, list := range [][]drawable{d.sky, d.main} {
		for _, dr := range list {
			dr.mesh.Delete()
		}
	}
	d.sky, d.main = nil, nil
}

// Update advances the camera, sky, sun and planet, then publishes the
// lighting state if telemetry is on.
func (d *Earth) Update(dt float64) error {
	w := d.world
	w.update(dt)

	if d.env.Telemetry != nil {
		s := w.stabilizer
		d.env.Telemetry.Publish(telemetry.NewFrame(w.elapsed, s.Direction(), s.SunPosition(), s.SkyRotation()))
	}
	return nil
}

// Render clears once, then draws the sky pass and the scene pass.
func (d *Earth) Render() error {
	r := d.env.Renderer
	r.Clear()
	r.Render(d.world.camera, items(d.sky))
	r.Render(d.world.camera, items(d.main))
	return nil
}

func items(list []drawable) []renderer.Item {
	out := make([]renderer.Item, 0, len(list))
	for _, dr := range list {
		out = append(out, renderer.Item{Mesh: dr.mesh, Material: dr.mat, Model: dr.node.MatrixWorld})
	}
	return out
}

// HandleInput drives the fly controls.
func (d *Earth) HandleInput(ev input.Event) error {
	c := d.world.controls
	switch ev.Type {
	case input.EventKeyDown, input.EventKeyUp:
		if a, ok := keyActions[ev.Key]; ok {
			c.SetAction(a, ev.Type == input.EventKeyDown)
		}
	case input.EventMouseDown:
		c.MouseDown(int(ev.Button))
	case input.EventMouseUp:
		c.MouseUp(int(ev.Button))
	case input.EventMouseMove:
		c.MouseMove(ev.MouseX, ev.MouseY)
	}
	return nil
}

// Resize updates the camera aspect and the mouse-look viewport.
func (d *Earth) Resize(width, height int) {
	if d.world == nil || height <= 0 {
		return
	}
	d.world.camera.SetAspect(float32(width) / float32(height))
	d.world.controls.SetViewport(width, height)
}

package earth

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/earthview/internal/config"
	"github.com/Faultbox/earthview/internal/engine/camera"
	"github.com/Faultbox/earthview/internal/engine/lighting"
	"github.com/Faultbox/earthview/internal/engine/scenegraph"
	"github.com/Faultbox/earthview/internal/engine/uniform"
)

// Object names the demo binds materials to.
const (
	EarthName      = "Earth"
	AtmosphereName = "Atmosphere"
)

// Uniform names set by the demo besides lightDirection.
const (
	uCameraDirection  = "cameraDirection"
	uEarthCenter      = "earthCenter"
	uEarthRadius      = "earthRadius"
	uAtmosphereRadius = "atmosphereRadius"
)

// world is the CPU side of the demo: the graphs, the camera rig, the
// stabilizer and the uniform blocks it feeds. It never touches GL.
type world struct {
	desc *scenegraph.Description

	scene *scenegraph.Node // everything drawn in the main pass
	sky   *scenegraph.Node // the skybox, drawn first in its own pass

	skybox     *scenegraph.Node
	earth      *scenegraph.Node
	atmosphere *scenegraph.Node

	camera     *camera.Camera
	controls   *camera.FlyControls
	stabilizer *lighting.Stabilizer

	skyUniforms        *uniform.Block
	earthUniforms      *uniform.Block
	atmosphereUniforms *uniform.Block

	spinX, spinY float32
	elapsed      float64
}

func newWorld(desc *scenegraph.Description, cfg *config.Config, aspect float32) (*world, error) {
	w := &world{
		desc:               desc,
		scene:              desc.Build(),
		sky:                scenegraph.New("Sky", scenegraph.KindGroup),
		skyUniforms:        uniform.NewBlock("skybox"),
		earthUniforms:      uniform.NewBlock("earth"),
		atmosphereUniforms: uniform.NewBlock("atmosphere"),
		spinX:              cfg.Earth.SpinRateX,
		spinY:              cfg.Earth.SpinRateY,
	}

	var err error
	if w.skybox, err = w.scene.Lookup(cfg.Sky.SkyboxName); err != nil {
		return nil, err
	}
	if w.earth, err = w.scene.Lookup(EarthName); err != nil {
		return nil, err
	}
	if w.atmosphere, err = w.scene.Lookup(AtmosphereName); err != nil {
		return nil, err
	}

	// The skybox gets its own pass; the atmosphere turns with the planet.
	w.sky.Add(w.skybox)
	if w.atmosphere.Parent() != w.earth {
		w.earth.Add(w.atmosphere)
	}

	cd := desc.Camera
	w.camera = camera.New(cd.FOV, aspect, cd.Near, cd.Far)
	w.camera.Pos = mgl32.Vec3(cd.Position)
	w.camera.SetEuler(cd.Rotation[0], cd.Rotation[1], cd.Rotation[2])
	w.controls = camera.NewFlyControls(w.camera, cfg.Controls.MovementSpeed, cfg.Controls.RollSpeed, cfg.Controls.DragToLook)

	names := lighting.RigNames{
		Light:  cfg.Sky.SunLightName,
		Sun:    cfg.Sky.SunSpriteName,
		Skybox: cfg.Sky.SkyboxName,
	}
	rig, err := lighting.ResolveRig(w.scene, w.sky, names, w.camera)
	if err != nil {
		return nil, err
	}

	// A placed sun is measured from the viewer, where the sky will be
	// centred once the first update runs.
	if cfg.Sky.PlaceSun {
		w.scene.UpdateMatrixWorld()
		sun := lighting.SunPosition(cfg.Sky.SunAzimuth, cfg.Sky.SunElevation, cfg.Sky.SunDistance)
		rig.Sun.SetWorldPosition(w.camera.Position().Add(sun))
	}

	rates := lighting.Rates{X: cfg.Sky.RotationRateX, Y: cfg.Sky.RotationRateY}
	w.stabilizer, err = lighting.NewStabilizer(rig, rates, w.skyUniforms, w.earthUniforms, w.atmosphereUniforms)
	if err != nil {
		return nil, fmt.Errorf("sun rig: %w", err)
	}

	w.atmosphereUniforms.SetFloat(uEarthRadius, cfg.Earth.Radius)
	w.atmosphereUniforms.SetFloat(uAtmosphereRadius, cfg.Earth.AtmosphereRadius)

	// Every uniform has a value before the first draw.
	w.update(0)
	return w, nil
}

// update runs one frame: camera, sky and sun, planet spin, then the
// uniforms that depend on them.
func (w *world) update(dt float64) {
	dt = lighting.ClampDelta(dt)
	step := float32(dt)

	w.controls.Update(step)
	w.stabilizer.Update(dt)
	w.skyUniforms.SetVec3(uCameraDirection, w.camera.ZAxis())

	w.earth.Rotation[0] += w.spinX * step
	w.earth.Rotation[1] += w.spinY * step
	w.scene.UpdateMatrixWorld()

	w.atmosphereUniforms.SetVec3(uEarthCenter, w.earth.WorldPosition())
	w.elapsed += dt
}

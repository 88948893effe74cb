package lighting

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/earthview/internal/engine/scenegraph"
	"github.com/Faultbox/earthview/internal/engine/uniform"
)

// LightDirectionUniform is the uniform every sky-lit stage reads.
const LightDirectionUniform = "lightDirection"

// ErrMissingObject is returned when a required rig object is nil or absent.
var ErrMissingObject = errors.New("missing sky rig object")

// Viewer is whatever the skybox recentres on, usually the camera.
type Viewer interface {
	Position() mgl32.Vec3
}

// Rates are skybox rotation speeds in radians per second.
type Rates struct {
	X float32
	Y float32
}

// DefaultRates is a slow drift: a little pitch, a steady westward turn.
var DefaultRates = Rates{X: 0.005, Y: -0.1}

// Rig holds the resolved objects the stabilizer drives.
type Rig struct {
	Light  *scenegraph.Node
	Sun    *scenegraph.Node
	Skybox *scenegraph.Node
	Viewer Viewer
}

// RigNames names the rig objects in a scene graph.
type RigNames struct {
	Light  string
	Sun    string
	Skybox string
}

// DefaultRigNames matches the bundled earth scene.
var DefaultRigNames = RigNames{Light: "sun_light", Sun: "sun_sprite", Skybox: "SkyBox"}

// ResolveRig looks the rig objects up by name. The skybox may live in a
// separate graph from the light and sun, so each has its own root.
func ResolveRig(scene, sky *scenegraph.Node, names RigNames, viewer Viewer) (Rig, error) {
	var rig Rig
	var err error
	if rig.Light, err = scene.Lookup(names.Light); err != nil {
		return Rig{}, fmt.Errorf("%w: light: %w", ErrMissingObject, err)
	}
	if rig.Sun, err = scene.Lookup(names.Sun); err != nil {
		return Rig{}, fmt.Errorf("%w: sun sprite: %w", ErrMissingObject, err)
	}
	if rig.Skybox, err = sky.Lookup(names.Skybox); err != nil {
		return Rig{}, fmt.Errorf("%w: skybox: %w", ErrMissingObject, err)
	}
	rig.Viewer = viewer
	return rig, nil
}

func (r Rig) validate() error {
	switch {
	case r.Light == nil:
		return fmt.Errorf("%w: light", ErrMissingObject)
	case r.Sun == nil:
		return fmt.Errorf("%w: sun sprite", ErrMissingObject)
	case r.Skybox == nil:
		return fmt.Errorf("%w: skybox", ErrMissingObject)
	case r.Viewer == nil:
		return fmt.Errorf("%w: viewer", ErrMissingObject)
	}
	return nil
}

// Anchor is the sun's position fixed in skybox-local space, plus the skybox
// world position at the moment it was captured.
type Anchor struct {
	Local     mgl32.Vec3
	Reference mgl32.Vec3
}

// anchorState is either unset or holds an Anchor that never changes again.
type anchorState struct {
	set    bool
	anchor Anchor
}

// Stabilizer keeps a sun sprite pinned to a rotating skybox that follows
// the viewer, and points the sun light at the sprite's apparent direction.
type Stabilizer struct {
	rig   Rig
	rates Rates
	sinks []uniform.Sink

	anchor        anchorState
	lightPosition mgl32.Vec3
	direction     mgl32.Vec3
}

// NewStabilizer validates the rig before anything is mutated. Every sink
// receives the light direction on each Update.
func NewStabilizer(rig Rig, rates Rates, sinks ...uniform.Sink) (*Stabilizer, error) {
	if err := rig.validate(); err != nil {
		return nil, err
	}
	for i, s := range sinks {
		if s == nil {
			return nil, fmt.Errorf("uniform sink %d is nil", i)
		}
	}
	s := &Stabilizer{
		rig:   rig,
		rates: rates,
		sinks: sinks,
	}
	if rig.Light.Position.Len() > 0 {
		s.direction = rig.Light.Position.Normalize()
	}
	return s, nil
}

// Update advances the skybox by dt seconds and re-derives the sun sprite
// and light. Negative or non-finite dt counts as zero.
func (s *Stabilizer) Update(dt float64) {
	step := float32(ClampDelta(dt))
	sky := s.rig.Skybox

	sky.Position = s.rig.Viewer.Position()
	sky.Rotation[0] += s.rates.X * step
	sky.Rotation[1] += s.rates.Y * step

	// The sky transform must be final before anything reads it below.
	sky.UpdateMatrixWorld()
	skyWorld := sky.MatrixWorld
	skyPos := sky.WorldPosition()

	if !s.anchor.set {
		s.rig.Sun.UpdateMatrixWorld()
		s.anchor = anchorState{
			set: true,
			anchor: Anchor{
				Local:     scenegraph.TransformPoint(skyWorld.Inv(), s.rig.Sun.WorldPosition()),
				Reference: skyPos,
			},
		}
	}
	a := s.anchor.anchor

	sunWorld := scenegraph.TransformPoint(skyWorld, a.Local)
	s.rig.Sun.SetWorldPosition(sunWorld)

	// Recentring on the viewer is not real sun motion, so cancel it.
	displacement := skyPos.Sub(a.Reference)
	s.lightPosition = sunWorld.Sub(displacement)
	s.rig.Light.SetWorldPosition(s.lightPosition)

	if s.lightPosition.Len() > 0 {
		s.direction = s.lightPosition.Normalize()
	}
	for _, sink := range s.sinks {
		sink.SetVec3(LightDirectionUniform, s.direction)
	}
}

// Direction returns the light direction broadcast by the last Update.
func (s *Stabilizer) Direction() mgl32.Vec3 {
	return s.direction
}

// LightPosition returns the un-normalized light position from the last Update.
func (s *Stabilizer) LightPosition() mgl32.Vec3 {
	return s.lightPosition
}

// Anchor returns the cached anchor and whether it has been captured yet.
func (s *Stabilizer) Anchor() (Anchor, bool) {
	return s.anchor.anchor, s.anchor.set
}

// SkyRotation returns the skybox Euler rotation.
func (s *Stabilizer) SkyRotation() mgl32.Vec3 {
	return s.rig.Skybox.Rotation
}

// SunPosition returns the sun sprite world position.
func (s *Stabilizer) SunPosition() mgl32.Vec3 {
	return s.rig.Sun.WorldPosition()
}

// ClampDelta maps negative or non-finite frame deltas to zero.
func ClampDelta(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0
	}
	return dt
}

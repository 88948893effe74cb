package earth

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/earthview/internal/config"
	"github.com/Faultbox/earthview/internal/engine/camera"
	"github.com/Faultbox/earthview/internal/engine/lighting"
	"github.com/Faultbox/earthview/internal/engine/scenegraph"
)

const testScene = `
camera:
  position: [0, 0, 40]
objects:
  - name: SkyBox
    kind: mesh
    geometry: {type: sphere, radius: 900}
  - name: Earth
    kind: mesh
    geometry: {type: sphere, radius: 10}
  - name: Atmosphere
    kind: mesh
    geometry: {type: sphere, radius: 10.4}
  - name: sun_sprite
    kind: sprite
    position: [0, 0, -400]
  - name: sun_light
    kind: light
    position: [0, 0, -400]
`

const eps = 1e-4

// vecNear compares with an absolute tolerance, so float residues next to
// an exact zero still match.
func vecNear(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() <= tol
}

func parse(t *testing.T, src string) *scenegraph.Description {
	t.Helper()
	d, err := scenegraph.ParseDescription([]byte(src))
	if err != nil {
		t.Fatalf("ParseDescription: %v", err)
	}
	return d
}

func newTestWorld(t *testing.T, cfg *config.Config) *world {
	t.Helper()
	w, err := newWorld(parse(t, testScene), cfg, 16.0/9.0)
	if err != nil {
		t.Fatalf("newWorld: %v", err)
	}
	return w
}

func TestNewWorldSplitsSkyPass(t *testing.T) {
	w := newTestWorld(t, config.Default())

	if w.scene.FindByName("SkyBox") != nil {
		t.Error("skybox should leave the main scene")
	}
	if w.skybox.Parent() != w.sky {
		t.Error("skybox should be under the sky root")
	}
	if w.atmosphere.Parent() != w.earth {
		t.Error("atmosphere should be a child of the earth")
	}
}

func TestNewWorldSetsInitialUniforms(t *testing.T) {
	w := newTestWorld(t, config.Default())

	// The light sits straight ahead of the origin.
	want := mgl32.Vec3{0, 0, -1}
	for _, b := range []interface {
		Vec3(string) (mgl32.Vec3, bool)
	}{w.skyUniforms, w.earthUniforms, w.atmosphereUniforms} {
		got, ok := b.Vec3(lighting.LightDirectionUniform)
		if !ok || !vecNear(got, want, eps) {
			t.Errorf("lightDirection = %v (set %v), want %v", got, ok, want)
		}
	}

	if r, _ := w.atmosphereUniforms.Float(uEarthRadius); r != 10 {
		t.Errorf("earthRadius = %v, want 10", r)
	}
	if r, _ := w.atmosphereUniforms.Float(uAtmosphereRadius); math.Abs(float64(r-10.4)) > eps {
		t.Errorf("atmosphereRadius = %v, want 10.4", r)
	}
	if d, ok := w.skyUniforms.Vec3(uCameraDirection); !ok || !vecNear(d, mgl32.Vec3{0, 0, 1}, eps) {
		t.Errorf("cameraDirection = %v, want +Z", d)
	}
}

func TestWorldCameraFromDescription(t *testing.T) {
	w := newTestWorld(t, config.Default())
	if w.camera.Pos != (mgl32.Vec3{0, 0, 40}) {
		t.Errorf("camera position = %v", w.camera.Pos)
	}
	if w.camera.FovY != 45 || w.camera.Far != 2000 {
		t.Errorf("camera defaults = fov %v far %v", w.camera.FovY, w.camera.Far)
	}
	// The first update recentres the sky on the viewer.
	if !vecNear(w.skybox.Position, w.camera.Pos, eps) {
		t.Errorf("skybox at %v, want camera position", w.skybox.Position)
	}
}

func TestWorldUpdateSpinsEarth(t *testing.T) {
	w := newTestWorld(t, config.Default())
	for i := 0; i < 10; i++ {
		w.update(1)
	}
	if math.Abs(float64(w.earth.Rotation[1]-0.5)) > eps {
		t.Errorf("earth rotation y = %v, want 0.5", w.earth.Rotation[1])
	}
	if math.Abs(float64(w.earth.Rotation[0]+0.01)) > eps {
		t.Errorf("earth rotation x = %v, want -0.01", w.earth.Rotation[0])
	}
	if math.Abs(w.elapsed-10) > 1e-9 {
		t.Errorf("elapsed = %v, want 10", w.elapsed)
	}
	// The atmosphere inherits the spin.
	if w.atmosphere.MatrixWorld != w.earth.MatrixWorld {
		t.Error("atmosphere should share the earth transform")
	}
}

func TestWorldUpdateIgnoresBadDelta(t *testing.T) {
	w := newTestWorld(t, config.Default())
	before := w.earth.Rotation
	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		w.update(dt)
	}
	if w.earth.Rotation != before || w.elapsed != 0 {
		t.Errorf("bad deltas moved the world: rotation %v elapsed %v", w.earth.Rotation, w.elapsed)
	}
}

func TestWorldLightStaysOnSunWhenFlying(t *testing.T) {
	w := newTestWorld(t, config.Default())
	w.controls.SetAction(camera.MoveForward, true)
	for i := 0; i < 30; i++ {
		w.update(0.1)
	}
	if w.camera.Pos == (mgl32.Vec3{0, 0, 40}) {
		t.Fatal("camera did not move")
	}

	// The skybox tracks the camera and the direction stays unit length.
	if !vecNear(w.skybox.Position, w.camera.Pos, eps) {
		t.Errorf("skybox at %v, camera at %v", w.skybox.Position, w.camera.Pos)
	}
	d := w.stabilizer.Direction()
	if math.Abs(float64(d.Len()-1)) > eps {
		t.Errorf("direction length = %v", d.Len())
	}
	got, _ := w.earthUniforms.Vec3(lighting.LightDirectionUniform)
	if got != d {
		t.Errorf("earth lightDirection = %v, stabilizer %v", got, d)
	}
}

func TestWorldEarthCenter(t *testing.T) {
	w := newTestWorld(t, config.Default())
	w.earth.Position = mgl32.Vec3{3, 2, 1}
	w.update(0)
	if c, _ := w.atmosphereUniforms.Vec3(uEarthCenter); c != (mgl32.Vec3{3, 2, 1}) {
		t.Errorf("earthCenter = %v", c)
	}
}

func TestWorldPlaceSun(t *testing.T) {
	cfg := config.Default()
	cfg.Sky.PlaceSun = true
	cfg.Sky.SunAzimuth = 90
	cfg.Sky.SunElevation = 0
	cfg.Sky.SunDistance = 100

	w := newTestWorld(t, cfg)
	a, ok := w.stabilizer.Anchor()
	if !ok {
		t.Fatal("anchor not captured")
	}
	want := lighting.SunPosition(90, 0, 100)
	if !vecNear(a.Local, want, 1e-3) {
		t.Errorf("sun anchor = %v, want %v", a.Local, want)
	}
}

func TestNewWorldMissingObjects(t *testing.T) {
	tests := []struct {
		name   string
		remove string
	}{
		{"no skybox", "SkyBox"},
		{"no earth", "Earth"},
		{"no atmosphere", "Atmosphere"},
		{"no sun", "sun_sprite"},
		{"no light", "sun_light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := parse(t, testScene)
			kept := d.Objects[:0]
			for _, o := range d.Objects {
				if o.Name != tt.remove {
					kept = append(kept, o)
				}
			}
			d.Objects = kept

			_, err := newWorld(d, config.Default(), 1)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, scenegraph.ErrNotFound) {
				t.Errorf("error %v should wrap ErrNotFound", err)
			}
		})
	}
}

// Package camera provides the perspective camera and fly controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera with a quaternion orientation.
// It looks down its local -Z axis with +Y up.
type Camera struct {
	Pos         mgl32.Vec3
	Orientation mgl32.Quat

	FovY   float32 // vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera at the origin looking down -Z.
func New(fovY, aspect, near, far float32) *Camera {
	if aspect <= 0 {
		aspect = 1
	}
	return &Camera{
		Orientation: mgl32.QuatIdent(),
		FovY:        fovY,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	return c.Pos
}

// SetEuler sets the orientation from XYZ Euler angles in radians,
// the same order scene nodes use.
func (c *Camera) SetEuler(x, y, z float32) {
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	c.Orientation = qx.Mul(qy).Mul(qz).Normalize()
}

// SetAspect updates the aspect ratio after a resize. Non-positive
// values are ignored.
func (c *Camera) SetAspect(aspect float32) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// WorldMatrix returns the camera-to-world transform.
func (c *Camera) WorldMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(c.Pos.X(), c.Pos.Y(), c.Pos.Z()).Mul4(c.Orientation.Mat4())
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.WorldMatrix().Inv()
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// ZAxis returns the camera's local +Z axis in world space, which points
// away from the view direction.
func (c *Camera) ZAxis() mgl32.Vec3 {
	return c.Orientation.Rotate(mgl32.Vec3{0, 0, 1}).Normalize()
}

// Forward returns the view direction (local -Z) in world space.
func (c *Camera) Forward() mgl32.Vec3 {
	return c.ZAxis().Mul(-1)
}

// TranslateLocal moves the camera along its own axes.
func (c *Camera) TranslateLocal(d mgl32.Vec3) {
	c.Pos = c.Pos.Add(c.Orientation.Rotate(d))
}

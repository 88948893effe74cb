package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Action is one of the fly control inputs.
type Action int

// Fly actions.
const (
	MoveForward Action = iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	PitchUp
	PitchDown
	YawLeft
	YawRight
	RollLeft
	RollRight
	Slow

	actionCount
)

// FlyControls moves a camera freely: translation along its local axes and
// rotation around them. Key actions are binary; mouse look produces
// proportional yaw and pitch based on the pointer's offset from the
// viewport centre.
type FlyControls struct {
	Camera *Camera

	MovementSpeed float32 // world units per second
	RollSpeed     float32 // radians per second
	DragToLook    bool    // look only while a mouse button is held
	SlowFactor    float32 // speed multiplier while Slow is held

	state      [actionCount]float32
	dragging   int
	viewW      float32
	viewH      float32
	mouseYaw   float32
	mousePitch float32
}

// NewFlyControls attaches fly controls to cam.
func NewFlyControls(cam *Camera, movementSpeed, rollSpeed float32, dragToLook bool) *FlyControls {
	return &FlyControls{
		Camera:        cam,
		MovementSpeed: movementSpeed,
		RollSpeed:     rollSpeed,
		DragToLook:    dragToLook,
		SlowFactor:    0.1,
		viewW:         1,
		viewH:         1,
	}
}

// SetViewport sets the size used to normalise mouse look.
func (f *FlyControls) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		f.viewW = float32(width)
		f.viewH = float32(height)
	}
}

// SetAction presses or releases an action.
func (f *FlyControls) SetAction(a Action, pressed bool) {
	if a < 0 || a >= actionCount {
		return
	}
	if pressed {
		f.state[a] = 1
	} else {
		f.state[a] = 0
	}
}

// Pressed reports whether an action is held.
func (f *FlyControls) Pressed(a Action) bool {
	return a >= 0 && a < actionCount && f.state[a] != 0
}

// MouseDown starts a drag-to-look gesture, or moves forward/back on the
// left/right button when drag-to-look is off.
func (f *FlyControls) MouseDown(button int) {
	if f.DragToLook {
		f.dragging++
		return
	}
	switch button {
	case 1:
		f.state[MoveForward] = 1
	case 3:
		f.state[MoveBack] = 1
	}
}

// MouseUp ends a gesture started by MouseDown.
func (f *FlyControls) MouseUp(button int) {
	if f.DragToLook {
		if f.dragging > 0 {
			f.dragging--
		}
		if f.dragging == 0 {
			f.mouseYaw = 0
			f.mousePitch = 0
		}
		return
	}
	switch button {
	case 1:
		f.state[MoveForward] = 0
	case 3:
		f.state[MoveBack] = 0
	}
}

// MouseMove updates mouse look from the pointer position in pixels.
func (f *FlyControls) MouseMove(x, y int) {
	if f.DragToLook && f.dragging == 0 {
		return
	}
	halfW := f.viewW / 2
	halfH := f.viewH / 2
	f.mouseYaw = -(float32(x) - halfW) / halfW
	f.mousePitch = (float32(y) - halfH) / halfH
}

// MoveVector returns the current local translation direction.
func (f *FlyControls) MoveVector() mgl32.Vec3 {
	s := f.state
	return mgl32.Vec3{
		s[MoveRight] - s[MoveLeft],
		s[MoveUp] - s[MoveDown],
		s[MoveBack] - s[MoveForward],
	}
}

// RotationVector returns the current local angular direction.
func (f *FlyControls) RotationVector() mgl32.Vec3 {
	s := f.state
	return mgl32.Vec3{
		s[PitchUp] - s[PitchDown] - f.mousePitch,
		s[YawLeft] - s[YawRight] + f.mouseYaw,
		s[RollLeft] - s[RollRight],
	}
}

// Update applies dt seconds of movement and rotation to the camera.
func (f *FlyControls) Update(dt float32) {
	if f.Camera == nil || dt <= 0 {
		return
	}
	speed := f.MovementSpeed
	if f.state[Slow] != 0 {
		speed *= f.SlowFactor
	}
	moveMult := dt * speed
	rotMult := dt * f.RollSpeed

	f.Camera.TranslateLocal(f.MoveVector().Mul(moveMult))

	rv := f.RotationVector().Mul(rotMult)
	if rv.Len() == 0 {
		return
	}
	dq := mgl32.Quat{W: 1, V: rv}.Normalize()
	f.Camera.Orientation = f.Camera.Orientation.Mul(dq).Normalize()
}

package scene

import (
	"forward-renderer/input"
	"forward-renderer/math"
)

const (
	NearPlane = 0.01
	FarPlane  = 1000
)

// PitchLimit bounds the camera pitch, in radians (45°).
var PitchLimit = math.Radians(45)

// Camera is a free-fly, left-handed perspective camera. It owns its
// Transform and rebuilds its view matrix at the end of every Update.
type Camera struct {
	transform   *Transform
	fieldOfView float32 // degrees
	aspect      float32

	view       math.Mat4
	projection math.Mat4

	// MoveSpeed is in units per second, LookSpeed scales pointer pixels to
	// radians per second.
	MoveSpeed float32
	LookSpeed float32
}

// NewCamera places a camera at position looking down +Z.
func NewCamera(aspect float32, position math.Vec3, fovDegrees float32) *Camera {
	c := &Camera{
		transform:   NewTransform(),
		fieldOfView: fovDegrees,
		aspect:      aspect,
		MoveSpeed:   5,
		LookSpeed:   1,
	}
	c.transform.SetPosition(position)
	c.UpdateViewMatrix()
	c.UpdateProjectionMatrix(aspect)
	return c
}

func (c *Camera) Transform() *Transform { return c.transform }

func (c *Camera) View() math.Mat4       { return c.view }
func (c *Camera) Projection() math.Mat4 { return c.projection }

func (c *Camera) FieldOfView() float32 { return c.fieldOfView }
func (c *Camera) AspectRatio() float32 { return c.aspect }

// UpdateProjectionMatrix must be called when the output surface resizes.
func (c *Camera) UpdateProjectionMatrix(aspect float32) {
	c.aspect = aspect
	c.projection = math.Mat4PerspectiveFovLH(math.Radians(c.fieldOfView), aspect, NearPlane, FarPlane)
}

// SetFieldOfView changes the vertical field of view, keeping the aspect.
func (c *Camera) SetFieldOfView(degrees float32) {
	c.fieldOfView = degrees
	c.UpdateProjectionMatrix(c.aspect)
}

func (c *Camera) UpdateViewMatrix() {
	c.view = math.Mat4LookToLH(c.transform.Position(), c.transform.Forward(), math.Vec3Up)
}

// Update applies one frame of input: W/S and A/D move along the camera's own
// axes, Space/Control move along world Y, and dragging with the primary
// button turns the camera. Pitch is clamped to PitchLimit on every call,
// so an overshooting delta lands exactly on the limit.
func (c *Camera) Update(in input.State, dt float32) {
	step := c.MoveSpeed * dt

	if in.KeyDown(input.KeyW) {
		c.transform.MoveRelative(math.Vec3{Z: step})
	}
	if in.KeyDown(input.KeyS) {
		c.transform.MoveRelative(math.Vec3{Z: -step})
	}
	if in.KeyDown(input.KeyA) {
		c.transform.MoveRelative(math.Vec3{X: -step})
	}
	if in.KeyDown(input.KeyD) {
		c.transform.MoveRelative(math.Vec3{X: step})
	}
	if in.KeyDown(input.KeySpace) {
		c.transform.MoveAbsolute(math.Vec3{Y: step})
	}
	if in.KeyDown(input.KeyControl) {
		c.transform.MoveAbsolute(math.Vec3{Y: -step})
	}

	if in.MouseLeftDown() {
		dx, dy := in.MouseDelta()
		look := c.LookSpeed * dt
		c.transform.Rotate(math.Vec3{X: dy * look, Y: dx * look})
	}

	pyr := c.transform.Rotation()
	if clamped := math.Clamp(pyr.X, -PitchLimit, PitchLimit); clamped != pyr.X {
		pyr.X = clamped
		c.transform.SetRotation(pyr)
	}

	c.UpdateViewMatrix()
}

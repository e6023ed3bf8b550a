package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"forward-renderer/input"
	"forward-renderer/math"
)

func TestCameraProjectionFollowsAspect(t *testing.T) {
	cam := NewCamera(16.0/9.0, math.Vec3Zero, 74)
	assert.Equal(t, math.Mat4PerspectiveFovLH(math.Radians(74), 16.0/9.0, NearPlane, FarPlane), cam.Projection())

	cam.UpdateProjectionMatrix(2)
	p := cam.Projection()
	assert.Equal(t, float32(2), cam.AspectRatio())
	assert.InDelta(t, 2, p[1][1]/p[0][0], eps)
	assert.Equal(t, math.Mat4PerspectiveFovLH(math.Radians(74), 2, NearPlane, FarPlane), p)
}

func TestCameraProjectionIsNotAutomatic(t *testing.T) {
	cam := NewCamera(1, math.Vec3Zero, 60)
	before := cam.Projection()
	cam.Update(input.Snapshot{Keys: map[input.Key]bool{input.KeyW: true}}, 0.1)
	assert.Equal(t, before, cam.Projection())

	cam.SetFieldOfView(90)
	assert.Equal(t, math.Mat4PerspectiveFovLH(math.Radians(90), 1, NearPlane, FarPlane), cam.Projection())
}

func TestCameraViewLooksDownForward(t *testing.T) {
	cam := NewCamera(1, math.Vec3{Z: -5}, 60)
	// the origin sits straight ahead, five units away
	p := cam.View().MulVec3(math.Vec3Zero)
	assertVec3(t, math.Vec3{Z: 5}, p)
}

func TestPitchClampOnLargeDelta(t *testing.T) {
	cam := NewCamera(1, math.Vec3Zero, 60)
	down := input.Snapshot{LeftDown: true, DY: 1e6}
	cam.Update(down, 1.0/60)
	assert.InDelta(t, math.Radians(45), cam.Transform().Rotation().X, eps)

	up := input.Snapshot{LeftDown: true, DY: -1e6}
	cam.Update(up, 1.0/60)
	assert.InDelta(t, -math.Radians(45), cam.Transform().Rotation().X, eps)
}

func TestPitchNeverExceedsLimit(t *testing.T) {
	cam := NewCamera(1, math.Vec3Zero, 60)
	for i, dy := range []float32{30, 400, -90, 5000, -12000, 70, 70, 70} {
		cam.Update(input.Snapshot{LeftDown: true, DX: 10, DY: dy}, 0.05)
		pitch := cam.Transform().Rotation().X
		assert.LessOrEqualf(t, pitch, PitchLimit+eps, "step %d", i)
		assert.GreaterOrEqualf(t, pitch, -PitchLimit-eps, "step %d", i)
	}
}

func TestMouseIgnoredWithoutButton(t *testing.T) {
	cam := NewCamera(1, math.Vec3Zero, 60)
	cam.Update(input.Snapshot{DX: 100, DY: 100}, 1)
	assert.Equal(t, math.Vec3Zero, cam.Transform().Rotation())
}

func TestCameraKeysMoveAtSpeed(t *testing.T) {
	cam := NewCamera(1, math.Vec3Zero, 60)
	cam.Transform().SetRotation(math.Vec3{Y: math.Pi / 2})

	cam.Update(input.Snapshot{Keys: map[input.Key]bool{input.KeyW: true}}, 0.5)
	assertVec3(t, math.Vec3{X: 2.5}, cam.Transform().Position())

	cam.Update(input.Snapshot{Keys: map[input.Key]bool{input.KeySpace: true}}, 1)
	assertVec3(t, math.Vec3{X: 2.5, Y: 5}, cam.Transform().Position())

	cam.Update(input.Snapshot{Keys: map[input.Key]bool{input.KeyControl: true, input.KeyD: true}}, 0.2)
	assertVec3(t, math.Vec3{X: 2.5, Y: 4, Z: -1}, cam.Transform().Position())
}

func TestViewRecomputedEveryUpdate(t *testing.T) {
	cam := NewCamera(1, math.Vec3Zero, 60)
	cam.Transform().SetPosition(math.Vec3{Y: 3})
	cam.Update(input.Snapshot{}, 0)
	assertVec3(t, math.Vec3{Y: -3}, cam.View().MulVec3(math.Vec3Zero))
}

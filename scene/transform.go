package scene

import (
	"forward-renderer/math"
)

// Transform is a position, a pitch/yaw/roll orientation in radians and a
// scale, with lazily derived world matrices and basis vectors.
//
// Two dirty flags track the derived state: matrices go stale on any change,
// basis vectors only when the rotation changes. Recomputation happens on the
// next read, so several writes in a row cost one rebuild.
type Transform struct {
	position     math.Vec3
	pitchYawRoll math.Vec3
	scale        math.Vec3

	world             math.Mat4
	worldInvTranspose math.Mat4
	matricesDirty     bool

	right, up, forward math.Vec3
	vectorsDirty       bool
}

// NewTransform returns the identity pose.
func NewTransform() *Transform {
	return &Transform{
		scale:             math.Vec3One,
		world:             math.Mat4Identity(),
		worldInvTranspose: math.Mat4Identity(),
		right:             math.Vec3Right,
		up:                math.Vec3Up,
		forward:           math.Vec3Forward,
	}
}

func (t *Transform) SetPosition(p math.Vec3) {
	t.position = p
	t.matricesDirty = true
}

// SetRotation overwrites pitch, yaw and roll (radians).
func (t *Transform) SetRotation(pyr math.Vec3) {
	t.pitchYawRoll = pyr
	t.matricesDirty = true
	t.vectorsDirty = true
}

func (t *Transform) SetScale(s math.Vec3) {
	t.scale = s
	t.matricesDirty = true
}

// MoveAbsolute offsets the position in world space.
func (t *Transform) MoveAbsolute(delta math.Vec3) {
	t.SetPosition(t.position.Add(delta))
}

// MoveRelative offsets the position along the object's own axes. The delta is
// rotated by the same quaternion that produces Right/Up/Forward, so moving
// by (0,0,1) always follows Forward.
func (t *Transform) MoveRelative(delta math.Vec3) {
	q := math.QuaternionFromPitchYawRoll(t.pitchYawRoll)
	t.SetPosition(t.position.Add(q.RotateVector(delta)))
}

// Rotate accumulates Euler angles. Gimbal lock is possible near ±90° pitch.
func (t *Transform) Rotate(delta math.Vec3) {
	t.SetRotation(t.pitchYawRoll.Add(delta))
}

// Scale adds delta to each scale component; it does not multiply.
func (t *Transform) Scale(delta math.Vec3) {
	t.SetScale(t.scale.Add(delta))
}

func (t *Transform) Position() math.Vec3 { return t.position }

// Rotation returns (pitch, yaw, roll) in radians.
func (t *Transform) Rotation() math.Vec3 { return t.pitchYawRoll }

func (t *Transform) ScaleFactors() math.Vec3 { return t.scale }

// World returns Scale × Rotation × Translation for row vectors.
func (t *Transform) World() math.Mat4 {
	t.updateMatrices()
	return t.world
}

// WorldInverseTranspose is the normal matrix, derived from World so it holds
// under non-uniform scale.
func (t *Transform) WorldInverseTranspose() math.Mat4 {
	t.updateMatrices()
	return t.worldInvTranspose
}

func (t *Transform) Right() math.Vec3 {
	t.updateVectors()
	return t.right
}

func (t *Transform) Up() math.Vec3 {
	t.updateVectors()
	return t.up
}

func (t *Transform) Forward() math.Vec3 {
	t.updateVectors()
	return t.forward
}

func (t *Transform) updateMatrices() {
	if !t.matricesDirty {
		return
	}
	t.world = math.Mat4Scale(t.scale).
		Mul(math.Mat4RotationRollPitchYaw(t.pitchYawRoll)).
		Mul(math.Mat4Translation(t.position))
	t.worldInvTranspose = t.world.InverseTranspose()
	t.matricesDirty = false
}

func (t *Transform) updateVectors() {
	if !t.vectorsDirty {
		return
	}
	q := math.QuaternionFromPitchYawRoll(t.pitchYawRoll)
	t.right = q.RotateVector(math.Vec3Right)
	t.up = q.RotateVector(math.Vec3Up)
	t.forward = q.RotateVector(math.Vec3Forward)
	t.vectorsDirty = false
}

package math

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const tolerance = 1e-4

// assertMatchesReference compares m with a column-major, column-vector mgl32
// matrix. Because of the transposed conventions the flat storage is identical.
func assertMatchesReference(t *testing.T, want mgl32.Mat4, got Mat4) {
	t.Helper()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.InDelta(t, want[r*4+c], got[r][c], tolerance, "element [%d][%d]", r, c)
		}
	}
}

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, tolerance), "expected %v, got %v", want, got)
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	assert.Equal(t, NewVec3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVec3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVec3(2, 4, 6), v1.Mul(2))
	assert.Equal(t, float32(32), v1.Dot(v2))

	// Right x Up = Forward
	assert.Equal(t, Vec3Forward, Vec3Right.Cross(Vec3Up))
}

func TestVec3Normalize(t *testing.T) {
	n := NewVec3(3, 0, 0).Normalize()
	assert.Equal(t, Vec3Right, n)
	assert.InDelta(t, 1, n.Length(), tolerance)

	assert.Equal(t, Vec3Zero, Vec3Zero.Normalize())
}

func TestMat4Translation(t *testing.T) {
	translation := NewVec3(1, 2, 3)
	m := Mat4Translation(translation)

	assert.Equal(t, translation, m.MulVec3(Vec3Zero))
	assert.Equal(t, Vec3Right, m.MulDir(Vec3Right))
	assertMatchesReference(t, mgl32.Translate3D(1, 2, 3), m)
}

func TestMat4RotationsMatchReference(t *testing.T) {
	for _, angle := range []float32{0, 0.3, Pi / 2, -1.2, Pi} {
		assertMatchesReference(t, mgl32.HomogRotate3DX(angle), Mat4RotationX(angle))
		assertMatchesReference(t, mgl32.HomogRotate3DY(angle), Mat4RotationY(angle))
		assertMatchesReference(t, mgl32.HomogRotate3DZ(angle), Mat4RotationZ(angle))
	}
}

func TestRollPitchYawOrder(t *testing.T) {
	pyr := NewVec3(0.4, -1.1, 0.7)
	want := mgl32.HomogRotate3DY(pyr.Y).
		Mul4(mgl32.HomogRotate3DX(pyr.X)).
		Mul4(mgl32.HomogRotate3DZ(pyr.Z))

	assertMatchesReference(t, want, Mat4RotationRollPitchYaw(pyr))
}

func TestQuaternionMatchesEulerMatrix(t *testing.T) {
	cases := []Vec3{
		{0, 0, 0},
		{0, Pi / 2, 0},
		{0.5, 0.25, -0.75},
		{-1.2, 2.4, 0.1},
	}
	for _, pyr := range cases {
		q := QuaternionFromPitchYawRoll(pyr)
		assert.True(t, q.ToMat4().ApproxEqual(Mat4RotationRollPitchYaw(pyr), tolerance), "pyr %v", pyr)

		m := Mat4RotationRollPitchYaw(pyr)
		for _, v := range []Vec3{Vec3Right, Vec3Up, Vec3Forward, NewVec3(1, 2, 3)} {
			assertVec3(t, m.MulDir(v), q.RotateVector(v))
		}
	}
}

func TestQuaternionRotationMatchesReference(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3Up, Pi/2)
	ref := mgl32.QuatRotate(Pi/2, mgl32.Vec3{0, 1, 0})

	got := q.RotateVector(Vec3Right)
	want := ref.Rotate(mgl32.Vec3{1, 0, 0})
	assertVec3(t, NewVec3(want.X(), want.Y(), want.Z()), got)
	assertVec3(t, NewVec3(0, 0, -1), got)
}

func TestQuaternionSlerp(t *testing.T) {
	from := QuaternionFromAxisAngle(Vec3Up, 0)
	to := QuaternionFromAxisAngle(Vec3Up, Pi/2)
	ref := mgl32.QuatSlerp(mgl32.QuatIdent(), mgl32.QuatRotate(Pi/2, mgl32.Vec3{0, 1, 0}), 0.5)

	half := from.Slerp(to, 0.5)
	want := ref.Rotate(mgl32.Vec3{1, 0, 0})
	assertVec3(t, NewVec3(want.X(), want.Y(), want.Z()), half.RotateVector(Vec3Right))
	assertVec3(t, Vec3Right, from.Slerp(to, 0).RotateVector(Vec3Right))
	assertVec3(t, NewVec3(0, 0, -1), from.Slerp(to, 1).RotateVector(Vec3Right))

	// the opposite sign of the same rotation takes the short path
	flipped := Quaternion{X: -to.X, Y: -to.Y, Z: -to.Z, W: -to.W}
	assertVec3(t, half.RotateVector(Vec3Right), from.Slerp(flipped, 0.5).RotateVector(Vec3Right))

	// nearly parallel inputs
	near := QuaternionFromAxisAngle(Vec3Up, 0.001)
	assert.InDelta(t, 1, from.Slerp(near, 0.5).dot(from.Slerp(near, 0.5)), tolerance)
}

func TestMat4Inverse(t *testing.T) {
	m := Mat4Scale(NewVec3(2, 3, 0.5)).
		Mul(Mat4RotationRollPitchYaw(NewVec3(0.3, 0.9, -0.2))).
		Mul(Mat4Translation(NewVec3(4, -5, 6)))

	assert.True(t, m.Mul(m.Inverse()).ApproxEqual(Mat4Identity(), tolerance))

	ref := mgl32.Mat4(flatten(m)).Inv()
	assertMatchesReference(t, ref, m.Inverse())
}

func TestMat4InverseSingular(t *testing.T) {
	assert.Equal(t, Mat4Identity(), Mat4Scale(Vec3Zero).Inverse())
}

func TestInverseTransposeKeepsNormalsPerpendicular(t *testing.T) {
	world := Mat4Scale(NewVec3(4, 1, 1)).Mul(Mat4RotationZ(0.5))
	tangent := world.MulDir(NewVec3(1, 1, 0))
	normal := world.InverseTranspose().MulDir(NewVec3(1, -1, 0))

	assert.InDelta(t, 0, tangent.Dot(normal), tolerance)
}

func TestMat4LookToLH(t *testing.T) {
	eye := NewVec3(0, 0, -5)
	m := Mat4LookToLH(eye, Vec3Forward, Vec3Up)

	assertVec3(t, Vec3Zero, m.MulVec3(eye))
	assertVec3(t, NewVec3(0, 0, 5), m.MulVec3(Vec3Zero))

	// Column 2 of the rotation block is the look direction.
	dir := NewVec3(1, -2, 0.5).Normalize()
	m = Mat4LookToLH(Vec3Zero, dir, Vec3Up)
	assertVec3(t, dir, NewVec3(m[0][2], m[1][2], m[2][2]))
}

func TestMat4PerspectiveFovLH(t *testing.T) {
	aspect := float32(16.0 / 9.0)
	near, far := float32(0.01), float32(1000)
	m := Mat4PerspectiveFovLH(Radians(60), aspect, near, far)

	assert.InDelta(t, aspect, m[1][1]/m[0][0], tolerance)

	nearPoint := NewVec3(0, 0, near).ToVec4(1).MulMat(m)
	farPoint := NewVec3(0, 0, far).ToVec4(1).MulMat(m)
	assert.InDelta(t, 0, nearPoint.Z/nearPoint.W, tolerance)
	assert.InDelta(t, 1, farPoint.Z/farPoint.W, tolerance)
}

func TestMat4OrthographicLH(t *testing.T) {
	m := Mat4OrthographicLH(10, 20, 1, 101)

	assertVec3(t, NewVec3(1, 1, 0), m.MulVec3(NewVec3(5, 10, 1)))
	assertVec3(t, NewVec3(-1, -1, 1), m.MulVec3(NewVec3(-5, -10, 101)))
}

func TestClampAndAngles(t *testing.T) {
	assert.Equal(t, float32(1), Clamp(3, -1, 1))
	assert.Equal(t, float32(-1), Clamp(-3, -1, 1))
	assert.Equal(t, float32(0.5), Clamp(0.5, -1, 1))
	assert.InDelta(t, Pi/4, Radians(45), tolerance)
	assert.InDelta(t, 45, Degrees(Pi/4), tolerance)
}

func flatten(m Mat4) [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = m[r][c]
		}
	}
	return out
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Mat4RotationRollPitchYaw(NewVec3(0.1, 0.2, 0.3))
	m2 := Mat4Translation(NewVec3(1, 2, 3))

	for i := 0; i < b.N; i++ {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Mat4Scale(NewVec3(2, 3, 4)).Mul(Mat4Translation(NewVec3(1, 2, 3)))

	for i := 0; i < b.N; i++ {
		_ = m.Inverse()
	}
}

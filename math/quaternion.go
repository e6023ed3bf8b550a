package math

import "github.com/chewxy/math32"

type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	halfAngle := angle / 2
	s := math32.Sin(halfAngle)
	c := math32.Cos(halfAngle)

	axis = axis.Normalize()
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuaternionFromPitchYawRoll returns the orientation for pyr = (pitch, yaw,
// roll), matching Mat4RotationRollPitchYaw: roll is applied first, then
// pitch, then yaw.
func QuaternionFromPitchYawRoll(pyr Vec3) Quaternion {
	yaw := QuaternionFromAxisAngle(Vec3Up, pyr.Y)
	pitch := QuaternionFromAxisAngle(Vec3Right, pyr.X)
	roll := QuaternionFromAxisAngle(Vec3Forward, pyr.Z)
	return yaw.Mul(pitch).Mul(roll)
}

// Mul is the Hamilton product; q.Mul(o) applies o first, then q.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Normalize() Quaternion {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length > 0 {
		invLength := 1 / length
		return Quaternion{
			X: q.X * invLength,
			Y: q.Y * invLength,
			Z: q.Z * invLength,
			W: q.W * invLength,
		}
	}
	return q
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qVec := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qVec.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qVec.Cross(t))
}

// ToMat4 returns the rotation matrix in row-vector form.
func (q Quaternion) ToMat4() Mat4 {
	xx := q.X * q.X
	yy := q.Y * q.Y
	zz := q.Z * q.Z
	xy := q.X * q.Y
	xz := q.X * q.Z
	yz := q.Y * q.Z
	wx := q.W * q.X
	wy := q.W * q.Y
	wz := q.W * q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0},
		{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0},
		{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}

func (q Quaternion) dot(o Quaternion) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

func (q Quaternion) scaled(s float32) Quaternion {
	return Quaternion{X: q.X * s, Y: q.Y * s, Z: q.Z * s, W: q.W * s}
}

func (q Quaternion) plus(o Quaternion) Quaternion {
	return Quaternion{X: q.X + o.X, Y: q.Y + o.Y, Z: q.Z + o.Z, W: q.W + o.W}
}

// Slerp interpolates along the shorter arc from q (t=0) to other (t=1).
// Nearly parallel inputs fall back to a normalized lerp.
func (q Quaternion) Slerp(other Quaternion, t float32) Quaternion {
	cos := q.dot(other)
	if cos < 0 {
		cos, other = -cos, other.scaled(-1)
	}
	if cos > 0.9995 {
		return q.scaled(1 - t).plus(other.scaled(t)).Normalize()
	}

	angle := math32.Acos(cos)
	sin := math32.Sin(angle)
	return q.scaled(math32.Sin((1-t)*angle) / sin).plus(other.scaled(math32.Sin(t*angle) / sin))
}

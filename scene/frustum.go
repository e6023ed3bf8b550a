package scene

import "forward-renderer/math"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal math.Vec3
	D      float32
}

func (p Plane) DistanceTo(pt math.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six inward-facing clip planes of a view volume: left,
// right, bottom, top, near, far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromViewProjection extracts the planes of a row-vector
// view*projection matrix whose clip depth range is [0, 1]. Clip
// coordinates are dot products with the matrix columns.
func FrustumFromViewProjection(vp math.Mat4) Frustum {
	col := func(j int) math.Vec4 {
		return math.Vec4{X: vp[0][j], Y: vp[1][j], Z: vp[2][j], W: vp[3][j]}
	}
	c0, c1, c2, c3 := col(0), col(1), col(2), col(3)

	var f Frustum
	f.Planes[0] = normalizePlane(c3.Add(c0))
	f.Planes[1] = normalizePlane(c3.Sub(c0))
	f.Planes[2] = normalizePlane(c3.Add(c1))
	f.Planes[3] = normalizePlane(c3.Sub(c1))
	f.Planes[4] = normalizePlane(c2)
	f.Planes[5] = normalizePlane(c3.Sub(c2))
	return f
}

func normalizePlane(v math.Vec4) Plane {
	n := math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W / l}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// BoundsOf returns the box around every vertex position of d.
func BoundsOf(d *MeshData) AABB {
	if len(d.Vertices) == 0 {
		return AABB{}
	}
	first := d.Vertices[0].Position
	box := AABB{Min: first, Max: first}
	for _, v := range d.Vertices[1:] {
		box = box.extend(v.Position)
	}
	return box
}

func (box AABB) extend(p math.Vec3) AABB {
	box.Min = math.Vec3{X: min(box.Min.X, p.X), Y: min(box.Min.Y, p.Y), Z: min(box.Min.Z, p.Z)}
	box.Max = math.Vec3{X: max(box.Max.X, p.X), Y: max(box.Max.Y, p.Y), Z: max(box.Max.Z, p.Z)}
	return box
}

// Transform returns the world-space box around the eight transformed
// corners.
func (box AABB) Transform(m math.Mat4) AABB {
	mn, mx := box.Min, box.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		out = out.extend(m.MulVec3(c))
	}
	return out
}

// IntersectsFrustum is false only when the box lies entirely outside one
// plane. It tests the corner furthest along each plane normal.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		pt := box.Max
		if p.Normal.X < 0 {
			pt.X = box.Min.X
		}
		if p.Normal.Y < 0 {
			pt.Y = box.Min.Y
		}
		if p.Normal.Z < 0 {
			pt.Z = box.Min.Z
		}
		if p.DistanceTo(pt) < 0 {
			return false
		}
	}
	return true
}

// Visible reports whether e's world bounds touch f. Entities without a
// mesh are never visible.
func (e *GameEntity) Visible(f *Frustum) bool {
	mesh := e.Mesh()
	if mesh == nil {
		return false
	}
	box := mesh.Bounds().Transform(e.transform.World())
	return box.IntersectsFrustum(f)
}

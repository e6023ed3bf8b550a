package scene

import (
	"github.com/chewxy/math32"

	"forward-renderer/core"
	"forward-renderer/math"
)

// MeshData is CPU-side geometry: indexed triangles wound clockwise when seen
// from the front in the left-handed world.
type MeshData struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
}

// ComputeTangents fills per-vertex tangents from UV gradients, then
// orthogonalizes them against the normal. Triangles with degenerate UVs
// contribute nothing; vertices left without a tangent get an arbitrary one
// perpendicular to the normal.
func ComputeTangents(d *MeshData) {
	for i := range d.Vertices {
		d.Vertices[i].Tangent = math.Vec3{}
	}

	for i := 0; i+2 < len(d.Indices); i += 3 {
		i0, i1, i2 := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		v0, v1, v2 := d.Vertices[i0], d.Vertices[i1], d.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)

		du1 := v1.UV.X - v0.UV.X
		dv1 := v1.UV.Y - v0.UV.Y
		du2 := v2.UV.X - v0.UV.X
		dv2 := v2.UV.Y - v0.UV.Y

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			continue
		}
		r := 1.0 / denom
		t := e1.Mul(dv2 * r).Sub(e2.Mul(dv1 * r))

		d.Vertices[i0].Tangent = d.Vertices[i0].Tangent.Add(t)
		d.Vertices[i1].Tangent = d.Vertices[i1].Tangent.Add(t)
		d.Vertices[i2].Tangent = d.Vertices[i2].Tangent.Add(t)
	}

	for i := range d.Vertices {
		n := d.Vertices[i].Normal
		t := d.Vertices[i].Tangent

		// Gram-Schmidt: T = normalize(T - N*(N·T))
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.LengthSqr() < 1e-8 {
			if math32.Abs(n.X) < 0.9 {
				t = math.Vec3Right.Sub(n.Mul(n.X))
			} else {
				t = math.Vec3Up.Sub(n.Mul(n.Y))
			}
		}
		d.Vertices[i].Tangent = t.Normalize()
	}
}

// GenerateNormals replaces normals with area-weighted face normals averaged
// per vertex.
func GenerateNormals(d *MeshData) {
	accum := make([]math.Vec3, len(d.Vertices))
	for i := 0; i+2 < len(d.Indices); i += 3 {
		i0, i1, i2 := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		p0 := d.Vertices[i0].Position
		p1 := d.Vertices[i1].Position
		p2 := d.Vertices[i2].Position
		// clockwise winding in a left-handed frame
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range d.Vertices {
		if accum[i].LengthSqr() > 0 {
			d.Vertices[i].Normal = accum[i].Normalize()
		}
	}
}

// FromRightHanded converts geometry authored in a right-handed, counter-
// clockwise convention: Z is mirrored and every triangle's winding reversed.
// flipV also mirrors the texture V coordinate for bottom-left UV origins.
func FromRightHanded(d *MeshData, flipV bool) {
	for i := range d.Vertices {
		v := &d.Vertices[i]
		v.Position.Z = -v.Position.Z
		v.Normal.Z = -v.Normal.Z
		v.Tangent.Z = -v.Tangent.Z
		if flipV {
			v.UV.Y = 1 - v.UV.Y
		}
	}
	for i := 0; i+2 < len(d.Indices); i += 3 {
		d.Indices[i+1], d.Indices[i+2] = d.Indices[i+2], d.Indices[i+1]
	}
}

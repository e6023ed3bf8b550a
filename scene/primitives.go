package scene

import (
	"github.com/chewxy/math32"

	"forward-renderer/core"
	"forward-renderer/math"
)

// CubeData builds a cube of edge length size centred on the origin, four
// vertices per face so normals and UVs stay sharp.
func CubeData(size float32) *MeshData {
	s := size / 2
	faces := []struct{ normal, up math.Vec3 }{
		{math.Vec3Right, math.Vec3Up},
		{math.Vec3Left, math.Vec3Up},
		{math.Vec3Up, math.Vec3Forward},
		{math.Vec3Down, math.Vec3Back},
		{math.Vec3Forward, math.Vec3Up},
		{math.Vec3Back, math.Vec3Up},
	}

	d := &MeshData{Name: "Cube"}
	for _, f := range faces {
		// Seen from outside along -normal, right = up × (-normal) in a
		// left-handed frame.
		right := f.up.Cross(f.normal.Negate())
		centre := f.normal.Mul(s)
		r := right.Mul(s)
		u := f.up.Mul(s)

		base := uint32(len(d.Vertices))
		corners := []struct {
			pos math.Vec3
			uv  math.Vec2
		}{
			{centre.Sub(r).Sub(u), math.Vec2{X: 0, Y: 1}},
			{centre.Sub(r).Add(u), math.Vec2{X: 0, Y: 0}},
			{centre.Add(r).Add(u), math.Vec2{X: 1, Y: 0}},
			{centre.Add(r).Sub(u), math.Vec2{X: 1, Y: 1}},
		}
		for _, c := range corners {
			d.Vertices = append(d.Vertices, core.Vertex{
				Position: c.pos,
				Normal:   f.normal,
				UV:       c.uv,
				Tangent:  right,
			})
		}
		d.Indices = append(d.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return d
}

// PlaneData builds a flat XZ plane facing +Y with subdivisions quads per
// side. UVs span [0, 1] once across the plane.
func PlaneData(width, depth float32, subdivisions int) *MeshData {
	if subdivisions < 1 {
		subdivisions = 1
	}
	d := &MeshData{Name: "Plane"}
	n := subdivisions + 1

	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			u := float32(x) / float32(subdivisions)
			v := float32(z) / float32(subdivisions)
			d.Vertices = append(d.Vertices, core.Vertex{
				Position: math.Vec3{X: (u - 0.5) * width, Y: 0, Z: (0.5 - v) * depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: u, Y: v},
				Tangent:  math.Vec3Right,
			})
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			// Row z is nearer the viewer's far edge (+Z) than row z+1.
			topLeft := uint32(z*n + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(n)
			bottomRight := bottomLeft + 1
			d.Indices = append(d.Indices,
				bottomLeft, topLeft, topRight,
				bottomLeft, topRight, bottomRight,
			)
		}
	}
	return d
}

// SphereData builds a UV sphere. Rings run from the north pole down.
func SphereData(radius float32, segments, rings int) *MeshData {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	d := &MeshData{Name: "Sphere"}

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sin(phi), math32.Cos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sin(theta), math32.Cos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			d.Vertices = append(d.Vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			// The pole rings collapse to a point, so one triangle of each
			// quad there has zero area.
			if ring != 0 {
				d.Indices = append(d.Indices, current, current+1, next)
			}
			if ring != rings-1 {
				d.Indices = append(d.Indices, current+1, next+1, next)
			}
		}
	}

	ComputeTangents(d)
	return d
}

package scene

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forward-renderer/gpu/recorder"
	"forward-renderer/math"
)

// assertClockwise checks that every triangle's geometric normal agrees with
// its vertex normals, which for the left-handed convention means clockwise
// front faces.
func assertClockwise(t *testing.T, d *MeshData) {
	t.Helper()
	for i := 0; i+2 < len(d.Indices); i += 3 {
		a, b, c := d.Vertices[d.Indices[i]], d.Vertices[d.Indices[i+1]], d.Vertices[d.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		require.Greaterf(t, n.Length(), float32(1e-6), "%s triangle %d is degenerate", d.Name, i/3)
		avg := a.Normal.Add(b.Normal).Add(c.Normal)
		require.Greaterf(t, n.Dot(avg), float32(0), "%s triangle %d faces inward", d.Name, i/3)
	}
}

func TestPrimitivesWinding(t *testing.T) {
	for _, d := range []*MeshData{CubeData(2), PlaneData(4, 4, 3), SphereData(1, 16, 8)} {
		t.Run(d.Name, func(t *testing.T) {
			require.Zero(t, len(d.Indices)%3)
			assertClockwise(t, d)
		})
	}
}

func TestSphereSkipsPoleTriangles(t *testing.T) {
	d := SphereData(1, 16, 8)
	// Two triangles per quad except one per quad on each pole ring.
	assert.Len(t, d.Indices, (16*8*2-2*16)*3)
	assertClockwise(t, d)
}

func TestCubeGeometry(t *testing.T) {
	d := CubeData(2)
	assert.Len(t, d.Vertices, 24)
	assert.Len(t, d.Indices, 36)
	for _, v := range d.Vertices {
		assert.InDelta(t, 1, max(math32.Abs(v.Position.X), math32.Abs(v.Position.Y), math32.Abs(v.Position.Z)), eps)
		assert.InDelta(t, 0, v.Tangent.Dot(v.Normal), eps)
	}
}

func TestComputeTangentsFollowsU(t *testing.T) {
	d := PlaneData(2, 2, 1)
	for i := range d.Vertices {
		d.Vertices[i].Tangent = math.Vec3Zero
	}
	ComputeTangents(d)
	for _, v := range d.Vertices {
		assertVec3(t, math.Vec3Right, v.Tangent)
	}
}

const quadOBJ = `# unit quad in the XY plane facing +Z
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJConvertsHandedness(t *testing.T) {
	d, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	require.NoError(t, err)

	assert.Len(t, d.Vertices, 4)
	assert.Len(t, d.Indices, 6)
	for _, v := range d.Vertices {
		assertVec3(t, math.Vec3Back, v.Normal)
	}
	assertClockwise(t, d)

	// v is flipped so the top-left texel is (0,0)
	assert.Equal(t, math.Vec2{X: 0, Y: 1}, d.Vertices[0].UV)
	assert.Equal(t, math.Vec2{X: 1, Y: 0}, d.Vertices[2].UV)
}

func TestParseOBJGeneratesNormalsAndResolvesNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	d, err := ParseOBJ(strings.NewReader(src), "tri")
	require.NoError(t, err)
	require.Len(t, d.Vertices, 3)
	for _, v := range d.Vertices {
		assertVec3(t, math.Vec3Back, v.Normal)
	}
}

func TestParseOBJErrors(t *testing.T) {
	for name, src := range map[string]string{
		"no faces":      "v 0 0 0\n",
		"bad index":     "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n",
		"short face":    "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad component": "v 0 zero 0\n",
	} {
		_, err := ParseOBJ(strings.NewReader(src), name)
		assert.Error(t, err, name)
	}
}

func TestNewMeshLeavesInputUntouched(t *testing.T) {
	d := PlaneData(2, 2, 1)
	for i := range d.Vertices {
		d.Vertices[i].Tangent = math.Vec3{}
	}
	m, err := NewMesh(recorder.NewDevice(), d)
	require.NoError(t, err)
	assert.Equal(t, len(d.Vertices), m.VertexCount())
	for _, v := range d.Vertices {
		assert.Zero(t, v.Tangent.LengthSqr())
	}
}

func TestNewMeshValidates(t *testing.T) {
	dev := recorder.NewDevice()

	_, err := NewMesh(dev, &MeshData{Name: "empty"})
	assert.Error(t, err)

	bad := CubeData(1)
	bad.Indices = bad.Indices[:4]
	_, err = NewMesh(dev, bad)
	assert.Error(t, err)

	bad = CubeData(1)
	bad.Indices[0] = 99
	_, err = NewMesh(dev, bad)
	assert.Error(t, err)

	m, err := NewMesh(dev, CubeData(1))
	require.NoError(t, err)
	assert.Equal(t, 24, m.VertexCount())
	assert.Equal(t, 36, m.IndexCount())
	assert.Equal(t, AABB{Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}}, m.Bounds())
}

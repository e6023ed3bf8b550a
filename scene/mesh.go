package scene

import (
	"fmt"
	"slices"

	"forward-renderer/gpu"
)

// Mesh owns a vertex and an index buffer. It is immutable once built and
// may be shared by any number of entities.
type Mesh struct {
	name         string
	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
	vertexCount  int
	indexCount   int
	bounds       AABB
}

// NewMesh uploads d to dev. Tangents are generated on a copy of the
// vertices when every tangent in d is zero; d itself is never modified.
func NewMesh(dev gpu.Device, d *MeshData) (*Mesh, error) {
	if len(d.Vertices) == 0 || len(d.Indices) == 0 {
		return nil, fmt.Errorf("mesh %q: no geometry", d.Name)
	}
	if len(d.Indices)%3 != 0 {
		return nil, fmt.Errorf("mesh %q: %d indices is not a triangle list", d.Name, len(d.Indices))
	}
	for _, idx := range d.Indices {
		if int(idx) >= len(d.Vertices) {
			return nil, fmt.Errorf("mesh %q: index %d out of range of %d vertices", d.Name, idx, len(d.Vertices))
		}
	}
	if !hasTangents(d) {
		d = &MeshData{Name: d.Name, Vertices: slices.Clone(d.Vertices), Indices: d.Indices}
		ComputeTangents(d)
	}

	vb, err := dev.CreateVertexBuffer(d.Vertices)
	if err != nil {
		return nil, fmt.Errorf("mesh %q vertex buffer: %w", d.Name, err)
	}
	ib, err := dev.CreateIndexBuffer(d.Indices)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("mesh %q index buffer: %w", d.Name, err)
	}

	return &Mesh{
		name:         d.Name,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  len(d.Vertices),
		indexCount:   len(d.Indices),
		bounds:       BoundsOf(d),
	}, nil
}

func hasTangents(d *MeshData) bool {
	for _, v := range d.Vertices {
		if v.Tangent.LengthSqr() > 0 {
			return true
		}
	}
	return false
}

func (m *Mesh) Name() string             { return m.name }
func (m *Mesh) VertexCount() int         { return m.vertexCount }
func (m *Mesh) IndexCount() int          { return m.indexCount }
func (m *Mesh) VertexBuffer() gpu.Buffer { return m.vertexBuffer }
func (m *Mesh) IndexBuffer() gpu.Buffer  { return m.indexBuffer }

// Bounds is the object-space box around every vertex.
func (m *Mesh) Bounds() AABB { return m.bounds }

// Draw binds the buffers and issues one indexed draw. Shaders and their
// parameters must already be bound.
func (m *Mesh) Draw(ctx gpu.Context) {
	ctx.SetVertexBuffer(m.vertexBuffer)
	ctx.SetIndexBuffer(m.indexBuffer)
	ctx.DrawIndexed(m.indexCount)
}

func (m *Mesh) Release() {
	m.vertexBuffer.Release()
	m.indexBuffer.Release()
}

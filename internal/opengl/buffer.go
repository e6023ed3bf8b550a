package opengl

import (
	"errors"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

var errEmptyBuffer = errors.New("buffer has no elements")

// Buffer is a static vertex or index buffer. Vertex buffers carry their own
// VAO with the core.Vertex layout.
type Buffer struct {
	id  uint32
	vao uint32
	n   int
}

func (b *Buffer) Len() int { return b.n }

func (b *Buffer) Release() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

func (d *Device) CreateVertexBuffer(vertices []core.Vertex) (gpu.Buffer, error) {
	if len(vertices) == 0 {
		return nil, errEmptyBuffer
	}
	stride := int32(unsafe.Sizeof(core.Vertex{}))

	b := &Buffer{n: len(vertices)}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.id)
	gl.BindVertexArray(b.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*int(stride), gl.Ptr(vertices), gl.STATIC_DRAW)

	var v core.Vertex
	attribs := []struct {
		size   int32
		offset uintptr
	}{
		{3, unsafe.Offsetof(v.Position)},
		{3, unsafe.Offsetof(v.Normal)},
		{2, unsafe.Offsetof(v.UV)},
		{3, unsafe.Offsetof(v.Tangent)},
	}
	for loc, a := range attribs {
		gl.EnableVertexAttribArray(uint32(loc))
		gl.VertexAttribPointerWithOffset(uint32(loc), a.size, gl.FLOAT, false, stride, a.offset)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return b, nil
}

// CreateIndexBuffer uploads through the copy-write target; the buffer is
// attached to a VAO's element binding at draw time.
func (d *Device) CreateIndexBuffer(indices []uint32) (gpu.Buffer, error) {
	if len(indices) == 0 {
		return nil, errEmptyBuffer
	}
	b := &Buffer{n: len(indices)}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return b, nil
}

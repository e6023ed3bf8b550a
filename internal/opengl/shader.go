package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
	"forward-renderer/math"
	"forward-renderer/shaders"
)

type uniformKind int

const (
	uniformInt uniformKind = iota
	uniformFloat
	uniformFloat2
	uniformFloat3
	uniformFloat4
	uniformMatrix
)

type uniform struct {
	kind uniformKind
	i    int32
	f    [16]float32
}

// Shader is one compiled stage. GL links stages into programs, so scalar
// values are kept here and flushed into whichever program draws next.
type Shader struct {
	dev   *Device
	id    uint32
	path  string
	stage gpu.Stage
	refl  shaders.Reflection

	staged    map[string]uniform
	committed map[string]uniform
	data      map[string][]byte
	ubos      map[string]uint32
}

func newShader(d *Device, id uint32, path string, stage gpu.Stage, refl shaders.Reflection) *Shader {
	return &Shader{
		dev:       d,
		id:        id,
		path:      path,
		stage:     stage,
		refl:      refl,
		staged:    make(map[string]uniform),
		committed: make(map[string]uniform),
		data:      make(map[string][]byte),
		ubos:      make(map[string]uint32),
	}
}

func (s *Shader) Path() string                          { return s.path }
func (s *Shader) Stage() gpu.Stage                      { return s.stage }
func (s *Shader) Manifest() gpu.Manifest                { return s.refl.Manifest }
func (s *Shader) has(name string, k gpu.ParamKind) bool { return s.refl.Manifest.Has(name, k) }

func (s *Shader) stageValue(name string, u uniform) bool {
	if !s.has(name, gpu.ParamScalar) {
		return false
	}
	s.staged[name] = u
	return true
}

func (s *Shader) SetInt(name string, v int32) bool {
	return s.stageValue(name, uniform{kind: uniformInt, i: v})
}

func (s *Shader) SetFloat(name string, v float32) bool {
	return s.stageValue(name, uniform{kind: uniformFloat, f: [16]float32{v}})
}

func (s *Shader) SetFloat2(name string, v math.Vec2) bool {
	return s.stageValue(name, uniform{kind: uniformFloat2, f: [16]float32{v.X, v.Y}})
}

func (s *Shader) SetFloat3(name string, v math.Vec3) bool {
	return s.stageValue(name, uniform{kind: uniformFloat3, f: [16]float32{v.X, v.Y, v.Z}})
}

func (s *Shader) SetFloat4(name string, v math.Vec4) bool {
	return s.stageValue(name, uniform{kind: uniformFloat4, f: [16]float32{v.X, v.Y, v.Z, v.W}})
}

// SetMatrix4x4 keeps the row-vector memory order. GLSL reads it column-major,
// which is the transpose, so "projection * view * world * v" in the shader
// equals v * world * view * projection here.
func (s *Shader) SetMatrix4x4(name string, m math.Mat4) bool {
	u := uniform{kind: uniformMatrix}
	for r := range 4 {
		copy(u.f[r*4:r*4+4], m[r][:])
	}
	return s.stageValue(name, u)
}

func (s *Shader) SetData(name string, data []byte) bool {
	if !s.has(name, gpu.ParamData) {
		return false
	}
	s.data[name] = append(s.data[name][:0], data...)
	return true
}

// SetShaderResourceView binds tex to the unit of name's texture slot.
func (s *Shader) SetShaderResourceView(name string, tex gpu.Texture) bool {
	slot := s.refl.Manifest.Slot(name, gpu.ParamTexture)
	if slot < 0 {
		return false
	}
	t, _ := tex.(*Texture)
	s.dev.ctx.bindTexture(s.unit(slot), t)
	return true
}

// SetSamplerState binds smp to the unit of every texture the sampler filters.
func (s *Shader) SetSamplerState(name string, smp gpu.Sampler) bool {
	if !s.has(name, gpu.ParamSampler) {
		return false
	}
	var id uint32
	if v, ok := smp.(*Sampler); ok && v != nil {
		id = v.id
	}
	for _, tex := range s.refl.Samplers[name] {
		if slot := s.refl.Manifest.Slot(tex, gpu.ParamTexture); slot >= 0 {
			gl.BindSampler(s.unit(slot), id)
		}
	}
	return true
}

func (s *Shader) unit(slot int) uint32 {
	if s.stage == gpu.VertexStage {
		return uint32(vertexUnitBase + slot)
	}
	return uint32(slot)
}

// CopyAllBufferData commits staged scalars and uploads data blocks.
func (s *Shader) CopyAllBufferData() {
	for name, u := range s.staged {
		s.committed[name] = u
	}
	clear(s.staged)

	for name, data := range s.data {
		if len(data) == 0 {
			continue
		}
		ubo, ok := s.ubos[name]
		if !ok {
			gl.GenBuffers(1, &ubo)
			s.ubos[name] = ubo
		}
		gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
		gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(data), gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
		s.data[name] = data[:0]
	}
}

func (s *Shader) SetShader() {
	if s.stage == gpu.VertexStage {
		s.dev.ctx.SetVertexShader(s)
	} else {
		s.dev.ctx.SetPixelShader(s)
	}
}

func (s *Shader) Release() {
	s.dev.forgetPrograms(s)
	for name, ubo := range s.ubos {
		gl.DeleteBuffers(1, &ubo)
		delete(s.ubos, name)
	}
	if s.id != 0 {
		gl.DeleteShader(s.id)
		s.id = 0
	}
}

// flush writes the committed values into prog.
func (s *Shader) flush(prog *program) {
	for name, u := range s.committed {
		loc, ok := prog.locations[name]
		if !ok || loc < 0 {
			continue
		}
		switch u.kind {
		case uniformInt:
			gl.Uniform1i(loc, u.i)
		case uniformFloat:
			gl.Uniform1f(loc, u.f[0])
		case uniformFloat2:
			gl.Uniform2f(loc, u.f[0], u.f[1])
		case uniformFloat3:
			gl.Uniform3f(loc, u.f[0], u.f[1], u.f[2])
		case uniformFloat4:
			gl.Uniform4f(loc, u.f[0], u.f[1], u.f[2], u.f[3])
		case uniformMatrix:
			gl.UniformMatrix4fv(loc, 1, false, &u.f[0])
		}
	}
	for name, ubo := range s.ubos {
		if binding, ok := prog.blocks[name]; ok {
			gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, ubo)
		}
	}
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

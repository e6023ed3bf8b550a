package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"forward-renderer/gpu"
)

type programKey struct {
	vs, ps *Shader
}

// program is a linked (vertex, pixel) pair. ps nil links the depth-only
// fragment stage.
type program struct {
	id        uint32
	locations map[string]int32
	blocks    map[string]uint32
	failed    bool
}

func (p *program) release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// program returns the linked program for the pair, linking it on first use.
// A failed link is cached so it is reported once.
func (d *Device) program(vs, ps *Shader) *program {
	key := programKey{vs: vs, ps: ps}
	if p, ok := d.programs[key]; ok {
		return p
	}

	frag := d.depthOnly
	psPath := "depth-only"
	if ps != nil {
		frag = ps.id
		psPath = ps.path
	}
	p, err := linkProgram(vs, ps, frag)
	if err != nil {
		d.log.Error("program link failed",
			zap.String("vertex", vs.path),
			zap.String("pixel", psPath),
			zap.Error(err),
		)
		p = &program{failed: true}
	} else {
		d.log.Debug("program linked", zap.String("vertex", vs.path), zap.String("pixel", psPath))
	}
	d.programs[key] = p
	return p
}

func (d *Device) forgetPrograms(s *Shader) {
	for key, p := range d.programs {
		if key.vs == s || key.ps == s {
			p.release()
			delete(d.programs, key)
		}
	}
}

func linkProgram(vs, ps *Shader, frag uint32) (*program, error) {
	prog := gl.CreateProgram()
	gl.AttachShader(prog, vs.id)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DetachShader(prog, vs.id)
	gl.DetachShader(prog, frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("link failed: %v", strings.TrimRight(log, "\x00"))
	}

	p := &program{
		id:        prog,
		locations: make(map[string]int32),
		blocks:    make(map[string]uint32),
	}
	gl.UseProgram(prog)
	for _, s := range []*Shader{vs, ps} {
		if s == nil {
			continue
		}
		m := s.refl.Manifest
		for _, name := range m.Names(gpu.ParamScalar) {
			p.locations[name] = uniformLocation(prog, name)
		}
		// Sampler uniforms point at fixed units in manifest order.
		for slot, name := range m.Names(gpu.ParamTexture) {
			if loc := uniformLocation(prog, name); loc >= 0 {
				gl.Uniform1i(loc, int32(s.unit(slot)))
			}
		}
		for _, name := range m.Names(gpu.ParamData) {
			idx := gl.GetUniformBlockIndex(prog, gl.Str(name+"\x00"))
			if idx == gl.INVALID_INDEX {
				continue
			}
			binding := uint32(len(p.blocks))
			gl.UniformBlockBinding(prog, idx, binding)
			p.blocks[name] = binding
		}
	}
	return p, nil
}

func uniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
)

// textureMaxAnisotropy is GL_TEXTURE_MAX_ANISOTROPY; core only from 4.6 but
// exposed by every 4.1 driver through the EXT enum of the same value.
const textureMaxAnisotropy = 0x84FE

type Sampler struct {
	id uint32
}

func (s *Sampler) Release() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	s := &Sampler{}
	gl.GenSamplers(1, &s.id)

	minFilter, magFilter := int32(gl.LINEAR_MIPMAP_LINEAR), int32(gl.LINEAR)
	switch desc.Filter {
	case gpu.FilterPoint:
		minFilter, magFilter = gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
	case gpu.FilterAnisotropic:
		gl.SamplerParameterf(s.id, textureMaxAnisotropy, float32(max(desc.MaxAnisotropy, 1)))
	}
	if desc.Comparison {
		// Depth views carry a single level.
		minFilter = magFilter
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, magFilter)

	var wrap int32
	switch desc.Address {
	case gpu.AddressWrap:
		wrap = gl.REPEAT
	case gpu.AddressClamp:
		wrap = gl.CLAMP_TO_EDGE
	case gpu.AddressBorder:
		wrap = gl.CLAMP_TO_BORDER
		gl.SamplerParameterfv(s.id, gl.TEXTURE_BORDER_COLOR, &desc.BorderColor[0])
	default:
		s.Release()
		return nil, fmt.Errorf("sampler: unknown address mode %d", desc.Address)
	}
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, wrap)

	if desc.Comparison {
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
		gl.SamplerParameteri(s.id, gl.TEXTURE_COMPARE_FUNC, int32(compareFunc(desc.CompareFunc)))
	}
	return s, nil
}

func compareFunc(f gpu.CompareFunc) uint32 {
	switch f {
	case gpu.CompareLessEqual:
		return gl.LEQUAL
	case gpu.CompareAlways:
		return gl.ALWAYS
	default:
		return gl.LESS
	}
}

// RasterizerState is applied as GL state when bound. GL 4.1 has no polygon
// offset clamp, so DepthBiasClamp is not honoured.
type RasterizerState struct {
	desc gpu.RasterizerDesc
}

func (*RasterizerState) Release() {}

func (d *Device) CreateRasterizerState(desc gpu.RasterizerDesc) (gpu.RasterizerState, error) {
	if desc.Cull < gpu.CullBack || desc.Cull > gpu.CullNone {
		return nil, fmt.Errorf("rasterizer: unknown cull mode %d", desc.Cull)
	}
	return &RasterizerState{desc: desc}, nil
}

func (r *RasterizerState) apply() {
	switch r.desc.Cull {
	case gpu.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
	if r.desc.DepthBias == 0 && r.desc.SlopeScaledDepthBias == 0 {
		gl.Disable(gl.POLYGON_OFFSET_FILL)
		return
	}
	gl.Enable(gl.POLYGON_OFFSET_FILL)
	gl.PolygonOffset(r.desc.SlopeScaledDepthBias, float32(r.desc.DepthBias))
}

type DepthState struct {
	desc gpu.DepthStateDesc
}

func (*DepthState) Release() {}

func (d *Device) CreateDepthState(desc gpu.DepthStateDesc) (gpu.DepthState, error) {
	if desc.Func < gpu.CompareLess || desc.Func > gpu.CompareAlways {
		return nil, fmt.Errorf("depth state: unknown compare func %d", desc.Func)
	}
	return &DepthState{desc: desc}, nil
}

func (s *DepthState) apply() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(compareFunc(s.desc.Func))
	gl.DepthMask(s.desc.WriteEnabled)
}

var (
	defaultRasterizer = &RasterizerState{desc: gpu.RasterizerDesc{Cull: gpu.CullBack}}
	defaultDepthState = &DepthState{desc: gpu.DepthStateDesc{Func: gpu.CompareLess, WriteEnabled: true}}
)

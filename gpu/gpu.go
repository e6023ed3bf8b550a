// Package gpu is the graphics-device contract the renderer core is written
// against. Backends (OpenGL, the in-memory recorder) implement it; the core
// never reaches for a global device.
package gpu

import (
	"forward-renderer/core"
	"forward-renderer/math"
)

// Resource is any GPU object owned by the caller.
type Resource interface {
	Release()
}

type Buffer interface {
	Resource
	// Len is the element count: vertices or indices.
	Len() int
}

// Texture is a shader-readable view of an image resource.
type Texture interface {
	Resource
	Size() (width, height int)
}

type Sampler interface{ Resource }

type RasterizerState interface{ Resource }

type DepthState interface{ Resource }

// RenderTarget is a color output view.
type RenderTarget interface{ Resource }

// DepthTarget is a depth output view. ShaderView returns the readable view of
// the same storage, or nil when the target cannot be sampled.
type DepthTarget interface {
	Resource
	Size() (width, height int)
	ShaderView() Texture
}

type Device interface {
	CreateVertexBuffer(vertices []core.Vertex) (Buffer, error)
	CreateIndexBuffer(indices []uint32) (Buffer, error)
	CreateTexture(desc TextureDesc) (Texture, error)
	CreateCubemap(desc CubemapDesc) (Texture, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateRasterizerState(desc RasterizerDesc) (RasterizerState, error)
	CreateDepthState(desc DepthStateDesc) (DepthState, error)
	CreateDepthTarget(desc DepthTargetDesc) (DepthTarget, error)
	LoadVertexShader(path string) (Shader, error)
	LoadPixelShader(path string) (Shader, error)
	Context() Context
}

// Context issues state changes and draws in submission order.
type Context interface {
	ClearRenderTarget(rt RenderTarget, color core.Color)
	ClearDepth(dt DepthTarget, depth float32)
	// SetRenderTargets binds the outputs; rt may be nil for depth-only passes.
	SetRenderTargets(rt RenderTarget, dt DepthTarget)
	SetViewport(vp core.Viewport)
	// SetRasterizerState and SetDepthState restore the defaults when given nil.
	SetRasterizerState(rs RasterizerState)
	SetDepthState(ds DepthState)
	SetVertexShader(s Shader)
	// SetPixelShader with nil disables the pixel stage.
	SetPixelShader(s Shader)
	SetVertexBuffer(b Buffer)
	SetIndexBuffer(b Buffer)
	DrawIndexed(indexCount int)
	// UnbindShaderResources clears pixel-stage texture slots [0, slots).
	UnbindShaderResources(slots int)
}

// Surface is the window-side output: the back buffer, its depth buffer and
// the swap.
type Surface interface {
	Size() (width, height int)
	BackBuffer() RenderTarget
	DepthBuffer() DepthTarget
	Present(vsync bool)
}

// AspectRatio returns width/height of s, or 1 for an empty surface.
func AspectRatio(s Surface) float32 {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return 1
	}
	return float32(w) / float32(h)
}

type Stage int

const (
	VertexStage Stage = iota
	PixelStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case PixelStage:
		return "pixel"
	default:
		return "unknown"
	}
}

// Shader is one compiled stage with a named-parameter interface. Each setter
// reports whether the name exists in the stage; unknown names are ignored.
// Scalar values are staged until CopyAllBufferData; textures and samplers
// bind immediately.
type Shader interface {
	Resource
	Path() string
	Stage() Stage
	Manifest() Manifest

	SetInt(name string, v int32) bool
	SetFloat(name string, v float32) bool
	SetFloat2(name string, v math.Vec2) bool
	SetFloat3(name string, v math.Vec3) bool
	SetFloat4(name string, v math.Vec4) bool
	SetMatrix4x4(name string, m math.Mat4) bool
	// SetData uploads a packed record array into a named data block.
	SetData(name string, data []byte) bool
	SetShaderResourceView(name string, tex Texture) bool
	SetSamplerState(name string, s Sampler) bool

	CopyAllBufferData()
	// SetShader makes this the active shader for its stage.
	SetShader()
}

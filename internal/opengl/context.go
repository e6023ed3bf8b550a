package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

// RenderTarget is a color output. The only one is the surface's back
// buffer, which lives in the default framebuffer.
type RenderTarget struct {
	surface *Surface
}

func (*RenderTarget) Release() {}

type Context struct {
	dev *Device

	rt *RenderTarget
	dt *DepthTarget

	viewport      core.Viewport
	viewportDirty bool
	depthWrite    bool

	vs, ps *Shader
	vb, ib *Buffer
	units  [vertexUnitBase + maxSlots]*Texture
}

func newContext(d *Device) *Context {
	return &Context{dev: d, depthWrite: true}
}

// boundFBO is the framebuffer the current targets resolve to.
func (c *Context) boundFBO() uint32 {
	if c.rt == nil && c.dt != nil {
		return c.dt.fbo
	}
	return 0
}

// targetHeight is the height of the bound framebuffer, used to flip the
// top-left viewport origin into GL's bottom-left one.
func (c *Context) targetHeight() int {
	switch {
	case c.rt == nil && c.dt != nil:
		_, h := c.dt.Size()
		return h
	case c.rt != nil:
		_, h := c.rt.surface.Size()
		return h
	default:
		return int(c.viewport.Y + c.viewport.Height)
	}
}

func (c *Context) ClearRenderTarget(rt gpu.RenderTarget, color core.Color) {
	if _, ok := rt.(*RenderTarget); !ok {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.boundFBO())
}

// ClearDepth clears regardless of the bound depth state's write mask.
func (c *Context) ClearDepth(dt gpu.DepthTarget, depth float32) {
	t, ok := dt.(*DepthTarget)
	if !ok || t == nil {
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.DepthMask(true)
	gl.ClearDepthf(depth)
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.DepthMask(c.depthWrite)
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.boundFBO())
}

// SetRenderTargets binds the default framebuffer for the back buffer, or the
// depth target's own framebuffer for a depth-only pass.
func (c *Context) SetRenderTargets(rt gpu.RenderTarget, dt gpu.DepthTarget) {
	c.rt, _ = rt.(*RenderTarget)
	c.dt, _ = dt.(*DepthTarget)
	if c.rt != nil && c.dt != nil && c.dt.fbo != 0 {
		c.dev.log.Warn("offscreen depth cannot pair with the back buffer, using the surface depth")
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.boundFBO())
	c.viewportDirty = true
}

// SetViewport is applied at the next draw, against whichever framebuffer is
// bound by then.
func (c *Context) SetViewport(vp core.Viewport) {
	c.viewport = vp
	c.viewportDirty = true
}

func (c *Context) applyViewport() {
	if !c.viewportDirty {
		return
	}
	vp := c.viewport
	y := float32(c.targetHeight()) - (vp.Y + vp.Height)
	gl.Viewport(int32(vp.X), int32(y), int32(vp.Width), int32(vp.Height))
	gl.DepthRangef(vp.MinDepth, vp.MaxDepth)
	c.viewportDirty = false
}

func (c *Context) SetRasterizerState(rs gpu.RasterizerState) {
	r, _ := rs.(*RasterizerState)
	if r == nil {
		r = defaultRasterizer
	}
	r.apply()
}

func (c *Context) SetDepthState(ds gpu.DepthState) {
	s, _ := ds.(*DepthState)
	if s == nil {
		s = defaultDepthState
	}
	s.apply()
	c.depthWrite = s.desc.WriteEnabled
}

func (c *Context) SetVertexShader(s gpu.Shader) { c.vs, _ = s.(*Shader) }

func (c *Context) SetPixelShader(s gpu.Shader) { c.ps, _ = s.(*Shader) }

func (c *Context) SetVertexBuffer(b gpu.Buffer) { c.vb, _ = b.(*Buffer) }

func (c *Context) SetIndexBuffer(b gpu.Buffer) { c.ib, _ = b.(*Buffer) }

func (c *Context) bindTexture(unit uint32, t *Texture) {
	if int(unit) >= len(c.units) {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	if prev := c.units[unit]; prev != nil && (t == nil || prev.target != t.target) {
		gl.BindTexture(prev.target, 0)
	}
	if t != nil {
		gl.BindTexture(t.target, t.id)
	}
	c.units[unit] = t
}

func (c *Context) UnbindShaderResources(slots int) {
	for unit := range min(slots, maxSlots) {
		c.bindTexture(uint32(unit), nil)
	}
}

func (c *Context) DrawIndexed(indexCount int) {
	if c.vs == nil || c.vb == nil || c.ib == nil {
		c.dev.log.Error("draw without vertex shader or buffers",
			zap.Bool("vertexShader", c.vs != nil),
			zap.Bool("vertexBuffer", c.vb != nil),
			zap.Bool("indexBuffer", c.ib != nil),
		)
		return
	}
	prog := c.dev.program(c.vs, c.ps)
	if prog.failed {
		return
	}

	c.applyViewport()
	gl.UseProgram(prog.id)
	c.vs.flush(prog)
	if c.ps != nil {
		c.ps.flush(prog)
	}

	gl.BindVertexArray(c.vb.vao)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, c.ib.id)
	gl.DrawElements(gl.TRIANGLES, int32(indexCount), gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

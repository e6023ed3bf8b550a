package recorder

import (
	"fmt"
	"maps"

	"forward-renderer/core"
	"forward-renderer/gpu"
)

type Op string

const (
	OpClearRenderTarget Op = "ClearRenderTarget"
	OpClearDepth        Op = "ClearDepth"
	OpSetRenderTargets  Op = "SetRenderTargets"
	OpSetViewport       Op = "SetViewport"
	OpSetRasterizer     Op = "SetRasterizerState"
	OpSetDepthState     Op = "SetDepthState"
	OpSetVertexShader   Op = "SetVertexShader"
	OpSetPixelShader    Op = "SetPixelShader"
	OpBindTexture       Op = "BindTexture"
	OpCopyBufferData    Op = "CopyAllBufferData"
	OpDraw              Op = "DrawIndexed"
	OpUnbindResources   Op = "UnbindShaderResources"
	OpPresent           Op = "Present"
)

type Event struct {
	Op  Op
	Arg string
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%s)", e.Op, e.Arg)
}

// Draw is the pipeline state captured at one DrawIndexed.
type Draw struct {
	IndexCount   int
	VertexShader string
	PixelShader  string
	RenderTarget string
	DepthTarget  string
	Viewport     core.Viewport
	Rasterizer   *gpu.RasterizerDesc
	DepthState   *gpu.DepthStateDesc
	VertexParams map[string]any
	PixelParams  map[string]any
	// Textures maps pixel slot index to the bound texture name.
	Textures map[int]string
}

type Context struct {
	rt         *RenderTarget
	dt         *DepthTarget
	viewport   core.Viewport
	rasterizer *RasterizerState
	depthState *DepthState
	vs, ps     *Shader
	vb, ib     *Buffer
	textures   [2][MaxSlots]*Texture
	samplers   [2][MaxSlots]*Sampler

	events     []Event
	draws      []Draw
	violations []string
}

func (c *Context) record(op Op, arg string) {
	c.events = append(c.events, Event{Op: op, Arg: arg})
}

func (c *Context) violate(format string, args ...any) {
	c.violations = append(c.violations, fmt.Sprintf("event %d: ", len(c.events))+fmt.Sprintf(format, args...))
}

func nameOf(r interface{ Name() string }) string {
	switch v := r.(type) {
	case *RenderTarget:
		if v == nil {
			return "none"
		}
	case *DepthTarget:
		if v == nil {
			return "none"
		}
	case *Shader:
		if v == nil {
			return "none"
		}
	case *Texture:
		if v == nil {
			return "none"
		}
	}
	return r.Name()
}

func (c *Context) ClearRenderTarget(rt gpu.RenderTarget, color core.Color) {
	r, _ := rt.(*RenderTarget)
	c.record(OpClearRenderTarget, nameOf(r))
}

func (c *Context) ClearDepth(dt gpu.DepthTarget, depth float32) {
	d, _ := dt.(*DepthTarget)
	c.record(OpClearDepth, nameOf(d))
}

func (c *Context) SetRenderTargets(rt gpu.RenderTarget, dt gpu.DepthTarget) {
	c.rt, _ = rt.(*RenderTarget)
	c.dt, _ = dt.(*DepthTarget)
	c.record(OpSetRenderTargets, nameOf(c.rt)+","+nameOf(c.dt))
	c.checkHazards()
}

func (c *Context) SetViewport(vp core.Viewport) {
	c.viewport = vp
	c.record(OpSetViewport, fmt.Sprintf("%gx%g", vp.Width, vp.Height))
}

func (c *Context) SetRasterizerState(rs gpu.RasterizerState) {
	c.rasterizer, _ = rs.(*RasterizerState)
	arg := "default"
	if c.rasterizer != nil {
		arg = c.rasterizer.Name()
	}
	c.record(OpSetRasterizer, arg)
}

func (c *Context) SetDepthState(ds gpu.DepthState) {
	c.depthState, _ = ds.(*DepthState)
	arg := "default"
	if c.depthState != nil {
		arg = c.depthState.Name()
	}
	c.record(OpSetDepthState, arg)
}

func (c *Context) SetVertexShader(s gpu.Shader) {
	c.vs, _ = s.(*Shader)
	c.record(OpSetVertexShader, nameOf(c.vs))
}

func (c *Context) SetPixelShader(s gpu.Shader) {
	c.ps, _ = s.(*Shader)
	c.record(OpSetPixelShader, nameOf(c.ps))
}

func (c *Context) SetVertexBuffer(b gpu.Buffer) {
	c.vb, _ = b.(*Buffer)
}

func (c *Context) SetIndexBuffer(b gpu.Buffer) {
	c.ib, _ = b.(*Buffer)
}

func (c *Context) bindTexture(stage gpu.Stage, slot int, t *Texture) {
	c.textures[stage][slot] = t
	c.record(OpBindTexture, fmt.Sprintf("%s[%d]=%s", stage, slot, nameOf(t)))
	c.checkHazards()
}

func (c *Context) UnbindShaderResources(slots int) {
	for i := 0; i < slots && i < MaxSlots; i++ {
		c.textures[gpu.PixelStage][i] = nil
	}
	c.record(OpUnbindResources, fmt.Sprint(slots))
}

func (c *Context) DrawIndexed(indexCount int) {
	c.record(OpDraw, fmt.Sprint(indexCount))
	c.checkHazards()

	switch {
	case c.vs == nil:
		c.violate("draw without a vertex shader")
	case c.vb == nil || c.ib == nil:
		c.violate("draw without vertex or index buffer")
	case indexCount > c.ib.Len():
		c.violate("draw of %d indices from a buffer of %d", indexCount, c.ib.Len())
	}
	for _, r := range []*resource{bufferRes(c.vb), bufferRes(c.ib)} {
		if r != nil && r.released {
			c.violate("draw uses released buffer %s", r.name)
		}
	}

	d := Draw{
		IndexCount:   indexCount,
		VertexShader: nameOf(c.vs),
		PixelShader:  nameOf(c.ps),
		RenderTarget: nameOf(c.rt),
		DepthTarget:  nameOf(c.dt),
		Viewport:     c.viewport,
		Textures:     make(map[int]string),
	}
	if c.rasterizer != nil {
		desc := c.rasterizer.Desc
		d.Rasterizer = &desc
	}
	if c.depthState != nil {
		desc := c.depthState.Desc
		d.DepthState = &desc
	}
	if c.vs != nil {
		d.VertexParams = maps.Clone(c.vs.committed)
	}
	if c.ps != nil {
		d.PixelParams = maps.Clone(c.ps.committed)
		for slot, t := range c.textures[gpu.PixelStage] {
			if t != nil {
				d.Textures[slot] = t.Name()
			}
		}
	}
	c.draws = append(c.draws, d)
}

func bufferRes(b *Buffer) *resource {
	if b == nil {
		return nil
	}
	return &b.resource
}

// checkHazards flags any texture slot reading the storage currently bound
// as an output.
func (c *Context) checkHazards() {
	for stage := range c.textures {
		for slot, t := range c.textures[stage] {
			if t == nil {
				continue
			}
			if c.dt != nil && t.store == c.dt.store {
				c.violate("%s is the depth target and bound to %s slot %d", t.store.name, gpu.Stage(stage), slot)
			}
			if c.rt != nil && t.store == c.rt.store {
				c.violate("%s is the render target and bound to %s slot %d", t.store.name, gpu.Stage(stage), slot)
			}
		}
	}
}

func (c *Context) Events() []Event      { return c.events }
func (c *Context) Draws() []Draw        { return c.draws }
func (c *Context) Violations() []string { return c.violations }

// Ops returns the event operations in order.
func (c *Context) Ops() []Op {
	ops := make([]Op, len(c.events))
	for i, e := range c.events {
		ops[i] = e.Op
	}
	return ops
}

// Targets returns the names of the bound render and depth targets.
func (c *Context) Targets() (rt, dt string) {
	return nameOf(c.rt), nameOf(c.dt)
}

// BoundTexture returns the name of the texture in a slot, or "".
func (c *Context) BoundTexture(stage gpu.Stage, slot int) string {
	if t := c.textures[stage][slot]; t != nil {
		return t.Name()
	}
	return ""
}

// Reset clears the log but keeps the bound state.
func (c *Context) Reset() {
	c.events = nil
	c.draws = nil
	c.violations = nil
}

// Package renderer sequences one frame: clear, shadow pass, main pass, sky,
// overlay and present.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"forward-renderer/config"
	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/scene"
)

// MaxShaderResources is how many pixel-stage texture slots are cleared at
// the end of every frame.
const MaxShaderResources = 16

// Overlay draws on top of the finished frame, before present.
type Overlay interface {
	Draw(ctx gpu.Context)
}

// FrameStats describes the most recent frame.
type FrameStats struct {
	Frames      uint64
	Draws       int
	ShadowDraws int
	Culled      int
}

type Renderer struct {
	ctx     gpu.Context
	surface gpu.Surface
	scene   *scene.Scene
	shadow  *ShadowMap

	clearColor  core.Color
	vsync       bool
	frustumCull bool

	// Overlay is drawn after the sky when set.
	Overlay Overlay

	stats FrameStats
	log   *zap.Logger
}

// New builds the shadow map and prepares to draw sc into surface. shadowVS
// is the depth-only vertex shader for the shadow pass.
func New(dev gpu.Device, surface gpu.Surface, sc *scene.Scene, shadowVS gpu.Shader, cfg config.Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	shadow, err := NewShadowMap(dev, shadowVS, cfg.Shadow)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	cc := cfg.Render.ClearColor
	r := &Renderer{
		ctx:         dev.Context(),
		surface:     surface,
		scene:       sc,
		shadow:      shadow,
		clearColor:  core.Color{R: cc[0], G: cc[1], B: cc[2], A: cc[3]},
		vsync:       cfg.Window.VSync,
		frustumCull: cfg.Render.FrustumCull,
		log:         log,
	}

	w, h := surface.Size()
	log.Info("renderer ready",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Int("shadowResolution", shadow.Resolution()),
		zap.Bool("vsync", r.vsync),
		zap.Bool("frustumCull", r.frustumCull),
	)
	return r, nil
}

func (r *Renderer) Shadow() *ShadowMap         { return r.shadow }
func (r *Renderer) Stats() FrameStats          { return r.stats }
func (r *Renderer) Scene() *scene.Scene        { return r.scene }
func (r *Renderer) SetVSync(on bool)           { r.vsync = on }
func (r *Renderer) SetClearColor(c core.Color) { r.clearColor = c }

// Resize re-derives every camera's projection from the surface size. The
// window layer calls it after the surface has been resized.
func (r *Renderer) Resize() {
	w, h := r.surface.Size()
	r.scene.Resize(gpu.AspectRatio(r.surface))
	r.log.Debug("resized", zap.Int("width", w), zap.Int("height", h))
}

// Render draws and presents one frame. The shadow depth resource is only
// ever bound as an output in the shadow pass and only read in the main pass;
// the trailing unbind keeps the next frame's shadow pass from finding it
// still bound as an input.
func (r *Renderer) Render() {
	ctx := r.ctx
	back, depth := r.surface.BackBuffer(), r.surface.DepthBuffer()
	w, h := r.surface.Size()
	stats := FrameStats{Frames: r.stats.Frames + 1}

	ctx.ClearRenderTarget(back, r.clearColor)
	ctx.ClearDepth(depth, 1)

	// shadow pass
	if l, ok := r.scene.Lights.ShadowCaster(); ok {
		r.shadow.Update(l.Direction)
	}
	ctx.ClearDepth(r.shadow.Target(), 1)
	ctx.SetRasterizerState(r.shadow.rasterizer)
	ctx.SetPixelShader(nil)
	ctx.SetRenderTargets(nil, r.shadow.Target())
	ctx.SetViewport(r.shadow.Viewport())
	stats.ShadowDraws = r.shadow.draw(ctx, r.scene.Entities())

	// restore
	ctx.SetViewport(core.FullViewport(w, h))
	ctx.SetRenderTargets(back, depth)
	ctx.SetRasterizerState(nil)

	if cam := r.scene.CurrentCamera(); cam != nil {
		frame := r.frameParams(cam)

		var frustum scene.Frustum
		if r.frustumCull {
			frustum = scene.FrustumFromViewProjection(cam.View().Mul(cam.Projection()))
		}
		for _, e := range r.scene.Entities() {
			if e.Mesh() == nil || e.Material() == nil {
				continue
			}
			if r.frustumCull && !e.Visible(&frustum) {
				stats.Culled++
				continue
			}
			e.Draw(ctx, frame)
			stats.Draws++
		}

		if r.scene.Sky != nil {
			r.scene.Sky.Draw(ctx, cam)
			stats.Draws++
		}
	}

	if r.Overlay != nil {
		r.Overlay.Draw(ctx)
	}

	r.surface.Present(r.vsync)

	ctx.SetRenderTargets(back, depth)
	ctx.UnbindShaderResources(MaxShaderResources)

	r.stats = stats
}

func (r *Renderer) frameParams(cam *scene.Camera) *scene.FrameParams {
	lights := r.scene.Lights
	return &scene.FrameParams{
		View:            cam.View(),
		Projection:      cam.Projection(),
		CameraPosition:  cam.Transform().Position(),
		Ambient:         lights.Ambient,
		Lights:          lights.Pack(),
		LightCount:      lights.Len(),
		LightView:       r.shadow.View(),
		LightProjection: r.shadow.Projection(),
		ShadowMap:       r.shadow.ShaderView(),
		ShadowSampler:   r.shadow.Sampler(),
	}
}

// Release frees the shadow map. The scene and surface belong to the caller.
func (r *Renderer) Release() {
	r.shadow.Release()
}

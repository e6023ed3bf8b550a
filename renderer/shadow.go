package renderer

import (
	"fmt"

	"github.com/chewxy/math32"

	"forward-renderer/config"
	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
	"forward-renderer/scene"
)

// ShadowMap is the depth-only render of the scene from the first light.
// One depth resource is written in the shadow pass and read through its
// shader view in the main pass, never both at once.
type ShadowMap struct {
	target     gpu.DepthTarget
	sampler    gpu.Sampler
	rasterizer gpu.RasterizerState
	vs         gpu.Shader

	resolution     int
	projectionSize float32
	lightDistance  float32

	view       math.Mat4
	projection math.Mat4
}

// NewShadowMap creates the depth target, a border-white comparison sampler
// and a depth-biased rasterizer. vs is the depth-only vertex shader.
func NewShadowMap(dev gpu.Device, vs gpu.Shader, cfg config.Shadow) (*ShadowMap, error) {
	target, err := dev.CreateDepthTarget(gpu.DepthTargetDesc{
		Name:   "shadow",
		Width:  cfg.Resolution,
		Height: cfg.Resolution,
	})
	if err != nil {
		return nil, fmt.Errorf("shadow depth target: %w", err)
	}
	if target.ShaderView() == nil {
		target.Release()
		return nil, fmt.Errorf("shadow depth target has no shader view")
	}

	sampler, err := dev.CreateSampler(gpu.SamplerDesc{
		Filter:      gpu.FilterLinear,
		Address:     gpu.AddressBorder,
		Comparison:  true,
		CompareFunc: gpu.CompareLess,
		BorderColor: [4]float32{1, 1, 1, 1},
	})
	if err != nil {
		target.Release()
		return nil, fmt.Errorf("shadow sampler: %w", err)
	}

	rasterizer, err := dev.CreateRasterizerState(gpu.RasterizerDesc{
		Cull:                 gpu.CullBack,
		DepthBias:            cfg.DepthBias,
		SlopeScaledDepthBias: cfg.SlopeBias,
		DepthBiasClamp:       cfg.BiasClamp,
	})
	if err != nil {
		target.Release()
		sampler.Release()
		return nil, fmt.Errorf("shadow rasterizer: %w", err)
	}

	s := &ShadowMap{
		target:         target,
		sampler:        sampler,
		rasterizer:     rasterizer,
		vs:             vs,
		resolution:     cfg.Resolution,
		projectionSize: cfg.ProjectionSize,
		lightDistance:  cfg.LightDistance,
		projection:     math.Mat4OrthographicLH(cfg.ProjectionSize, cfg.ProjectionSize, cfg.Near, cfg.Far),
	}
	s.Update(math.Vec3Down)
	return s, nil
}

// Update aims the light camera along dir from lightDistance back along it,
// centred on the origin. A zero direction keeps the previous view.
func (s *ShadowMap) Update(dir math.Vec3) {
	if dir.LengthSqr() < math.Epsilon {
		return
	}
	dir = dir.Normalize()
	up := math.Vec3Up
	if math32.Abs(dir.Dot(up)) > 0.999 {
		up = math.Vec3Forward
	}
	s.view = math.Mat4LookToLH(dir.Mul(-s.lightDistance), dir, up)
}

func (s *ShadowMap) View() math.Mat4       { return s.view }
func (s *ShadowMap) Projection() math.Mat4 { return s.projection }

// LookDirection is the view matrix's forward axis in world space.
func (s *ShadowMap) LookDirection() math.Vec3 {
	return math.Vec3{X: s.view[0][2], Y: s.view[1][2], Z: s.view[2][2]}
}

func (s *ShadowMap) Target() gpu.DepthTarget { return s.target }
func (s *ShadowMap) ShaderView() gpu.Texture { return s.target.ShaderView() }
func (s *ShadowMap) Sampler() gpu.Sampler    { return s.sampler }
func (s *ShadowMap) Resolution() int         { return s.resolution }

func (s *ShadowMap) Viewport() core.Viewport {
	return core.FullViewport(s.resolution, s.resolution)
}

// draw renders every entity's depth into the bound shadow target.
func (s *ShadowMap) draw(ctx gpu.Context, entities []*scene.GameEntity) int {
	s.vs.SetShader()
	s.vs.SetMatrix4x4(scene.ParamView, s.view)
	s.vs.SetMatrix4x4(scene.ParamProjection, s.projection)
	draws := 0
	for _, e := range entities {
		if e.Mesh() == nil {
			continue
		}
		e.DrawDepth(ctx, s.vs)
		draws++
	}
	return draws
}

func (s *ShadowMap) Release() {
	s.target.Release()
	s.sampler.Release()
	s.rasterizer.Release()
}

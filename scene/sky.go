package scene

import (
	"errors"
	"fmt"

	"forward-renderer/gpu"
)

// Sky draws a cubemap on a mesh seen from the inside. It is drawn after
// opaque geometry: depth passes at the far plane (LESS_EQUAL, no writes)
// and front faces are culled so the inside of the mesh is visible.
type Sky struct {
	mesh       *Mesh
	cubemap    gpu.Texture
	sampler    gpu.Sampler
	vs, ps     gpu.Shader
	depthState gpu.DepthState
	rasterizer gpu.RasterizerState
}

func NewSky(dev gpu.Device, mesh *Mesh, cubemap gpu.Texture, sampler gpu.Sampler, vs, ps gpu.Shader) (*Sky, error) {
	if mesh == nil {
		return nil, errors.New("sky: no mesh")
	}
	ds, err := dev.CreateDepthState(gpu.DepthStateDesc{Func: gpu.CompareLessEqual, WriteEnabled: false})
	if err != nil {
		return nil, fmt.Errorf("sky depth state: %w", err)
	}
	rs, err := dev.CreateRasterizerState(gpu.RasterizerDesc{Cull: gpu.CullFront})
	if err != nil {
		ds.Release()
		return nil, fmt.Errorf("sky rasterizer: %w", err)
	}
	return &Sky{
		mesh:       mesh,
		cubemap:    cubemap,
		sampler:    sampler,
		vs:         vs,
		ps:         ps,
		depthState: ds,
		rasterizer: rs,
	}, nil
}

func (s *Sky) Cubemap() gpu.Texture { return s.cubemap }

// Draw renders the sky for cam and restores the default depth and
// rasterizer states.
func (s *Sky) Draw(ctx gpu.Context, cam *Camera) {
	ctx.SetRasterizerState(s.rasterizer)
	ctx.SetDepthState(s.depthState)

	s.vs.SetShader()
	s.ps.SetShader()
	s.vs.SetMatrix4x4(ParamView, cam.View())
	s.vs.SetMatrix4x4(ParamProjection, cam.Projection())
	s.vs.CopyAllBufferData()
	s.ps.SetShaderResourceView(SlotSkyTexture, s.cubemap)
	s.ps.SetSamplerState(SlotBasicSampler, s.sampler)

	s.mesh.Draw(ctx)

	ctx.SetRasterizerState(nil)
	ctx.SetDepthState(nil)
}

// Release frees the states the sky created. The mesh, cubemap and sampler
// belong to the caller.
func (s *Sky) Release() {
	s.depthState.Release()
	s.rasterizer.Release()
}

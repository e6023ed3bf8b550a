package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifestLookups(t *testing.T) {
	m := NewManifest(
		Param{Name: "colorTint", Kind: ParamScalar},
		Param{Name: "Albedo", Kind: ParamTexture},
		Param{Name: "ShadowMap", Kind: ParamTexture},
		Param{Name: "BasicSampler", Kind: ParamSampler},
		Param{Name: "lights", Kind: ParamData},
	)

	assert.True(t, m.Has("Albedo", ParamTexture))
	assert.False(t, m.Has("Albedo", ParamSampler))
	assert.False(t, m.Has("Normal", ParamTexture))

	assert.Equal(t, []string{"Albedo", "ShadowMap"}, m.Names(ParamTexture))
	assert.Equal(t, 1, m.Slot("ShadowMap", ParamTexture))
	assert.Equal(t, -1, m.Slot("Missing", ParamTexture))
	assert.Nil(t, NewManifest().Names(ParamSampler))
}

type fixedSurface struct{ w, h int }

func (s fixedSurface) Size() (int, int)         { return s.w, s.h }
func (s fixedSurface) BackBuffer() RenderTarget { return nil }
func (s fixedSurface) DepthBuffer() DepthTarget { return nil }
func (s fixedSurface) Present(bool)             {}

func TestAspectRatio(t *testing.T) {
	assert.InDelta(t, 16.0/9.0, AspectRatio(fixedSurface{1920, 1080}), 1e-6)
	assert.Equal(t, float32(1), AspectRatio(fixedSurface{0, 0}))
}

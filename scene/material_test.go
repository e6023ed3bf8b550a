package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/gpu/recorder"
	"forward-renderer/math"
)

func solidTexture(t *testing.T, dev gpu.Device, name string) gpu.Texture {
	t.Helper()
	tex, err := dev.CreateTexture(gpu.TextureDesc{Name: name, Width: 1, Height: 1, Pixels: []byte{255, 255, 255, 255}})
	require.NoError(t, err)
	return tex
}

func TestDefaultMaterial(t *testing.T) {
	dev := newDevice(t)
	vs, ps := loadPBR(t, dev)
	m := DefaultMaterial(vs, ps)

	assert.Equal(t, core.ColorWhite, m.ColorTint())
	assert.Equal(t, math.Vec2One, m.UVScale())
	assert.Equal(t, math.Vec2Zero, m.UVOffset())
	assert.Equal(t, float32(0.5), m.Roughness())
	assert.Same(t, vs, m.VertexShader())
	assert.Same(t, ps, m.PixelShader())
}

func TestMaterialSlotRoundTrip(t *testing.T) {
	dev := newDevice(t)
	vs, ps := loadPBR(t, dev)
	m := DefaultMaterial(vs, ps)

	albedo := solidTexture(t, dev, "albedo")
	normal := solidTexture(t, dev, "normal")
	smp, err := dev.CreateSampler(gpu.SamplerDesc{Filter: gpu.FilterAnisotropic, MaxAnisotropy: 16})
	require.NoError(t, err)

	m.AddTextureSRV("Albedo", albedo)
	m.AddTextureSRV("NormalMap", normal)
	m.AddSampler("BasicSampler", smp)

	assert.Equal(t, map[string]gpu.Texture{"Albedo": albedo, "NormalMap": normal}, m.Textures())
	assert.Equal(t, map[string]gpu.Sampler{"BasicSampler": smp}, m.Samplers())

	replacement := solidTexture(t, dev, "albedo2")
	m.AddTextureSRV("Albedo", replacement)
	require.Len(t, m.Textures(), 2)
	assert.Same(t, replacement, m.Textures()["Albedo"])
}

func TestMaterialValidate(t *testing.T) {
	dev := newDevice(t)
	vs, ps := loadPBR(t, dev)
	m := NewMaterial("bricks", core.ColorWhite, vs, ps, math.Vec2One, math.Vec2Zero, 0.2)

	m.AddTextureSRV("Albedo", solidTexture(t, dev, "albedo"))
	m.AddTextureSRV("Emissive", solidTexture(t, dev, "emissive"))
	smp, err := dev.CreateSampler(gpu.SamplerDesc{})
	require.NoError(t, err)
	m.AddSampler("BasicSampler", smp)

	var unregistered, unbound []string
	for _, d := range m.Validate() {
		assert.Equal(t, "bricks", d.Material)
		switch d.Kind {
		case UnregisteredSlot:
			unregistered = append(unregistered, d.Slot)
		case UnboundSlot:
			unbound = append(unbound, d.Slot)
		}
	}
	assert.Equal(t, []string{"Emissive"}, unregistered)
	// the shadow slots come from the renderer
	assert.ElementsMatch(t, []string{"NormalMap", "RoughnessMap", "MetalnessMap"}, unbound)
}

func TestAssetsLogsMaterialDiagnostics(t *testing.T) {
	dev := newDevice(t)
	vs, ps := loadPBR(t, dev)
	obs, logs := observer.New(zap.WarnLevel)

	assets := NewAssets(zap.New(obs))
	m := DefaultMaterial(vs, ps)
	id := assets.AddMaterial(m)

	assert.Same(t, m, assets.Material(id))
	// four unbound textures and one unbound sampler
	assert.Equal(t, 5, logs.FilterMessage("material slot mismatch").Len())

	m.AddTextureSRV("Nope", solidTexture(t, dev, "x"))
	assert.Equal(t, 1, logs.FilterMessage("material slot not declared by shader").Len())
}

func TestPrepareUploadsEveryParameter(t *testing.T) {
	dev := newDevice(t)
	vs, ps := loadPBR(t, dev)
	m := NewMaterial("m", core.ColorRed, vs, ps, math.Vec2{X: 2, Y: 3}, math.Vec2{X: 0.5}, 0.8)
	albedo := solidTexture(t, dev, "albedo")
	m.AddTextureSRV("Albedo", albedo)

	shadow, err := dev.CreateDepthTarget(gpu.DepthTargetDesc{Name: "shadow", Width: 4, Height: 4})
	require.NoError(t, err)
	lights := NewLightSet(math.Vec3{X: 0.1}, nil)
	lights.Add(DirectionalLight(math.Vec3Down, core.ColorWhite, 1))

	tr := NewTransform()
	tr.SetPosition(math.Vec3{X: 4})
	frame := &FrameParams{
		View:           math.Mat4Translation(math.Vec3{Z: 1}),
		Projection:     math.Mat4Identity(),
		CameraPosition: math.Vec3{Y: 2},
		Ambient:        lights.Ambient,
		Lights:         lights.Pack(),
		LightCount:     lights.Len(),
		ShadowMap:      shadow.ShaderView(),
	}
	m.Prepare(frame, tr)

	rvs, rps := vs.(*recorder.Shader), ps.(*recorder.Shader)
	for name, want := range map[string]any{
		ParamWorld:      tr.World(),
		ParamView:       frame.View,
		ParamProjection: frame.Projection,
	} {
		got, ok := rvs.Value(name)
		require.Truef(t, ok, "vertex %s", name)
		assert.Equal(t, want, got, name)
	}
	for name, want := range map[string]any{
		ParamColorTint:      core.ColorRed.Vec4(),
		ParamUVScale:        math.Vec2{X: 2, Y: 3},
		ParamUVOffset:       math.Vec2{X: 0.5},
		ParamRoughness:      float32(0.8),
		ParamCameraPosition: math.Vec3{Y: 2},
		ParamAmbient:        math.Vec3{X: 0.1},
		ParamLightCount:     int32(1),
		ParamLights:         frame.Lights,
	} {
		got, ok := rps.Value(name)
		require.Truef(t, ok, "pixel %s", name)
		assert.Equal(t, want, got, name)
	}

	ctx := dev.Recorder()
	manifest := ps.Manifest()
	assert.Equal(t, "albedo", ctx.BoundTexture(gpu.PixelStage, manifest.Slot("Albedo", gpu.ParamTexture)))
	assert.Equal(t, "shadow-view", ctx.BoundTexture(gpu.PixelStage, manifest.Slot(SlotShadowMap, gpu.ParamTexture)))
	assert.Empty(t, ctx.Violations())
}

func TestMaterialEditsAreShared(t *testing.T) {
	dev := newDevice(t)
	vs, ps := loadPBR(t, dev)
	assets := NewAssets(nil)
	mesh := assets.AddMesh(newCube(t, dev))
	mat := assets.AddMaterial(DefaultMaterial(vs, ps))

	a := NewGameEntity("a", assets, mesh, mat)
	b := NewGameEntity("b", assets, mesh, mat)
	a.Material().SetRoughness(0.1)
	assert.Equal(t, float32(0.1), b.Material().Roughness())
	assert.Same(t, a.Mesh(), b.Mesh())
}

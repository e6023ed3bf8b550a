package opengl

import (
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forward-renderer/gpu"
	"forward-renderer/math"
	"forward-renderer/shaders"
)

// These tests cover the bookkeeping that runs without a GL context.

func reflectShader(t *testing.T, path string) shaders.Reflection {
	t.Helper()
	r, err := shaders.ReflectFile(shaders.FS, path)
	require.NoError(t, err)
	return r
}

func TestShaderStagesUntilCopy(t *testing.T) {
	s := newShader(nil, 0, shaders.PixelShaderPBR, gpu.PixelStage, reflectShader(t, shaders.PixelShaderPBR))

	assert.True(t, s.SetFloat("roughness", 0.25))
	assert.True(t, s.SetInt("lightCount", 3))
	assert.False(t, s.SetFloat("notDeclared", 1))
	assert.False(t, s.SetFloat("Albedo", 1), "textures are not scalars")
	assert.Empty(t, s.committed)

	s.CopyAllBufferData()
	require.Contains(t, s.committed, "roughness")
	assert.Equal(t, float32(0.25), s.committed["roughness"].f[0])
	assert.Equal(t, int32(3), s.committed["lightCount"].i)
	assert.Empty(t, s.staged)

	s.SetFloat("roughness", 0.75)
	assert.Equal(t, float32(0.25), s.committed["roughness"].f[0], "staged value must wait for the next copy")
}

func TestShaderMatrixKeepsRowOrder(t *testing.T) {
	s := newShader(nil, 0, shaders.VertexShader, gpu.VertexStage, reflectShader(t, shaders.VertexShader))

	m := math.Mat4Translation(math.Vec3{X: 1, Y: 2, Z: 3})
	require.True(t, s.SetMatrix4x4("world", m))
	u := s.staged["world"]
	assert.Equal(t, uniformMatrix, u.kind)
	// Translation sits in the last row, which GLSL reads as the last column.
	assert.Equal(t, []float32{1, 2, 3, 1}, u.f[12:16])
}

func TestShaderDataRequiresBlock(t *testing.T) {
	s := newShader(nil, 0, shaders.PixelShaderPBR, gpu.PixelStage, reflectShader(t, shaders.PixelShaderPBR))
	assert.True(t, s.SetData("lights", make([]byte, 64)))
	assert.False(t, s.SetData("colorTint", make([]byte, 16)))
	assert.Len(t, s.data["lights"], 64)
}

func TestShaderUnits(t *testing.T) {
	ps := newShader(nil, 0, "", gpu.PixelStage, shaders.Reflection{})
	vs := newShader(nil, 0, "", gpu.VertexStage, shaders.Reflection{})
	assert.Equal(t, uint32(4), ps.unit(4))
	assert.Equal(t, uint32(vertexUnitBase+4), vs.unit(4))
}

func TestCompareFunc(t *testing.T) {
	assert.Equal(t, uint32(gl.LESS), compareFunc(gpu.CompareLess))
	assert.Equal(t, uint32(gl.LEQUAL), compareFunc(gpu.CompareLessEqual))
	assert.Equal(t, uint32(gl.ALWAYS), compareFunc(gpu.CompareAlways))
}

type fakeWindow struct {
	w, h      int
	swaps     int
	intervals []int
}

func (f *fakeWindow) FramebufferSize() (int, int)  { return f.w, f.h }
func (f *fakeWindow) SwapBuffers()                 { f.swaps++ }
func (f *fakeWindow) SetSwapInterval(interval int) { f.intervals = append(f.intervals, interval) }

func TestSurfacePresentSetsIntervalOnChange(t *testing.T) {
	win := &fakeWindow{w: 800, h: 600}
	s := NewSurface(win)

	s.Present(true)
	s.Present(true)
	s.Present(false)
	s.Present(false)
	s.Present(true)

	assert.Equal(t, 5, win.swaps)
	assert.Equal(t, []int{1, 0, 1}, win.intervals)
}

func TestSurfaceTargets(t *testing.T) {
	win := &fakeWindow{w: 800, h: 600}
	s := NewSurface(win)

	w, h := s.DepthBuffer().Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.Nil(t, s.DepthBuffer().ShaderView())

	win.w, win.h = 1024, 768
	w, h = s.DepthBuffer().Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.InDelta(t, 1024.0/768.0, gpu.AspectRatio(s), 1e-6, "aspect follows the framebuffer")
}

func TestContextFramebufferSelection(t *testing.T) {
	win := &fakeWindow{w: 640, h: 480}
	s := NewSurface(win)
	shadow := &DepthTarget{fbo: 7, view: &Texture{width: 1024, height: 1024}}
	c := newContext(nil)

	c.rt, c.dt = nil, shadow
	assert.Equal(t, uint32(7), c.boundFBO())
	assert.Equal(t, 1024, c.targetHeight())

	c.rt, c.dt = s.back, s.depth
	assert.Equal(t, uint32(0), c.boundFBO())
	assert.Equal(t, 480, c.targetHeight())
}

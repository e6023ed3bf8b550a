package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forward-renderer/gpu"
	"forward-renderer/gpu/recorder"
	"forward-renderer/math"
	"forward-renderer/shaders"
)

const eps = 1e-4

// newDevice returns a recorder with every embedded shader registered under
// its reflected manifest.
func newDevice(t *testing.T) *recorder.Device {
	t.Helper()
	dev := recorder.NewDevice()
	for path, stage := range map[string]gpu.Stage{
		shaders.VertexShader:       gpu.VertexStage,
		shaders.PixelShaderPBR:     gpu.PixelStage,
		shaders.ShadowVertexShader: gpu.VertexStage,
		shaders.SkyVertexShader:    gpu.VertexStage,
		shaders.SkyPixelShader:     gpu.PixelStage,
	} {
		r, err := shaders.ReflectFile(shaders.FS, path)
		require.NoError(t, err)
		dev.RegisterShader(path, stage, r.Manifest)
	}
	return dev
}

func loadPBR(t *testing.T, dev gpu.Device) (gpu.Shader, gpu.Shader) {
	t.Helper()
	vs, err := dev.LoadVertexShader(shaders.VertexShader)
	require.NoError(t, err)
	ps, err := dev.LoadPixelShader(shaders.PixelShaderPBR)
	require.NoError(t, err)
	return vs, ps
}

func newCube(t *testing.T, dev gpu.Device) *Mesh {
	t.Helper()
	m, err := NewMesh(dev, CubeData(1))
	require.NoError(t, err)
	return m
}

func assertVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.Truef(t, want.ApproxEqual(got, eps), "want %v, got %v", want, got)
}

// assertMat compares against an mgl32 matrix. mgl32's column-major storage
// of a column-vector matrix is element for element our row-vector storage.
func assertMat(t *testing.T, want mgl32.Mat4, got math.Mat4) {
	t.Helper()
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.InDeltaf(t, want[r*4+c], got[r][c], eps, "element [%d][%d]", r, c)
		}
	}
}

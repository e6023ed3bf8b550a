package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forward-renderer/config"
	"forward-renderer/gpu/recorder"
	"forward-renderer/math"
	"forward-renderer/renderer"
	"forward-renderer/scene"
	"forward-renderer/shaders"
)

func newDevice(t *testing.T) *recorder.Device {
	t.Helper()
	dev := recorder.NewDevice()
	for path, stage := range shaders.Stages {
		r, err := shaders.ReflectFile(shaders.FS, path)
		require.NoError(t, err)
		dev.RegisterShader(path, stage, r.Manifest)
	}
	return dev
}

func TestWorldRendersCleanly(t *testing.T) {
	dev := newDevice(t)
	surface := dev.NewSurface(320, 240)
	cfg := config.Default()
	cfg.Assets.Models = []string{"missing.obj", "scene.fbx"}

	w, err := buildWorld(dev, cfg, 320.0/240.0, nil)
	require.NoError(t, err)
	defer w.Release()

	assert.Len(t, w.scene.Entities(), 3, "unloadable models are skipped")
	assert.Equal(t, 3, w.scene.Lights.Len())
	assert.Len(t, w.scene.Cameras(), 2)
	require.NotNil(t, w.scene.Sky)
	assert.Empty(t, w.scene.Validate(), "every material fills the PBR slots")

	shadowVS, err := dev.LoadVertexShader(shaders.ShadowVertexShader)
	require.NoError(t, err)
	r, err := renderer.New(dev, surface, w.scene, shadowVS, cfg, nil)
	require.NoError(t, err)
	defer r.Release()

	for range 2 {
		r.Render()
	}
	assert.Empty(t, dev.Recorder().Violations())
	assert.Equal(t, 4, r.Stats().Draws, "three entities plus the sky")
}

func TestLookAt(t *testing.T) {
	c := scene.NewCamera(1, math.Vec3{X: 8, Y: 6, Z: -8}, 60)
	lookAt(c, math.Vec3Zero)
	want := math.Vec3{X: -8, Y: -6, Z: 8}.Normalize()
	assert.True(t, want.ApproxEqual(c.Transform().Forward(), 1e-4), "forward %v", c.Transform().Forward())
}

func TestLoadModelRejectsUnknownFormat(t *testing.T) {
	_, err := loadModel(newDevice(t), "scene.fbx")
	assert.ErrorContains(t, err, "unsupported model format")
}

func TestDayNightPalette(t *testing.T) {
	for _, p := range palettes {
		got := samplePalette(p.t)
		assert.InDelta(t, p.sunIntensity, got.sunIntensity, 1e-5, "key at %v", p.t)
	}
	// Halfway between the last key and noon.
	last := palettes[len(palettes)-1]
	mid := samplePalette((last.t + 1) / 2)
	assert.InDelta(t, (last.sunIntensity+palettes[0].sunIntensity)/2, mid.sunIntensity, 1e-5)
}

func TestDayNightDrivesShadowCaster(t *testing.T) {
	lights := scene.NewLightSet(math.Vec3Zero, nil)
	lights.Add(scene.DirectionalLight(math.Vec3{X: 1, Y: -1}, palettes[0].sunColor, 1))

	dn := NewDayNight()
	dn.Update(10)
	assert.Zero(t, dn.Time, "inactive cycles do not advance")

	dn.Active = true
	dn.Update(dn.Speed / 2)
	assert.InDelta(t, 0.5, dn.Time, 1e-5)
	clear := dn.Apply(lights)

	sun, ok := lights.ShadowCaster()
	require.True(t, ok)
	assert.Greater(t, sun.Direction.Y, float32(0), "the midnight light points up from below")
	assert.Equal(t, palettes[3].clear, clear)
	assert.Equal(t, palettes[3].ambient.Vec3(), lights.Ambient)
	assert.Equal(t, "00:00", dn.TimeOfDay())

	dn.Time = 0
	assert.Equal(t, "12:00", dn.TimeOfDay())
}

func TestHUD(t *testing.T) {
	h := &hud{}
	start := time.Unix(0, 0)
	assert.False(t, h.tick(start))
	for i := 1; i < 30; i++ {
		h.tick(start.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	assert.True(t, h.tick(start.Add(time.Second)))
	assert.InDelta(t, 31, h.fps, 0.01)

	h.AddLine("%d fps", 31)
	h.AddLine("camera %d", 1)
	assert.Equal(t, "31 fps | camera 1", h.Text())
	h.Clear()
	assert.Empty(t, h.Text())
}

type fakeWaiter struct {
	minimized bool
	waits     int
}

func (f *fakeWaiter) Minimized() bool { return f.minimized }
func (f *fakeWaiter) WaitEvents()     { f.waits++ }

func TestIdleWaitsWhileMinimized(t *testing.T) {
	w := &fakeWaiter{minimized: true}
	assert.True(t, idle(w))
	assert.True(t, idle(w))
	assert.Equal(t, 2, w.waits)

	w.minimized = false
	assert.False(t, idle(w))
	assert.Equal(t, 2, w.waits)
}

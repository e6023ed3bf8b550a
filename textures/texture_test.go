package textures

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"forward-renderer/gpu"
	"forward-renderer/gpu/recorder"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func writeImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	switch filepath.Ext(name) {
	case ".bmp":
		require.NoError(t, bmp.Encode(&buf, img))
	case ".tga":
		require.NoError(t, tga.Encode(&buf, img))
	case ".webp":
		require.NoError(t, nativewebp.Encode(&buf, img, nil))
	case ".jpg":
		require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}))
	default:
		require.NoError(t, png.Encode(&buf, img))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDecodeFormats(t *testing.T) {
	dir := t.TempDir()
	src := Checker(16, red, blue)

	for _, name := range []string{"checker.png", "checker.bmp", "checker.tga", "checker.webp", "CHECKER.PNG"} {
		t.Run(name, func(t *testing.T) {
			img, err := Load(writeImage(t, dir, name, src))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 16, 16), img.Rect)
			assert.Equal(t, red, img.RGBAAt(0, 0))
			assert.Equal(t, blue, img.RGBAAt(2, 0))
		})
	}
}

func TestDecodeJPEG(t *testing.T) {
	img, err := Load(writeImage(t, t.TempDir(), "solid.jpg", Resize(Solid(red), 16, 16)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Rect)
	c := img.RGBAAt(8, 8)
	assert.InDelta(t, 255, int(c.R), 8)
	assert.InDelta(t, 0, int(c.B), 8)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	_, err = Decode(bytes.NewReader([]byte("not an image")), "gif")
	assert.ErrorIs(t, err, image.ErrFormat)

	_, err = Decode(bytes.NewReader([]byte("not an image")), ".png")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "albedo.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to decode image")
}

func TestToRGBAOffsetsOrigin(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	src.Set(10, 10, red)
	got := toRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 2), got.Rect)
	assert.Equal(t, red, got.RGBAAt(0, 0))
}

func TestResize(t *testing.T) {
	got := Resize(Solid(red), 8, 4)
	assert.Equal(t, image.Rect(0, 0, 8, 4), got.Rect)
	assert.Equal(t, red, got.RGBAAt(7, 3))
}

func TestUpload(t *testing.T) {
	dev := recorder.NewDevice()
	tex, err := Upload(dev, "checker", Checker(32, red, blue))
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 32, w)
	assert.Equal(t, 32, h)

	dev.Fail["CreateTexture"] = errors.New("out of memory")
	_, err = Upload(dev, "checker", Checker(32, red, blue))
	assert.ErrorContains(t, err, "out of memory")
}

func TestLoadCubemapNormalizesFaces(t *testing.T) {
	dir := t.TempDir()
	var paths [gpu.CubeFaceCount]string
	for i := range paths {
		size := 8
		if i == 3 {
			size = 16
		}
		paths[i] = writeImage(t, dir, filepath.Base(t.Name())+string(rune('a'+i))+".png", Resize(Solid(red), size, size/2))
	}

	desc, err := LoadCubemap("sky", paths)
	require.NoError(t, err)
	assert.Equal(t, 16, desc.Size)
	for _, face := range desc.Faces {
		assert.Len(t, face, 16*16*4)
	}

	_, err = recorder.NewDevice().CreateCubemap(desc)
	assert.NoError(t, err)

	paths[5] = filepath.Join(dir, "missing.png")
	_, err = LoadCubemap("sky", paths)
	assert.ErrorContains(t, err, "face 5")
}

func TestGradientCubemap(t *testing.T) {
	zenith := color.RGBA{B: 255, A: 255}
	horizon := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ground := color.RGBA{G: 255, A: 255}
	desc := GradientCubemap("sky", 4, zenith, horizon, ground)

	at := func(face gpu.CubeFace, x, y int) color.RGBA {
		p := desc.Faces[face][(y*4+x)*4:]
		return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
	top := at(gpu.FacePositiveY, 1, 1)
	assert.Greater(t, top.B, top.R, "looking up is mostly zenith")
	bottom := at(gpu.FaceNegativeY, 1, 1)
	assert.Greater(t, bottom.G, bottom.R, "looking down is mostly ground")
	// The top row of a side face leans up, the bottom row down.
	assert.Greater(t, at(gpu.FacePositiveZ, 1, 0).B, at(gpu.FacePositiveZ, 1, 3).B)
}

func TestFaceDirectionCenters(t *testing.T) {
	want := [gpu.CubeFaceCount][3]float32{
		{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
	}
	for f, w := range want {
		x, y, z := faceDirection(gpu.CubeFace(f), 0, 0)
		assert.Equal(t, w, [3]float32{x, y, z}, "face %d", f)
	}
}

func TestCacheSharesTextures(t *testing.T) {
	dev := recorder.NewDevice()
	c := NewCache(dev, nil)
	path := writeImage(t, t.TempDir(), "albedo.png", Checker(8, red, blue))

	a, err := c.Load(path)
	require.NoError(t, err)
	b, err := c.Load(path)
	require.NoError(t, err)
	assert.Same(t, a, b)

	s1 := c.Solid(red)
	s2 := c.LoadOr("", red)
	assert.Same(t, s1, s2)
	fallback := c.LoadOr(filepath.Join(t.TempDir(), "missing.png"), red)
	assert.Same(t, s1, fallback)
	assert.Equal(t, 2, c.Len())

	c.Release()
	assert.True(t, a.(*recorder.Texture).Released())
	assert.Equal(t, 0, c.Len())
}

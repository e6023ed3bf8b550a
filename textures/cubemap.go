package textures

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"forward-renderer/gpu"
)

// LoadCubemap reads six faces in +X -X +Y -Y +Z -Z order. Faces are resized
// to a common square of the largest face side.
func LoadCubemap(name string, paths [gpu.CubeFaceCount]string) (gpu.CubemapDesc, error) {
	var faces [gpu.CubeFaceCount]*image.RGBA
	size := 0
	for i, p := range paths {
		img, err := Load(p)
		if err != nil {
			return gpu.CubemapDesc{}, fmt.Errorf("cubemap %s face %d: %w", name, i, err)
		}
		faces[i] = img
		size = max(size, img.Rect.Dx(), img.Rect.Dy())
	}
	return CubemapDesc(name, faces, size), nil
}

// CubemapDesc assembles six faces, resizing any that are not size x size.
func CubemapDesc(name string, faces [gpu.CubeFaceCount]*image.RGBA, size int) gpu.CubemapDesc {
	desc := gpu.CubemapDesc{Name: name, Size: size}
	for i, img := range faces {
		if img.Rect.Dx() != size || img.Rect.Dy() != size {
			img = Resize(img, size, size)
		}
		desc.Faces[i] = toRGBA(img).Pix
	}
	return desc
}

// faceDirection maps face texel coordinates u, v in [-1, 1] (v down) to the
// direction they sample.
func faceDirection(face gpu.CubeFace, u, v float32) (x, y, z float32) {
	switch face {
	case gpu.FacePositiveX:
		return 1, -v, -u
	case gpu.FaceNegativeX:
		return -1, -v, u
	case gpu.FacePositiveY:
		return u, 1, v
	case gpu.FaceNegativeY:
		return u, -1, -v
	case gpu.FacePositiveZ:
		return u, -v, 1
	default:
		return -u, -v, -1
	}
}

// GradientCubemap builds a sky that blends ground to horizon to zenith by
// the height of the view direction.
func GradientCubemap(name string, size int, zenith, horizon, ground color.RGBA) gpu.CubemapDesc {
	var faces [gpu.CubeFaceCount]*image.RGBA
	for f := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for py := range size {
			for px := range size {
				u := 2*(float32(px)+0.5)/float32(size) - 1
				v := 2*(float32(py)+0.5)/float32(size) - 1
				x, y, z := faceDirection(gpu.CubeFace(f), u, v)
				h := y / math32.Sqrt(x*x+y*y+z*z)
				if h >= 0 {
					img.SetRGBA(px, py, lerp(horizon, zenith, math32.Sqrt(h)))
				} else {
					img.SetRGBA(px, py, lerp(horizon, ground, math32.Sqrt(-h)))
				}
			}
		}
		faces[f] = img
	}
	return CubemapDesc(name, faces, size)
}

func lerp(a, b color.RGBA, t float32) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

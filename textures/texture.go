// Package textures decodes images into RGBA8 and uploads them through a
// gpu.Device.
package textures

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"

	"forward-renderer/gpu"
)

// The tga package registers an empty magic string, so image.Decode would
// route every file to it. Decoders are chosen by extension instead.
var decoders = map[string]func(io.Reader) (image.Image, error){
	".png":  png.Decode,
	".jpg":  jpeg.Decode,
	".jpeg": jpeg.Decode,
	".bmp":  bmp.Decode,
	".webp": webp.Decode,
	".tga":  tga.Decode,
}

// Decode reads an image of the given format ("png", ".jpg", ...) into RGBA.
func Decode(r io.Reader, format string) (*image.RGBA, error) {
	ext := strings.ToLower(format)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported extension %q", image.ErrFormat, format)
	}
	img, err := decode(r)
	if err != nil {
		return nil, err
	}
	return toRGBA(img), nil
}

// Load decodes the image file at path, picking the decoder by extension.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Resize scales img to width x height with Catmull-Rom filtering.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Desc describes img for upload. Rows stay top to bottom.
func Desc(name string, img *image.RGBA, mipmaps bool) gpu.TextureDesc {
	img = toRGBA(img)
	return gpu.TextureDesc{
		Name:    name,
		Width:   img.Rect.Dx(),
		Height:  img.Rect.Dy(),
		Pixels:  img.Pix,
		Mipmaps: mipmaps,
	}
}

// Upload creates a mipmapped texture from img.
func Upload(dev gpu.Device, name string, img *image.RGBA) (gpu.Texture, error) {
	tex, err := dev.CreateTexture(Desc(name, img, true))
	if err != nil {
		return nil, fmt.Errorf("upload texture %s: %w", name, err)
	}
	return tex, nil
}

// Solid returns a 1x1 image of c.
func Solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

// Checker returns a size x size checkerboard of 8 x 8 blocks.
func Checker(size int, c1, c2 color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	block := max(size/8, 1)
	for y := range size {
		for x := range size {
			c := c2
			if (x/block+y/block)%2 == 0 {
				c = c1
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

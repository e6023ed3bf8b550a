// Package capture writes frame grabs as lossless WebP.
package capture

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Image wraps RGBA8 pixels as an image. bottomUp flips rows stored bottom
// row first, as GL reads them back.
func Image(width, height int, pixels []byte, bottomUp bool) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture: invalid size %dx%d", width, height)
	}
	if want := width * height * 4; len(pixels) != want {
		return nil, fmt.Errorf("capture: %d bytes of pixel data, want %d", len(pixels), want)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := range height {
		src := y
		if bottomUp {
			src = height - 1 - y
		}
		copy(img.Pix[y*stride:(y+1)*stride], pixels[src*stride:(src+1)*stride])
	}
	return img, nil
}

func EncodeWebP(w io.Writer, width, height int, pixels []byte, bottomUp bool) error {
	img, err := Image(width, height, pixels, bottomUp)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("capture: webp encode: %w", err)
	}
	return nil
}

func SaveWebP(path string, width, height int, pixels []byte, bottomUp bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("capture: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := EncodeWebP(bw, width, height, pixels, bottomUp); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("capture: %w", err)
	}
	return f.Close()
}

// FileName is a timestamped capture name inside dir.
func FileName(dir string, t time.Time) string {
	return filepath.Join(dir, "capture-"+t.Format("20060102-150405.000")+".webp")
}

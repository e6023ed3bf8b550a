package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
)

// Window is the side of the platform window a surface needs.
type Window interface {
	FramebufferSize() (width, height int)
	SwapBuffers()
	SetSwapInterval(interval int)
}

// Surface presents through the default framebuffer of win's context.
type Surface struct {
	win   Window
	back  *RenderTarget
	depth *DepthTarget
	// interval is the last swap interval set, -1 before the first present.
	interval int
}

func NewSurface(win Window) *Surface {
	s := &Surface{win: win, interval: -1}
	s.back = &RenderTarget{surface: s}
	s.depth = &DepthTarget{surface: s}
	return s
}

func (s *Surface) Size() (int, int)             { return s.win.FramebufferSize() }
func (s *Surface) BackBuffer() gpu.RenderTarget { return s.back }
func (s *Surface) DepthBuffer() gpu.DepthTarget { return s.depth }

func (s *Surface) Present(vsync bool) {
	interval := 0
	if vsync {
		interval = 1
	}
	if interval != s.interval {
		s.win.SetSwapInterval(interval)
		s.interval = interval
	}
	s.win.SwapBuffers()
}

// ReadPixels returns the back buffer as RGBA8 rows, bottom row first. Call it
// before Present.
func (s *Surface) ReadPixels() (width, height int, pixels []byte) {
	width, height = s.Size()
	if width <= 0 || height <= 0 {
		return 0, 0, nil
	}
	pixels = make([]byte, width*height*4)

	var prev int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prev)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prev))
	return width, height, pixels
}

// Package window owns the glfw window and its OpenGL 4.1 core context.
package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"forward-renderer/config"
)

func init() {
	// glfw and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

type Window struct {
	handle  *glfw.Window
	title   string
	resized bool
}

// New initializes glfw and opens a window with a current GL 4.1 core
// context.
func New(cfg config.Window) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.Resizable, boolToInt(cfg.Resizable))

	handle, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	handle.MakeContextCurrent()

	w := &Window{handle: handle, title: cfg.Title}
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized = true
	})
	w.SetSwapInterval(boolToInt(cfg.VSync))
	return w, nil
}

func (w *Window) ShouldClose() bool { return w.handle.ShouldClose() }

func (w *Window) SetShouldClose(v bool) { w.handle.SetShouldClose(v) }

// Resized reports a framebuffer size change since the last call.
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

func (w *Window) FramebufferSize() (int, int) { return w.handle.GetFramebufferSize() }

// Minimized reports a zero-sized framebuffer.
func (w *Window) Minimized() bool {
	width, height := w.FramebufferSize()
	return width == 0 || height == 0
}

func (w *Window) SwapBuffers() { w.handle.SwapBuffers() }

// WaitEvents blocks until at least one window event arrives.
func (w *Window) WaitEvents() { glfw.WaitEvents() }

func (w *Window) SetSwapInterval(interval int) { glfw.SwapInterval(interval) }

func (w *Window) Title() string { return w.title }

func (w *Window) SetTitle(title string) {
	w.handle.SetTitle(title)
	w.title = title
}

func (w *Window) Destroy() {
	w.handle.Destroy()
	glfw.Terminate()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

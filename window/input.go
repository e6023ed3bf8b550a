package window

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"forward-renderer/input"
)

var keyMap = map[input.Key]glfw.Key{
	input.KeyW:      glfw.KeyW,
	input.KeyA:      glfw.KeyA,
	input.KeyS:      glfw.KeyS,
	input.KeyD:      glfw.KeyD,
	input.KeySpace:  glfw.KeySpace,
	input.KeyShift:  glfw.KeyLeftShift,
	input.KeyTab:    glfw.KeyTab,
	input.KeyUp:     glfw.KeyUp,
	input.KeyDown:   glfw.KeyDown,
	input.KeyLeft:   glfw.KeyLeft,
	input.KeyRight:  glfw.KeyRight,
	input.Key1:      glfw.Key1,
	input.Key2:      glfw.Key2,
	input.Key3:      glfw.Key3,
	input.KeyZ:      glfw.KeyZ,
	input.KeyY:      glfw.KeyY,
	input.KeyF12:    glfw.KeyF12,
	input.KeyEscape: glfw.KeyEscape,
}

// Input samples the window once per Poll and serves that snapshot as an
// input.State until the next Poll.
type Input struct {
	win   *Window
	keys  map[input.Key]bool
	left  bool
	x, y  float64
	dx    float32
	dy    float32
	first bool
}

func NewInput(w *Window) *Input {
	return &Input{win: w, keys: make(map[input.Key]bool), first: true}
}

// Poll processes pending window events and samples keys and pointer.
func (in *Input) Poll() {
	glfw.PollEvents()
	h := in.win.handle

	for k, gk := range keyMap {
		in.keys[k] = h.GetKey(gk) == glfw.Press
	}
	in.keys[input.KeyControl] = h.GetKey(glfw.KeyLeftControl) == glfw.Press ||
		h.GetKey(glfw.KeyRightControl) == glfw.Press
	in.left = h.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press

	x, y := h.GetCursorPos()
	if in.first {
		in.x, in.y = x, y
		in.first = false
	}
	in.dx, in.dy = float32(x-in.x), float32(y-in.y)
	in.x, in.y = x, y
}

func (in *Input) KeyDown(k input.Key) bool { return in.keys[k] }

func (in *Input) MouseLeftDown() bool { return in.left }

func (in *Input) MouseDelta() (float32, float32) { return in.dx, in.dy }

var _ input.State = (*Input)(nil)

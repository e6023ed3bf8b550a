// Package input is the polled keyboard and pointer contract. Implementations
// sample device state once per frame; nothing here is event driven.
package input

type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeySpace
	KeyControl
	KeyShift
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	Key1
	Key2
	Key3
	KeyZ
	KeyY
	KeyF12
	KeyEscape
	keyCount
)

// State is what the camera and debug tools read each frame.
type State interface {
	KeyDown(k Key) bool
	// MouseLeftDown reports the primary pointer button.
	MouseLeftDown() bool
	// MouseDelta is the pointer movement since the previous poll, in pixels.
	MouseDelta() (dx, dy float32)
}

// Snapshot is a plain State value, used for replay and tests.
type Snapshot struct {
	Keys     map[Key]bool
	LeftDown bool
	DX, DY   float32
}

func (s Snapshot) KeyDown(k Key) bool             { return s.Keys[k] }
func (s Snapshot) MouseLeftDown() bool            { return s.LeftDown }
func (s Snapshot) MouseDelta() (float32, float32) { return s.DX, s.DY }

// Edge turns a held key into a single press per hold.
type Edge struct {
	down [keyCount]bool
}

// Pressed reports true on the first poll where k is down.
func (e *Edge) Pressed(in State, k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	now := in.KeyDown(k)
	was := e.down[k]
	e.down[k] = now
	return now && !was
}

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	s := Snapshot{Keys: map[Key]bool{KeyW: true}, LeftDown: true, DX: 3, DY: -2}

	assert.True(t, s.KeyDown(KeyW))
	assert.False(t, s.KeyDown(KeyS))
	assert.True(t, s.MouseLeftDown())
	dx, dy := s.MouseDelta()
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(-2), dy)

	var empty Snapshot
	assert.False(t, empty.KeyDown(KeyW))
}

func TestEdgeFiresOncePerHold(t *testing.T) {
	var e Edge
	held := Snapshot{Keys: map[Key]bool{KeyTab: true}}
	released := Snapshot{}

	assert.True(t, e.Pressed(held, KeyTab))
	assert.False(t, e.Pressed(held, KeyTab))
	assert.False(t, e.Pressed(released, KeyTab))
	assert.True(t, e.Pressed(held, KeyTab))
	assert.False(t, e.Pressed(held, KeyUnknown))
}

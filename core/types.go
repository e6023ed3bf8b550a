package core

import (
	"forward-renderer/math"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}
	ColorBlue  = Color{0, 0, 1, 1}
)

func (c Color) Vec3() math.Vec3 {
	return math.Vec3{X: c.R, Y: c.G, Z: c.B}
}

func (c Color) Vec4() math.Vec4 {
	return math.Vec4{X: c.R, Y: c.G, Z: c.B, W: c.A}
}

// ColorFromVec3 returns an opaque color.
func ColorFromVec3(v math.Vec3) Color {
	return Color{R: v.X, G: v.Y, B: v.Z, A: 1}
}

// Vertex is the single input layout shared by every mesh and vertex shader.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3
	UV       math.Vec2
	Tangent  math.Vec3
}

type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

// FullViewport covers a width x height surface with the [0,1] depth range.
func FullViewport(width, height int) Viewport {
	return Viewport{Width: float32(width), Height: float32(height), MinDepth: 0, MaxDepth: 1}
}

package math

import "github.com/chewxy/math32"

const (
	Pi      = math32.Pi
	Epsilon = 1e-5
)

func Radians(degrees float32) float32 {
	return degrees * Pi / 180
}

func Degrees(radians float32) float32 {
	return radians * 180 / Pi
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ApproxEqual reports whether a and b differ by at most eps.
func ApproxEqual(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

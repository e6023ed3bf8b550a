package math

// Vec2 carries texture coordinates and the material UV scale and offset.
type Vec2 struct {
	X, Y float32
}

var (
	Vec2Zero = Vec2{0, 0}
	Vec2One  = Vec2{1, 1}
)

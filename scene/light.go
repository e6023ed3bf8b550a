package scene

import (
	"bytes"
	"encoding/binary"

	"go.uber.org/zap"

	"forward-renderer/core"
	"forward-renderer/math"
)

// MaxLights is the length of the shader-side lights array.
const MaxLights = 8

type LightType int32

const (
	LightDirectional LightType = iota
	LightPoint
	LightSpot
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Light is a plain value; direction is normalized when packed.
type Light struct {
	Type      LightType
	Direction math.Vec3
	Range     float32
	Position  math.Vec3
	Intensity float32
	Color     core.Color
	SpotInner float32 // radians
	SpotOuter float32 // radians
}

func DirectionalLight(dir math.Vec3, color core.Color, intensity float32) Light {
	return Light{Type: LightDirectional, Direction: dir.Normalize(), Color: color, Intensity: intensity}
}

func PointLight(pos math.Vec3, color core.Color, intensity, rng float32) Light {
	return Light{Type: LightPoint, Position: pos, Color: color, Intensity: intensity, Range: rng}
}

func SpotLight(pos, dir math.Vec3, color core.Color, intensity, rng, innerDeg, outerDeg float32) Light {
	return Light{
		Type:      LightSpot,
		Position:  pos,
		Direction: dir.Normalize(),
		Color:     color,
		Intensity: intensity,
		Range:     rng,
		SpotInner: math.Radians(innerDeg),
		SpotOuter: math.Radians(outerDeg),
	}
}

// LightData is the 64-byte std140 record the pixel shader reads.
type LightData struct {
	Direction [3]float32
	Range     float32
	Position  [3]float32
	Intensity float32
	Color     [3]float32
	SpotInner float32
	SpotOuter float32
	Type      int32
	_         [2]float32
}

// LightDataSize is binary.Size(LightData{}).
const LightDataSize = 64

func (l Light) Data() LightData {
	d := l.Direction
	if d.Length() > math.Epsilon {
		d = d.Normalize()
	}
	return LightData{
		Direction: [3]float32{d.X, d.Y, d.Z},
		Range:     l.Range,
		Position:  [3]float32{l.Position.X, l.Position.Y, l.Position.Z},
		Intensity: l.Intensity,
		Color:     [3]float32{l.Color.R, l.Color.G, l.Color.B},
		SpotInner: l.SpotInner,
		SpotOuter: l.SpotOuter,
		Type:      int32(l.Type),
	}
}

// LightSet holds at most MaxLights lights. Index 0 casts the shadow.
type LightSet struct {
	lights  []Light
	Ambient math.Vec3
	log     *zap.Logger
}

func NewLightSet(ambient math.Vec3, log *zap.Logger) *LightSet {
	if log == nil {
		log = zap.NewNop()
	}
	return &LightSet{Ambient: ambient, log: log}
}

// Add appends l and reports whether it fit.
func (s *LightSet) Add(l Light) bool {
	if len(s.lights) >= MaxLights {
		s.log.Warn("light dropped, set is full",
			zap.Int("max", MaxLights), zap.Stringer("type", l.Type))
		return false
	}
	s.lights = append(s.lights, l)
	return true
}

func (s *LightSet) Len() int { return len(s.lights) }

// At returns a pointer so callers can animate a light in place.
func (s *LightSet) At(i int) *Light { return &s.lights[i] }

func (s *LightSet) Remove(i int) {
	s.lights = append(s.lights[:i], s.lights[i+1:]...)
}

// ShadowCaster returns light 0.
func (s *LightSet) ShadowCaster() (Light, bool) {
	if len(s.lights) == 0 {
		return Light{}, false
	}
	return s.lights[0], true
}

// Pack encodes all MaxLights records, zero-filled past Len, little endian.
func (s *LightSet) Pack() []byte {
	var records [MaxLights]LightData
	for i, l := range s.lights {
		records[i] = l.Data()
	}
	var buf bytes.Buffer
	buf.Grow(MaxLights * LightDataSize)
	// Writing fixed-size values to a bytes.Buffer cannot fail.
	_ = binary.Write(&buf, binary.LittleEndian, records)
	return buf.Bytes()
}

package main

import (
	"fmt"

	"github.com/chewxy/math32"

	"forward-renderer/core"
	"forward-renderer/math"
	"forward-renderer/scene"
)

// dayPalette holds the light values for one key time of day.
type dayPalette struct {
	t            float32 // normalised time 0..1
	clear        core.Color
	sunColor     core.Color
	sunIntensity float32
	ambient      core.Color
}

// palettes are ordered by t and wrap (0 == 1).
var palettes = []dayPalette{
	{ // noon
		t:            0.00,
		clear:        core.Color{R: 0.58, G: 0.75, B: 0.95, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.98, B: 0.92, A: 1},
		sunIntensity: 1.20,
		ambient:      core.Color{R: 0.16, G: 0.18, B: 0.26, A: 1},
	},
	{ // golden hour
		t:            0.22,
		clear:        core.Color{R: 0.90, G: 0.52, B: 0.18, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.65, B: 0.25, A: 1},
		sunIntensity: 0.90,
		ambient:      core.Color{R: 0.10, G: 0.12, B: 0.20, A: 1},
	},
	{ // dusk
		t:            0.30,
		clear:        core.Color{R: 0.50, G: 0.22, B: 0.28, A: 1},
		sunColor:     core.Color{R: 0.70, G: 0.40, B: 0.55, A: 1},
		sunIntensity: 0.25,
		ambient:      core.Color{R: 0.06, G: 0.07, B: 0.14, A: 1},
	},
	{ // midnight, the sun slot carries moonlight
		t:            0.50,
		clear:        core.Color{R: 0.04, G: 0.04, B: 0.08, A: 1},
		sunColor:     core.Color{R: 0.40, G: 0.45, B: 0.65, A: 1},
		sunIntensity: 0.12,
		ambient:      core.Color{R: 0.03, G: 0.04, B: 0.09, A: 1},
	},
	{ // sunrise
		t:            0.78,
		clear:        core.Color{R: 0.88, G: 0.45, B: 0.22, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.60, B: 0.28, A: 1},
		sunIntensity: 0.70,
		ambient:      core.Color{R: 0.09, G: 0.10, B: 0.17, A: 1},
	},
}

// DayNight animates the shadow-casting light and the ambient term.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool
}

func NewDayNight() *DayNight {
	return &DayNight{Speed: 120}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active {
		return
	}
	dn.Time += dt / dn.Speed
	if dn.Time >= 1 {
		dn.Time -= 1
	}
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

// samplePalette interpolates the two keys around t, wrapping from the last
// key back to the first.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	a, b := palettes[n-1], palettes[0]
	span := 1 - a.t + b.t
	local := t - a.t
	if local < 0 {
		local += 1
	}
	for i := range n - 1 {
		if t >= palettes[i].t && t < palettes[i+1].t {
			a, b = palettes[i], palettes[i+1]
			span = b.t - a.t
			local = t - a.t
			break
		}
	}
	f := local / span
	return dayPalette{
		t:            t,
		clear:        lerpColor(a.clear, b.clear, f),
		sunColor:     lerpColor(a.sunColor, b.sunColor, f),
		sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
		ambient:      lerpColor(a.ambient, b.ambient, f),
	}
}

// sunDirection turns a full circle in the XY plane, tilted along Z. Noon
// points straight down.
func sunDirection(t float32) math.Vec3 {
	angle := t * 2 * math.Pi
	return math.Vec3{X: math32.Sin(angle), Y: -math32.Cos(angle), Z: 0.35}.Normalize()
}

// Apply writes the current state into the shadow caster and ambient, and
// returns the clear color to use.
func (dn *DayNight) Apply(lights *scene.LightSet) core.Color {
	p := samplePalette(dn.Time)
	if lights.Len() > 0 {
		sun := lights.At(0)
		sun.Direction = sunDirection(dn.Time)
		sun.Color = p.sunColor
		sun.Intensity = p.sunIntensity
	}
	lights.Ambient = p.ambient.Vec3()
	return p.clear
}

// TimeOfDay is a clock label for the title bar.
func (dn *DayNight) TimeOfDay() string {
	hours := dn.Time*24 + 12
	h := int(hours) % 24
	m := int((hours - math32.Floor(hours)) * 60)
	return fmt.Sprintf("%02d:%02d", h, m)
}

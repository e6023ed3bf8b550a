// Package debugui exposes scene parameters as a flat list of editable fields
// driven from the keyboard.
package debugui

import (
	"fmt"
	"strconv"
	"strings"

	"forward-renderer/core"
	"forward-renderer/input"
	"forward-renderer/math"
	"forward-renderer/scene"
)

// Value holds up to four components; Field.Components says how many are
// used.
type Value [4]float32

type Field struct {
	Group      string
	Label      string
	Components int
	// Step is the change per second while an adjust key is held.
	Step float32
	Get  func() Value
	Set  func(Value)
}

func (f Field) Path() string { return f.Group + " / " + f.Label }

// Panel lists the fields of a scene. Call Refresh after adding entities,
// materials, lights or cameras.
type Panel struct {
	scene     *scene.Scene
	fields    []Field
	selected  int
	component int
	history   *History
	edge      input.Edge
}

func NewPanel(s *scene.Scene) *Panel {
	p := &Panel{scene: s, history: NewHistory(100)}
	p.Refresh()
	return p
}

func (p *Panel) Fields() []Field { return p.fields }

func (p *Panel) History() *History { return p.history }

// Refresh rebuilds the field list, keeping the selection index in range.
func (p *Panel) Refresh() {
	p.fields = p.fields[:0]
	for _, e := range p.scene.Entities() {
		p.addTransform("entity "+e.Name, e.Transform())
	}
	for _, m := range p.scene.Assets.Materials() {
		p.addMaterial(m)
	}
	for i := range p.scene.Lights.Len() {
		p.addLight(i)
	}
	ls := p.scene.Lights
	p.add(Field{Group: "ambient", Label: "color", Components: 3, Step: 0.25,
		Get: func() Value { return vec3(ls.Ambient) },
		Set: func(v Value) { ls.Ambient = toVec3(v) },
	})
	for i, c := range p.scene.Cameras() {
		group := "camera " + strconv.Itoa(i)
		t := c.Transform()
		p.add(Field{Group: group, Label: "position", Components: 3, Step: 2,
			Get: func() Value { return vec3(t.Position()) },
			Set: func(v Value) { t.SetPosition(toVec3(v)); c.UpdateViewMatrix() },
		})
		p.add(Field{Group: group, Label: "fov", Components: 1, Step: 20,
			Get: func() Value { return Value{c.FieldOfView()} },
			Set: func(v Value) { c.SetFieldOfView(math.Clamp(v[0], 10, 170)) },
		})
	}
	p.selected = min(p.selected, max(len(p.fields)-1, 0))
	p.component = min(p.component, max(p.Selected().Components-1, 0))
}

func (p *Panel) add(f Field) { p.fields = append(p.fields, f) }

func (p *Panel) addTransform(group string, t *scene.Transform) {
	p.add(Field{Group: group, Label: "position", Components: 3, Step: 2,
		Get: func() Value { return vec3(t.Position()) },
		Set: func(v Value) { t.SetPosition(toVec3(v)) },
	})
	p.add(Field{Group: group, Label: "rotation", Components: 3, Step: 90,
		Get: func() Value { return degrees(t.Rotation()) },
		Set: func(v Value) { t.SetRotation(radians(v)) },
	})
	p.add(Field{Group: group, Label: "scale", Components: 3, Step: 1,
		Get: func() Value { return vec3(t.ScaleFactors()) },
		Set: func(v Value) { t.SetScale(toVec3(v)) },
	})
}

func (p *Panel) addMaterial(m *scene.Material) {
	group := "material " + m.Name()
	p.add(Field{Group: group, Label: "tint", Components: 4, Step: 0.5,
		Get: func() Value {
			c := m.ColorTint()
			return Value{c.R, c.G, c.B, c.A}
		},
		Set: func(v Value) { m.SetColorTint(core.Color{R: v[0], G: v[1], B: v[2], A: v[3]}) },
	})
	p.add(Field{Group: group, Label: "uv scale", Components: 2, Step: 1,
		Get: func() Value { s := m.UVScale(); return Value{s.X, s.Y} },
		Set: func(v Value) { m.SetUVScale(math.Vec2{X: v[0], Y: v[1]}) },
	})
	p.add(Field{Group: group, Label: "uv offset", Components: 2, Step: 0.5,
		Get: func() Value { o := m.UVOffset(); return Value{o.X, o.Y} },
		Set: func(v Value) { m.SetUVOffset(math.Vec2{X: v[0], Y: v[1]}) },
	})
	p.add(Field{Group: group, Label: "roughness", Components: 1, Step: 0.5,
		Get: func() Value { return Value{m.Roughness()} },
		Set: func(v Value) { m.SetRoughness(math.Clamp(v[0], 0, 1)) },
	})
}

func (p *Panel) addLight(i int) {
	ls := p.scene.Lights
	l := func() *scene.Light { return ls.At(i) }
	group := fmt.Sprintf("light %d (%s)", i, l().Type)

	p.add(Field{Group: group, Label: "color", Components: 3, Step: 0.5,
		Get: func() Value { return Value{l().Color.R, l().Color.G, l().Color.B} },
		Set: func(v Value) { l().Color = core.Color{R: v[0], G: v[1], B: v[2], A: 1} },
	})
	p.add(Field{Group: group, Label: "intensity", Components: 1, Step: 1,
		Get: func() Value { return Value{l().Intensity} },
		Set: func(v Value) { l().Intensity = max(v[0], 0) },
	})
	if l().Type != scene.LightPoint {
		p.add(Field{Group: group, Label: "direction", Components: 3, Step: 1,
			Get: func() Value { return vec3(l().Direction) },
			Set: func(v Value) { l().Direction = toVec3(v) },
		})
	}
	if l().Type == scene.LightDirectional {
		return
	}
	p.add(Field{Group: group, Label: "position", Components: 3, Step: 2,
		Get: func() Value { return vec3(l().Position) },
		Set: func(v Value) { l().Position = toVec3(v) },
	})
	p.add(Field{Group: group, Label: "range", Components: 1, Step: 5,
		Get: func() Value { return Value{l().Range} },
		Set: func(v Value) { l().Range = max(v[0], 0) },
	})
	if l().Type != scene.LightSpot {
		return
	}
	p.add(Field{Group: group, Label: "spot inner", Components: 1, Step: 20,
		Get: func() Value { return Value{math.Degrees(l().SpotInner)} },
		Set: func(v Value) { l().SpotInner = math.Radians(math.Clamp(v[0], 0, 89)) },
	})
	p.add(Field{Group: group, Label: "spot outer", Components: 1, Step: 20,
		Get: func() Value { return Value{math.Degrees(l().SpotOuter)} },
		Set: func(v Value) { l().SpotOuter = math.Radians(math.Clamp(v[0], 0, 89)) },
	})
}

// Selected returns the current field, or the zero Field for an empty panel.
func (p *Panel) Selected() Field {
	if len(p.fields) == 0 {
		return Field{}
	}
	return p.fields[p.selected]
}

func (p *Panel) SelectedIndex() int { return p.selected }

func (p *Panel) Component() int { return p.component }

// Select moves to field i, wrapping in both directions.
func (p *Panel) Select(i int) {
	n := len(p.fields)
	if n == 0 {
		return
	}
	p.selected = ((i % n) + n) % n
	p.component = 0
}

// SelectComponent moves to component c of the current field, wrapping.
func (p *Panel) SelectComponent(c int) {
	n := p.Selected().Components
	if n == 0 {
		return
	}
	p.component = ((c % n) + n) % n
}

// Adjust adds delta to one component of the selected field. Consecutive
// adjustments of the same component merge into one undo step.
func (p *Panel) Adjust(component int, delta float32) {
	f := p.Selected()
	if f.Set == nil || component < 0 || component >= f.Components {
		return
	}
	old := f.Get()
	v := old
	v[component] += delta
	f.Set(v)
	v = f.Get()

	if last, ok := p.history.last().(*adjustCommand); ok &&
		last.field.Path() == f.Path() && last.component == component && !p.history.CanRedo() {
		last.new = v
		return
	}
	p.history.push(&adjustCommand{field: f, component: component, old: old, new: v})
}

// Describe is a one-line summary of the selected field.
func (p *Panel) Describe() string {
	f := p.Selected()
	if f.Get == nil {
		return "no fields"
	}
	v := f.Get()
	parts := make([]string, f.Components)
	for i := range f.Components {
		s := strconv.FormatFloat(float64(v[i]), 'f', 2, 32)
		if i == p.component {
			s = "[" + s + "]"
		}
		parts[i] = s
	}
	return fmt.Sprintf("%s: %s", f.Path(), strings.Join(parts, " "))
}

// Drive applies one frame of keyboard control: Tab (with Shift, backwards)
// cycles fields, Left/Right pick a component, Up/Down adjust it, Z undoes and
// Y redoes.
func (p *Panel) Drive(in input.State, dt float32) {
	if p.edge.Pressed(in, input.KeyTab) {
		if in.KeyDown(input.KeyShift) {
			p.Select(p.selected - 1)
		} else {
			p.Select(p.selected + 1)
		}
	}
	if p.edge.Pressed(in, input.KeyRight) {
		p.SelectComponent(p.component + 1)
	}
	if p.edge.Pressed(in, input.KeyLeft) {
		p.SelectComponent(p.component - 1)
	}
	if p.edge.Pressed(in, input.KeyZ) {
		p.history.Undo()
	}
	if p.edge.Pressed(in, input.KeyY) {
		p.history.Redo()
	}

	step := p.Selected().Step * dt
	if in.KeyDown(input.KeyUp) {
		p.Adjust(p.component, step)
	}
	if in.KeyDown(input.KeyDown) {
		p.Adjust(p.component, -step)
	}
}

func vec3(v math.Vec3) Value { return Value{v.X, v.Y, v.Z} }

func toVec3(v Value) math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

func degrees(v math.Vec3) Value {
	return Value{math.Degrees(v.X), math.Degrees(v.Y), math.Degrees(v.Z)}
}

func radians(v Value) math.Vec3 {
	return math.Vec3{X: math.Radians(v[0]), Y: math.Radians(v[1]), Z: math.Radians(v[2])}
}

package scene

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
)

type textureSlot struct {
	name string
	tex  gpu.Texture
}

type samplerSlot struct {
	name    string
	sampler gpu.Sampler
}

// Material is a shader pair plus the values bound before each draw. It is
// shared: edits are seen by every entity that references it.
//
// Texture and sampler slots are matched to the pixel shader by name. A name
// the shader does not declare is ignored at draw time, and a declared slot
// the material never fills reads the backend default; both are reported as
// diagnostics rather than errors.
type Material struct {
	name         string
	colorTint    core.Color
	vertexShader gpu.Shader
	pixelShader  gpu.Shader
	uvScale      math.Vec2
	uvOffset     math.Vec2
	roughness    float32

	textures []textureSlot
	samplers []samplerSlot

	log *zap.Logger
}

func NewMaterial(name string, tint core.Color, vs, ps gpu.Shader, uvScale, uvOffset math.Vec2, roughness float32) *Material {
	return &Material{
		name:         name,
		colorTint:    tint,
		vertexShader: vs,
		pixelShader:  ps,
		uvScale:      uvScale,
		uvOffset:     uvOffset,
		roughness:    roughness,
		log:          zap.NewNop(),
	}
}

// DefaultMaterial is untinted, unscaled and half rough.
func DefaultMaterial(vs, ps gpu.Shader) *Material {
	return NewMaterial("default", core.ColorWhite, vs, ps, math.Vec2One, math.Vec2Zero, 0.5)
}

func (m *Material) Name() string                  { return m.name }
func (m *Material) ColorTint() core.Color         { return m.colorTint }
func (m *Material) VertexShader() gpu.Shader      { return m.vertexShader }
func (m *Material) PixelShader() gpu.Shader       { return m.pixelShader }
func (m *Material) UVScale() math.Vec2            { return m.uvScale }
func (m *Material) UVOffset() math.Vec2           { return m.uvOffset }
func (m *Material) Roughness() float32            { return m.roughness }
func (m *Material) SetColorTint(c core.Color)     { m.colorTint = c }
func (m *Material) SetUVScale(s math.Vec2)        { m.uvScale = s }
func (m *Material) SetUVOffset(o math.Vec2)       { m.uvOffset = o }
func (m *Material) SetRoughness(r float32)        { m.roughness = r }
func (m *Material) SetVertexShader(vs gpu.Shader) { m.vertexShader = vs }
func (m *Material) SetPixelShader(ps gpu.Shader)  { m.pixelShader = ps }

// SetLogger routes slot diagnostics to l.
func (m *Material) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	m.log = l.With(zap.String("material", m.name))
}

// AddTextureSRV registers tex under the shader variable name, replacing any
// texture already registered under that name.
func (m *Material) AddTextureSRV(name string, tex gpu.Texture) {
	if i := slices.IndexFunc(m.textures, func(s textureSlot) bool { return s.name == name }); i >= 0 {
		m.textures[i].tex = tex
	} else {
		m.textures = append(m.textures, textureSlot{name: name, tex: tex})
	}
	m.warnIfUndeclared(name, gpu.ParamTexture)
}

// AddSampler registers s under the shader sampler name, replacing any
// sampler already registered under that name.
func (m *Material) AddSampler(name string, s gpu.Sampler) {
	if i := slices.IndexFunc(m.samplers, func(s samplerSlot) bool { return s.name == name }); i >= 0 {
		m.samplers[i].sampler = s
	} else {
		m.samplers = append(m.samplers, samplerSlot{name: name, sampler: s})
	}
	m.warnIfUndeclared(name, gpu.ParamSampler)
}

func (m *Material) warnIfUndeclared(name string, kind gpu.ParamKind) {
	if m.pixelShader == nil || m.pixelShader.Manifest().Has(name, kind) {
		return
	}
	d := Diagnostic{Kind: UnregisteredSlot, Material: m.name, Slot: name, ParamKind: kind, Shader: m.pixelShader.Path()}
	m.log.Warn("material slot not declared by shader", d.Fields()...)
}

// Textures returns the registered texture slots by name.
func (m *Material) Textures() map[string]gpu.Texture {
	out := make(map[string]gpu.Texture, len(m.textures))
	for _, s := range m.textures {
		out[s.name] = s.tex
	}
	return out
}

// Samplers returns the registered sampler slots by name.
func (m *Material) Samplers() map[string]gpu.Sampler {
	out := make(map[string]gpu.Sampler, len(m.samplers))
	for _, s := range m.samplers {
		out[s.name] = s.sampler
	}
	return out
}

type DiagnosticKind int

const (
	// UnregisteredSlot: the material fills a slot the shader does not declare.
	UnregisteredSlot DiagnosticKind = iota
	// UnboundSlot: the shader declares a slot nothing fills.
	UnboundSlot
)

func (k DiagnosticKind) String() string {
	switch k {
	case UnregisteredSlot:
		return "unregistered slot"
	case UnboundSlot:
		return "unbound slot"
	default:
		return "unknown"
	}
}

// Diagnostic is one material/shader slot mismatch.
type Diagnostic struct {
	Kind      DiagnosticKind
	Material  string
	Shader    string
	Slot      string
	ParamKind gpu.ParamKind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: material %q %s %q (shader %s)", d.Kind, d.Material, d.ParamKind, d.Slot, d.Shader)
}

func (d Diagnostic) Fields() []zap.Field {
	return []zap.Field{
		zap.Stringer("kind", d.Kind),
		zap.String("material", d.Material),
		zap.String("shader", d.Shader),
		zap.String("slot", d.Slot),
		zap.Stringer("param", d.ParamKind),
	}
}

// Validate compares the registered slots with the pixel shader's manifest.
// Slots the renderer binds itself (shadow map and sampler) are not expected
// on the material.
func (m *Material) Validate() []Diagnostic {
	if m.pixelShader == nil {
		return nil
	}
	manifest := m.pixelShader.Manifest()
	path := m.pixelShader.Path()
	var out []Diagnostic

	registered := make(map[string]gpu.ParamKind)
	for _, s := range m.textures {
		registered[s.name] = gpu.ParamTexture
		if !manifest.Has(s.name, gpu.ParamTexture) {
			out = append(out, Diagnostic{Kind: UnregisteredSlot, Material: m.name, Shader: path, Slot: s.name, ParamKind: gpu.ParamTexture})
		}
	}
	for _, s := range m.samplers {
		registered[s.name] = gpu.ParamSampler
		if !manifest.Has(s.name, gpu.ParamSampler) {
			out = append(out, Diagnostic{Kind: UnregisteredSlot, Material: m.name, Shader: path, Slot: s.name, ParamKind: gpu.ParamSampler})
		}
	}

	for _, kind := range []gpu.ParamKind{gpu.ParamTexture, gpu.ParamSampler} {
		for _, name := range manifest.Names(kind) {
			if k, ok := rendererSlots[name]; ok && k == kind {
				continue
			}
			if k, ok := registered[name]; ok && k == kind {
				continue
			}
			out = append(out, Diagnostic{Kind: UnboundSlot, Material: m.name, Shader: path, Slot: name, ParamKind: kind})
		}
	}
	return out
}

// Prepare activates the shader pair and uploads every parameter for one
// draw: transforms on the vertex stage; surface values, lights and the
// shadow map on the pixel stage; then the material's own slots. The shadow
// inputs are set on every material regardless of whether its shader reads
// them.
func (m *Material) Prepare(frame *FrameParams, t *Transform) {
	vs, ps := m.vertexShader, m.pixelShader
	vs.SetShader()
	ps.SetShader()

	vs.SetMatrix4x4(ParamWorld, t.World())
	vs.SetMatrix4x4(ParamWorldInvTranspose, t.WorldInverseTranspose())
	vs.SetMatrix4x4(ParamView, frame.View)
	vs.SetMatrix4x4(ParamProjection, frame.Projection)
	vs.SetMatrix4x4(ParamLightView, frame.LightView)
	vs.SetMatrix4x4(ParamLightProjection, frame.LightProjection)
	vs.CopyAllBufferData()

	ps.SetFloat4(ParamColorTint, m.colorTint.Vec4())
	ps.SetFloat2(ParamUVScale, m.uvScale)
	ps.SetFloat2(ParamUVOffset, m.uvOffset)
	ps.SetFloat(ParamRoughness, m.roughness)
	ps.SetFloat3(ParamCameraPosition, frame.CameraPosition)
	ps.SetFloat3(ParamAmbient, frame.Ambient)
	ps.SetData(ParamLights, frame.Lights)
	ps.SetInt(ParamLightCount, int32(frame.LightCount))
	ps.CopyAllBufferData()

	ps.SetShaderResourceView(SlotShadowMap, frame.ShadowMap)
	ps.SetSamplerState(SlotShadowSampler, frame.ShadowSampler)
	for _, s := range m.textures {
		ps.SetShaderResourceView(s.name, s.tex)
	}
	for _, s := range m.samplers {
		ps.SetSamplerState(s.name, s.sampler)
	}
}

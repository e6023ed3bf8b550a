// Package recorder is an in-memory gpu.Device. It executes nothing; it logs
// every context call in order, snapshots shader parameters at each draw and
// flags resources that are bound for output and for reading at once.
package recorder

import (
	"fmt"
	"maps"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
)

// MaxSlots is the number of texture slots tracked per stage.
const MaxSlots = 16

// storage identifies the memory behind one or more views.
type storage struct {
	name string
}

type resource struct {
	id       int
	name     string
	released bool
}

func (r *resource) Release()       { r.released = true }
func (r *resource) Name() string   { return r.name }
func (r *resource) Released() bool { return r.released }

type Buffer struct {
	resource
	Vertices []core.Vertex
	Indices  []uint32
}

func (b *Buffer) Len() int {
	if b.Indices != nil {
		return len(b.Indices)
	}
	return len(b.Vertices)
}

type Texture struct {
	resource
	Width, Height int
	Cube          bool
	store         *storage
}

func (t *Texture) Size() (int, int) { return t.Width, t.Height }

type Sampler struct {
	resource
	Desc gpu.SamplerDesc
}

type RasterizerState struct {
	resource
	Desc gpu.RasterizerDesc
}

type DepthState struct {
	resource
	Desc gpu.DepthStateDesc
}

type RenderTarget struct {
	resource
	store *storage
}

type DepthTarget struct {
	resource
	Width, Height int
	store         *storage
	view          *Texture
}

func (d *DepthTarget) Size() (int, int) { return d.Width, d.Height }

func (d *DepthTarget) ShaderView() gpu.Texture {
	if d.view == nil {
		return nil
	}
	return d.view
}

// Device hands out recorder resources. Shaders must be registered with their
// manifest before they can be loaded.
type Device struct {
	ctx     *Context
	nextID  int
	shaders map[string]shaderSpec
	// Fail makes the named Device method return the error.
	Fail map[string]error
}

type shaderSpec struct {
	stage    gpu.Stage
	manifest gpu.Manifest
}

func NewDevice() *Device {
	d := &Device{
		shaders: make(map[string]shaderSpec),
		Fail:    make(map[string]error),
	}
	d.ctx = &Context{}
	return d
}

func (d *Device) RegisterShader(path string, stage gpu.Stage, manifest gpu.Manifest) {
	d.shaders[path] = shaderSpec{stage: stage, manifest: manifest}
}

func (d *Device) Context() gpu.Context { return d.ctx }

// Recorder returns the concrete context for inspection.
func (d *Device) Recorder() *Context { return d.ctx }

func (d *Device) newResource(name string) resource {
	d.nextID++
	return resource{id: d.nextID, name: name}
}

func (d *Device) failure(op string) error {
	if err, ok := d.Fail[op]; ok {
		return fmt.Errorf("recorder %s: %w", op, err)
	}
	return nil
}

func (d *Device) CreateVertexBuffer(vertices []core.Vertex) (gpu.Buffer, error) {
	if err := d.failure("CreateVertexBuffer"); err != nil {
		return nil, err
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("recorder: empty vertex buffer")
	}
	return &Buffer{resource: d.newResource("vertices"), Vertices: append([]core.Vertex(nil), vertices...)}, nil
}

func (d *Device) CreateIndexBuffer(indices []uint32) (gpu.Buffer, error) {
	if err := d.failure("CreateIndexBuffer"); err != nil {
		return nil, err
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("recorder: empty index buffer")
	}
	return &Buffer{resource: d.newResource("indices"), Indices: append([]uint32(nil), indices...)}, nil
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if err := d.failure("CreateTexture"); err != nil {
		return nil, err
	}
	if want := desc.Width * desc.Height * 4; want == 0 || len(desc.Pixels) != want {
		return nil, fmt.Errorf("recorder: texture %q has %d bytes, want %d", desc.Name, len(desc.Pixels), want)
	}
	return &Texture{
		resource: d.newResource(desc.Name),
		Width:    desc.Width,
		Height:   desc.Height,
		store:    &storage{name: desc.Name},
	}, nil
}

func (d *Device) CreateCubemap(desc gpu.CubemapDesc) (gpu.Texture, error) {
	if err := d.failure("CreateCubemap"); err != nil {
		return nil, err
	}
	for i, face := range desc.Faces {
		if len(face) != desc.Size*desc.Size*4 {
			return nil, fmt.Errorf("recorder: cubemap %q face %d has %d bytes", desc.Name, i, len(face))
		}
	}
	return &Texture{
		resource: d.newResource(desc.Name),
		Width:    desc.Size,
		Height:   desc.Size,
		Cube:     true,
		store:    &storage{name: desc.Name},
	}, nil
}

func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.Sampler, error) {
	if err := d.failure("CreateSampler"); err != nil {
		return nil, err
	}
	return &Sampler{resource: d.newResource("sampler"), Desc: desc}, nil
}

func (d *Device) CreateRasterizerState(desc gpu.RasterizerDesc) (gpu.RasterizerState, error) {
	if err := d.failure("CreateRasterizerState"); err != nil {
		return nil, err
	}
	return &RasterizerState{resource: d.newResource("rasterizer"), Desc: desc}, nil
}

func (d *Device) CreateDepthState(desc gpu.DepthStateDesc) (gpu.DepthState, error) {
	if err := d.failure("CreateDepthState"); err != nil {
		return nil, err
	}
	return &DepthState{resource: d.newResource("depth-state"), Desc: desc}, nil
}

func (d *Device) CreateDepthTarget(desc gpu.DepthTargetDesc) (gpu.DepthTarget, error) {
	if err := d.failure("CreateDepthTarget"); err != nil {
		return nil, err
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("recorder: depth target %q has size %dx%d", desc.Name, desc.Width, desc.Height)
	}
	store := &storage{name: desc.Name}
	return &DepthTarget{
		resource: d.newResource(desc.Name),
		Width:    desc.Width,
		Height:   desc.Height,
		store:    store,
		view: &Texture{
			resource: d.newResource(desc.Name + "-view"),
			Width:    desc.Width,
			Height:   desc.Height,
			store:    store,
		},
	}, nil
}

func (d *Device) LoadVertexShader(path string) (gpu.Shader, error) {
	return d.loadShader("LoadVertexShader", path, gpu.VertexStage)
}

func (d *Device) LoadPixelShader(path string) (gpu.Shader, error) {
	return d.loadShader("LoadPixelShader", path, gpu.PixelStage)
}

func (d *Device) loadShader(op, path string, stage gpu.Stage) (gpu.Shader, error) {
	if err := d.failure(op); err != nil {
		return nil, err
	}
	reg, ok := d.shaders[path]
	if !ok {
		return nil, fmt.Errorf("recorder: shader %q not registered", path)
	}
	if reg.stage != stage {
		return nil, fmt.Errorf("recorder: shader %q is a %s shader, not %s", path, reg.stage, stage)
	}
	return &Shader{
		resource:  d.newResource(path),
		stage:     stage,
		manifest:  reg.manifest,
		ctx:       d.ctx,
		staged:    make(map[string]any),
		committed: make(map[string]any),
	}, nil
}

// Surface is an in-memory swap chain. Present unbinds the output targets,
// as a flip-model swap chain does.
type Surface struct {
	ctx      *Context
	width    int
	height   int
	back     *RenderTarget
	depth    *DepthTarget
	Presents int
}

func (d *Device) NewSurface(width, height int) *Surface {
	return &Surface{
		ctx:    d.ctx,
		width:  width,
		height: height,
		back:   &RenderTarget{resource: d.newResource("backbuffer"), store: &storage{name: "backbuffer"}},
		depth: &DepthTarget{
			resource: d.newResource("depthbuffer"),
			Width:    width,
			Height:   height,
			store:    &storage{name: "depthbuffer"},
		},
	}
}

func (s *Surface) SetSize(width, height int) {
	s.width, s.height = width, height
	s.depth.Width, s.depth.Height = width, height
}

func (s *Surface) Size() (int, int)             { return s.width, s.height }
func (s *Surface) BackBuffer() gpu.RenderTarget { return s.back }
func (s *Surface) DepthBuffer() gpu.DepthTarget { return s.depth }

func (s *Surface) Present(vsync bool) {
	s.Presents++
	s.ctx.record(OpPresent, fmt.Sprintf("vsync=%t", vsync))
	s.ctx.rt, s.ctx.dt = nil, nil
}

// Shader stages scalar values until CopyAllBufferData and binds textures and
// samplers to the context as soon as they are set.
type Shader struct {
	resource
	stage     gpu.Stage
	manifest  gpu.Manifest
	ctx       *Context
	staged    map[string]any
	committed map[string]any
}

func (s *Shader) Path() string           { return s.name }
func (s *Shader) Stage() gpu.Stage       { return s.stage }
func (s *Shader) Manifest() gpu.Manifest { return s.manifest }

func (s *Shader) stageValue(name string, kind gpu.ParamKind, v any) bool {
	if !s.manifest.Has(name, kind) {
		return false
	}
	s.staged[name] = v
	return true
}

func (s *Shader) SetInt(name string, v int32) bool     { return s.stageValue(name, gpu.ParamScalar, v) }
func (s *Shader) SetFloat(name string, v float32) bool { return s.stageValue(name, gpu.ParamScalar, v) }

func (s *Shader) SetFloat2(name string, v math.Vec2) bool {
	return s.stageValue(name, gpu.ParamScalar, v)
}

func (s *Shader) SetFloat3(name string, v math.Vec3) bool {
	return s.stageValue(name, gpu.ParamScalar, v)
}

func (s *Shader) SetFloat4(name string, v math.Vec4) bool {
	return s.stageValue(name, gpu.ParamScalar, v)
}

func (s *Shader) SetMatrix4x4(name string, m math.Mat4) bool {
	return s.stageValue(name, gpu.ParamScalar, m)
}

func (s *Shader) SetData(name string, data []byte) bool {
	return s.stageValue(name, gpu.ParamData, append([]byte(nil), data...))
}

func (s *Shader) SetShaderResourceView(name string, tex gpu.Texture) bool {
	slot := s.manifest.Slot(name, gpu.ParamTexture)
	if slot < 0 {
		return false
	}
	t, _ := tex.(*Texture)
	s.ctx.bindTexture(s.stage, slot, t)
	return true
}

func (s *Shader) SetSamplerState(name string, smp gpu.Sampler) bool {
	slot := s.manifest.Slot(name, gpu.ParamSampler)
	if slot < 0 {
		return false
	}
	sm, _ := smp.(*Sampler)
	s.ctx.samplers[s.stage][slot] = sm
	return true
}

func (s *Shader) CopyAllBufferData() {
	maps.Copy(s.committed, s.staged)
	s.ctx.record(OpCopyBufferData, s.name)
}

func (s *Shader) SetShader() {
	switch s.stage {
	case gpu.VertexStage:
		s.ctx.SetVertexShader(s)
	case gpu.PixelStage:
		s.ctx.SetPixelShader(s)
	}
}

// Value returns the committed value of a parameter.
func (s *Shader) Value(name string) (any, bool) {
	v, ok := s.committed[name]
	return v, ok
}

// Package opengl implements the gpu contract on an OpenGL 4.1 core context.
// Every call must come from the goroutine that owns the context.
package opengl

import (
	"fmt"
	"io/fs"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"forward-renderer/gpu"
	"forward-renderer/shaders"
)

// maxSlots texture units per stage; vertex-stage units start after the pixel
// stage's.
const (
	maxSlots       = 16
	vertexUnitBase = maxSlots
)

// depthOnlySource is linked in place of a pixel shader for depth-only passes.
const depthOnlySource = `
#version 410 core
void main() {}
`

type Device struct {
	fsys      fs.FS
	ctx       *Context
	depthOnly uint32
	programs  map[programKey]*program
	log       *zap.Logger
}

// NewDevice loads the GL entry points for the current context. Shader paths
// given to LoadVertexShader and LoadPixelShader are resolved in fsys.
func NewDevice(fsys fs.FS, log *zap.Logger) (*Device, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init OpenGL: %w", err)
	}

	depthOnly, err := compileShader(depthOnlySource, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, fmt.Errorf("depth-only fragment: %w", err)
	}

	// Front faces wind clockwise in the left-handed convention.
	gl.FrontFace(gl.CW)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	d := &Device{
		fsys:      fsys,
		depthOnly: depthOnly,
		programs:  make(map[programKey]*program),
		log:       log,
	}
	d.ctx = newContext(d)
	d.ctx.SetRasterizerState(nil)
	d.ctx.SetDepthState(nil)

	log.Info("OpenGL device ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)
	return d, nil
}

func (d *Device) Context() gpu.Context { return d.ctx }

func (d *Device) LoadVertexShader(path string) (gpu.Shader, error) {
	return d.loadShader(path, gpu.VertexStage, gl.VERTEX_SHADER)
}

func (d *Device) LoadPixelShader(path string) (gpu.Shader, error) {
	return d.loadShader(path, gpu.PixelStage, gl.FRAGMENT_SHADER)
}

func (d *Device) loadShader(path string, stage gpu.Stage, kind uint32) (*Shader, error) {
	src, err := fs.ReadFile(d.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read shader %s: %w", path, err)
	}
	refl, err := shaders.Reflect(string(src))
	if err != nil {
		return nil, fmt.Errorf("reflect shader %s: %w", path, err)
	}
	id, err := compileShader(string(src), kind)
	if err != nil {
		return nil, fmt.Errorf("%s shader %s: %w", stage, path, err)
	}
	d.log.Debug("shader compiled",
		zap.String("path", path),
		zap.Stringer("stage", stage),
		zap.Int("params", len(refl.Manifest.Params)),
	)
	return newShader(d, id, path, stage, refl), nil
}

// Release frees the linked programs and the depth-only fragment stage.
func (d *Device) Release() {
	for key, p := range d.programs {
		p.release()
		delete(d.programs, key)
	}
	if d.depthOnly != 0 {
		gl.DeleteShader(d.depthOnly)
		d.depthOnly = 0
	}
}

var (
	_ gpu.Device  = (*Device)(nil)
	_ gpu.Context = (*Context)(nil)
	_ gpu.Shader  = (*Shader)(nil)
	_ gpu.Surface = (*Surface)(nil)
)

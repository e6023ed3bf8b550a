package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"forward-renderer/gpu"
)

// Texture is a 2D, cube or depth texture object.
type Texture struct {
	id     uint32
	target uint32
	width  int
	height int
	name   string
}

func (t *Texture) Size() (int, int) { return t.width, t.height }

func (t *Texture) Release() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func (d *Device) CreateTexture(desc gpu.TextureDesc) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("texture %q: invalid size %dx%d", desc.Name, desc.Width, desc.Height)
	}
	if want := desc.Width * desc.Height * 4; len(desc.Pixels) != want {
		return nil, fmt.Errorf("texture %q: %d bytes of pixel data, want %d", desc.Name, len(desc.Pixels), want)
	}

	t := &Texture{target: gl.TEXTURE_2D, width: desc.Width, height: desc.Height, name: desc.Name}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	// Rows go up top first, so v = 0 addresses the top of the image as in
	// the mesh UVs.
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	if desc.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	}

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

func (d *Device) CreateCubemap(desc gpu.CubemapDesc) (gpu.Texture, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("cubemap %q: invalid face size %d", desc.Name, desc.Size)
	}
	want := desc.Size * desc.Size * 4
	for face, px := range desc.Faces {
		if len(px) != want {
			return nil, fmt.Errorf("cubemap %q face %d: %d bytes of pixel data, want %d", desc.Name, face, len(px), want)
		}
	}

	t := &Texture{target: gl.TEXTURE_CUBE_MAP, width: desc.Size, height: desc.Size, name: desc.Name}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for face, px := range desc.Faces {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(face), 0, gl.RGBA8,
			int32(desc.Size), int32(desc.Size), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(px))
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAX_LEVEL, 0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return t, nil
}

// DepthTarget is a DEPTH_COMPONENT32F texture attached to its own
// framebuffer. The surface's depth buffer is the fbo 0 variant with no view.
type DepthTarget struct {
	fbo     uint32
	view    *Texture
	surface *Surface
}

func (t *DepthTarget) Size() (int, int) {
	if t.surface != nil {
		return t.surface.Size()
	}
	return t.view.Size()
}

func (t *DepthTarget) ShaderView() gpu.Texture {
	if t.view == nil {
		return nil
	}
	return t.view
}

func (t *DepthTarget) Release() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.view != nil {
		t.view.Release()
	}
}

func (d *Device) CreateDepthTarget(desc gpu.DepthTargetDesc) (gpu.DepthTarget, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("depth target %q: invalid size %dx%d", desc.Name, desc.Width, desc.Height)
	}
	view := &Texture{target: gl.TEXTURE_2D, width: desc.Width, height: desc.Height, name: desc.Name + "-view"}
	gl.GenTextures(1, &view.id)
	gl.BindTexture(gl.TEXTURE_2D, view.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		int32(desc.Width), int32(desc.Height), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)

	t := &DepthTarget{view: view}
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, view.id, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, d.ctx.boundFBO())
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Release()
		return nil, fmt.Errorf("depth target %q: framebuffer incomplete: status=0x%X", desc.Name, status)
	}
	return t, nil
}

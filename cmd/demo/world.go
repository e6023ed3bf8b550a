package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"forward-renderer/config"
	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/logging"
	"forward-renderer/math"
	"forward-renderer/scene"
	"forward-renderer/shaders"
	"forward-renderer/textures"
)

// world holds the scene plus the GPU objects the scene only borrows.
type world struct {
	scene     *scene.Scene
	textures  *textures.Cache
	resources []gpu.Resource
}

func (w *world) keep(r gpu.Resource) { w.resources = append(w.resources, r) }

func (w *world) Release() {
	w.scene.Release()
	w.textures.Release()
	for _, r := range w.resources {
		r.Release()
	}
}

var (
	flatNormal = color.RGBA{R: 128, G: 128, B: 255, A: 255}
	white      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black      = color.RGBA{A: 255}
)

func buildWorld(dev gpu.Device, cfg config.Config, aspect float32, log *zap.Logger) (*world, error) {
	log = logging.OrNop(log)
	amb := cfg.Render.Ambient
	w := &world{
		scene:    scene.NewScene(math.Vec3{X: amb[0], Y: amb[1], Z: amb[2]}, log),
		textures: textures.NewCache(dev, log),
	}
	if err := w.populate(dev, cfg, aspect, log); err != nil {
		w.Release()
		return nil, err
	}
	return w, nil
}

func (w *world) populate(dev gpu.Device, cfg config.Config, aspect float32, log *zap.Logger) error {
	vs, err := dev.LoadVertexShader(shaders.VertexShader)
	if err != nil {
		return err
	}
	w.keep(vs)
	ps, err := dev.LoadPixelShader(shaders.PixelShaderPBR)
	if err != nil {
		return err
	}
	w.keep(ps)

	sampler, err := dev.CreateSampler(gpu.SamplerDesc{Filter: gpu.FilterAnisotropic, Address: gpu.AddressWrap, MaxAnisotropy: 16})
	if err != nil {
		return fmt.Errorf("basic sampler: %w", err)
	}
	w.keep(sampler)

	checker, err := textures.Upload(dev, "checker", textures.Checker(256,
		color.RGBA{R: 230, G: 230, B: 230, A: 255}, color.RGBA{R: 60, G: 60, B: 70, A: 255}))
	if err != nil {
		return err
	}
	w.keep(checker)

	sc := w.scene
	newMaterial := func(name string, tint core.Color, albedo gpu.Texture, metal color.RGBA, uvScale float32, roughness float32) scene.MaterialID {
		m := scene.NewMaterial(name, tint, vs, ps, math.Vec2{X: uvScale, Y: uvScale}, math.Vec2Zero, roughness)
		m.AddTextureSRV(scene.SlotAlbedo, albedo)
		m.AddTextureSRV(scene.SlotNormalMap, w.textures.Solid(flatNormal))
		m.AddTextureSRV(scene.SlotRoughnessMap, w.textures.Solid(white))
		m.AddTextureSRV(scene.SlotMetalnessMap, w.textures.Solid(metal))
		m.AddSampler(scene.SlotBasicSampler, sampler)
		return sc.Assets.AddMaterial(m)
	}
	tiles := newMaterial("tiles", core.ColorWhite, checker, black, 1, 0.6)
	gold := newMaterial("gold", core.Color{R: 1, G: 0.78, B: 0.34, A: 1}, w.textures.Solid(white), white, 1, 0.3)
	ground := newMaterial("ground", core.Color{R: 0.6, G: 0.7, B: 0.6, A: 1}, checker, black, 8, 0.9)

	meshes := map[string]*scene.MeshData{
		"cube":   scene.CubeData(1),
		"sphere": scene.SphereData(0.75, 48, 24),
		"plane":  scene.PlaneData(30, 30, 1),
	}
	ids := make(map[string]scene.MeshID)
	for name, d := range meshes {
		d.Name = name
		m, err := scene.NewMesh(dev, d)
		if err != nil {
			return err
		}
		ids[name] = sc.Assets.AddMesh(m)
	}

	sc.NewEntity("cube", ids["cube"], tiles).Transform().SetPosition(math.Vec3{X: -1.5, Y: 0.5})
	sc.NewEntity("sphere", ids["sphere"], gold).Transform().SetPosition(math.Vec3{X: 1.5, Y: 0.75})
	sc.NewEntity("ground", ids["plane"], ground)

	for i, path := range cfg.Assets.Models {
		loaded, err := loadModel(dev, path)
		if err != nil {
			log.Warn("model skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		for _, m := range loaded {
			e := sc.NewEntity(m.Name(), sc.Assets.AddMesh(m), tiles)
			e.Transform().SetPosition(math.Vec3{X: float32(i*3) - 3, Y: 1, Z: 4})
		}
	}

	sc.Lights.Add(scene.DirectionalLight(math.Vec3{X: 1, Y: -1, Z: 1}, core.Color{R: 1, G: 0.97, B: 0.9, A: 1}, 1.2))
	sc.Lights.Add(scene.PointLight(math.Vec3{X: -3, Y: 1.5, Z: -2}, core.Color{R: 1, G: 0.3, B: 0.2, A: 1}, 2, 8))
	sc.Lights.Add(scene.SpotLight(math.Vec3{X: 3, Y: 4, Z: -1}, math.Vec3{X: -0.4, Y: -1, Z: 0.3},
		core.Color{R: 0.4, G: 0.6, B: 1, A: 1}, 3, 15, 15, 25))

	cc := cfg.Camera
	first := scene.NewCamera(aspect, math.Vec3{X: cc.Position[0], Y: cc.Position[1], Z: cc.Position[2]}, cc.FieldOfView)
	second := scene.NewCamera(aspect, math.Vec3{X: 8, Y: 6, Z: -8}, 60)
	lookAt(second, math.Vec3Zero)
	for _, c := range []*scene.Camera{first, second} {
		c.MoveSpeed = cc.MoveSpeed
		c.LookSpeed = cc.LookSpeed
		sc.AddCamera(c)
	}

	return w.addSky(dev, cfg, sampler)
}

func (w *world) addSky(dev gpu.Device, cfg config.Config, sampler gpu.Sampler) error {
	var desc gpu.CubemapDesc
	if faces := cfg.Assets.SkyFaces; len(faces) == int(gpu.CubeFaceCount) {
		var paths [gpu.CubeFaceCount]string
		copy(paths[:], faces)
		var err error
		if desc, err = textures.LoadCubemap("sky", paths); err != nil {
			return err
		}
	} else {
		desc = textures.GradientCubemap("sky", 128,
			color.RGBA{R: 40, G: 90, B: 200, A: 255},
			color.RGBA{R: 180, G: 205, B: 235, A: 255},
			color.RGBA{R: 40, G: 36, B: 32, A: 255})
	}
	cubemap, err := dev.CreateCubemap(desc)
	if err != nil {
		return fmt.Errorf("sky cubemap: %w", err)
	}
	w.keep(cubemap)

	vs, err := dev.LoadVertexShader(shaders.SkyVertexShader)
	if err != nil {
		return err
	}
	w.keep(vs)
	ps, err := dev.LoadPixelShader(shaders.SkyPixelShader)
	if err != nil {
		return err
	}
	w.keep(ps)

	mesh, err := scene.NewMesh(dev, scene.CubeData(1))
	if err != nil {
		return err
	}
	w.scene.Assets.AddMesh(mesh)

	sky, err := scene.NewSky(dev, mesh, cubemap, sampler, vs, ps)
	if err != nil {
		return err
	}
	w.scene.Sky = sky
	return nil
}

func loadModel(dev gpu.Device, path string) ([]*scene.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err := scene.LoadOBJ(dev, path)
		if err != nil {
			return nil, err
		}
		return []*scene.Mesh{m}, nil
	case ".gltf", ".glb":
		return scene.LoadGLTF(dev, path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", filepath.Ext(path))
	}
}

// lookAt turns c toward target. Positive pitch looks down.
func lookAt(c *scene.Camera, target math.Vec3) {
	d := target.Sub(c.Transform().Position()).Normalize()
	c.Transform().SetRotation(math.Vec3{
		X: math32.Asin(-d.Y),
		Y: math32.Atan2(d.X, d.Z),
	})
	c.UpdateViewMatrix()
}

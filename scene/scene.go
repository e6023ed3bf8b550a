package scene

import (
	"go.uber.org/zap"

	"forward-renderer/input"
	"forward-renderer/math"
)

// Scene is everything one frame draws: entities in insertion order, the
// cameras, the lights and an optional sky. Assets shared by the entities
// live in Assets.
type Scene struct {
	Assets *Assets
	Lights *LightSet
	Sky    *Sky

	entities []*GameEntity
	cameras  []*Camera
	current  int

	log *zap.Logger
}

func NewScene(ambient math.Vec3, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		Assets: NewAssets(log),
		Lights: NewLightSet(ambient, log),
		log:    log,
	}
}

func (s *Scene) AddEntity(e *GameEntity) {
	s.entities = append(s.entities, e)
}

// NewEntity creates an entity backed by this scene's assets and adds it.
func (s *Scene) NewEntity(name string, mesh MeshID, material MaterialID) *GameEntity {
	e := NewGameEntity(name, s.Assets, mesh, material)
	s.AddEntity(e)
	return e
}

func (s *Scene) Entities() []*GameEntity { return s.entities }

// AddCamera appends c; the first camera added becomes current.
func (s *Scene) AddCamera(c *Camera) int {
	s.cameras = append(s.cameras, c)
	return len(s.cameras) - 1
}

func (s *Scene) Cameras() []*Camera { return s.cameras }

// SetCurrentCamera selects the camera used for input and rendering. An
// out-of-range index is ignored.
func (s *Scene) SetCurrentCamera(i int) {
	if i < 0 || i >= len(s.cameras) {
		return
	}
	if i != s.current {
		s.log.Debug("camera switched", zap.Int("camera", i))
	}
	s.current = i
}

// CurrentCamera returns nil when the scene has no cameras.
func (s *Scene) CurrentCamera() *Camera {
	if len(s.cameras) == 0 {
		return nil
	}
	return s.cameras[s.current]
}

func (s *Scene) CurrentCameraIndex() int { return s.current }

// Update applies input to the current camera only.
func (s *Scene) Update(in input.State, dt float32) {
	if c := s.CurrentCamera(); c != nil {
		c.Update(in, dt)
	}
}

// Resize rebuilds every camera's projection, not just the current one.
func (s *Scene) Resize(aspect float32) {
	for _, c := range s.cameras {
		c.UpdateProjectionMatrix(aspect)
	}
}

// Validate collects the slot diagnostics of every registered material.
func (s *Scene) Validate() []Diagnostic {
	var out []Diagnostic
	for _, m := range s.Assets.Materials() {
		out = append(out, m.Validate()...)
	}
	return out
}

// Release frees the sky states and every asset.
func (s *Scene) Release() {
	if s.Sky != nil {
		s.Sky.Release()
	}
	s.Assets.Release()
}

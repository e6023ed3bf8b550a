package scene

import (
	"github.com/google/uuid"

	"forward-renderer/gpu"
)

// GameEntity is a drawable: its own Transform plus a shared mesh and
// material.
type GameEntity struct {
	id        uuid.UUID
	Name      string
	transform *Transform
	assets    *Assets
	mesh      MeshID
	material  MaterialID
}

func NewGameEntity(name string, assets *Assets, mesh MeshID, material MaterialID) *GameEntity {
	return &GameEntity{
		id:        uuid.New(),
		Name:      name,
		transform: NewTransform(),
		assets:    assets,
		mesh:      mesh,
		material:  material,
	}
}

func (e *GameEntity) ID() uuid.UUID             { return e.id }
func (e *GameEntity) Transform() *Transform     { return e.transform }
func (e *GameEntity) MeshID() MeshID            { return e.mesh }
func (e *GameEntity) MaterialID() MaterialID    { return e.material }
func (e *GameEntity) Mesh() *Mesh               { return e.assets.Mesh(e.mesh) }
func (e *GameEntity) Material() *Material       { return e.assets.Material(e.material) }
func (e *GameEntity) SetMaterial(id MaterialID) { e.material = id }

// Draw binds the material for this entity's world matrix and draws the mesh.
// Entities with a missing mesh or material are skipped.
func (e *GameEntity) Draw(ctx gpu.Context, frame *FrameParams) {
	mesh, mat := e.Mesh(), e.Material()
	if mesh == nil || mat == nil {
		return
	}
	mat.Prepare(frame, e.transform)
	mesh.Draw(ctx)
}

// DrawDepth uploads only the world matrix to the already active depth
// shader and draws the mesh.
func (e *GameEntity) DrawDepth(ctx gpu.Context, vs gpu.Shader) {
	mesh := e.Mesh()
	if mesh == nil {
		return
	}
	vs.SetMatrix4x4(ParamWorld, e.transform.World())
	vs.CopyAllBufferData()
	mesh.Draw(ctx)
}

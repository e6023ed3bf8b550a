package scene

import (
	"go.uber.org/zap"
)

// MeshID and MaterialID index the Assets tables. The zero value is invalid.
type (
	MeshID     int
	MaterialID int
)

// Assets owns the meshes and materials that entities share. Entities hold
// ids, so one mesh or material may back any number of entities and outlives
// all of them.
type Assets struct {
	meshes    []*Mesh
	materials []*Material
	log       *zap.Logger
}

func NewAssets(log *zap.Logger) *Assets {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assets{log: log}
}

func (a *Assets) AddMesh(m *Mesh) MeshID {
	a.meshes = append(a.meshes, m)
	return MeshID(len(a.meshes))
}

// AddMaterial registers m and logs any slot diagnostics as warnings.
func (a *Assets) AddMaterial(m *Material) MaterialID {
	m.SetLogger(a.log)
	for _, d := range m.Validate() {
		a.log.Warn("material slot mismatch", d.Fields()...)
	}
	a.materials = append(a.materials, m)
	return MaterialID(len(a.materials))
}

// Mesh returns nil for an unknown id.
func (a *Assets) Mesh(id MeshID) *Mesh {
	if id <= 0 || int(id) > len(a.meshes) {
		return nil
	}
	return a.meshes[id-1]
}

// Material returns nil for an unknown id.
func (a *Assets) Material(id MaterialID) *Material {
	if id <= 0 || int(id) > len(a.materials) {
		return nil
	}
	return a.materials[id-1]
}

func (a *Assets) MeshByName(name string) (MeshID, bool) {
	for i, m := range a.meshes {
		if m.Name() == name {
			return MeshID(i + 1), true
		}
	}
	return 0, false
}

func (a *Assets) MaterialByName(name string) (MaterialID, bool) {
	for i, m := range a.materials {
		if m.Name() == name {
			return MaterialID(i + 1), true
		}
	}
	return 0, false
}

func (a *Assets) Meshes() []*Mesh        { return a.meshes }
func (a *Assets) Materials() []*Material { return a.materials }

// Release frees every mesh buffer. Materials do not own their textures.
func (a *Assets) Release() {
	for _, m := range a.meshes {
		m.Release()
	}
	a.meshes = nil
	a.materials = nil
}

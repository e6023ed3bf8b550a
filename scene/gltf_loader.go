package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
)

// ReadGLTF returns one left-handed mesh per primitive of every mesh in the
// .gltf or .glb file, in document order. Node transforms, materials and
// images are not imported.
func ReadGLTF(path string) ([]*MeshData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var out []*MeshData
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			name := gm.Name
			if name == "" {
				name = fmt.Sprintf("mesh%d", mi)
			}
			if len(gm.Primitives) > 1 {
				name = fmt.Sprintf("%s_p%d", name, pi)
			}
			d, err := readGLTFPrimitive(doc, name, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d primitive %d: %w", path, mi, pi, err)
			}
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gltf %q: no meshes", path)
	}
	return out, nil
}

// LoadGLTF reads path and uploads every primitive to dev.
func LoadGLTF(dev gpu.Device, path string) ([]*Mesh, error) {
	data, err := ReadGLTF(path)
	if err != nil {
		return nil, err
	}
	meshes := make([]*Mesh, 0, len(data))
	for _, d := range data {
		m, err := NewMesh(dev, d)
		if err != nil {
			for _, done := range meshes {
				done.Release()
			}
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func readGLTFPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (*MeshData, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %v", prim.Mode)
	}
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return nil, fmt.Errorf("texcoords: %w", err)
		}
	}

	d := &MeshData{Name: name, Vertices: make([]core.Vertex, len(positions))}
	for i, p := range positions {
		v := core.Vertex{Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]}}
		if i < len(normals) {
			v.Normal = math.Vec3{X: normals[i][0], Y: normals[i][1], Z: normals[i][2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		d.Vertices[i] = v
	}

	if prim.Indices != nil {
		if d.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		d.Indices = make([]uint32, len(positions))
		for i := range d.Indices {
			d.Indices[i] = uint32(i)
		}
	}

	// glTF texture coordinates already have a top-left origin.
	FromRightHanded(d, false)
	if len(normals) == 0 {
		GenerateNormals(d)
	}
	ComputeTangents(d)
	return d, nil
}

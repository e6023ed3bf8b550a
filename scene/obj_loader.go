package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"forward-renderer/core"
	"forward-renderer/gpu"
	"forward-renderer/math"
)

type objIndex struct{ v, vt, vn int }

// ParseOBJ reads Wavefront OBJ geometry into a single left-handed mesh.
// Groups and objects are merged, polygons are fan-triangulated, and
// vertices are shared only when position, UV and normal indices all match.
// Material libraries are ignored.
func ParseOBJ(r io.Reader, name string) (*MeshData, error) {
	var (
		positions []math.Vec3
		normals   []math.Vec3
		uvs       []math.Vec2
		faces     [][3]objIndex
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v", "vn":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("obj %s:%d: %w", name, line, err)
			}
			vec := math.Vec3{X: v[0], Y: v[1], Z: v[2]}
			if fields[0] == "v" {
				positions = append(positions, vec)
			} else {
				normals = append(normals, vec)
			}
		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("obj %s:%d: %w", name, line, err)
			}
			uvs = append(uvs, math.Vec2{X: v[0], Y: v[1]})
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj %s:%d: face needs at least 3 vertices", name, line)
			}
			poly := make([]objIndex, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := parseFaceVertex(tok, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("obj %s:%d: %w", name, line, err)
				}
				poly = append(poly, idx)
			}
			for i := 1; i+1 < len(poly); i++ {
				faces = append(faces, [3]objIndex{poly[0], poly[i], poly[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj %s: %w", name, err)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("obj %s: no faces", name)
	}

	d := &MeshData{Name: name}
	seen := make(map[objIndex]uint32)
	for _, f := range faces {
		for _, k := range f {
			if idx, ok := seen[k]; ok {
				d.Indices = append(d.Indices, idx)
				continue
			}
			v := core.Vertex{Position: positions[k.v]}
			if k.vt >= 0 {
				v.UV = uvs[k.vt]
			}
			if k.vn >= 0 {
				v.Normal = normals[k.vn]
			}
			idx := uint32(len(d.Vertices))
			d.Vertices = append(d.Vertices, v)
			d.Indices = append(d.Indices, idx)
			seen[k] = idx
		}
	}

	FromRightHanded(d, true)
	if len(normals) == 0 {
		GenerateNormals(d)
	}
	ComputeTangents(d)
	return d, nil
}

// ReadOBJ parses the OBJ file at path. The mesh is named after the file.
func ReadOBJ(path string) (*MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// LoadOBJ reads path and uploads it to dev.
func LoadOBJ(dev gpu.Device, path string) (*Mesh, error) {
	d, err := ReadOBJ(path)
	if err != nil {
		return nil, err
	}
	return NewMesh(dev, d)
}

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d components, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range out {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex resolves "v", "v/vt", "v//vn" or "v/vt/vn" to 0-based
// indices, -1 when absent. Negative OBJ indices count back from the end.
func parseFaceVertex(tok string, nv, nvt, nvn int) (objIndex, error) {
	parts := strings.Split(tok, "/")
	out := objIndex{v: -1, vt: -1, vn: -1}
	counts := [3]int{nv, nvt, nvn}
	targets := [3]*int{&out.v, &out.vt, &out.vn}
	for i, p := range parts {
		if i > 2 {
			break
		}
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return out, fmt.Errorf("face vertex %q: %w", tok, err)
		}
		if n < 0 {
			n = counts[i] + n
		} else {
			n--
		}
		if n < 0 || n >= counts[i] {
			return out, fmt.Errorf("face vertex %q: index out of range", tok)
		}
		*targets[i] = n
	}
	if out.v < 0 {
		return out, fmt.Errorf("face vertex %q: missing position", tok)
	}
	return out, nil
}

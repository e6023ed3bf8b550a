package gpu

import "slices"

type ParamKind int

const (
	ParamScalar ParamKind = iota
	ParamData
	ParamTexture
	ParamSampler
)

func (k ParamKind) String() string {
	switch k {
	case ParamScalar:
		return "scalar"
	case ParamData:
		return "data"
	case ParamTexture:
		return "texture"
	case ParamSampler:
		return "sampler"
	default:
		return "unknown"
	}
}

type Param struct {
	Name string
	Kind ParamKind
}

// Manifest is the parameter set a shader stage declares, in declaration
// order. Texture order defines the stage's texture slots.
type Manifest struct {
	Params []Param
}

func NewManifest(params ...Param) Manifest {
	return Manifest{Params: params}
}

func (m Manifest) Has(name string, kind ParamKind) bool {
	return slices.Contains(m.Params, Param{Name: name, Kind: kind})
}

// Names lists the parameters of the given kind in declaration order.
func (m Manifest) Names(kind ParamKind) []string {
	var names []string
	for _, p := range m.Params {
		if p.Kind == kind {
			names = append(names, p.Name)
		}
	}
	return names
}

// Slot returns the index of name among the parameters of its kind, or -1.
func (m Manifest) Slot(name string, kind ParamKind) int {
	return slices.Index(m.Names(kind), name)
}

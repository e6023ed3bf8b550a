package gpu

// TextureDesc describes an RGBA8 image, rows top to bottom.
type TextureDesc struct {
	Name    string
	Width   int
	Height  int
	Pixels  []byte
	Mipmaps bool
}

// CubeFace indexes cubemap faces in +X -X +Y -Y +Z -Z order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
	CubeFaceCount
)

// CubemapDesc describes six square RGBA8 faces of Size x Size.
type CubemapDesc struct {
	Name  string
	Size  int
	Faces [CubeFaceCount][]byte
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterPoint
	FilterAnisotropic
)

type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressBorder
)

type CompareFunc int

const (
	CompareLess CompareFunc = iota
	CompareLessEqual
	CompareAlways
)

type SamplerDesc struct {
	Filter        Filter
	Address       AddressMode
	MaxAnisotropy int
	// Comparison turns the sampler into a depth-comparison sampler using
	// CompareFunc.
	Comparison  bool
	CompareFunc CompareFunc
	BorderColor [4]float32
}

type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

type RasterizerDesc struct {
	Cull                 CullMode
	DepthBias            int32
	SlopeScaledDepthBias float32
	DepthBiasClamp       float32
}

type DepthStateDesc struct {
	Func         CompareFunc
	WriteEnabled bool
}

type DepthTargetDesc struct {
	Name   string
	Width  int
	Height int
}

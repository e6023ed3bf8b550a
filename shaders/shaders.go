// Package shaders embeds the GLSL programs and reflects their parameter
// manifests from source.
package shaders

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"forward-renderer/gpu"
)

//go:embed *.glsl
var FS embed.FS

const (
	VertexShader       = "VertexShader.glsl"
	PixelShaderPBR     = "PixelShaderPBR.glsl"
	ShadowVertexShader = "ShadowVS.glsl"
	SkyVertexShader    = "SkyVS.glsl"
	SkyPixelShader     = "SkyPS.glsl"
)

// Stages maps every embedded program to its pipeline stage.
var Stages = map[string]gpu.Stage{
	VertexShader:       gpu.VertexStage,
	PixelShaderPBR:     gpu.PixelStage,
	ShadowVertexShader: gpu.VertexStage,
	SkyVertexShader:    gpu.VertexStage,
	SkyPixelShader:     gpu.PixelStage,
}

// Reflection is what a stage declares: its manifest, plus which textures each
// separate sampler object filters. GLSL has no standalone sampler uniforms,
// so samplers are declared with "#pragma sampler <Name> <texture>...".
type Reflection struct {
	Manifest gpu.Manifest
	Samplers map[string][]string
}

var (
	pragmaSampler = regexp.MustCompile(`^#pragma\s+sampler\s+(\w+)((?:\s+\w+)*)$`)
	uniformVar    = regexp.MustCompile(`^(?:layout\s*\([^)]*\)\s*)?uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[[^\]]*\])?\s*;$`)
	uniformBlock  = regexp.MustCompile(`^(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s*\{?$`)
)

// Reflect parses uniform declarations, uniform blocks and sampler pragmas.
func Reflect(src string) (Reflection, error) {
	r := Reflection{Samplers: make(map[string][]string)}
	var samplerOrder []string
	textures := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)

		switch {
		case pragmaSampler.MatchString(line):
			m := pragmaSampler.FindStringSubmatch(line)
			if _, dup := r.Samplers[m[1]]; dup {
				return r, fmt.Errorf("sampler %q declared twice", m[1])
			}
			r.Samplers[m[1]] = strings.Fields(m[2])
			samplerOrder = append(samplerOrder, m[1])
		case uniformVar.MatchString(line):
			m := uniformVar.FindStringSubmatch(line)
			kind := gpu.ParamScalar
			if strings.HasPrefix(m[1], "sampler") {
				kind = gpu.ParamTexture
				textures[m[2]] = true
			}
			r.Manifest.Params = append(r.Manifest.Params, gpu.Param{Name: m[2], Kind: kind})
		case uniformBlock.MatchString(line):
			m := uniformBlock.FindStringSubmatch(line)
			r.Manifest.Params = append(r.Manifest.Params, gpu.Param{Name: m[1], Kind: gpu.ParamData})
		}
	}
	if err := scanner.Err(); err != nil {
		return r, err
	}

	for _, name := range samplerOrder {
		for _, tex := range r.Samplers[name] {
			if !textures[tex] {
				return r, fmt.Errorf("sampler %q filters undeclared texture %q", name, tex)
			}
		}
		r.Manifest.Params = append(r.Manifest.Params, gpu.Param{Name: name, Kind: gpu.ParamSampler})
	}
	return r, nil
}

// ReflectFile reads and reflects one stage from fsys.
func ReflectFile(fsys fs.FS, path string) (Reflection, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Reflection{}, fmt.Errorf("read shader %s: %w", path, err)
	}
	r, err := Reflect(string(src))
	if err != nil {
		return r, fmt.Errorf("reflect shader %s: %w", path, err)
	}
	return r, nil
}

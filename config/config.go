// Package config holds the demo settings, read from a TOML file layered over
// built-in defaults.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Window  Window  `toml:"window"`
	Camera  Camera  `toml:"camera"`
	Shadow  Shadow  `toml:"shadow"`
	Render  Render  `toml:"render"`
	Logging Logging `toml:"logging"`
	Assets  Assets  `toml:"assets"`
}

type Window struct {
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	Title     string `toml:"title"`
	VSync     bool   `toml:"vsync"`
	Resizable bool   `toml:"resizable"`
}

type Camera struct {
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView float32    `toml:"fov"`
	Position    [3]float32 `toml:"position"`
	MoveSpeed   float32    `toml:"move_speed"`
	LookSpeed   float32    `toml:"look_speed"`
}

// Shadow configures the single directional shadow map.
type Shadow struct {
	Resolution     int     `toml:"resolution"`
	ProjectionSize float32 `toml:"projection_size"`
	LightDistance  float32 `toml:"light_distance"`
	Near           float32 `toml:"near"`
	Far            float32 `toml:"far"`
	DepthBias      int32   `toml:"depth_bias"`
	SlopeBias      float32 `toml:"slope_bias"`
	BiasClamp      float32 `toml:"bias_clamp"`
}

type Render struct {
	ClearColor [4]float32 `toml:"clear_color"`
	Ambient    [3]float32 `toml:"ambient"`
	// FrustumCull skips entities outside the camera volume in the main pass.
	// The shadow pass always draws every entity.
	FrustumCull bool `toml:"frustum_cull"`
}

type Logging struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type Assets struct {
	// ShaderDir overrides the embedded shaders when set.
	ShaderDir string `toml:"shader_dir"`
	// SkyFaces lists +X -X +Y -Y +Z -Z cubemap images. Empty means a
	// generated gradient sky.
	SkyFaces []string `toml:"sky_faces"`
	Models   []string `toml:"models"`
	// CaptureDir receives screenshots.
	CaptureDir string `toml:"capture_dir"`
}

func Default() Config {
	return Config{
		Window: Window{
			Width:     1280,
			Height:    720,
			Title:     "Forward Renderer",
			VSync:     true,
			Resizable: true,
		},
		Camera: Camera{
			FieldOfView: 74,
			Position:    [3]float32{0, 2, -8},
			MoveSpeed:   5,
			LookSpeed:   1,
		},
		Shadow: Shadow{
			Resolution:     1024,
			ProjectionSize: 15,
			LightDistance:  20,
			Near:           1,
			Far:            100,
			DepthBias:      1000,
			SlopeBias:      1,
		},
		Render: Render{
			ClearColor: [4]float32{0.4, 0.6, 0.75, 1},
			Ambient:    [3]float32{0.1, 0.1, 0.25},
		},
		Logging: Logging{
			Level: "info",
		},
		Assets: Assets{
			CaptureDir: ".",
		},
	}
}

// Load reads filename over the defaults. Unknown keys are rejected so typos
// do not silently fall back to a default.
func Load(filename string) (Config, error) {
	cfg := Default()

	f, err := os.Open(filename)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(bufio.NewReader(f))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("config %s: %s", filename, strict.String())
		}
		return cfg, fmt.Errorf("decode config %s: %w", filename, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", filename, err)
	}
	return cfg, nil
}

// Save writes cfg as TOML.
func Save(cfg Config, filename string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var (
	ErrWindowSize  = errors.New("window size must be positive")
	ErrFieldOfView = errors.New("field of view must be in (0, 180) degrees")
	ErrShadowSize  = errors.New("shadow resolution and projection size must be positive")
	ErrShadowRange = errors.New("shadow near plane must be in front of far plane")
	ErrSkyFaces    = errors.New("sky needs exactly six faces")
)

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, ErrWindowSize)
	}
	if c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180 {
		errs = append(errs, ErrFieldOfView)
	}
	if c.Shadow.Resolution <= 0 || c.Shadow.ProjectionSize <= 0 {
		errs = append(errs, ErrShadowSize)
	}
	if c.Shadow.Near >= c.Shadow.Far {
		errs = append(errs, ErrShadowRange)
	}
	if n := len(c.Assets.SkyFaces); n != 0 && n != 6 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrSkyFaces, n))
	}
	return errors.Join(errs...)
}

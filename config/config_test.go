package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "renderer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1024, cfg.Shadow.Resolution)
	assert.Equal(t, float32(74), cfg.Camera.FieldOfView)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
[window]
width = 800
height = 600

[shadow]
resolution = 2048

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, 2048, cfg.Shadow.Resolution)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, Default().Window.Title, cfg.Window.Title)
	assert.Equal(t, Default().Shadow.ProjectionSize, cfg.Shadow.ProjectionSize)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, `
[window]
widht = 800
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")
}

func TestLoadValidates(t *testing.T) {
	path := writeFile(t, `
[camera]
fov = 190.0

[shadow]
near = 50.0
far = 10.0
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFieldOfView)
	assert.ErrorIs(t, err, ErrShadowRange)
}

func TestValidateSkyFaces(t *testing.T) {
	cfg := Default()
	cfg.Assets.SkyFaces = []string{"a.png", "b.png"}
	assert.ErrorIs(t, cfg.Validate(), ErrSkyFaces)
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "saved"
	cfg.Assets.SkyFaces = []string{"px.png", "nx.png", "py.png", "ny.png", "pz.png", "nz.png"}
	cfg.Assets.Models = []string{"models/helmet.gltf"}

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

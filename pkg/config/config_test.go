package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-gargantua/pkg/core"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, core.NewVec3(0, 2, 15), cfg.CameraPosition())
	assert.Equal(t, core.Vec3{}, cfg.CameraTarget())
	assert.Equal(t, 1.4, cfg.Bloom.Strength)
	assert.Equal(t, 0.6, cfg.Bloom.Radius)
	assert.Equal(t, 0.1, cfg.Bloom.Threshold)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	input := `
asset_dir = "textures"

[render]
width = 320
height = 180

[camera]
position = [0, 1, 8]
auto_rotate = 0.1

[bloom]
enabled = false
`
	cfg, err := Decode(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "textures", cfg.AssetDir)
	assert.Equal(t, 320, cfg.Render.Width)
	assert.Equal(t, 180, cfg.Render.Height)
	assert.Equal(t, 32, cfg.Render.TileSize, "unset keys keep their defaults")
	assert.Equal(t, core.NewVec3(0, 1, 8), cfg.CameraPosition())
	assert.Equal(t, 0.1, cfg.Camera.AutoRotate)
	assert.False(t, cfg.Bloom.Enabled)
	assert.Equal(t, 1.4, cfg.Bloom.Strength)
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("[render]\nwidht = 10\n"))
	require.Error(t, err)

	var strict *toml.StrictMissingError
	assert.True(t, errors.As(err, &strict))
}

func TestDecodeRejectsMalformedToml(t *testing.T) {
	_, err := Decode(strings.NewReader("[render\nwidth = 10"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		err    error
	}{
		{"zero width", func(c *Config) { c.Render.Width = 0 }, ErrInvalidResolution},
		{"negative height", func(c *Config) { c.Render.Height = -1 }, ErrInvalidResolution},
		{"zero tile", func(c *Config) { c.Render.TileSize = 0 }, ErrInvalidTileSize},
		{"negative workers", func(c *Config) { c.Render.Workers = -2 }, ErrInvalidWorkers},
		{"no frames", func(c *Config) { c.Sequence.Frames = 0 }, ErrInvalidSequence},
		{"zero fps", func(c *Config) { c.Sequence.FPS = 0 }, ErrInvalidSequence},
		{"negative fly in", func(c *Config) { c.Sequence.FlyIn = -1 }, ErrInvalidSequence},
		{"bloom radius", func(c *Config) { c.Bloom.Radius = 1.5 }, ErrInvalidBloom},
		{"bloom strength", func(c *Config) { c.Bloom.Strength = -1 }, ErrInvalidBloom},
		{"camera at target", func(c *Config) { c.Camera.Position = [3]float64{} }, ErrInvalidCamera},
		{"render scale", func(c *Config) { c.Viewer.RenderScale = 0 }, ErrInvalidScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sequence]\nframes = 12\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Sequence.Frames)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte("[render]\nwidth = 0\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Render.Width = 640
	cfg.Camera.AutoRotate = 0.25

	var buf bytes.Buffer
	require.NoError(t, cfg.Encode(&buf))
	assert.Contains(t, buf.String(), "width = 640")

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}

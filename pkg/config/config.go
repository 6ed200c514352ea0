// Package config loads render settings from TOML files. Every field has a
// default, so a file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-gargantua/pkg/core"
)

// Validation errors.
var (
	ErrInvalidResolution = errors.New("width and height must be positive")
	ErrInvalidTileSize   = errors.New("tile size must be positive")
	ErrInvalidWorkers    = errors.New("worker count must not be negative")
	ErrInvalidSequence   = errors.New("sequence needs at least one frame and a positive frame rate")
	ErrInvalidBloom      = errors.New("bloom radius must be within [0, 1] and strength and threshold must not be negative")
	ErrInvalidCamera     = errors.New("camera position must differ from its target")
	ErrInvalidScale      = errors.New("viewer render scale must be within (0, 1]")
)

// Render controls image size and parallelism.
type Render struct {
	Width    int `toml:"width"`
	Height   int `toml:"height"`
	TileSize int `toml:"tile_size"`
	Workers  int `toml:"workers"` // 0 = one per CPU
}

// Camera is the starting camera pose.
type Camera struct {
	Position   [3]float64 `toml:"position"`
	Target     [3]float64 `toml:"target"`
	AutoRotate float64    `toml:"auto_rotate"` // radians per second about +Y
}

// Sequence controls multi-frame renders.
type Sequence struct {
	Frames     int     `toml:"frames"`
	FPS        float64 `toml:"fps"`
	FlyIn      float64 `toml:"fly_in"`      // seconds to reach the horizon, 0 = static camera
	TunnelExit float64 `toml:"tunnel_exit"` // seconds in the tunnel before scrolling out, 0 = stay
}

// Bloom controls the glow pass.
type Bloom struct {
	Enabled   bool    `toml:"enabled"`
	Strength  float64 `toml:"strength"`
	Radius    float64 `toml:"radius"`
	Threshold float64 `toml:"threshold"`
}

// Viewer controls the interactive window.
type Viewer struct {
	RenderScale float64 `toml:"render_scale"` // fraction of the window size that is ray marched
}

// Config is the complete set of settings.
type Config struct {
	AssetDir  string   `toml:"asset_dir"`
	OutputDir string   `toml:"output_dir"`
	Render    Render   `toml:"render"`
	Camera    Camera   `toml:"camera"`
	Sequence  Sequence `toml:"sequence"`
	Bloom     Bloom    `toml:"bloom"`
	Viewer    Viewer   `toml:"viewer"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		AssetDir:  "assets",
		OutputDir: "output",
		Render: Render{
			Width:    800,
			Height:   450,
			TileSize: 32,
		},
		Camera: Camera{
			Position: [3]float64{0, 2, 15},
		},
		Sequence: Sequence{
			Frames:     120,
			FPS:        30,
			FlyIn:      3,
			TunnelExit: 0.5,
		},
		Bloom: Bloom{
			Enabled:   true,
			Strength:  1.4,
			Radius:    0.6,
			Threshold: 0.1,
		},
		Viewer: Viewer{
			RenderScale: 0.5,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg to w as TOML.
func (c Config) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate checks that the settings can be rendered.
func (c Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidResolution, c.Render.Width, c.Render.Height)
	}
	if c.Render.TileSize <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTileSize, c.Render.TileSize)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Render.Workers)
	}
	if c.Sequence.Frames <= 0 || c.Sequence.FPS <= 0 || c.Sequence.FlyIn < 0 || c.Sequence.TunnelExit < 0 {
		return ErrInvalidSequence
	}
	if c.Bloom.Strength < 0 || c.Bloom.Threshold < 0 || c.Bloom.Radius < 0 || c.Bloom.Radius > 1 {
		return ErrInvalidBloom
	}
	if c.Camera.Position == c.Camera.Target {
		return ErrInvalidCamera
	}
	if c.Viewer.RenderScale <= 0 || c.Viewer.RenderScale > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidScale, c.Viewer.RenderScale)
	}
	return nil
}

// CameraPosition returns the starting eye point
func (c Config) CameraPosition() core.Vec3 {
	return vec(c.Camera.Position)
}

// CameraTarget returns the starting look-at point
func (c Config) CameraTarget() core.Vec3 {
	return vec(c.Camera.Target)
}

func vec(a [3]float64) core.Vec3 {
	return core.NewVec3(a[0], a[1], a[2])
}

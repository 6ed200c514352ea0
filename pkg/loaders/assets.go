package loaders

import (
	"path/filepath"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/texture"
)

// Asset file names, relative to the asset directory.
const (
	GalaxyFile  = "milkyway.png"
	StarsFile   = "stars.jpg"
	MillerFile  = "miller-planet.png"
	MannFile    = "mann-planet.png"
	EdmundsFile = "edmunds-planet.png"
)

// Fallback texture resolutions.
const (
	fallbackPanoramaWidth  = 1024
	fallbackPanoramaHeight = 512
	fallbackPlanetSize     = 64
)

// Assets holds every texture the scene samples. Planet textures are keyed
// by body name.
type Assets struct {
	Galaxy  texture.Sampler
	Stars   texture.Sampler
	Planets map[string]texture.Sampler
}

// Planet returns the texture for the named body, or mid grey when none is
// registered.
func (a *Assets) Planet(name string) texture.Sampler {
	if s, ok := a.Planets[name]; ok {
		return s
	}
	return texture.NewSolidColor(core.NewVec3(0.5, 0.5, 0.5))
}

type planetAsset struct {
	name   string
	file   string
	top    core.Vec3
	bottom core.Vec3
}

var planetAssets = []planetAsset{
	{"Miller", MillerFile, core.NewVec3(0.15, 0.35, 0.6), core.NewVec3(0.03, 0.12, 0.3)},
	{"Mann", MannFile, core.NewVec3(0.9, 0.93, 0.97), core.NewVec3(0.55, 0.65, 0.78)},
	{"Edmunds", EdmundsFile, core.NewVec3(0.62, 0.5, 0.36), core.NewVec3(0.3, 0.24, 0.18)},
}

// FallbackAssets builds the procedural texture set used when no asset
// directory is available.
func FallbackAssets() *Assets {
	a := &Assets{
		Galaxy:  texture.NewGalaxyBand(fallbackPanoramaWidth, fallbackPanoramaHeight),
		Stars:   texture.NewStarfield(fallbackPanoramaWidth, fallbackPanoramaHeight, 0),
		Planets: make(map[string]texture.Sampler, len(planetAssets)),
	}
	for _, p := range planetAssets {
		a.Planets[p.name] = texture.NewGradientTexture(fallbackPlanetSize, fallbackPlanetSize, p.top, p.bottom)
	}
	return a
}

// LoadAssets loads the texture set from dir. Any file that is missing or
// cannot be decoded is logged and replaced by its procedural fallback, so
// the result is always complete. An empty dir skips loading entirely.
func LoadAssets(dir string, logger core.Logger) *Assets {
	a := FallbackAssets()
	if dir == "" {
		return a
	}

	load := func(file string, dst *texture.Sampler) {
		tex, err := LoadTexture(filepath.Join(dir, file))
		if err != nil {
			core.Warnf(logger, "Using procedural fallback for %s: %v\n", file, err)
			return
		}
		logger.Printf("Loaded %s (%dx%d)\n", file, tex.Width, tex.Height)
		*dst = tex
	}

	load(GalaxyFile, &a.Galaxy)
	load(StarsFile, &a.Stars)
	for _, p := range planetAssets {
		s := a.Planets[p.name]
		load(p.file, &s)
		a.Planets[p.name] = s
	}
	return a
}

// Package background samples the celestial sphere behind the black hole and
// adds the lensing features that depend on how close a ray came to the mass.
package background

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/spacetime"
	"github.com/df07/go-gargantua/pkg/texture"
)

// Panorama mixing weights.
const (
	starTiling       = 4.0
	starWeight       = 0.207
	bandGalaxyWeight = 0.461
	bandStarWeight   = 0.130
	saturation       = 1.04
	aberrationScale  = 0.003
	maxLensStrength  = 3.0
)

var (
	photonRingColor = core.NewVec3(1.0, 0.85, 0.65)
	edgeGlowColor   = core.NewVec3(1.0, 0.85, 0.7)
)

// Field is the background sky: a galaxy panorama banded across the
// equator over a tiled starfield.
type Field struct {
	Galaxy texture.Sampler
	Stars  texture.Sampler
}

// NewField creates a background from galaxy and star textures
func NewField(galaxy, stars texture.Sampler) *Field {
	return &Field{Galaxy: galaxy, Stars: stars}
}

// UV maps a unit direction to equirectangular texture coordinates.
func UV(dir core.Vec3) core.Vec2 {
	return core.NewVec2(
		math.Atan2(dir.Z, dir.X)*0.1591+0.5,
		math.Asin(core.Clamp(dir.Y, -1, 1))*0.3183+0.5,
	)
}

// Sample returns the unlensed sky color seen along dir.
func (f *Field) Sample(dir core.Vec3) core.Vec3 {
	uv := UV(dir)
	galaxy := f.Galaxy.Sample(uv)
	stars := f.Stars.Sample(uv.Multiply(starTiling))

	mask := core.Smoothstep(0.3, 0.5, uv.Y) * core.Smoothstep(0.7, 0.5, uv.Y)
	bg := stars.Multiply(starWeight).Mix(galaxy.Multiply(bandGalaxyWeight).Add(stars.Multiply(bandStarWeight)), mask)

	return core.Splat(bg.Luminance()).Mix(bg, saturation)
}

// Lensed samples the sky with chromatic aberration proportional to the
// lensing strength k: red and blue are fetched along directions nudged in
// opposite X directions.
func (f *Field) Lensed(dir core.Vec3, k float64) core.Vec3 {
	shift := core.NewVec3(k*aberrationScale, 0, 0)
	return core.NewVec3(
		f.Sample(dir.Add(shift).Normalize()).X,
		f.Sample(dir).Y,
		f.Sample(dir.Subtract(shift).Normalize()).Z,
	)
}

// LensStrength grows as the closest approach shrinks, capped at 3.
func LensStrength(minR float64) float64 {
	return core.Clamp(1/(minR*0.5), 0, maxLensStrength)
}

// PhotonRing is the thin bright ring of rays that skimmed the photon sphere.
func PhotonRing(minR float64) core.Vec3 {
	return photonRingColor.Multiply(2 * math.Exp(-math.Abs(minR-spacetime.PhotonSphere)*100))
}

// EinsteinRing returns the multiplicative brightening for rays whose closest
// approach fell between the photon sphere and 2.5 RS. Each wrap counted
// around the mass brightens the ring further.
func EinsteinRing(minR float64, orbits int) float64 {
	if minR <= spacetime.PhotonSphere || minR >= 2.5*spacetime.RS {
		return 0
	}
	f := core.Saturate(1 - math.Abs(minR-1.8*spacetime.RS)/(0.8*spacetime.RS))
	return f * f * (1 + float64(orbits)*0.5) * 0.4
}

// EdgeGlow is the soft rim around the shadow, scaled by transmittance.
func EdgeGlow(minR, transmittance float64) core.Vec3 {
	edge := 1 - core.Smoothstep(1.2*spacetime.RS, 2.5*spacetime.RS, minR)
	return edgeGlowColor.Multiply(edge * 0.15 * transmittance)
}

// Halo is a faint inverse-square glow tinted with the disk base color.
func Halo(minR float64, base core.Vec3) core.Vec3 {
	return base.Multiply(0.02 / (minR * minR))
}

// Escape returns the radiance contributed by a ray that left the scene
// along dir, before it is weighted by transmittance.
func (f *Field) Escape(dir core.Vec3, minR float64, orbits int, transmittance float64, base core.Vec3) core.Vec3 {
	bg := f.Lensed(dir, LensStrength(minR))
	bg = bg.Add(PhotonRing(minR))
	bg = bg.Multiply(1 + EinsteinRing(minR, orbits))
	bg = bg.Add(EdgeGlow(minR, transmittance))
	return bg.Add(Halo(minR, base))
}

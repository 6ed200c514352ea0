// Package disk shades the volumetric accretion disk.
package disk

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/noise"
	"github.com/df07/go-gargantua/pkg/spacetime"
)

// Default disk palette.
var (
	DefaultBaseColor = core.NewVec3(1.0, 0.5, 0.2)
	DefaultCoreColor = core.NewVec3(1.0, 0.9, 0.7)
)

const (
	innerFadeWidth   = 0.5
	outerFadeWidth   = 2.0
	verticalFalloff  = 50.0
	densityScale     = 0.35
	hotCoreBoost     = 2.5
	dopplerExponent  = 3.5
	temperaturePower = 0.75
)

// Sample is the transient result of evaluating the disk at one march step.
type Sample struct {
	Density    float64   // opacity contribution of this step
	Emission   core.Vec3 // radiance emitted at this step, already density weighted
	Doppler    float64   // relativistic beaming factor
	Redshift   float64   // gravitational redshift factor
	Turbulence float64   // shaped turbulence value in [0, 1]
}

// Shader evaluates the accretion disk with a two-color palette.
type Shader struct {
	Base core.Vec3 // color of cool outer material
	Core core.Vec3 // color of the hot inner core
}

// NewShader creates a disk shader with the default palette
func NewShader() *Shader {
	return &Shader{Base: DefaultBaseColor, Core: DefaultCoreColor}
}

// Contains reports whether p lies inside the disk slab.
func Contains(p core.Vec3) bool {
	d := math.Hypot(p.X, p.Z)
	return math.Abs(p.Y) < spacetime.DiskHalfHeight && d > spacetime.DiskInner && d < spacetime.DiskOuter
}

// corotating maps p into the shearing frame used for turbulence lookups.
// The angular offset advances as t/sqrt(d), so inner material laps outer
// material the way a Keplerian disk does.
func corotating(p core.Vec3, d, t float64) core.Vec3 {
	angle := math.Atan2(p.Z, p.X)
	offset := t * 6 / math.Sqrt(d)
	return core.NewVec3(angle*5+offset, d*1.5, p.Y*2)
}

// radialFade is 0 at both disk edges and 1 across the body of the disk.
func radialFade(d float64) float64 {
	inner := spacetime.DiskInner
	outer := spacetime.DiskOuter
	return core.Smoothstep(inner, inner+innerFadeWidth, d) * core.Smoothstep(outer, outer-outerFadeWidth, d)
}

// Density returns the opacity contribution at p and the shaped turbulence
// that produced it. Both radial edges have zero density.
func Density(p core.Vec3, t float64) (density, turbulence float64) {
	d := math.Hypot(p.X, p.Z)
	fade := radialFade(d)
	if fade == 0 {
		return 0, 0
	}
	vertical := math.Exp(-p.Y * p.Y * verticalFalloff)

	c := corotating(p, d, t)
	primary := noise.FBM(c)
	meso := noise.FBMN(c.Multiply(1.2).Add(core.NewVec3(t*0.15, 0, t*0.08)), 8)
	amplitude := noise.FBM(c.Multiply(2).AddScalar(t * 0.2))

	turbulence = core.Smoothstep(0.20, 0.90, primary*0.5+meso*0.3)
	density = fade * vertical * turbulence * densityScale * (0.6 + amplitude*0.4)
	return density, turbulence
}

// Sample evaluates the disk at p for a ray travelling along dir at time t.
// The second result is false when p is outside the disk slab.
func (s *Shader) Sample(p, dir core.Vec3, t float64) (Sample, bool) {
	if !Contains(p) {
		return Sample{}, false
	}
	d := math.Hypot(p.X, p.Z)
	density, turbulence := Density(p, t)

	velocity := core.NewVec3(-p.Z, 0, p.X).Normalize()
	viewDotVel := dir.Dot(velocity)
	orbitalSpeed := math.Sqrt(1 / d)
	doppler := math.Pow(1+viewDotVel*orbitalSpeed, dopplerExponent)
	redshift := math.Sqrt(1 - spacetime.RS/d)

	temperature := math.Pow(spacetime.DiskInner/d, temperaturePower)
	hot := s.Core.Multiply(hotCoreBoost)
	color := s.Base.Mix(hot, turbulence*temperature*(0.5+viewDotVel*0.3))

	return Sample{
		Density:    density,
		Emission:   color.Multiply(density * doppler * redshift),
		Doppler:    doppler,
		Redshift:   redshift,
		Turbulence: turbulence,
	}, true
}

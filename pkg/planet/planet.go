// Package planet defines the three bodies orbiting the black hole and shades
// their surfaces.
package planet

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/texture"
)

// Detail normal parameters.
const (
	normalEpsilon     = 0.01
	normalHeightScale = 2.0
	normalBlend       = 0.5
)

// Orbit is a circular orbit in the XZ plane with an optional vertical bob.
type Orbit struct {
	Radius    float64 // distance from the origin
	Rate      float64 // angular speed, radians per second
	Phase     float64 // angle at t = 0
	Height    float64 // constant Y offset
	BobHeight float64 // amplitude of the Y oscillation
	BobRate   float64 // angular speed of the Y oscillation
}

// Body is a planet on a fixed analytic orbit.
type Body struct {
	Name    string
	Radius  float64
	Orbit   Orbit
	Variant Variant
	Surface Surface
}

// Position returns the center of the body at time t.
func (b *Body) Position(t float64) core.Vec3 {
	s, c := math.Sincos(t*b.Orbit.Rate + b.Orbit.Phase)
	y := b.Orbit.Height + b.Orbit.BobHeight*math.Sin(t*b.Orbit.BobRate)
	return core.NewVec3(c*b.Orbit.Radius, y, s*b.Orbit.Radius)
}

// NewBody creates a body with the surface model for variant
func NewBody(name string, radius float64, orbit Orbit, variant Variant) *Body {
	return &Body{Name: name, Radius: radius, Orbit: orbit, Variant: variant, Surface: NewSurface(variant)}
}

// Bodies returns the three planets of the scene, nearest first.
func Bodies() []*Body {
	return []*Body{
		NewBody("Miller", 0.6, Orbit{Radius: 5.5, Rate: 0.8, Phase: 4, Height: 0.3}, Ocean),
		NewBody("Mann", 1.0, Orbit{Radius: 18, Rate: 0.25, Phase: 2, Height: -1.5}, Ice),
		NewBody("Edmunds", 1.3, Orbit{Radius: 28, Rate: 0.15, BobHeight: 3, BobRate: 0.08}, Cloud),
	}
}

// Intersect returns the entry and exit distances of the ray (ro, rd) with
// the sphere at c of radius r. rd must be unit length.
func Intersect(ro, rd, c core.Vec3, r float64) (tNear, tFar float64, ok bool) {
	oc := ro.Subtract(c)
	b := oc.Dot(rd)
	h := b*b - (oc.Dot(oc) - r*r)
	if h < 0 {
		return -1, -1, false
	}
	h = math.Sqrt(h)
	return -b - h, -b + h, true
}

// LightDir is the direction from a planet at pos toward its light: the
// black hole, lifted half a unit toward the disk normal.
func LightDir(pos core.Vec3) core.Vec3 {
	return pos.Normalize().Negate().Add(core.NewVec3(0, 0.5, 0)).Normalize()
}

// SphereUV maps a point on a sphere to equirectangular coordinates.
func SphereUV(p core.Vec3) core.Vec2 {
	n := p.Normalize()
	return core.NewVec2(
		math.Atan2(n.Z, n.X)/(2*math.Pi)+0.5,
		math.Asin(core.Clamp(n.Y, -1, 1))/math.Pi+0.5,
	)
}

// DetailNormal perturbs the sphere normal at local point p by the
// finite-difference gradient of the surface height.
func DetailNormal(s Surface, p core.Vec3, t float64) core.Vec3 {
	sp := p.Normalize()
	h0 := s.Height(sp, t)
	hx := s.Height(p.Add(core.NewVec3(normalEpsilon, 0, 0)).Normalize(), t)
	hy := s.Height(p.Add(core.NewVec3(0, normalEpsilon, 0)).Normalize(), t)
	hz := s.Height(p.Add(core.NewVec3(0, 0, normalEpsilon)).Normalize(), t)
	return core.NewVec3(h0-hx, h0-hy, h0-hz).Multiply(normalHeightScale).Add(sp).Normalize()
}

// Shade returns the lit color of body b seen along the ray (ro, rd) at time
// t. The second result is false when the ray misses or the body is behind
// the origin.
func Shade(ro, rd core.Vec3, b *Body, tex texture.Sampler, t float64) (core.Vec3, bool) {
	center := b.Position(t)
	tNear, _, ok := Intersect(ro, rd, center, b.Radius)
	if !ok || tNear < 0 {
		return core.Vec3{}, false
	}

	hit := ro.Add(rd.Multiply(tNear))
	local := hit.Subtract(center)
	normal := local.Normalize()

	params := b.Surface.Params()
	rotated := local.RotateY(t * params.RotationRate)
	base := tex.Sample(SphereUV(rotated))

	detail := DetailNormal(b.Surface, rotated, t)
	n := normal.Mix(detail, normalBlend).Normalize()

	l := LightDir(center)
	v := ro.Subtract(hit).Normalize()
	h := l.Add(v).Normalize()

	nDotL := max(n.Dot(l), 0)
	diffuse := nDotL*0.7 + 0.3
	spec := math.Pow(max(n.Dot(h), 0), 64)
	fresnel := math.Pow(1-max(n.Dot(v), 0), 4)

	surface := b.Surface.Color(SurfaceContext{Local: rotated, Base: base, Light: l, View: v, Time: t})

	color := surface.Multiply(diffuse).Add(core.NewVec3(1, 0.95, 0.9).Multiply(spec * params.Specular))
	mie := math.Pow(max(rd.Dot(l), 0), 8) * 0.3
	color = color.Mix(params.Atmosphere, fresnel*0.6)
	color = color.Add(params.Atmosphere.Multiply(mie * fresnel))

	diskGlow := 1 / (center.Length() * 0.5)
	color = color.Add(core.NewVec3(1, 0.6, 0.3).Multiply(diskGlow * 0.05 * nDotL))
	return color, true
}

// Approach reports whether the ray (ro, rd) enters the sphere at c of
// radius r strictly within reach of ro, and returns the entry distance.
func Approach(ro, rd, c core.Vec3, r, reach float64) (float64, bool) {
	tNear, _, ok := Intersect(ro, rd, c, r)
	if !ok || tNear <= 0 || tNear >= reach {
		return 0, false
	}
	return tNear, true
}

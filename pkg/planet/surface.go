package planet

import (
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/noise"
)

// Variant selects a planet's surface model.
type Variant int

const (
	Ocean Variant = iota
	Ice
	Cloud
)

func (v Variant) String() string {
	switch v {
	case Ocean:
		return "ocean"
	case Ice:
		return "ice"
	case Cloud:
		return "cloud"
	default:
		return "unknown"
	}
}

// Params are the lighting constants of a surface.
type Params struct {
	RotationRate float64   // radians per second about +Y
	Specular     float64   // specular highlight intensity
	Atmosphere   core.Vec3 // rim and scattering color
}

// SurfaceContext is everything a surface needs to color one hit.
type SurfaceContext struct {
	Local core.Vec3 // hit position relative to the center, in the rotating frame
	Base  core.Vec3 // texture color at the hit
	Light core.Vec3 // unit direction toward the light
	View  core.Vec3 // unit direction toward the viewer
	Time  float64
}

// Surface describes one kind of planet: its relief for normal perturbation
// and how it modulates the texture color.
type Surface interface {
	// Height returns the relief at unit direction dir.
	Height(dir core.Vec3, t float64) float64
	Color(ctx SurfaceContext) core.Vec3
	Params() Params
}

// NewSurface returns the surface model for v. Unknown variants fall back
// to Ocean.
func NewSurface(v Variant) Surface {
	switch v {
	case Ice:
		return IceSurface{}
	case Cloud:
		return CloudSurface{}
	default:
		return OceanSurface{}
	}
}

// OceanSurface is a water world with rolling waves and foam.
type OceanSurface struct{}

func (OceanSurface) Params() Params {
	return Params{RotationRate: 0.2, Specular: 0.8, Atmosphere: core.NewVec3(0.3, 0.5, 0.8)}
}

func (OceanSurface) Height(dir core.Vec3, t float64) float64 {
	return noise.FBMN(dir.Multiply(8).AddScalar(t*0.1), 8) * 0.3
}

func (OceanSurface) Color(ctx SurfaceContext) core.Vec3 {
	t := ctx.Time
	waves := noise.FBMN(ctx.Local.Multiply(20).Add(core.NewVec3(t*0.3, 0, t*0.2)), 6)
	c := ctx.Base.Add(core.NewVec3(0.02, 0.05, 0.08).Multiply(waves))
	foam := core.Smoothstep(0.6, 0.8, waves)
	return c.Mix(core.NewVec3(0.9, 0.95, 1.0), foam*0.2)
}

// IceSurface is a frozen world with cracked plates, sparkle and a faint
// subsurface glow when backlit.
type IceSurface struct{}

func (IceSurface) Params() Params {
	return Params{RotationRate: 0.05, Specular: 0.5, Atmosphere: core.NewVec3(0.6, 0.7, 0.85)}
}

func (IceSurface) Height(dir core.Vec3, t float64) float64 {
	f1, f2 := noise.Voronoi(dir.Multiply(12))
	return f2 - f1 + noise.Ridged(dir.Multiply(6), 6)*0.2
}

func (IceSurface) Color(ctx SurfaceContext) core.Vec3 {
	f1, f2 := noise.Voronoi(ctx.Local.Multiply(15))
	cracks := core.Smoothstep(0.05, 0, f2-f1)
	c := ctx.Base.Mix(core.NewVec3(0.4, 0.5, 0.6), cracks*0.5)

	sparkle := noise.Smooth(ctx.Local.Multiply(100).AddScalar(ctx.Time)) * noise.Smooth(ctx.Local.Multiply(150))
	c = c.AddScalar(core.Smoothstep(0.6, 1, sparkle) * 0.3)

	back := max(ctx.Light.Negate().Dot(ctx.View), 0)
	return c.Add(core.NewVec3(0.5, 0.6, 0.8).Multiply(back * back * 0.2))
}

// CloudSurface is a rocky world under drifting cloud cover.
type CloudSurface struct{}

func (CloudSurface) Params() Params {
	return Params{RotationRate: 0.1, Specular: 0.4, Atmosphere: core.NewVec3(0.3, 0.5, 0.9)}
}

func (CloudSurface) Height(dir core.Vec3, t float64) float64 {
	return noise.Ridged(dir.Multiply(5), 6) + noise.FBMN(dir.Multiply(10), 8)*0.3
}

func (CloudSurface) Color(ctx SurfaceContext) core.Vec3 {
	drift := ctx.Local.Add(core.NewVec3(ctx.Time*0.02, 0, 0))
	clouds := core.Smoothstep(0.4, 0.7, noise.FBMN(drift.Multiply(4), 8))

	c := ctx.Base.Multiply(1 - clouds*0.3)
	c = c.Mix(core.NewVec3(0.95, 0.97, 1.0), clouds*0.6)

	terrain := noise.Ridged(ctx.Local.Multiply(8), 5)
	return c.Mix(c.Multiply(0.8), terrain*0.1)
}

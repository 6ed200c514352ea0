// Package spacetime models the single central mass at the origin and the
// stylized light-bending integrator used by the raymarcher.
package spacetime

import (
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/noise"
)

// Characteristic radii of the central mass, in model units.
const (
	RS             = 1.0      // event horizon radius
	PhotonSphere   = 1.5 * RS // radius of circular photon orbits
	ISCO           = 3.0 * RS // innermost stable circular orbit
	DiskInner      = 2.6 * RS
	DiskOuter      = 12.0 * RS
	DiskHalfHeight = 0.5
)

// Integration limits.
const (
	MaxSteps        = 400
	MaxTravel       = 50.0
	MinStep         = 0.02
	InitialStep     = 0.1
	WindingRadius   = 5.0
	strongFieldEdge = 3.0 * RS
	frameDragEdge   = 4.0 * RS
)

// SpinAxis is the fixed rotation axis of the central mass.
var SpinAxis = core.NewVec3(0, 1, 0)

// Bend deflects dir toward the central mass for a step of the given size and
// returns the new unit direction. The model is an explicit Euler update with
// an inverse-square pull, an inverse-cube boost inside 3 RS and a tangential
// frame-dragging term inside 4 RS. It is stylized, not a geodesic solver.
func Bend(p, dir core.Vec3, stepSize float64) core.Vec3 {
	return dir.Add(Acceleration(p).Multiply(stepSize * 2)).Normalize()
}

// Acceleration returns the pseudo-gravitational acceleration at p. It is
// zero at the origin itself.
func Acceleration(p core.Vec3) core.Vec3 {
	r2 := p.LengthSquared()
	if r2 == 0 {
		return core.Vec3{}
	}
	r := p.Length()
	inward := p.Multiply(-1 / r)

	strength := 1.5 * RS / r2
	if r < strongFieldEdge {
		strength += 2 * RS * RS / (r2 * r)
	}
	accel := inward.Multiply(strength)

	if r < frameDragEdge {
		tangent := SpinAxis.Cross(inward)
		accel = accel.Add(tangent.Multiply(0.12 * RS * RS / r2))
	}
	return accel
}

// StepSize returns the adaptive march step at radius r: small near the
// horizon, proportionally larger far away, never below MinStep.
func StepSize(r, jitter float64) float64 {
	return max(MinStep, min((r-RS)*0.1, r*0.06)) + jitter
}

// Dither returns the per-pixel dither value in [0, 0.1) for the fragment at
// (x, y). It depends only on the pixel position.
func Dither(x, y float64) float64 {
	return noise.Hash(x*12.9898+y*78.233) * 0.1
}

// Jitter converts a pixel's dither value into the step-length offset.
func Jitter(dither float64) float64 {
	return dither * 0.01
}

package disk

import "github.com/df07/go-gargantua/pkg/core"

// Accumulation limits.
const (
	Extinction       = 0.3
	DensityCap       = 1.2
	TransmittanceMin = 0.01
)

// Volume accumulates disk radiance front to back along one ray.
// Transmittance starts at 1 and never increases.
type Volume struct {
	Radiance      core.Vec3
	Transmittance float64
	Density       float64
}

// NewVolume returns an empty, fully transparent volume
func NewVolume() Volume {
	return Volume{Transmittance: 1}
}

// Accumulate composites one disk sample behind everything seen so far.
func (v *Volume) Accumulate(s Sample) {
	v.Radiance = v.Radiance.Add(s.Emission.Multiply(v.Transmittance))
	v.Density += s.Density
	v.Transmittance *= core.Saturate(1 - s.Density*Extinction)
}

// Absorb marks the ray as swallowed by the horizon.
func (v *Volume) Absorb() {
	v.Transmittance = 0
}

// Opacity is the fraction of light already blocked.
func (v *Volume) Opacity() float64 {
	return 1 - v.Transmittance
}

// Saturated reports whether further accumulation cannot change the pixel
// meaningfully.
func (v *Volume) Saturated() bool {
	return v.Density > DensityCap || v.Transmittance < TransmittanceMin
}

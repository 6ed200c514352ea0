package noise

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
)

// Fractal sum parameters.
const (
	// FBMOctaves is the octave count of FBM.
	FBMOctaves = 10
	// MaxOctaves caps the octave count accepted by FBMN.
	MaxOctaves = 12
	// MaxRidgedOctaves caps the octave count accepted by Ridged.
	MaxRidgedOctaves = 8

	// Lacunarity is the frequency multiplier between fBm octaves.
	Lacunarity = 2.07
	// Gain is the amplitude multiplier between fBm octaves.
	Gain = 0.48

	// RidgedLacunarity is the frequency multiplier between ridged octaves.
	RidgedLacunarity = 2.2
)

// octaveRotate applies the fixed 36.87 degree rotation about Z used between
// octaves to decorrelate lattice axes: (0.8x - 0.6y, 0.6x + 0.8y, z).
func octaveRotate(p core.Vec3) core.Vec3 {
	return core.Vec3{
		X: 0.8*p.X - 0.6*p.Y,
		Y: 0.6*p.X + 0.8*p.Y,
		Z: p.Z,
	}
}

// FBM sums FBMOctaves octaves of Value noise. The result lies in [0, 0.97).
func FBM(p core.Vec3) float64 {
	f := 0.0
	amp := 0.5
	freq := 1.0
	for i := 0; i < FBMOctaves; i++ {
		f += amp * Value(p.Multiply(freq))
		p = octaveRotate(p)
		freq *= Lacunarity
		amp *= Gain
	}
	return f
}

// FBMN sums up to MaxOctaves octaves of Smooth noise, rotating and scaling
// the domain between octaves. The result lies in [0, 0.97).
func FBMN(p core.Vec3, octaves int) float64 {
	octaves = min(octaves, MaxOctaves)
	f := 0.0
	amp := 0.5
	for i := 0; i < octaves; i++ {
		f += amp * Smooth(p)
		p = octaveRotate(p).Multiply(Lacunarity)
		amp *= Gain
	}
	return f
}

// Ridged sums up to MaxRidgedOctaves octaves of squared ridge noise, each
// octave weighted by the previous one so detail clusters along ridges.
// The result lies in [0, 1].
func Ridged(p core.Vec3, octaves int) float64 {
	octaves = min(octaves, MaxRidgedOctaves)
	f := 0.0
	amp := 0.5
	prev := 1.0
	for i := 0; i < octaves; i++ {
		n := 1 - math.Abs(Smooth(p)*2-1)
		n *= n
		f += n * amp * prev
		prev = n
		p = p.Multiply(RidgedLacunarity)
		amp *= 0.5
	}
	return f
}

// Voronoi returns the distances to the nearest and second nearest feature
// points of a jittered unit grid.
func Voronoi(p core.Vec3) (f1, f2 float64) {
	cell := p.Floor()
	local := p.Subtract(cell)

	d1, d2 := 10.0, 10.0
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				neighbor := core.NewVec3(float64(x), float64(y), float64(z))
				point := Hash3(cell.Add(neighbor))
				diff := neighbor.Add(point).Subtract(local)
				d := diff.LengthSquared()
				if d < d1 {
					d2 = d1
					d1 = d
				} else if d < d2 {
					d2 = d
				}
			}
		}
	}
	return math.Sqrt(d1), math.Sqrt(d2)
}

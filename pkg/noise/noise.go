// Package noise holds the stateless procedural noise used by the disk, planet
// and background shaders. Every function is a pure function of its inputs.
package noise

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
)

// Hash constants. The sine-fract hash is cheap and well distributed for the
// lattice sizes used here; it is not suitable for anything cryptographic.
const (
	// HashScale is the multiplier applied to sin() before taking the fraction.
	HashScale = 43758.5453123
	// Hash2Scale is the slightly shorter multiplier used by the 2D hash.
	Hash2Scale = 43758.5453
)

// Lattice strides. A lattice point (i, j, k) is flattened into a single
// scalar i + j*stride.Y + k*stride.Z before hashing.
var (
	quinticStride = core.NewVec3(1, 157, 113)
	cubicStride   = core.NewVec3(1, 57, 113)
	hash2Weights  = core.Vec2{X: 127.1, Y: 311.7}
)

// hash3Rows are the three dot-product rows of Hash3.
var hash3Rows = [3]core.Vec3{
	{X: 127.1, Y: 311.7, Z: 74.7},
	{X: 269.5, Y: 183.3, Z: 246.1},
	{X: 113.5, Y: 271.9, Z: 124.6},
}

// Hash maps a scalar to [0, 1)
func Hash(n float64) float64 {
	return core.Fract(math.Sin(n) * HashScale)
}

// Hash2 maps a 2D point to [0, 1)
func Hash2(x, y float64) float64 {
	return core.Fract(math.Sin(x*hash2Weights.X+y*hash2Weights.Y) * Hash2Scale)
}

// Hash3 maps a 3D point to a vector with components in [0, 1)
func Hash3(p core.Vec3) core.Vec3 {
	return core.Vec3{
		X: Hash(p.Dot(hash3Rows[0])),
		Y: Hash(p.Dot(hash3Rows[1])),
		Z: Hash(p.Dot(hash3Rows[2])),
	}
}

// fade applies the quintic 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

// hermite applies the cubic 3t^2 - 2t^3.
func hermite(t float64) float64 {
	return t * t * (3 - 2*t)
}

// trilinear blends the eight corner values c[z][y][x] with weights u.
func trilinear(c [2][2][2]float64, u core.Vec3) float64 {
	x00 := core.Mix(c[0][0][0], c[0][0][1], u.X)
	x10 := core.Mix(c[0][1][0], c[0][1][1], u.X)
	x01 := core.Mix(c[1][0][0], c[1][0][1], u.X)
	x11 := core.Mix(c[1][1][0], c[1][1][1], u.X)
	return core.Mix(core.Mix(x00, x10, u.Y), core.Mix(x01, x11, u.Y), u.Z)
}

// Value is 3D value noise with quintic interpolation. Returns a value in [0, 1].
func Value(x core.Vec3) float64 {
	p := x.Floor()
	f := x.Subtract(p)
	u := core.Vec3{X: fade(f.X), Y: fade(f.Y), Z: fade(f.Z)}
	n := p.Dot(quinticStride)

	var c [2][2][2]float64
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				c[k][j][i] = Hash(n + float64(i)*quinticStride.X + float64(j)*quinticStride.Y + float64(k)*quinticStride.Z)
			}
		}
	}
	return trilinear(c, u)
}

// Smooth is 3D value noise with cubic interpolation, hashing each lattice
// corner independently. Returns a value in [0, 1].
func Smooth(x core.Vec3) float64 {
	p := x.Floor()
	f := x.Subtract(p)
	u := core.Vec3{X: hermite(f.X), Y: hermite(f.Y), Z: hermite(f.Z)}

	var c [2][2][2]float64
	for k := 0; k < 2; k++ {
		for j := 0; j < 2; j++ {
			for i := 0; i < 2; i++ {
				corner := p.Add(core.NewVec3(float64(i), float64(j), float64(k)))
				c[k][j][i] = Hash(corner.Dot(cubicStride))
			}
		}
	}
	return trilinear(c, u)
}

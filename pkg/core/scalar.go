package core

import "math"

// Clamp limits x to [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	return max(lo, min(hi, x))
}

// Saturate clamps x to [0, 1]
func Saturate(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Fract returns x - floor(x)
func Fract(x float64) float64 {
	return x - math.Floor(x)
}

// Mix linearly interpolates between a and b. t is not clamped.
func Mix(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Smoothstep is the cubic Hermite step between edge0 and edge1.
// Reversed edges (edge0 > edge1) produce a falling step. Equal edges
// degrade to a hard step at edge0.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

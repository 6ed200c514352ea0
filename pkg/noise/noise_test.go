package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-gargantua/pkg/core"
)

// samplePoints walks a deterministic pseudo-random set of points that
// covers negative coordinates and large magnitudes.
func samplePoints(n int) []core.Vec3 {
	pts := make([]core.Vec3, n)
	for i := range pts {
		f := float64(i)
		pts[i] = core.NewVec3(f*0.137-300, f*0.071-150, f*0.093-75)
	}
	return pts
}

func TestHashRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		n := float64(i)*1.37 - 5000
		h := Hash(n)
		require.GreaterOrEqual(t, h, 0.0, "Hash(%f)", n)
		require.Less(t, h, 1.0, "Hash(%f)", n)

		h2 := Hash2(n, -n*0.5)
		require.GreaterOrEqual(t, h2, 0.0)
		require.Less(t, h2, 1.0)
	}
}

func TestHash3Range(t *testing.T) {
	for _, p := range samplePoints(2000) {
		h := Hash3(p)
		for _, c := range []float64{h.X, h.Y, h.Z} {
			require.GreaterOrEqual(t, c, 0.0)
			require.Less(t, c, 1.0)
		}
	}
}

func TestValueAndSmoothRange(t *testing.T) {
	for _, p := range samplePoints(5000) {
		v := Value(p)
		s := Smooth(p)
		require.True(t, v >= 0 && v <= 1, "Value(%v) = %f", p, v)
		require.True(t, s >= 0 && s <= 1, "Smooth(%v) = %f", p, s)
	}
}

func TestNoiseDeterminism(t *testing.T) {
	for _, p := range samplePoints(200) {
		assert.Equal(t, Value(p), Value(p))
		assert.Equal(t, FBM(p), FBM(p))
		assert.Equal(t, FBMN(p, 8), FBMN(p, 8))
		assert.Equal(t, Ridged(p, 6), Ridged(p, 6))
	}
}

func TestNoiseContinuousAcrossLattice(t *testing.T) {
	const eps = 1e-7
	for _, k := range []float64{-3, -1, 0, 1, 2, 17} {
		for _, axis := range []core.Vec3{{X: 1}, {Y: 1}, {Z: 1}} {
			base := core.NewVec3(0.3, 0.6, 0.2).Add(axis.Multiply(k - axis.Dot(core.NewVec3(0.3, 0.6, 0.2))))
			below := base.Subtract(axis.Multiply(eps))
			above := base.Add(axis.Multiply(eps))

			assert.InDelta(t, Value(below), Value(above), 1e-4, "Value jumps at %v", base)
			assert.InDelta(t, Smooth(below), Smooth(above), 1e-4, "Smooth jumps at %v", base)
		}
	}
}

func TestFractalRanges(t *testing.T) {
	for _, p := range samplePoints(1000) {
		f := FBM(p)
		require.True(t, f >= 0 && f < 0.97, "FBM(%v) = %f", p, f)

		fn := FBMN(p, 8)
		require.True(t, fn >= 0 && fn < 0.97, "FBMN(%v) = %f", p, fn)

		r := Ridged(p, 6)
		require.True(t, r >= 0 && r <= 1, "Ridged(%v) = %f", p, r)
	}
}

func TestFBMNOctaveCap(t *testing.T) {
	p := core.NewVec3(1.3, -2.1, 0.7)
	assert.Equal(t, FBMN(p, MaxOctaves), FBMN(p, MaxOctaves+5))
	assert.Equal(t, Ridged(p, MaxRidgedOctaves), Ridged(p, 100))
	assert.Equal(t, 0.0, FBMN(p, 0))
}

func TestVoronoiOrdering(t *testing.T) {
	for _, p := range samplePoints(1000) {
		f1, f2 := Voronoi(p)
		require.LessOrEqual(t, f1, f2)
		require.GreaterOrEqual(t, f1, 0.0)
		// The nearest feature point is never further than the cell diagonal.
		require.LessOrEqual(t, f1, math.Sqrt(3))
	}
}

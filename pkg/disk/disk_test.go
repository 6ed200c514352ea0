package disk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/spacetime"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name     string
		p        core.Vec3
		expected bool
	}{
		{"mid disk", core.NewVec3(6, 0, 0), true},
		{"mid disk off axis", core.NewVec3(4, 0.2, -4), true},
		{"above slab", core.NewVec3(6, 0.5, 0), false},
		{"inside inner edge", core.NewVec3(2, 0, 0), false},
		{"exactly inner edge", core.NewVec3(spacetime.DiskInner, 0, 0), false},
		{"exactly outer edge", core.NewVec3(0, 0, spacetime.DiskOuter), false},
		{"beyond outer edge", core.NewVec3(13, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Contains(tt.p))
		})
	}
}

func TestDensityIsZeroAtRadialBoundaries(t *testing.T) {
	for _, tm := range []float64{0, 1.7, 42} {
		for _, angle := range []float64{0, 1, 2.5, -2} {
			s, c := math.Sincos(angle)
			inner := core.NewVec3(c*spacetime.DiskInner, 0, s*spacetime.DiskInner)
			outer := core.NewVec3(c*spacetime.DiskOuter, 0, s*spacetime.DiskOuter)

			dIn, _ := Density(inner, tm)
			dOut, _ := Density(outer, tm)
			assert.InDelta(t, 0, dIn, 1e-12, "inner edge at angle %f", angle)
			assert.InDelta(t, 0, dOut, 1e-12, "outer edge at angle %f", angle)
		}
	}
}

func TestDensityRange(t *testing.T) {
	for i := 0; i < 2000; i++ {
		f := float64(i)
		r := spacetime.DiskInner + math.Mod(f*0.37, spacetime.DiskOuter-spacetime.DiskInner)
		s, c := math.Sincos(f * 0.61)
		y := math.Mod(f*0.013, 0.9) - 0.45
		d, turb := Density(core.NewVec3(c*r, y, s*r), f*0.05)
		require.GreaterOrEqual(t, d, 0.0)
		require.LessOrEqual(t, d, densityScale)
		require.True(t, turb >= 0 && turb <= 1)
	}
}

func TestSampleOutsideDisk(t *testing.T) {
	_, ok := NewShader().Sample(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0), 0)
	assert.False(t, ok)
}

func TestSampleRedshift(t *testing.T) {
	p := core.NewVec3(5, 0, 0)
	s, ok := NewShader().Sample(p, core.NewVec3(0, 0, 1), 0)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(1-spacetime.RS/5), s.Redshift, 1e-12)
}

func TestSampleDopplerAsymmetry(t *testing.T) {
	shader := NewShader()
	p := core.NewVec3(5, 0, 0)
	// At +X the orbital velocity points along +Z.
	approaching, ok := shader.Sample(p, core.NewVec3(0, 0, 1), 0)
	require.True(t, ok)
	receding, _ := shader.Sample(p, core.NewVec3(0, 0, -1), 0)

	assert.Greater(t, approaching.Doppler, 1.0)
	assert.Less(t, receding.Doppler, 1.0)
	assert.Equal(t, approaching.Density, receding.Density, "density does not depend on view direction")
}

func TestVolumeTransmittanceNeverIncreases(t *testing.T) {
	shader := NewShader()
	v := NewVolume()
	prev := v.Transmittance

	dir := core.NewVec3(-1, 0, 0.05).Normalize()
	p := core.NewVec3(11.5, 0.01, -0.5)
	for i := 0; i < 400; i++ {
		if s, ok := shader.Sample(p, dir, 3.0); ok {
			v.Accumulate(s)
		}
		require.LessOrEqual(t, v.Transmittance, prev)
		require.GreaterOrEqual(t, v.Transmittance, 0.0)
		prev = v.Transmittance
		p = p.Add(dir.Multiply(0.05))
	}
}

func TestVolumeAccumulateWeightsByTransmittance(t *testing.T) {
	v := NewVolume()
	s := Sample{Density: 1, Emission: core.NewVec3(1, 1, 1)}

	v.Accumulate(s)
	assert.InDelta(t, 1.0, v.Radiance.X, 1e-12)
	assert.InDelta(t, 0.7, v.Transmittance, 1e-12)

	v.Accumulate(s)
	assert.InDelta(t, 1.7, v.Radiance.X, 1e-12)
	assert.InDelta(t, 0.49, v.Transmittance, 1e-12)
	assert.InDelta(t, 0.51, v.Opacity(), 1e-12)
	assert.True(t, v.Saturated(), "density 2 exceeds the cap")
}

func TestVolumeAbsorb(t *testing.T) {
	v := NewVolume()
	assert.False(t, v.Saturated())
	v.Absorb()
	assert.Equal(t, 0.0, v.Transmittance)
	assert.True(t, v.Saturated())
}

package background

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/texture"
)

func greyField() *Field {
	white := texture.NewSolidColor(core.NewVec3(1, 1, 1))
	return NewField(white, white)
}

func TestSampleBandAndPoles(t *testing.T) {
	f := greyField()

	equator := f.Sample(core.NewVec3(1, 0, 0))
	assert.InDelta(t, 0.461+0.130, equator.X, 1e-9)

	pole := f.Sample(core.NewVec3(0, 1, 0))
	assert.InDelta(t, 0.207, pole.Y, 1e-6)
}

func TestUVRange(t *testing.T) {
	dirs := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(-1, 0, 0),
		core.NewVec3(0, 0, -1),
		core.NewVec3(0, -1, 0),
		core.NewVec3(0.3, 0.9, -0.2).Normalize(),
	}
	for _, d := range dirs {
		uv := UV(d)
		assert.True(t, uv.X >= 0 && uv.X <= 1, "u out of range for %v", d)
		assert.True(t, uv.Y >= 0 && uv.Y <= 1, "v out of range for %v", d)
	}
}

// longitudeRamp brightens linearly with u so sideways nudges change color
type longitudeRamp struct{}

func (longitudeRamp) Sample(uv core.Vec2) core.Vec3 {
	return core.Splat(uv.X)
}

func TestLensedUniformSkyIsUnchanged(t *testing.T) {
	f := greyField()
	// On the equator the band mask is flat, so the nudged red and blue
	// lookups land on the same weights as green.
	dir := core.NewVec3(0, 0, -1)
	plain := f.Sample(dir)
	lensed := f.Lensed(dir, 3)
	assert.InDelta(t, plain.X, lensed.X, 1e-12)
	assert.InDelta(t, plain.Y, lensed.Y, 1e-12)
	assert.InDelta(t, plain.Z, lensed.Z, 1e-12)
}

func TestLensedSplitsRedAndBlue(t *testing.T) {
	f := NewField(longitudeRamp{}, texture.NewSolidColor(core.Vec3{}))
	dir := core.NewVec3(0, 0, -1)

	plain := f.Sample(dir)
	lensed := f.Lensed(dir, 3)
	assert.Equal(t, plain.Y, lensed.Y, "green follows the unshifted ray")
	assert.NotEqual(t, lensed.Y, lensed.X)
	assert.NotEqual(t, lensed.Y, lensed.Z)
	// Red and blue are nudged in opposite directions around green.
	assert.Less(t, (lensed.X-lensed.Y)*(lensed.Z-lensed.Y), 0.0)

	// No lensing means no split.
	assert.Equal(t, plain, f.Lensed(dir, 0))
}

func TestLensStrength(t *testing.T) {
	tests := []struct {
		name     string
		minR     float64
		expected float64
	}{
		{"far camera", 15, 1.0 / 7.5},
		{"photon sphere", 1.5, 1.0 / 0.75},
		{"capped near horizon", 0.5, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LensStrength(tt.minR), 1e-9)
		})
	}
}

func TestPhotonRingPeaksAtPhotonSphere(t *testing.T) {
	peak := PhotonRing(1.5)
	assert.InDelta(t, 2.0, peak.X, 1e-12)
	assert.InDelta(t, 1.7, peak.Y, 1e-12)
	assert.Less(t, PhotonRing(1.6).X, 0.001)
}

func TestEinsteinRing(t *testing.T) {
	tests := []struct {
		name     string
		minR     float64
		orbits   int
		expected float64
	}{
		{"inside photon sphere", 1.4, 0, 0},
		{"at photon sphere", 1.5, 0, 0},
		{"peak", 1.8, 0, 0.4},
		{"peak with two wraps", 1.8, 2, 0.8},
		{"beyond ring", 2.5, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, EinsteinRing(tt.minR, tt.orbits), 1e-12)
		})
	}
}

func TestEdgeGlow(t *testing.T) {
	assert.True(t, EdgeGlow(3, 1).IsZero())
	assert.InDelta(t, 0.15, EdgeGlow(1.0, 1).X, 1e-12)
	assert.InDelta(t, 0.075, EdgeGlow(1.0, 0.5).X, 1e-12)
}

func TestEscapeFarRayIsMostlySky(t *testing.T) {
	f := greyField()
	dir := core.NewVec3(1, 0, 0)
	base := core.NewVec3(1, 0.5, 0.2)

	got := f.Escape(dir, 20, 0, 1, base)
	sky := f.Sample(dir)
	assert.InDelta(t, sky.X+Halo(20, base).X, got.X, 1e-9)
}

package spacetime

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-gargantua/pkg/core"
)

func TestDerivedRadii(t *testing.T) {
	assert.Equal(t, 1.0, RS)
	assert.Equal(t, 1.5, PhotonSphere)
	assert.True(t, DiskInner >= 2.6 && DiskInner <= 3.0)
	assert.Equal(t, 12.0, DiskOuter)
}

func TestBendReturnsUnitVector(t *testing.T) {
	tests := []struct {
		name string
		p    core.Vec3
		dir  core.Vec3
		step float64
	}{
		{"far field", core.NewVec3(0, 0, 20), core.NewVec3(0, 0, -1), 1.2},
		{"strong field", core.NewVec3(1.2, 0.1, 0), core.NewVec3(0, 0, 1), 0.02},
		{"frame dragging zone", core.NewVec3(3.5, 0, 0), core.NewVec3(0, 0, -1), 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Bend(tt.p, tt.dir, tt.step)
			assert.InDelta(t, 1.0, d.Length(), 1e-12)
		})
	}
}

func TestBendPullsTowardMass(t *testing.T) {
	// A ray passing the mass on the +X side travelling along -Z should turn toward -X.
	p := core.NewVec3(4, 0, 0)
	dir := core.NewVec3(0, 0, -1)
	bent := Bend(p, dir, 0.2)
	assert.Less(t, bent.X, 0.0)
}

func TestBendDeflectionFallsOffWithDistance(t *testing.T) {
	dir := core.NewVec3(0, 0, -1)
	near := Bend(core.NewVec3(2, 0, 0), dir, 0.1)
	far := Bend(core.NewVec3(20, 0, 0), dir, 0.1)
	assert.Greater(t, math.Abs(near.X), math.Abs(far.X))
}

func TestBendAtOriginLeavesDirection(t *testing.T) {
	dir := core.NewVec3(0, 1, 0)
	assert.Equal(t, dir, Bend(core.Vec3{}, dir, 0.1))
}

func TestFrameDraggingOnlyInsideFourRS(t *testing.T) {
	// At a point on the X axis the radial pull has no Z component, so any Z
	// component of the acceleration comes from frame dragging.
	inside := Acceleration(core.NewVec3(3.5, 0, 0))
	outside := Acceleration(core.NewVec3(4.5, 0, 0))
	assert.NotZero(t, inside.Z)
	assert.Zero(t, outside.Z)
}

func TestStrongFieldBoost(t *testing.T) {
	justInside := Acceleration(core.NewVec3(2.999, 0, 0)).Length()
	justOutside := Acceleration(core.NewVec3(3.001, 0, 0)).Length()
	assert.Greater(t, justInside, justOutside*1.2, "inverse-cube term should steepen inside 3 RS")
}

func TestStepSize(t *testing.T) {
	tests := []struct {
		name     string
		r        float64
		jitter   float64
		expected float64
	}{
		{"near horizon is floor clamped", 1.05, 0, MinStep},
		{"inside horizon is floor clamped", 0.5, 0, MinStep},
		{"mid range uses horizon distance", 2.0, 0, 0.1},
		{"far field uses radius fraction", 20, 0, 1.2},
		{"jitter is added after clamping", 1.05, 0.0005, MinStep + 0.0005},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, StepSize(tt.r, tt.jitter), 1e-12)
		})
	}
}

func TestDither(t *testing.T) {
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			d := Dither(float64(x)+0.5, float64(y)+0.5)
			require.GreaterOrEqual(t, d, 0.0)
			require.Less(t, d, 0.1)
			require.Equal(t, d, Dither(float64(x)+0.5, float64(y)+0.5))
		}
	}
	assert.InDelta(t, 0.001, Jitter(0.1), 1e-15)
}

func TestWindingCounter(t *testing.T) {
	w := NewWindingCounter(core.NewVec3(2, 0, 0))

	// First observation at the origin point never counts.
	w.Observe(core.NewVec3(2, 0, 0), core.NewVec3(1, 0, 0), 2)
	assert.Equal(t, 0, w.Count())

	w.Observe(core.NewVec3(2, 0, 0.5), core.NewVec3(1, 0, 0), 2.06)
	assert.Equal(t, 1, w.Count())

	// Outside the winding radius nothing is counted.
	w = NewWindingCounter(core.NewVec3(6, 0, 0))
	w.Observe(core.NewVec3(6, 0, 0.5), core.NewVec3(1, 0, 0), 6.02)
	assert.Equal(t, 0, w.Count())
}

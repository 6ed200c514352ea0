package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-gargantua/pkg/core"
)

func assertVec(t *testing.T, expected, actual core.Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, 1e-9)
	assert.InDelta(t, expected.Y, actual.Y, 1e-9)
	assert.InDelta(t, expected.Z, actual.Z, 1e-9)
}

// driveToTunnel parks the camera at distance 2 and advances until the
// tunnel locks the camera.
func driveToTunnel(t *testing.T, d *Director) float64 {
	t.Helper()
	d.SetCamera(core.NewVec3(0, 0, 2), DefaultTarget)
	elapsed := 0.0
	for i := 0; i < 100 && d.Mode() != ModeTunnel; i++ {
		elapsed += 0.05
		d.Advance(elapsed, 0.05)
	}
	require.Equal(t, ModeTunnel, d.Mode())
	return elapsed
}

func TestDirectorDefaults(t *testing.T) {
	d := NewDirector(320, 180)
	f := d.Frame(0, 0)

	assert.Equal(t, DefaultCamera, f.CameraPosition)
	assert.Equal(t, DefaultTarget, f.CameraTarget)
	assert.Equal(t, 320, f.Width)
	assert.Equal(t, 180, f.Height)
	assert.Equal(t, ModeOrbit, f.Mode)
	assert.True(t, f.OrbitInput)
	assert.Equal(t, core.NewVec2(320, 180), f.Resolution())
	assert.InDelta(t, DefaultCamera.Length(), f.CameraDistance(), 1e-12)
}

func TestDirectorClampsDelta(t *testing.T) {
	tests := []struct {
		name     string
		delta    float64
		expected float64
	}{
		{"stall", 2.5, MaxDelta},
		{"normal", 0.016, 0.016},
		{"negative", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirector(10, 10)
			f := d.Advance(3, tt.delta)
			assert.Equal(t, tt.expected, f.Delta)
			assert.Equal(t, 3.0, f.Time)
		})
	}
}

func TestDirectorOrbitKeepsDistance(t *testing.T) {
	d := NewDirector(10, 10)
	before := DefaultCamera.Length()

	d.Orbit(0.7, 0.3)
	pos, _ := d.Camera()
	assert.InDelta(t, before, pos.Length(), 1e-9)
	assert.NotEqual(t, DefaultCamera, pos)

	// Pitching far past the pole clamps just short of it
	d.Orbit(0, 10)
	pos, _ = d.Camera()
	assert.Greater(t, pos.Y, before*0.99)
	assert.Less(t, pos.Y, before)
	assert.InDelta(t, before, pos.Length(), 1e-9)
}

func TestDirectorZoomClamps(t *testing.T) {
	d := NewDirector(10, 10)

	d.Zoom(0.01)
	pos, _ := d.Camera()
	assert.InDelta(t, MinDistance, pos.Length(), 1e-9)

	d.Zoom(1000)
	pos, _ = d.Camera()
	assert.InDelta(t, MaxDistance, pos.Length(), 1e-9)

	d.Zoom(-1)
	pos, _ = d.Camera()
	assert.InDelta(t, MaxDistance, pos.Length(), 1e-9)
}

func TestDirectorResize(t *testing.T) {
	d := NewDirector(10, 10)
	d.Resize(64, 48)
	d.Resize(0, 100)
	f := d.Frame(0, 0)
	assert.Equal(t, 64, f.Width)
	assert.Equal(t, 48, f.Height)
}

func TestDirectorAutoRotate(t *testing.T) {
	d := NewDirector(10, 10)
	d.SetAutoRotate(AutoRotateRate)

	f := d.Advance(0.05, 0.05)
	assert.InDelta(t, DefaultCamera.Length(), f.CameraPosition.Length(), 1e-9)
	assert.NotEqual(t, DefaultCamera, f.CameraPosition)
	assert.InDelta(t, DefaultCamera.Y, f.CameraPosition.Y, 1e-9, "auto rotation is about +Y")
}

func TestDirectorLocksCameraInTunnel(t *testing.T) {
	d := NewDirector(10, 10)
	d.SetAutoRotate(1)
	elapsed := driveToTunnel(t, d)

	locked, _ := d.Camera()
	d.Orbit(1, 1)
	d.Zoom(3)
	d.SetCamera(core.NewVec3(5, 5, 5), DefaultTarget)
	f := d.Advance(elapsed+0.05, 0.05)

	assert.Equal(t, locked, f.CameraPosition)
	assert.False(t, f.OrbitInput)
	assert.Equal(t, 1.0, f.Transition)
}

func TestDirectorResetsCameraAfterTunnel(t *testing.T) {
	d := NewDirector(10, 10)
	elapsed := driveToTunnel(t, d)

	require.True(t, d.Scroll(true))
	var f FrameState
	for i := 0; i < 100 && d.Mode() != ModeOrbit; i++ {
		elapsed += 0.05
		f = d.Advance(elapsed, 0.05)
	}

	assert.Equal(t, ModeOrbit, f.Mode)
	assert.True(t, f.OrbitInput)
	assertVec(t, ReturnCamera, f.CameraPosition)
	assertVec(t, DefaultTarget, f.CameraTarget)
	assert.Equal(t, 0.0, f.Transition)
}

func TestDirectorFrameIsASnapshot(t *testing.T) {
	d := NewDirector(10, 10)
	f := d.Advance(1, 0.02)
	d.Zoom(0.5)
	d.Resize(99, 99)
	assert.Equal(t, DefaultCamera, f.CameraPosition)
	assert.Equal(t, 10, f.Width)
}

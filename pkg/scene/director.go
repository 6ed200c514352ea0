package scene

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
)

// Camera and clock limits.
const (
	MaxDelta       = 0.05 // longest frame step the simulation will take
	MinDistance    = 1.5  // closest the orbit camera may zoom
	MaxDistance    = 50.0 // farthest the orbit camera may zoom
	AutoRotateRate = 2 * math.Pi / 60 * 0.2
	minPolar       = 0.01
)

// DefaultCamera is the camera position at startup.
var DefaultCamera = core.NewVec3(0, 2, 15)

// ReturnCamera is the camera position restored after leaving the tunnel.
var ReturnCamera = core.NewVec3(0, 2, 6)

// DefaultTarget is the look-at point of both poses.
var DefaultTarget = core.Vec3{}

// Director owns everything that changes between frames: the camera pose,
// the viewport, the clock and the state machine. Input methods must be
// called between frames, never while a frame is rendering; a Director is
// not safe for concurrent use.
type Director struct {
	machine    Machine
	camera     core.Vec3
	target     core.Vec3
	width      int
	height     int
	autoRotate float64
}

// NewDirector creates a director at the default camera pose
func NewDirector(width, height int) *Director {
	return &Director{
		camera: DefaultCamera,
		target: DefaultTarget,
		width:  width,
		height: height,
	}
}

// SetAutoRotate sets the idle orbit speed in radians per second about +Y.
// Zero disables auto rotation.
func (d *Director) SetAutoRotate(rate float64) {
	d.autoRotate = rate
}

// Mode returns the current state machine mode
func (d *Director) Mode() Mode {
	return d.machine.Mode()
}

// Camera returns the current camera position and look-at target
func (d *Director) Camera() (position, target core.Vec3) {
	return d.camera, d.target
}

// Advance steps the simulation to elapsed seconds, delta seconds after the
// previous frame, and returns the state for the next frame. Delta is
// clamped to [0, MaxDelta].
func (d *Director) Advance(elapsed, delta float64) FrameState {
	delta = core.Clamp(delta, 0, MaxDelta)

	ev := d.machine.Update(d.camera.Length(), delta)
	if ev.ResetCamera {
		d.camera = ReturnCamera
		d.target = DefaultTarget
	}
	if d.autoRotate != 0 && d.machine.OrbitInput() {
		d.orbit(d.autoRotate*delta, 0)
	}

	return d.Frame(elapsed, delta)
}

// Frame snapshots the current state without advancing anything.
func (d *Director) Frame(elapsed, delta float64) FrameState {
	return FrameState{
		Time:           elapsed,
		Delta:          delta,
		CameraPosition: d.camera,
		CameraTarget:   d.target,
		Width:          d.width,
		Height:         d.height,
		Transition:     d.machine.Transition(),
		TunnelDepth:    d.machine.TunnelDepth(),
		Mode:           d.machine.Mode(),
		OrbitInput:     d.machine.OrbitInput(),
	}
}

// Resize changes the viewport. Non-positive sizes are ignored.
func (d *Director) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	d.width = width
	d.height = height
}

// Scroll forwards a wheel event to the state machine and reports whether
// it changed mode.
func (d *Director) Scroll(up bool) bool {
	return d.machine.Scroll(up)
}

// Orbit rotates the camera about the target by yaw radians around +Y and
// pitch radians toward the pole. Ignored while orbit input is disabled.
func (d *Director) Orbit(yaw, pitch float64) {
	if !d.machine.OrbitInput() {
		return
	}
	d.orbit(yaw, pitch)
}

func (d *Director) orbit(yaw, pitch float64) {
	offset := d.camera.Subtract(d.target)
	radius := offset.Length()
	if radius == 0 {
		return
	}
	azimuth := math.Atan2(offset.X, offset.Z) + yaw
	polar := core.Clamp(math.Acos(core.Clamp(offset.Y/radius, -1, 1))-pitch, minPolar, math.Pi-minPolar)

	sp, cp := math.Sincos(polar)
	sa, ca := math.Sincos(azimuth)
	d.camera = d.target.Add(core.NewVec3(radius*sp*sa, radius*cp, radius*sp*ca))
}

// Zoom scales the camera's distance from the target by factor, within
// [MinDistance, MaxDistance]. Ignored while orbit input is disabled.
func (d *Director) Zoom(factor float64) {
	if !d.machine.OrbitInput() || factor <= 0 {
		return
	}
	offset := d.camera.Subtract(d.target)
	radius := offset.Length()
	if radius == 0 {
		return
	}
	next := core.Clamp(radius*factor, MinDistance, MaxDistance)
	d.camera = d.target.Add(offset.Multiply(next / radius))
}

// SetCamera places the camera directly. Ignored while orbit input is
// disabled or when position equals target.
func (d *Director) SetCamera(position, target core.Vec3) {
	if !d.machine.OrbitInput() || position == target {
		return
	}
	d.camera = position
	d.target = target
}

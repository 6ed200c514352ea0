// Package scene owns the per-frame state: the camera, the clock and the
// orbit/tunnel state machine. Everything the renderer reads for one frame
// is captured in an immutable FrameState.
package scene

import "github.com/df07/go-gargantua/pkg/core"

// FrameState contains everything a pixel evaluation needs for one frame.
// It is built once per frame and passed by value; nothing mutates it while
// the frame renders.
type FrameState struct {
	Time           float64   // elapsed seconds, monotonic
	Delta          float64   // clamped frame delta in seconds
	CameraPosition core.Vec3 // eye point
	CameraTarget   core.Vec3 // look-at point
	Width          int       // viewport width in pixels
	Height         int       // viewport height in pixels
	Transition     float64   // cross-fade toward the tunnel, in [0, 1]
	TunnelDepth    float64   // distance travelled down the tunnel
	Mode           Mode
	OrbitInput     bool // whether camera orbit input is accepted
}

// Resolution returns the viewport size as a vector
func (f FrameState) Resolution() core.Vec2 {
	return core.NewVec2(float64(f.Width), float64(f.Height))
}

// CameraDistance returns the camera's distance from the central mass
func (f FrameState) CameraDistance() float64 {
	return f.CameraPosition.Length()
}

// Package session drives an interactive view of the scene: it turns
// pointer input into camera moves, advances the clock and keeps one frame
// rendering in the background while the window shows the last finished one.
package session

import (
	"image"
	"math"
	"sync"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/postfx"
	"github.com/df07/go-gargantua/pkg/renderer"
	"github.com/df07/go-gargantua/pkg/scene"
)

// Input tuning.
const (
	DragSensitivity = 0.005 // radians per pixel of pointer travel
	WheelZoomBase   = 0.95  // distance factor per wheel notch toward the mass
)

// Options configures a session.
type Options struct {
	Width       int     // window width in pixels
	Height      int     // window height in pixels
	RenderScale float64 // fraction of the window that is ray marched, in (0, 1]
	AutoRotate  float64 // idle orbit speed in radians per second
	Bloom       *postfx.Bloom
}

// result is a finished frame ready for display
type result struct {
	image *image.RGBA
	state scene.FrameState
	stats renderer.RenderStats
	err   error
}

// Session owns the director and the frame renderer. Every method except
// Latest must be called from the same goroutine, the window's update loop.
type Session struct {
	director *scene.Director
	frames   *renderer.FrameRenderer
	bloom    *postfx.Bloom
	scale    float64
	home     [2]core.Vec3
	width    int
	height   int
	logger   core.Logger

	lastTime float64
	busy     bool
	done     chan result

	mu     sync.Mutex
	latest result
}

// New creates a session rendering with compositor. The camera starts at
// position looking at target.
func New(compositor *renderer.Compositor, frameConfig renderer.FrameConfig, opts Options, position, target core.Vec3, logger core.Logger) *Session {
	if opts.RenderScale <= 0 || opts.RenderScale > 1 {
		opts.RenderScale = 1
	}
	s := &Session{
		frames: renderer.NewFrameRenderer(compositor, frameConfig, logger),
		bloom:  opts.Bloom,
		scale:  opts.RenderScale,
		home:   [2]core.Vec3{position, target},
		logger: logger,
		done:   make(chan result, 1),
	}
	s.director = scene.NewDirector(1, 1)
	s.director.SetCamera(position, target)
	s.director.SetAutoRotate(opts.AutoRotate)
	s.Resize(opts.Width, opts.Height)
	return s
}

// Resize adapts to a new window size. Non-positive sizes are ignored.
func (s *Session) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.director.Resize(s.RenderSize(width, height))
}

// RenderSize returns the ray marched resolution for a window size
func (s *Session) RenderSize(width, height int) (int, int) {
	return max(1, int(float64(width)*s.scale+0.5)), max(1, int(float64(height)*s.scale+0.5))
}

// Drag orbits the camera by a pointer movement of (dx, dy) pixels.
// Dragging right turns the view right; dragging down raises the camera.
func (s *Session) Drag(dx, dy float64) {
	s.director.Orbit(-dx*DragSensitivity, dy*DragSensitivity)
}

// Wheel handles a wheel movement of dy notches, positive away from the
// user. In the tunnel any upward movement starts the way out; otherwise
// the wheel zooms toward or away from the target.
func (s *Session) Wheel(dy float64) {
	if dy == 0 {
		return
	}
	if s.director.Mode() == scene.ModeTunnel {
		s.director.Scroll(dy > 0)
		return
	}
	s.director.Zoom(math.Pow(WheelZoomBase, dy))
}

// Advance forwards an explicit advance request, such as a key press, to the
// state machine.
func (s *Session) Advance() bool {
	return s.director.Scroll(true)
}

// ResetCamera returns the camera to the pose the session started with.
// Ignored while orbit input is disabled.
func (s *Session) ResetCamera() {
	s.director.SetCamera(s.home[0], s.home[1])
}

// Mode returns the current scene mode
func (s *Session) Mode() scene.Mode {
	return s.director.Mode()
}

// Camera returns the current camera position and target
func (s *Session) Camera() (core.Vec3, core.Vec3) {
	return s.director.Camera()
}

// Tick collects a finished frame if there is one and, when no frame is in
// flight, advances the clock to elapsed seconds and starts the next frame.
// It reports whether a new frame was started.
func (s *Session) Tick(elapsed float64) bool {
	select {
	case r := <-s.done:
		s.collect(r)
	default:
	}
	if s.busy {
		return false
	}

	delta := elapsed - s.lastTime
	s.lastTime = elapsed
	state := s.director.Advance(elapsed, delta)

	s.busy = true
	width, height := s.width, s.height
	go func() {
		s.done <- s.render(state, width, height)
	}()
	return true
}

// Flush waits for the frame in flight, if any, and publishes it
func (s *Session) Flush() {
	if s.busy {
		s.collect(<-s.done)
	}
}

func (s *Session) collect(r result) {
	s.busy = false
	if r.err != nil {
		core.Errorf(s.logger, "Frame failed: %v\n", r.err)
		return
	}
	s.mu.Lock()
	s.latest = r
	s.mu.Unlock()
}

// render produces the displayed image for state at window size
func (s *Session) render(state scene.FrameState, width, height int) result {
	frame, err := s.frames.Render(state)
	if err != nil {
		return result{err: err}
	}
	img := postfx.Finish(frame.Primary, frame.Overlay, s.bloom)
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		img = postfx.Scale(img, width, height)
	}
	return result{image: img, state: state, stats: frame.Stats}
}

// Latest returns the most recent finished image and the state it shows.
// The image is nil until the first frame completes. Safe for concurrent use.
func (s *Session) Latest() (*image.RGBA, scene.FrameState, renderer.RenderStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest.image, s.latest.state, s.latest.stats
}

// Close waits for the frame in flight and stops the render workers
func (s *Session) Close() {
	s.Flush()
	s.frames.Close()
}

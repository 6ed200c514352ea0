package renderer

import (
	"context"
	"fmt"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/scene"
)

// HorizonApproach is where the default fly-in ends, close enough to the
// mass to commit to the tunnel.
var HorizonApproach = core.NewVec3(0, 0.4, 1.8)

// CameraPath places the camera at sequence time t. It returns false once
// the path has finished and the camera should be left where it is.
type CameraPath func(t float64) (position, target core.Vec3, ok bool)

// FlyIn moves the camera from start to end over duration seconds with a
// smoothstep ease, always looking at the origin.
func FlyIn(start, end core.Vec3, duration float64) CameraPath {
	return func(t float64) (core.Vec3, core.Vec3, bool) {
		if duration <= 0 || t > duration {
			return core.Vec3{}, core.Vec3{}, false
		}
		s := core.Smoothstep(0, duration, t)
		return start.Mix(end, s), core.Vec3{}, true
	}
}

// SequenceConfig contains configuration for rendering a frame sequence
type SequenceConfig struct {
	Frames     int        // Number of frames to render
	FPS        float64    // Simulation frames per second
	Path       CameraPath // Optional scripted camera
	TunnelExit float64    // Seconds spent in the tunnel before scrolling out (0 = stay)
}

// DefaultSequenceConfig returns a four second fly-in at 30 fps
func DefaultSequenceConfig() SequenceConfig {
	return SequenceConfig{
		Frames:     120,
		FPS:        30,
		Path:       FlyIn(scene.DefaultCamera, HorizonApproach, 3),
		TunnelExit: 0.5,
	}
}

// SequenceFrame is one rendered frame of a sequence
type SequenceFrame struct {
	Index  int
	Frame  *Frame
	IsLast bool
}

// SequenceRenderer advances a director frame by frame and renders each
// frame it produces. Frames are produced strictly in order.
type SequenceRenderer struct {
	director *scene.Director
	frames   *FrameRenderer
	config   SequenceConfig
	logger   core.Logger
}

// NewSequenceRenderer creates a sequence renderer. It takes ownership of
// frames and closes it when the sequence ends.
func NewSequenceRenderer(director *scene.Director, frames *FrameRenderer, config SequenceConfig, logger core.Logger) *SequenceRenderer {
	if config.FPS <= 0 {
		config.FPS = 30
	}
	return &SequenceRenderer{
		director: director,
		frames:   frames,
		config:   config,
		logger:   logger,
	}
}

// step advances the director to frame i and returns the state to render.
func (sr *SequenceRenderer) step(i int, tunnelTime *float64) scene.FrameState {
	elapsed := float64(i) / sr.config.FPS
	delta := 0.0
	if i > 0 {
		delta = 1 / sr.config.FPS
	}

	if sr.config.Path != nil {
		if pos, target, ok := sr.config.Path(elapsed); ok {
			sr.director.SetCamera(pos, target)
		}
	}
	if sr.config.TunnelExit > 0 && sr.director.Mode() == scene.ModeTunnel {
		*tunnelTime += delta
		if *tunnelTime >= sr.config.TunnelExit && sr.director.Scroll(true) {
			sr.logger.Printf("Frame %d: leaving tunnel after %.2fs\n", i, *tunnelTime)
			*tunnelTime = 0
		}
	}

	return sr.director.Advance(elapsed, delta)
}

// RenderSequence renders with channel-based communication. Frames arrive in
// order on the first channel; the error channel receives at most one error,
// including ctx.Err() when the context is cancelled between frames.
func (sr *SequenceRenderer) RenderSequence(ctx context.Context) (<-chan SequenceFrame, <-chan error) {
	frameChan := make(chan SequenceFrame, 1)
	errChan := make(chan error, 1)

	go func() {
		defer close(frameChan)
		defer close(errChan)
		defer sr.frames.Close()

		sr.logger.Printf("Starting sequence of %d frames at %.0f fps...\n", sr.config.Frames, sr.config.FPS)

		var tunnelTime float64
		prevMode := sr.director.Mode()
		for i := 0; i < sr.config.Frames; i++ {
			select {
			case <-ctx.Done():
				sr.logger.Printf("Sequence cancelled before frame %d\n", i)
				errChan <- ctx.Err()
				return
			default:
			}

			state := sr.step(i, &tunnelTime)
			if state.Mode != prevMode {
				sr.logger.Printf("Frame %d: %s -> %s\n", i, prevMode, state.Mode)
				prevMode = state.Mode
			}

			frame, err := sr.frames.Render(state)
			if err != nil {
				errChan <- fmt.Errorf("frame %d: %w", i, err)
				return
			}

			select {
			case frameChan <- SequenceFrame{Index: i, Frame: frame, IsLast: i == sr.config.Frames-1}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return frameChan, errChan
}

package renderer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/scene"
)

func newTestSequence(width, height int, config SequenceConfig) (*SequenceRenderer, *recordingLogger) {
	logger := &recordingLogger{}
	frames := NewFrameRenderer(testCompositor(), FrameConfig{TileSize: 4, NumWorkers: 2}, logger)
	return NewSequenceRenderer(scene.NewDirector(width, height), frames, config, logger), logger
}

func collect(t *testing.T, sr *SequenceRenderer, ctx context.Context) ([]SequenceFrame, error) {
	t.Helper()
	frameChan, errChan := sr.RenderSequence(ctx)
	var frames []SequenceFrame
	for f := range frameChan {
		frames = append(frames, f)
	}
	return frames, <-errChan
}

func TestFlyIn(t *testing.T) {
	start := core.NewVec3(0, 2, 15)
	end := core.NewVec3(0, 0, 2)
	path := FlyIn(start, end, 2)

	pos, target, ok := path(0)
	require.True(t, ok)
	assert.Equal(t, start, pos)
	assert.Equal(t, core.Vec3{}, target)

	pos, _, ok = path(1)
	require.True(t, ok)
	assert.InDelta(t, 8.5, pos.Z, 1e-9)

	pos, _, ok = path(2)
	require.True(t, ok)
	assert.Equal(t, end, pos)

	_, _, ok = path(2.01)
	assert.False(t, ok)

	_, _, ok = FlyIn(start, end, 0)(0)
	assert.False(t, ok)
}

func TestSequenceRendersFramesInOrder(t *testing.T) {
	sr, _ := newTestSequence(8, 6, SequenceConfig{Frames: 4, FPS: 30})

	frames, err := collect(t, sr, context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 4)

	for i, f := range frames {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, i == 3, f.IsLast)
		assert.InDelta(t, float64(i)/30, f.Frame.State.Time, 1e-12)
	}
	assert.Zero(t, frames[0].Frame.State.Delta)
	assert.InDelta(t, 1.0/30, frames[1].Frame.State.Delta, 1e-12)
}

func TestSequenceClampsSlowFrameRate(t *testing.T) {
	sr, _ := newTestSequence(4, 4, SequenceConfig{Frames: 2, FPS: 5})

	frames, err := collect(t, sr, context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.Equal(t, scene.MaxDelta, frames[1].Frame.State.Delta)
}

func TestSequenceCancelled(t *testing.T) {
	sr, logger := newTestSequence(8, 6, SequenceConfig{Frames: 10, FPS: 30})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames, err := collect(t, sr, ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, frames)
	assert.Contains(t, logger.lines[len(logger.lines)-1], "cancelled before frame 0")
}

func TestSequenceFlyInThroughTunnel(t *testing.T) {
	config := DefaultSequenceConfig()
	config.Frames = 160
	sr, _ := newTestSequence(4, 4, config)

	frames, err := collect(t, sr, context.Background())
	require.NoError(t, err)
	require.Len(t, frames, 160)

	seen := map[scene.Mode]bool{}
	for _, f := range frames {
		seen[f.Frame.State.Mode] = true
		assert.GreaterOrEqual(t, f.Frame.State.Transition, 0.0)
		assert.LessOrEqual(t, f.Frame.State.Transition, 1.0)
	}
	assert.True(t, seen[scene.ModeTransitionIn])
	assert.True(t, seen[scene.ModeTunnel])
	assert.True(t, seen[scene.ModeTransitionOut])

	last := frames[len(frames)-1].Frame.State
	assert.Equal(t, scene.ModeOrbit, last.Mode)
	assert.True(t, last.OrbitInput)
	assert.Equal(t, scene.ReturnCamera, last.CameraPosition)
}

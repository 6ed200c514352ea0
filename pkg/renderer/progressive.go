package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/scene"
)

// DefaultTileSize is the edge length of a render tile in pixels.
const DefaultTileSize = 32

// FrameConfig contains configuration for frame rendering
type FrameConfig struct {
	TileSize   int // Size of each tile in pixels
	NumWorkers int // Number of parallel workers (0 = use CPU count)
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		TileSize:   DefaultTileSize,
		NumWorkers: 0, // Auto-detect CPU count
	}
}

// Frame is one rendered frame: the black-hole layer, the tunnel layer to
// be blended over it, and the state both were rendered from.
type Frame struct {
	Primary *image.RGBA
	Overlay *image.NRGBA
	State   scene.FrameState
	Stats   RenderStats
}

// FrameRenderer renders frames in parallel tiles on a persistent worker
// pool. Render must not be called concurrently; Close releases the workers.
type FrameRenderer struct {
	compositor *Compositor
	config     FrameConfig
	workerPool *WorkerPool
	tiles      []*Tile
	width      int
	height     int
	logger     core.Logger
}

// NewFrameRenderer creates a frame renderer and starts its workers
func NewFrameRenderer(compositor *Compositor, config FrameConfig, logger core.Logger) *FrameRenderer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultTileSize
	}
	pool := NewWorkerPool(compositor, config.NumWorkers, 0)
	pool.Start()

	return &FrameRenderer{
		compositor: compositor,
		config:     config,
		workerPool: pool,
		logger:     logger,
	}
}

// Render renders the frame described by state. The tile grid follows the
// state's resolution, so a resize takes effect on the next call.
func (fr *FrameRenderer) Render(state scene.FrameState) (*Frame, error) {
	if state.Width <= 0 || state.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", state.Width, state.Height)
	}
	if state.Width != fr.width || state.Height != fr.height || fr.tiles == nil {
		fr.tiles = NewTileGrid(state.Width, state.Height, fr.config.TileSize)
		fr.width, fr.height = state.Width, state.Height
		core.Debugf(fr.logger, "Tiling %dx%d frame into %d tiles of %dpx for %d workers\n",
			state.Width, state.Height, len(fr.tiles), fr.config.TileSize, fr.workerPool.GetNumWorkers())
	}

	start := time.Now()
	bounds := image.Rect(0, 0, state.Width, state.Height)
	frame := &Frame{
		Primary: image.NewRGBA(bounds),
		Overlay: image.NewNRGBA(bounds),
		State:   state,
	}
	basis := NewViewBasis(state.CameraPosition, state.CameraTarget)

	// Submit from a separate goroutine so a grid larger than the queue
	// cannot block against unread results
	tiles := fr.tiles
	go func() {
		for i, tile := range tiles {
			fr.workerPool.SubmitTask(TileTask{
				Tile:    tile,
				TaskID:  i,
				Frame:   state,
				Basis:   basis,
				Primary: frame.Primary,
				Overlay: frame.Overlay,
			})
		}
	}()

	for i := 0; i < len(tiles); i++ {
		result, ok := fr.workerPool.GetResult()
		if !ok {
			return nil, fmt.Errorf("worker pool closed unexpectedly")
		}
		frame.Stats.Merge(result.Stats)
		tiles[result.TaskID].PassesCompleted++
	}
	frame.Stats.Duration = time.Since(start)

	return frame, nil
}

// Close stops the worker pool
func (fr *FrameRenderer) Close() {
	fr.workerPool.Stop()
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of frames rendered for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	// Calculate number of tiles in each dimension
	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}

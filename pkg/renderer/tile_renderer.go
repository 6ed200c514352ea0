package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/scene"
	"github.com/df07/go-gargantua/pkg/tunnel"
)

// TileRenderer renders the pixels of individual tiles into shared frame
// images. Tiles never overlap, so concurrent tile renders need no locking.
type TileRenderer struct {
	compositor *Compositor
}

// NewTileRenderer creates a new tile renderer around a compositor
func NewTileRenderer(compositor *Compositor) *TileRenderer {
	return &TileRenderer{compositor: compositor}
}

// RenderTileBounds renders the black-hole layer into primary and, while the
// transition is under way, the tunnel layer into overlay.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, basis ViewBasis, frame scene.FrameState, primary *image.RGBA, overlay *image.NRGBA) RenderStats {
	var stats RenderStats
	drawTunnel := frame.Transition > 0
	layer := tunnel.NewLayer(frame.Time, frame.TunnelDepth, frame.Width, frame.Height)
	alpha := uint8(255*core.Saturate(frame.Transition) + 0.5)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			var pixel core.Vec3
			if frame.Transition < 1 {
				t := tr.compositor.TracePixel(x, y, basis, frame)
				stats.AddTrace(t)
				pixel = ToneMap(t.Radiance, frame.Transition)
			} else {
				stats.TotalPixels++
			}
			primary.SetRGBA(x, y, vec3ToColor(pixel))

			if drawTunnel {
				fx, fy := Fragment(x, y, frame.Height)
				c := layer.Color(float32(fx), float32(fy))
				overlay.SetNRGBA(x, y, color.NRGBA{
					R: channel(c.X),
					G: channel(c.Y),
					B: channel(c.Z),
					A: alpha,
				})
			}
		}
	}

	stats.finalize()
	return stats
}

// channel converts a [0, 1] float32 to an 8-bit value
func channel(v float32) uint8 {
	return uint8(255*core.Saturate(float64(v)) + 0.5)
}

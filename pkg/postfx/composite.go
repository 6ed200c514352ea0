package postfx

import (
	"image"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/image/draw"
)

// Composite draws the tunnel overlay over the black-hole layer with
// source-over blending and returns the result as a new image.
func Composite(primary *image.RGBA, overlay *image.NRGBA) *image.RGBA {
	out := clone.AsRGBA(primary)
	if overlay != nil {
		draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	}
	return out
}

// Finish produces the displayed frame: bloom on the black-hole layer, then
// the tunnel overlay on top. A nil bloom skips the glow.
func Finish(primary *image.RGBA, overlay *image.NRGBA, bloom *Bloom) *image.RGBA {
	base := primary
	if bloom != nil {
		base = bloom.Apply(primary)
	}
	return Composite(base, overlay)
}

// Scale resizes src to width x height with bilinear filtering.
func Scale(src image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

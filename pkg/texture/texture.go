// Package texture provides wrap-addressed RGB lookups for background and
// planet images.
package texture

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
)

// Sampler returns a linear RGB color for normalized texture coordinates.
// Coordinates outside [0, 1] wrap around.
type Sampler interface {
	Sample(uv core.Vec2) core.Vec3
}

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major: Pixels[y*Width + x], row 0 at the top
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// wrap reduces i into [0, n)
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// texel returns the pixel at wrapped integer coordinates
func (t *ImageTexture) texel(x, y int) core.Vec3 {
	return t.Pixels[wrap(y, t.Height)*t.Width+wrap(x, t.Width)]
}

// Sample looks up uv with bilinear filtering and repeat addressing.
// V=0 is the bottom row of the image, V=1 the top.
func (t *ImageTexture) Sample(uv core.Vec2) core.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return core.Vec3{}
	}

	// Texel centers sit at half-integer coordinates
	fx := core.Fract(uv.X)*float64(t.Width) - 0.5
	fy := (1-core.Fract(uv.Y))*float64(t.Height) - 0.5

	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := fx - x0
	ty := fy - y0
	ix, iy := int(x0), int(y0)

	top := t.texel(ix, iy).Mix(t.texel(ix+1, iy), tx)
	bottom := t.texel(ix, iy+1).Mix(t.texel(ix+1, iy+1), tx)
	return top.Mix(bottom, ty)
}

// SolidColor provides a uniform color
type SolidColor struct {
	Color core.Vec3
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Vec3) *SolidColor {
	return &SolidColor{Color: color}
}

// Sample returns the solid color regardless of uv
func (s *SolidColor) Sample(uv core.Vec2) core.Vec3 {
	return s.Color
}

package texture

import (
	"math"

	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/noise"
)

// NewGradientTexture creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientTexture(width, height int, color1, color2 core.Vec3) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		color := color1.Mix(color2, t)

		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewStarfield creates a sparse field of point stars on black. The same
// seed always produces the same field.
func NewStarfield(width, height int, seed float64) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			h := noise.Hash2(float64(x)+seed, float64(y)-seed)
			if h < 0.995 {
				continue
			}
			// Brightness ramps over the top half percent of hash values
			b := (h - 0.995) / 0.005
			tint := noise.Hash(float64(x*width+y) + seed)
			pixels[y*width+x] = core.NewVec3(0.8+0.2*tint, 0.85, 1.0-0.2*tint).Multiply(b)
		}
	}

	return NewImageTexture(width, height, pixels)
}

// NewGalaxyBand creates a soft glowing band across the middle rows with
// cloudy structure, standing in for a panoramic galaxy image.
func NewGalaxyBand(width, height int) *ImageTexture {
	pixels := make([]core.Vec3, width*height)
	warm := core.NewVec3(0.9, 0.75, 0.6)
	cool := core.NewVec3(0.35, 0.4, 0.6)

	for y := 0; y < height; y++ {
		v := (float64(y)+0.5)/float64(height) - 0.5
		band := math.Exp(-v * v * 80)
		for x := 0; x < width; x++ {
			u := float64(x) / float64(width)
			// Sample noise on a circle so the band wraps seamlessly in U
			s, c := math.Sincos(u * 2 * math.Pi)
			cloud := noise.FBMN(core.NewVec3(c*3, s*3, v*12), 6)
			pixels[y*width+x] = cool.Mix(warm, cloud).Multiply(band * (0.4 + cloud))
		}
	}

	return NewImageTexture(width, height, pixels)
}

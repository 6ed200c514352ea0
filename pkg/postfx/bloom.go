// Package postfx post-processes rendered frames: bloom on the black-hole
// layer, compositing of the tunnel layer over it, and display scaling.
package postfx

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"

	"github.com/df07/go-gargantua/pkg/core"
)

// Default bloom parameters.
const (
	DefaultStrength  = 1.4
	DefaultRadius    = 0.6
	DefaultThreshold = 0.1
	DefaultLevels    = 5

	// width of the soft knee above the threshold
	thresholdKnee = 0.01
)

// Per-level weights and blur radii. Each level works at half the size of
// the one before it, so later levels spread light further.
var (
	levelFactors = []float64{1.0, 0.8, 0.6, 0.4, 0.2}
	levelRadii   = []float64{1.5, 2.5, 3.5, 4.5, 5.5}
)

// Bloom spreads light from bright pixels into their surroundings.
type Bloom struct {
	Strength  float64 // overall intensity of the added glow
	Radius    float64 // in [0, 1]; higher values favor the widest levels
	Threshold float64 // luminance below which pixels do not bloom
	Levels    int     // number of downsampled blur levels, at most 5
}

// NewBloom creates a bloom pass with the default parameters
func NewBloom() *Bloom {
	return &Bloom{
		Strength:  DefaultStrength,
		Radius:    DefaultRadius,
		Threshold: DefaultThreshold,
		Levels:    DefaultLevels,
	}
}

// LevelWeight returns the contribution of blur level i. Radius 0 keeps the
// base factors and radius 1 reverses them toward the wide levels.
func (b *Bloom) LevelWeight(i int) float64 {
	f := levelFactors[i]
	return core.Mix(f, 1.2-f, b.Radius)
}

// HighPass keeps only the pixels bright enough to bloom, faded in over a
// narrow knee above the threshold.
func (b *Bloom) HighPass(img image.Image) *image.RGBA {
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		lum := (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
		k := core.Smoothstep(b.Threshold, b.Threshold+thresholdKnee, lum)
		return color.RGBA{R: scale8(c.R, k), G: scale8(c.G, k), B: scale8(c.B, k), A: c.A}
	})
}

// Apply returns img with bloom added. The input is not modified.
func (b *Bloom) Apply(img image.Image) *image.RGBA {
	out := clone.AsRGBA(img)
	bounds := out.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if b.Strength <= 0 || w == 0 || h == 0 {
		return out
	}

	bright := b.HighPass(out)
	levels := min(max(b.Levels, 0), len(levelFactors))
	src := image.Image(bright)
	for i := 0; i < levels; i++ {
		lw, lh := w>>(i+1), h>>(i+1)
		if lw < 1 || lh < 1 {
			break
		}
		down := transform.Resize(src, lw, lh, transform.Linear)
		blurred := blur.Gaussian(down, levelRadii[i])
		src = blurred

		weight := b.Strength * b.LevelWeight(i)
		glow := adjust.Apply(transform.Resize(blurred, w, h, transform.Linear), func(c color.RGBA) color.RGBA {
			return color.RGBA{R: scale8(c.R, weight), G: scale8(c.G, weight), B: scale8(c.B, weight), A: 255}
		})
		out = blend.Add(out, glow)
	}
	return out
}

// scale8 multiplies an 8-bit channel by k, saturating at 255.
func scale8(v uint8, k float64) uint8 {
	return uint8(core.Clamp(float64(v)*k+0.5, 0, 255))
}

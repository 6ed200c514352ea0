package renderer

import (
	"image"
	"time"
)

// RenderStats contains statistics about one rendered frame or tile
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSteps     int           // Total march steps over all pixels
	AverageSteps   float64       // Average march steps per pixel
	MaxStepsUsed   int           // Most steps taken by any pixel
	AbsorbedPixels int           // Pixels whose ray fell through the horizon
	PlanetPixels   int           // Pixels showing a planet
	Duration       time.Duration // Wall time spent rendering
}

// AddTrace records one traced pixel
func (s *RenderStats) AddTrace(t Trace) {
	s.TotalPixels++
	s.TotalSteps += t.Steps
	s.MaxStepsUsed = max(s.MaxStepsUsed, t.Steps)
	if t.Absorbed {
		s.AbsorbedPixels++
	}
	if t.PlanetHit() {
		s.PlanetPixels++
	}
}

// Merge folds another set of statistics into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalSteps += other.TotalSteps
	s.MaxStepsUsed = max(s.MaxStepsUsed, other.MaxStepsUsed)
	s.AbsorbedPixels += other.AbsorbedPixels
	s.PlanetPixels += other.PlanetPixels
	s.finalize()
}

// finalize calculates derived statistics
func (s *RenderStats) finalize() {
	if s.TotalPixels > 0 {
		s.AverageSteps = float64(s.TotalSteps) / float64(s.TotalPixels)
	}
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img,
// computed on the stored (display encoded) values in [0, 1].
func CalculateAverageLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			total += (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 65535.0
		}
	}
	return total / float64(pixels)
}

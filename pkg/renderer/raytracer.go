package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-gargantua/pkg/background"
	"github.com/df07/go-gargantua/pkg/core"
	"github.com/df07/go-gargantua/pkg/disk"
	"github.com/df07/go-gargantua/pkg/loaders"
	"github.com/df07/go-gargantua/pkg/planet"
	"github.com/df07/go-gargantua/pkg/scene"
	"github.com/df07/go-gargantua/pkg/spacetime"
	"github.com/df07/go-gargantua/pkg/texture"
)

// Display transform constants.
const (
	Exposure     = 1.5
	DisplayGamma = 2.2

	// planets are only tested while the disk in front of them is mostly clear
	planetOpacityLimit = 0.5

	// initial closest approach, larger than any reachable radius
	farRadius = 1000.0
)

// StepObserver is called after every march step with the running
// transmittance of the ray.
type StepObserver func(step int, transmittance float64)

// Trace is the outcome of marching one ray.
type Trace struct {
	Radiance      core.Vec3 // linear radiance before tone mapping
	Transmittance float64   // fraction of the background still visible
	Absorbed      bool      // the ray fell through the horizon
	Escaped       bool      // the background was added
	Saturated     bool      // the disk became opaque
	MinRadius     float64   // closest approach to the mass
	Orbits        int       // wraps counted around the mass
	Steps         int       // march steps taken
	LensStrength  float64   // aberration strength used for the background
	Planet        string    // name of the nearest planet hit, if any
}

// PlanetHit reports whether a planet contributed to the pixel.
func (t Trace) PlanetHit() bool {
	return t.Planet != ""
}

// Compositor marches rays through the curved space around the mass and
// composites the disk, planets and sky into a single radiance per ray.
// It holds no per-ray state and is safe for concurrent use.
type Compositor struct {
	Disk       *disk.Shader
	Background *background.Field
	Bodies     []*planet.Body
	Textures   []texture.Sampler // indexed like Bodies
}

// NewCompositor creates a compositor for the standard three-planet scene
// textured from assets.
func NewCompositor(assets *loaders.Assets) *Compositor {
	bodies := planet.Bodies()
	textures := make([]texture.Sampler, len(bodies))
	for i, b := range bodies {
		textures[i] = assets.Planet(b.Name)
	}
	return &Compositor{
		Disk:       disk.NewShader(),
		Background: background.NewField(assets.Galaxy, assets.Stars),
		Bodies:     bodies,
		Textures:   textures,
	}
}

// Trace marches ray with the given step jitter through the scene at frame
// time. observer may be nil.
func (c *Compositor) Trace(ray core.Ray, jitter float64, frame scene.FrameState, observer StepObserver) Trace {
	p := ray.Origin
	rd := ray.Direction.Normalize()
	step := spacetime.InitialStep
	vol := disk.NewVolume()
	winding := spacetime.NewWindingCounter(p)
	result := Trace{MinRadius: farRadius}

	centers := make([]core.Vec3, len(c.Bodies))
	for i, b := range c.Bodies {
		centers[i] = b.Position(frame.Time)
	}
	var planetColor core.Vec3
	planetDist := math.Inf(1)
	travel := 0.0

	for i := 0; i < spacetime.MaxSteps; i++ {
		result.Steps = i + 1
		r := p.Length()
		result.MinRadius = min(result.MinRadius, r)

		if r < spacetime.RS {
			result.Absorbed = true
			vol.Absorb()
			if observer != nil {
				observer(i, vol.Transmittance)
			}
			break
		}

		rd = spacetime.Bend(p, rd, step)
		winding.Observe(p, rd, r)
		prev := p
		p = p.Add(rd.Multiply(step))

		if vol.Opacity() < planetOpacityLimit {
			for j, b := range c.Bodies {
				t, ok := planet.Approach(prev, rd, centers[j], b.Radius, step*2)
				if !ok || travel+t >= planetDist {
					continue
				}
				if col, hit := planet.Shade(prev, rd, b, c.Textures[j], frame.Time); hit {
					planetColor = col
					planetDist = travel + t
					result.Planet = b.Name
				}
			}
		}
		travel += step

		if s, ok := c.Disk.Sample(p, rd, frame.Time); ok {
			vol.Accumulate(s)
		}
		if observer != nil {
			observer(i, vol.Transmittance)
		}

		if vol.Saturated() {
			result.Saturated = true
			break
		}
		if travel > spacetime.MaxTravel {
			break
		}
		step = spacetime.StepSize(r, jitter)
	}

	radiance := vol.Radiance
	if !result.Absorbed && vol.Transmittance > disk.TransmittanceMin {
		result.Escaped = true
		result.LensStrength = background.LensStrength(result.MinRadius)
		bg := c.Background.Escape(rd, result.MinRadius, winding.Count(), vol.Transmittance, c.Disk.Base)
		radiance = radiance.Add(bg.Multiply(vol.Transmittance))
	}
	if result.PlanetHit() {
		radiance = radiance.Mix(planetColor, vol.Transmittance)
	}

	result.Radiance = radiance
	result.Transmittance = vol.Transmittance
	result.Orbits = winding.Count()
	return result
}

// Shade traces ray and returns its display color for frame.
func (c *Compositor) Shade(ray core.Ray, jitter float64, frame scene.FrameState) core.Vec3 {
	if frame.Transition >= 1 {
		return core.Vec3{}
	}
	return ToneMap(c.Trace(ray, jitter, frame, nil).Radiance, frame.Transition)
}

// TracePixel traces the center of image pixel (x, y) with its dither.
func (c *Compositor) TracePixel(x, y int, basis ViewBasis, frame scene.FrameState) Trace {
	fx, fy := Fragment(x, y, frame.Height)
	ray := basis.FragmentRay(fx, fy, float64(frame.Width), float64(frame.Height))
	return c.Trace(ray, spacetime.Jitter(spacetime.Dither(fx, fy)), frame, nil)
}

// ACES applies the Narkowicz fit of the ACES filmic curve, clamped to [0, 1].
func ACES(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	return core.Saturate((x * (a*x + b)) / (x*(c*x+d) + e))
}

// ToneMap converts linear radiance to a display color: exposure, the ACES
// curve, gamma, and finally a fade to black by transition.
func ToneMap(radiance core.Vec3, transition float64) core.Vec3 {
	exposed := radiance.Multiply(Exposure)
	mapped := core.NewVec3(ACES(exposed.X), ACES(exposed.Y), ACES(exposed.Z))
	return mapped.GammaCorrect(DisplayGamma).Multiply(1 - core.Saturate(transition))
}

// vec3ToColor converts a display color in [0, 1] to 8-bit RGBA
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	colorVec = colorVec.Clamp(0.0, 1.0)
	return color.RGBA{
		R: uint8(255*colorVec.X + 0.5),
		G: uint8(255*colorVec.Y + 0.5),
		B: uint8(255*colorVec.Z + 0.5),
		A: 255,
	}
}

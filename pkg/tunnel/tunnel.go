// Package tunnel renders the corridor of glowing lattice bars shown inside
// the event horizon. It is a separate layer, faded in over the black hole
// by the scene's transition level.
package tunnel

import "github.com/chewxy/math32"

// March parameters.
const (
	MaxSteps    = 64
	MaxDistance = 50.0
	HitDistance = 0.01
	MinAdvance  = 0.05
	lensLength  = 1.2
)

var (
	cellPeriod = Vector{3, 3, 6}
	pillarSize = Vector{0.06, 1.4, 0.06}
	crossSize  = Vector{1.4, 0.04, 0.04}
	railSize   = Vector{0.04, 0.04, 2.8}

	amber = Vector{1.0, 0.7, 0.3}
	white = Vector{1.0, 0.95, 0.85}
)

// Box is the signed distance from p to an origin-centered box with half
// extents b. It is negative inside.
func Box(p, b Vector) float32 {
	q := p.Abs().Sub(b)
	return q.MaxScalar(0).Length() + math32.Min(math32.Max(q.X, math32.Max(q.Y, q.Z)), 0)
}

// Distance is the signed distance to the lattice after it has scrolled
// depth units toward the viewer.
func Distance(p Vector, depth float32) float32 {
	p.Z += depth
	q := p.Wrap(cellPeriod)
	return math32.Min(math32.Min(Box(q, pillarSize), Box(q, crossSize)), Box(q, railSize))
}

// Layer is the tunnel for one frame.
type Layer struct {
	Time   float32
	Depth  float32
	Width  float32
	Height float32
}

// NewLayer creates the tunnel layer for a frame
func NewLayer(time, depth float64, width, height int) Layer {
	return Layer{
		Time:   float32(time),
		Depth:  float32(depth),
		Width:  float32(width),
		Height: float32(height),
	}
}

// Color returns the tone-mapped color of the fragment at (fx, fy), measured
// in pixels from the bottom-left corner. Components lie in [0, 1).
func (l Layer) Color(fx, fy float32) Vector {
	uv := Vector{(fx - 0.5*l.Width) / l.Height, (fy - 0.5*l.Height) / l.Height, 0}
	rd := Vector{uv.X, uv.Y, -lensLength}.Normalize()
	ro := Vector{math32.Sin(l.Time*0.3) * 0.1, math32.Cos(l.Time*0.2) * 0.05, 0}

	var t, glow float32
	for i := 0; i < MaxSteps; i++ {
		d := Distance(ro.Add(rd.Mul(t)), l.Depth)
		glow += 0.02 / (1 + d*d*20)
		if d < HitDistance {
			glow += 0.4
			break
		}
		t += math32.Max(d*0.6, MinAdvance)
		if t > MaxDistance {
			break
		}
	}

	col := mix(amber, white, glow*0.6).Mul(glow * 1.5)
	col = col.Mul(math32.Exp(-t * 0.03))
	col = col.Mul(0.9 + 0.1*math32.Sin(l.Time*2))

	return Vector{tone(col.X), tone(col.Y), tone(col.Z)}
}

func mix(a, b Vector, t float32) Vector {
	return a.Add(b.Sub(a).Mul(t))
}

// tone compresses x with x/(x+1) and applies a 0.45 display gamma.
func tone(x float32) float32 {
	x = math32.Max(x, 0)
	return math32.Pow(x/(x+1), 0.45)
}

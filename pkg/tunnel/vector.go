package tunnel

import "github.com/chewxy/math32"

// Vector is a float32 3-vector. The tunnel layer is cheap enough that single
// precision is plenty.
type Vector struct {
	X, Y, Z float32
}

func (v Vector) Add(o Vector) Vector {
	return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector) Mul(s float32) Vector {
	return Vector{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	return v.Mul(1 / l)
}

// Abs returns the component-wise absolute value
func (v Vector) Abs() Vector {
	return Vector{math32.Abs(v.X), math32.Abs(v.Y), math32.Abs(v.Z)}
}

// MaxScalar returns the component-wise maximum with s
func (v Vector) MaxScalar(s float32) Vector {
	return Vector{math32.Max(v.X, s), math32.Max(v.Y, s), math32.Max(v.Z, s)}
}

// Wrap folds v into the cell of the given period centered on the origin,
// so each component lies in [-period/2, period/2).
func (v Vector) Wrap(period Vector) Vector {
	return Vector{
		floorMod(v.X+period.X*0.5, period.X) - period.X*0.5,
		floorMod(v.Y+period.Y*0.5, period.Y) - period.Y*0.5,
		floorMod(v.Z+period.Z*0.5, period.Z) - period.Z*0.5,
	}
}

// floorMod is x mod m with the sign of m, unlike math32.Mod.
func floorMod(x, m float32) float32 {
	return x - m*math32.Floor(x/m)
}

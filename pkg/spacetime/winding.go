package spacetime

import "github.com/df07/go-gargantua/pkg/core"

// WindingCounter approximates how many times a ray wraps around the mass.
// A wrap is counted when consecutive positions turn clockwise about +Y while
// the direction is turning the other way, inside WindingRadius. The heuristic
// can misfire for grazing rays; it only drives the Einstein ring brightness.
type WindingCounter struct {
	prev  core.Vec3
	count int
}

// NewWindingCounter starts counting from the ray origin.
func NewWindingCounter(origin core.Vec3) WindingCounter {
	return WindingCounter{prev: origin}
}

// Observe records the position p (radius r) reached with direction dir.
func (w *WindingCounter) Observe(p, dir core.Vec3, r float64) {
	if w.prev.Cross(p).Y < 0 && p.Subtract(w.prev).Cross(dir).Y > 0 && r < WindingRadius {
		w.count++
	}
	w.prev = p
}

// Count returns the number of wraps observed so far.
func (w *WindingCounter) Count() int {
	return w.count
}

package renderer

import (
	"github.com/df07/go-gargantua/pkg/core"
)

// ViewBasis is a pinhole camera looking from Origin toward a target. The
// image plane sits one unit along Forward and spans one unit vertically.
type ViewBasis struct {
	Origin  core.Vec3
	Forward core.Vec3
	Right   core.Vec3
	Up      core.Vec3
}

// NewViewBasis creates a camera at position looking at target. When the view
// is parallel to +Y the right vector falls back to +X.
func NewViewBasis(position, target core.Vec3) ViewBasis {
	forward := target.Subtract(position).Normalize()
	right := core.NewVec3(0, 1, 0).Cross(forward).Normalize()
	if right.IsZero() {
		right = core.NewVec3(1, 0, 0)
	}
	up := forward.Cross(right)

	return ViewBasis{
		Origin:  position,
		Forward: forward,
		Right:   right,
		Up:      up,
	}
}

// FragmentRay returns the ray through fragment (fx, fy), measured in pixels
// from the bottom-left corner of a width x height viewport.
func (b ViewBasis) FragmentRay(fx, fy, width, height float64) core.Ray {
	u := (fx - 0.5*width) / height
	v := (fy - 0.5*height) / height
	dir := b.Forward.Add(b.Right.Multiply(u)).Add(b.Up.Multiply(v)).Normalize()
	return core.NewRay(b.Origin, dir)
}

// PixelRay returns the ray through the center of image pixel (x, y), where
// row 0 is the top of the image.
func (b ViewBasis) PixelRay(x, y, width, height int) core.Ray {
	fx, fy := Fragment(x, y, height)
	return b.FragmentRay(fx, fy, float64(width), float64(height))
}

// Fragment converts an image pixel (row 0 at the top) to the coordinates of
// its center measured from the bottom-left corner.
func Fragment(x, y, height int) (fx, fy float64) {
	return float64(x) + 0.5, float64(height-1-y) + 0.5
}

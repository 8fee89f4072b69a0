package graph

import (
	"math"

	"github.com/chazu/csgpart/pkg/kernel"
)

// degenerateTolerance is the volume (or area, for flat primitives) below
// which a placement matrix is treated as collapsing the primitive.
const degenerateTolerance = 1e-12

// validateGeometry checks primitive placements.
func validateGeometry(d *Document) []ValidationError {
	var errs []ValidationError
	for _, n := range d.Nodes {
		if n.Inert() || !n.Kind.IsPrimitive() || n.Transform == nil {
			continue
		}
		m := *n.Transform
		if n.Kind == KindQuad || n.Kind == KindCircle {
			if planarArea(m) < degenerateTolerance {
				errs = append(errs, finding(d, n, SeverityError, "%q is placed with a matrix that flattens it to a line", n.Target().Local))
			}
			continue
		}
		det := m.Determinant()
		switch {
		case math.Abs(det) < degenerateTolerance:
			errs = append(errs, finding(d, n, SeverityError, "%q is placed with a singular matrix and has no volume", n.Target().Local))
		case det < 0:
			errs = append(errs, finding(d, n, SeverityWarning, "%q is placed with a mirroring matrix", n.Target().Local))
		}
	}
	return errs
}

// planarArea is the area scale the matrix applies to the XZ plane, where
// the flat primitives live.
func planarArea(m kernel.Matrix4) float64 {
	x := [3]float64{m.At(0, 0), m.At(1, 0), m.At(2, 0)}
	z := [3]float64{m.At(0, 2), m.At(1, 2), m.At(2, 2)}
	cx := x[1]*z[2] - x[2]*z[1]
	cy := x[2]*z[0] - x[0]*z[2]
	cz := x[0]*z[1] - x[1]*z[0]
	return math.Sqrt(cx*cx + cy*cy + cz*cz)
}

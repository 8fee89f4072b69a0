package bsp

import (
	"github.com/chazu/csgpart/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// shared is the per-face payload carried through every split.
type shared struct {
	colour  *kernel.Colour
	surface int
}

// polygon is a convex planar polygon. Pieces produced by splitting keep
// the plane of the polygon they came from.
type polygon struct {
	vertices []v3.Vec
	plane    plane
	shared   shared
}

func (p polygon) flip() polygon {
	vs := make([]v3.Vec, len(p.vertices))
	for i, v := range p.vertices {
		vs[len(vs)-1-i] = v
	}
	return polygon{vertices: vs, plane: p.plane.flip(), shared: p.shared}
}

func (p polygon) clone() polygon {
	return polygon{
		vertices: append([]v3.Vec(nil), p.vertices...),
		plane:    p.plane,
		shared:   p.shared,
	}
}

type plane struct {
	normal v3.Vec
	w      float64
}

func (p plane) flip() plane {
	return plane{normal: p.normal.MulScalar(-1), w: -p.w}
}

// newellPlane fits a plane to the vertex loop with Newell's method. ok is
// false for loops with no area.
func newellPlane(vs []v3.Vec) (plane, bool) {
	var n, c v3.Vec
	for i, cur := range vs {
		next := vs[(i+1)%len(vs)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
		c = c.Add(cur)
	}
	l := n.Length()
	if l == 0 || len(vs) < 3 {
		return plane{}, false
	}
	n = n.MulScalar(1 / l)
	c = c.MulScalar(1 / float64(len(vs)))
	return plane{normal: n, w: n.Dot(c)}, true
}

const (
	coplanar = 0
	front    = 1
	back     = 2
	spanning = 3
)

// splitPolygon sorts poly into the four buckets relative to p. Coplanar
// polygons go to coFront or coBack depending on their orientation.
func (p plane) splitPolygon(poly polygon, eps float64, coFront, coBack, fronts, backs *[]polygon) {
	polyType := 0
	types := make([]int, len(poly.vertices))
	for i, v := range poly.vertices {
		t := p.normal.Dot(v) - p.w
		typ := coplanar
		if t < -eps {
			typ = back
		} else if t > eps {
			typ = front
		}
		polyType |= typ
		types[i] = typ
	}

	switch polyType {
	case coplanar:
		if p.normal.Dot(poly.plane.normal) > 0 {
			*coFront = append(*coFront, poly)
		} else {
			*coBack = append(*coBack, poly)
		}
	case front:
		*fronts = append(*fronts, poly)
	case back:
		*backs = append(*backs, poly)
	case spanning:
		var f, b []v3.Vec
		n := len(poly.vertices)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			ti, tj := types[i], types[j]
			vi, vj := poly.vertices[i], poly.vertices[j]
			if ti != back {
				f = append(f, vi)
			}
			if ti != front {
				b = append(b, vi)
			}
			if ti|tj == spanning {
				t := (p.w - p.normal.Dot(vi)) / p.normal.Dot(vj.Sub(vi))
				v := vi.Add(vj.Sub(vi).MulScalar(t))
				f = append(f, v)
				b = append(b, v)
			}
		}
		if len(f) >= 3 {
			*fronts = append(*fronts, polygon{vertices: f, plane: poly.plane, shared: poly.shared})
		}
		if len(b) >= 3 {
			*backs = append(*backs, polygon{vertices: b, plane: poly.plane, shared: poly.shared})
		}
	}
}

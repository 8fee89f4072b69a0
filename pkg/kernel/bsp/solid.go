package bsp

import (
	"math"

	"github.com/chazu/csgpart/pkg/kernel"
)

var _ kernel.Solid = (*Solid)(nil)

// Solid is a boundary-represented solid: a bag of convex polygons.
type Solid struct {
	polygons []polygon
	faces    []kernel.Face
	compiled bool
}

func newSolid(polys []polygon) *Solid {
	return &Solid{polygons: polys}
}

// PolygonCount returns the number of convex polygons before triangulation.
func (s *Solid) PolygonCount() int {
	return len(s.polygons)
}

// BoundingBox returns the axis-aligned bounding box. An empty solid
// returns zero vectors.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	if len(s.polygons) == 0 {
		return min, max
	}
	min = [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range s.polygons {
		for _, v := range p.vertices {
			c := [3]float64{v.X, v.Y, v.Z}
			for i := range c {
				min[i] = math.Min(min[i], c[i])
				max[i] = math.Max(max[i], c[i])
			}
		}
	}
	return min, max
}

// Clone returns a deep copy, including any compiled faces.
func (s *Solid) Clone() kernel.Solid {
	c := &Solid{
		polygons: make([]polygon, len(s.polygons)),
		compiled: s.compiled,
	}
	for i, p := range s.polygons {
		c.polygons[i] = p.clone()
	}
	if s.faces != nil {
		c.faces = append([]kernel.Face(nil), s.faces...)
	}
	return c
}

// Compile fan-triangulates every polygon and drops slivers with no area.
func (s *Solid) Compile() {
	faces := make([]kernel.Face, 0, len(s.polygons)*2)
	for _, p := range s.polygons {
		for i := 1; i+1 < len(p.vertices); i++ {
			tri := kernel.Triangle{p.vertices[0], p.vertices[i], p.vertices[i+1]}
			if tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])).Length() == 0 {
				continue
			}
			faces = append(faces, kernel.Face{
				Triangle: tri,
				Colour:   p.shared.colour,
				Surface:  p.shared.surface,
			})
		}
	}
	s.faces = faces
	s.compiled = true
}

// ResultFaces returns the compiled triangles, compiling first if needed.
func (s *Solid) ResultFaces() []kernel.Face {
	if !s.compiled {
		s.Compile()
	}
	return s.faces
}

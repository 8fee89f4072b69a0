// Package mesh turns compiled solids into things outside the evaluator can
// use: flat render buffers, frozen triangle text for a part document, and
// re-serialized primitive directives.
package mesh

import (
	"fmt"

	"github.com/chazu/csgpart/pkg/kernel"
)

// inheritColour is drawn for faces that carry no colour of their own.
var inheritColour = kernel.DefaultPalette().Lookup(kernel.ColourInherit)

// ExtractMesh returns the drawable triangles of s. A nil solid yields nil.
func ExtractMesh(s kernel.Solid) []kernel.Face {
	if s == nil {
		return nil
	}
	faces := s.ResultFaces()
	out := make([]kernel.Face, len(faces))
	copy(out, faces)
	return out
}

// ToMesh converts a solid to flat render buffers in document units. Every
// triangle gets its own three vertices with the face normal and colour.
func ToMesh(s kernel.Solid, name string) (*kernel.Mesh, error) {
	if s == nil {
		return nil, fmt.Errorf("mesh: %s: %w", name, kernel.ErrEmptySolid)
	}
	faces := s.ResultFaces()
	numVerts := len(faces) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	colours := make([]float32, 0, numVerts*4)
	indices := make([]uint32, 0, numVerts)

	for i, f := range faces {
		n := f.Triangle.Normal()
		nx, ny, nz := float32(n.X), float32(n.Y), float32(n.Z)
		c := inheritColour
		if f.Colour != nil {
			c = *f.Colour
		}
		rgba := c.RGBA()

		for j := 0; j < 3; j++ {
			v := f.Triangle[j]
			vertices = append(vertices,
				float32(v.X/kernel.UnitScale),
				float32(v.Y/kernel.UnitScale),
				float32(v.Z/kernel.UnitScale))
			normals = append(normals, nx, ny, nz)
			colours = append(colours, rgba[:]...)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Colours:  colours,
		Indices:  indices,
		PartName: name,
	}, nil
}

// Package sdfx hands compiled solids to the github.com/deadsy/sdfx
// toolchain, mainly to write them as STL files.
package sdfx

import (
	"fmt"
	"os"

	"github.com/chazu/csgpart/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangles converts the faces of s to sdfx triangles in document units.
// Degenerate faces are dropped.
func Triangles(s kernel.Solid) ([]*sdf.Triangle3, error) {
	if s == nil {
		return nil, kernel.ErrEmptySolid
	}
	faces := s.ResultFaces()
	out := make([]*sdf.Triangle3, 0, len(faces))
	for _, f := range faces {
		if f.Triangle.Normal() == (v3.Vec{}) {
			continue
		}
		var t sdf.Triangle3
		for j, v := range f.Triangle {
			t[j] = v.DivScalar(kernel.UnitScale)
		}
		out = append(out, &t)
	}
	return out, nil
}

// Bounds returns the bounding box of s in document units.
func Bounds(s kernel.Solid) (sdf.Box3, error) {
	if s == nil {
		return sdf.Box3{}, kernel.ErrEmptySolid
	}
	lo, hi := s.BoundingBox()
	return sdf.Box3{
		Min: v3.Vec{X: lo[0], Y: lo[1], Z: lo[2]}.DivScalar(kernel.UnitScale),
		Max: v3.Vec{X: hi[0], Y: hi[1], Z: hi[2]}.DivScalar(kernel.UnitScale),
	}, nil
}

// SaveSTL writes s as a binary STL file at path.
func SaveSTL(path string, s kernel.Solid) error {
	tris, err := Triangles(s)
	if err != nil {
		return fmt.Errorf("sdfx: %s: %w", path, err)
	}
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: %s: %w", path, kernel.ErrEmptySolid)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

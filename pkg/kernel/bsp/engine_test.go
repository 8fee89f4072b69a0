package bsp

import (
	"errors"
	"testing"

	"github.com/chazu/csgpart/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func move(x, y, z float64) kernel.Matrix4 {
	return kernel.FromLDraw([12]float64{x, y, z, 1, 0, 0, 0, 1, 0, 0, 0, 1})
}

func build(t *testing.T, e *Engine, kind kernel.PrimitiveKind, m kernel.Matrix4, quality int) *Solid {
	t.Helper()
	s, err := e.Build(kernel.Primitive{Kind: kind, Transform: m}, quality)
	require.NoError(t, err)
	return s.(*Solid)
}

func TestBuildPrimitiveTopology(t *testing.T) {
	tests := []struct {
		kind      kernel.PrimitiveKind
		quality   int
		polygons  int
		triangles int
	}{
		{kernel.PrimQuad, 16, 1, 2},
		{kernel.PrimCircle, 8, 1, 6},
		{kernel.PrimCircle, 32, 1, 30},
		{kernel.PrimCuboid, 16, 6, 12},
		{kernel.PrimCylinder, 8, 10, 2*6 + 8*2},
		{kernel.PrimCone, 8, 9, 6 + 8},
		{kernel.PrimEllipsoid, 8, 32, 8*2 + 8*2*2},
		{kernel.PrimCircle, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			s := build(t, New(), tt.kind, kernel.Identity(), tt.quality)
			assert.Equal(t, tt.polygons, s.PolygonCount())
			assert.Len(t, s.ResultFaces(), tt.triangles)
		})
	}
}

func TestBuildUnknownPrimitive(t *testing.T) {
	_, err := New().Build(kernel.Primitive{Kind: kernel.PrimitiveKind(42), Transform: kernel.Identity()}, 16)
	require.ErrorIs(t, err, kernel.ErrUnknownPrimitive)
}

func TestBuildAppliesTransformAndColour(t *testing.T) {
	red := kernel.DefaultPalette().Lookup(4)
	s, err := New().Build(kernel.Primitive{
		Kind:      kernel.PrimCuboid,
		Colour:    &red,
		Transform: kernel.Scale(1000),
	}, 16)
	require.NoError(t, err)

	min, max := s.BoundingBox()
	assert.Equal(t, [3]float64{-1000, -1000, -1000}, min)
	assert.Equal(t, [3]float64{1000, 1000, 1000}, max)
	for _, f := range s.ResultFaces() {
		require.NotNil(t, f.Colour)
		assert.Equal(t, 4, f.Colour.Code)
	}
}

func TestBuildFacesPointOutward(t *testing.T) {
	mirror := kernel.FromLDraw([12]float64{0, 0, 0, -1, 0, 0, 0, 1, 0, 0, 0, 1})
	for name, m := range map[string]kernel.Matrix4{"identity": kernel.Identity(), "mirrored": mirror} {
		t.Run(name, func(t *testing.T) {
			s := build(t, New(), kernel.PrimCuboid, m, 16)
			for _, f := range s.ResultFaces() {
				c := f.Triangle[0].Add(f.Triangle[1]).Add(f.Triangle[2]).MulScalar(1.0 / 3)
				assert.Greater(t, f.Triangle.Normal().Dot(c), 0.0, "face %v points inward", f.Triangle)
			}
		})
	}
}

func TestSurfaceIdsAreUniquePerBuiltFace(t *testing.T) {
	e := New()
	a := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	b := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	seen := map[int]bool{}
	for _, s := range []*Solid{a, b} {
		for _, p := range s.polygons {
			assert.False(t, seen[p.shared.surface], "surface %d reused", p.shared.surface)
			seen[p.shared.surface] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestBooleanBoundingBoxes(t *testing.T) {
	e := New()
	a := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	// b spans x [0,2] and y, z [-2,2]; no face of b is coplanar with a.
	b := build(t, e, kernel.PrimCuboid, kernel.FromLDraw([12]float64{1, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 2}), 16)

	tests := []struct {
		name     string
		fn       func(a, b kernel.Solid) (kernel.Solid, error)
		min, max v3.Vec
	}{
		{"union", e.Union, v3.Vec{X: -1, Y: -2, Z: -2}, v3.Vec{X: 2, Y: 2, Z: 2}},
		{"difference", e.Difference, v3.Vec{X: -1, Y: -1, Z: -1}, v3.Vec{X: 0, Y: 1, Z: 1}},
		{"intersection", e.Intersection, v3.Vec{X: 0, Y: -1, Z: -1}, v3.Vec{X: 1, Y: 1, Z: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.fn(a, b)
			require.NoError(t, err)
			min, max := r.BoundingBox()
			assert.InDeltaSlice(t, []float64{tt.min.X, tt.min.Y, tt.min.Z}, min[:], 1e-9)
			assert.InDeltaSlice(t, []float64{tt.max.X, tt.max.Y, tt.max.Z}, max[:], 1e-9)
			assert.NotEmpty(t, r.ResultFaces())
		})
	}

	// Operands are left untouched.
	assert.Equal(t, 6, a.PolygonCount())
	assert.Equal(t, 6, b.PolygonCount())
}

func TestUnionOfDisjointSolidsKeepsAllFaces(t *testing.T) {
	e := New()
	a := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	b := build(t, e, kernel.PrimCuboid, move(5, 0, 0), 16)
	r, err := e.Union(a, b)
	require.NoError(t, err)
	assert.Equal(t, 12, r.(*Solid).PolygonCount())
}

func TestDisjointIntersectionIsEmpty(t *testing.T) {
	e := New()
	a := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	b := build(t, e, kernel.PrimCuboid, move(5, 0, 0), 16)
	r, err := e.Intersection(a, b)
	require.NoError(t, err)
	assert.Empty(t, r.ResultFaces())
	min, max := r.BoundingBox()
	assert.Equal(t, [3]float64{}, min)
	assert.Equal(t, [3]float64{}, max)
}

func TestSplitFacesKeepSurfaceAndColour(t *testing.T) {
	e := New()
	blue := kernel.DefaultPalette().Lookup(1)
	a, err := e.Build(kernel.Primitive{Kind: kernel.PrimCuboid, Colour: &blue, Transform: kernel.Identity()}, 16)
	require.NoError(t, err)
	b := build(t, e, kernel.PrimCuboid, move(1, 1, 1), 16)

	r, err := e.Difference(a, b)
	require.NoError(t, err)
	surfaces := map[int]bool{}
	for _, f := range r.ResultFaces() {
		surfaces[f.Surface] = true
		if f.Colour != nil {
			assert.Equal(t, 1, f.Colour.Code)
		}
	}
	// Three faces of a are cut and three faces of b line the notch.
	assert.Len(t, surfaces, 9)
}

func TestDepthLimitReportsUnboundedRecursion(t *testing.T) {
	e := New(WithMaxDepth(1))
	a := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	b := build(t, e, kernel.PrimCuboid, move(1, 0, 0), 16)

	_, err := e.Union(a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kernel.ErrUnboundedRecursion))
}

func TestForeignSolidIsRejected(t *testing.T) {
	e := New()
	a := build(t, e, kernel.PrimCuboid, kernel.Identity(), 16)
	_, err := e.Union(a, nil)
	require.Error(t, err)
	assert.False(t, errors.Is(err, kernel.ErrUnboundedRecursion))
}

func TestCloneIsIndependent(t *testing.T) {
	s := build(t, New(), kernel.PrimCuboid, kernel.Identity(), 16)
	c := s.Clone().(*Solid)
	c.polygons[0].vertices[0] = v3.Vec{X: 99}
	assert.NotEqual(t, v3.Vec{X: 99}, s.polygons[0].vertices[0])

	c.Compile()
	assert.True(t, c.compiled)
	assert.False(t, s.compiled)
}

func TestEpsilonSetter(t *testing.T) {
	e := New(WithEpsilon(0.5))
	assert.Equal(t, 0.5, e.Epsilon())
	e.SetEpsilon(-1)
	assert.Equal(t, 0.5, e.Epsilon())
	e.SetEpsilon(2)
	assert.Equal(t, 2.0, e.Epsilon())
}

package kernel

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

// --- Compile-time interface check with a stub engine ---

type stubSolid struct {
	faces []Face
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) { return }
func (s *stubSolid) Clone() Solid                         { return &stubSolid{faces: append([]Face(nil), s.faces...)} }
func (s *stubSolid) Compile()                             {}
func (s *stubSolid) ResultFaces() []Face                  { return s.faces }

type stubEngine struct{ eps float64 }

func (e *stubEngine) Build(p Primitive, _ int) (Solid, error) {
	return &stubSolid{faces: []Face{{Colour: p.Colour}}}, nil
}
func (e *stubEngine) Union(a, _ Solid) (Solid, error)        { return a, nil }
func (e *stubEngine) Difference(a, _ Solid) (Solid, error)   { return a, nil }
func (e *stubEngine) Intersection(a, _ Solid) (Solid, error) { return a, nil }
func (e *stubEngine) SetEpsilon(eps float64)                 { e.eps = eps }

var _ Solid = (*stubSolid)(nil)
var _ Engine = (*stubEngine)(nil)

func TestTriangleNormal(t *testing.T) {
	tri := Triangle{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	if n := tri.Normal(); n != (v3.Vec{X: 0, Y: 0, Z: 1}) {
		t.Errorf("Normal() = %v, want +Z", n)
	}
	degenerate := Triangle{{X: 0}, {X: 1}, {X: 2}}
	if n := degenerate.Normal(); n != (v3.Vec{}) {
		t.Errorf("degenerate Normal() = %v, want zero", n)
	}
}

func TestPrimitiveKindString(t *testing.T) {
	if PrimCone.String() != "cone" {
		t.Errorf("PrimCone.String() = %q", PrimCone.String())
	}
	if PrimitiveKind(99).String() != "PrimitiveKind(99)" {
		t.Errorf("unknown kind String() = %q", PrimitiveKind(99).String())
	}
}

package sdfx

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/csgpart/pkg/kernel"
	"github.com/chazu/csgpart/pkg/kernel/bsp"
)

func box(t *testing.T, size float64) kernel.Solid {
	t.Helper()
	m := kernel.Scale(kernel.UnitScale).Mul(kernel.Scale(size))
	s, err := bsp.New().Build(kernel.Primitive{Kind: kernel.PrimCuboid, Transform: m}, 16)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return s
}

func TestTriangles(t *testing.T) {
	tris, err := Triangles(box(t, 5))
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 12 {
		t.Fatalf("expected 12 triangles, got %d", len(tris))
	}
	for _, tri := range tris {
		for _, v := range tri {
			for _, c := range []float64{v.X, v.Y, v.Z} {
				if c != 5 && c != -5 {
					t.Fatalf("vertex %v is not in document units", v)
				}
			}
		}
	}
}

func TestBounds(t *testing.T) {
	bb, err := Bounds(box(t, 2))
	if err != nil {
		t.Fatal(err)
	}
	if bb.Min.X != -2 || bb.Max.Z != 2 {
		t.Errorf("bounds = %v", bb)
	}
	if _, err := Bounds(nil); !errors.Is(err, kernel.ErrEmptySolid) {
		t.Errorf("err = %v, want ErrEmptySolid", err)
	}
}

func TestSaveSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "box.stl")
	if err := SaveSTL(path, box(t, 1)); err != nil {
		t.Fatalf("SaveSTL failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Binary STL: 80 byte header, triangle count, 50 bytes per triangle.
	if len(data) != 84+12*50 {
		t.Fatalf("file size = %d, want %d", len(data), 84+12*50)
	}
	if n := binary.LittleEndian.Uint32(data[80:84]); n != 12 {
		t.Errorf("triangle count = %d, want 12", n)
	}
}

func TestSaveSTLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.stl")
	if err := SaveSTL(path, nil); !errors.Is(err, kernel.ErrEmptySolid) {
		t.Errorf("err = %v, want ErrEmptySolid", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written for a missing solid")
	}
}

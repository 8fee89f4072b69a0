// Package kernel defines the abstract boolean geometry engine the CSG
// evaluator drives. Implementations (see kernel/bsp) build primitive solids
// and combine them; the evaluator never looks inside a Solid beyond the
// methods declared here.
package kernel

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrUnboundedRecursion is the single failure the evaluation cache treats
// as recoverable: the engine recursed without terminating, usually on
// degenerate or near-coplanar input. Engines either return an error
// wrapping it or panic with one.
var ErrUnboundedRecursion = errors.New("kernel: unbounded recursion in boolean engine")

// ErrUnknownPrimitive is returned by Build for a kind the engine cannot make.
var ErrUnknownPrimitive = errors.New("kernel: unknown primitive")

// ErrEmptySolid is returned when geometry is requested from a missing solid.
var ErrEmptySolid = errors.New("kernel: no solid")

// UnitScale converts document units to the internal units solids are built
// in. Inlined text divides by it again.
const UnitScale = 1000.0

// PrimitiveKind enumerates the canonical unit primitives.
type PrimitiveKind int

const (
	PrimQuad PrimitiveKind = iota
	PrimCircle
	PrimEllipsoid
	PrimCuboid
	PrimCylinder
	PrimCone
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimQuad:
		return "quad"
	case PrimCircle:
		return "circle"
	case PrimEllipsoid:
		return "ellipsoid"
	case PrimCuboid:
		return "cuboid"
	case PrimCylinder:
		return "cylinder"
	case PrimCone:
		return "cone"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", int(k))
	}
}

// Primitive describes one unit primitive to build: which shape, the colour
// every generated face is tagged with (nil for no override), and the
// transform from unit space to internal space.
type Primitive struct {
	Kind      PrimitiveKind
	Colour    *Colour
	Transform Matrix4
}

// Triangle is three positions in internal units.
type Triangle [3]v3.Vec

// Normal returns the unit face normal, or the zero vector for a degenerate
// triangle.
func (t Triangle) Normal() v3.Vec {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	l := n.Length()
	if l == 0 {
		return v3.Vec{}
	}
	return n.MulScalar(1 / l)
}

// Face is one triangle of a compiled solid, tagged with the colour of the
// primitive it came from and the identity of its source surface.
type Face struct {
	Triangle Triangle
	Colour   *Colour
	Surface  int
}

// Solid is an opaque handle to an engine solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)

	// Clone returns an independent snapshot of the solid.
	Clone() Solid

	// Compile finalizes the internal triangulation. ResultFaces reflects
	// the compiled state.
	Compile()

	// ResultFaces returns the triangulated faces. It compiles on demand.
	ResultFaces() []Face
}

// Engine is the boolean engine contract the evaluator requires.
type Engine interface {
	// Build constructs the unit primitive at the given resolution, tags its
	// faces and applies the transform.
	Build(p Primitive, quality int) (Solid, error)

	// Boolean operations.
	Union(a, b Solid) (Solid, error)
	Difference(a, b Solid) (Solid, error)
	Intersection(a, b Solid) (Solid, error)

	// SetEpsilon sets the plane/point classification tolerance used by
	// subsequent operations.
	SetEpsilon(eps float64)
}

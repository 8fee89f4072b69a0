package graph

import (
	"fmt"

	"github.com/chazu/csgpart/pkg/kernel"
)

// Kind is the operation a CSG directive performs. It is fixed at parse
// time.
type Kind int

const (
	KindQuad Kind = iota
	KindCircle
	KindEllipsoid
	KindCuboid
	KindCylinder
	KindCone
	KindUnion
	KindIntersection
	KindDifference
	KindCompile
	KindSetQuality
	KindSetEpsilon
)

var kindTags = map[Kind]string{
	KindQuad:         "CSG_QUAD",
	KindCircle:       "CSG_CIRCLE",
	KindEllipsoid:    "CSG_ELLIPSOID",
	KindCuboid:       "CSG_CUBOID",
	KindCylinder:     "CSG_CYLINDER",
	KindCone:         "CSG_CONE",
	KindUnion:        "CSG_UNION",
	KindIntersection: "CSG_INTERSECTION",
	KindDifference:   "CSG_DIFFERENCE",
	KindCompile:      "CSG_COMPILE",
	KindSetQuality:   "CSG_QUALITY",
	KindSetEpsilon:   "CSG_EPSILON",
}

var tagKinds = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTags))
	for k, t := range kindTags {
		m[t] = k
	}
	return m
}()

func (k Kind) String() string {
	switch k {
	case KindQuad:
		return "quad"
	case KindCircle:
		return "circle"
	case KindEllipsoid:
		return "ellipsoid"
	case KindCuboid:
		return "cuboid"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindUnion:
		return "union"
	case KindIntersection:
		return "intersection"
	case KindDifference:
		return "difference"
	case KindCompile:
		return "compile"
	case KindSetQuality:
		return "quality"
	case KindSetEpsilon:
		return "epsilon"
	default:
		return "unknown"
	}
}

// Tag returns the directive tag written in documents, e.g. "CSG_UNION".
func (k Kind) Tag() string {
	return kindTags[k]
}

// ParseKind maps a directive tag to its kind.
func ParseKind(tag string) (Kind, bool) {
	k, ok := tagKinds[tag]
	return k, ok
}

// IsPrimitive reports whether k builds a unit primitive.
func (k Kind) IsPrimitive() bool {
	return k >= KindQuad && k <= KindCone
}

// IsBoolean reports whether k combines two solids.
func (k Kind) IsBoolean() bool {
	return k == KindUnion || k == KindIntersection || k == KindDifference
}

// Primitive returns the kernel primitive k builds. It panics for
// non-primitive kinds.
func (k Kind) Primitive() kernel.PrimitiveKind {
	switch k {
	case KindQuad:
		return kernel.PrimQuad
	case KindCircle:
		return kernel.PrimCircle
	case KindEllipsoid:
		return kernel.PrimEllipsoid
	case KindCuboid:
		return kernel.PrimCuboid
	case KindCylinder:
		return kernel.PrimCylinder
	case KindCone:
		return kernel.PrimCone
	}
	panic(fmt.Sprintf("graph: %v is not a primitive kind", k))
}

// TokenCount is the exact number of whitespace-separated tokens a
// directive of kind k has, including the three leading tag tokens.
func (k Kind) TokenCount() int {
	switch {
	case k.IsPrimitive():
		return 17
	case k.IsBoolean():
		return 6
	default:
		return 4
	}
}

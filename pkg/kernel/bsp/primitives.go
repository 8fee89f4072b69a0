package bsp

import (
	"math"

	"github.com/chazu/csgpart/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Unit primitives are generated as outward-wound vertex loops in document
// space. LDraw space is Y-down, so the flat shapes face -Y ("up").

const minSegments = 3

func segments(quality int) int {
	if quality < minSegments {
		return minSegments
	}
	return quality
}

func ring(n int, y float64, reverse bool) []v3.Vec {
	vs := make([]v3.Vec, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		idx := i
		if reverse {
			idx = n - 1 - i
		}
		vs[idx] = v3.Vec{X: math.Cos(a), Y: y, Z: math.Sin(a)}
	}
	return vs
}

func unitQuad() [][]v3.Vec {
	return [][]v3.Vec{{
		{X: -1, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: -1},
		{X: 1, Y: 0, Z: 1},
		{X: -1, Y: 0, Z: 1},
	}}
}

func unitCircle(quality int) [][]v3.Vec {
	return [][]v3.Vec{ring(segments(quality), 0, false)}
}

func unitCuboid() [][]v3.Vec {
	corner := func(i int) v3.Vec {
		v := v3.Vec{X: -1, Y: -1, Z: -1}
		if i&1 != 0 {
			v.X = 1
		}
		if i&2 != 0 {
			v.Y = 1
		}
		if i&4 != 0 {
			v.Z = 1
		}
		return v
	}
	var loops [][]v3.Vec
	for _, f := range [][4]int{
		{0, 4, 6, 2}, // -X
		{1, 3, 7, 5}, // +X
		{0, 1, 5, 4}, // -Y
		{2, 6, 7, 3}, // +Y
		{0, 2, 3, 1}, // -Z
		{4, 5, 7, 6}, // +Z
	} {
		loops = append(loops, []v3.Vec{corner(f[0]), corner(f[1]), corner(f[2]), corner(f[3])})
	}
	return loops
}

func unitCylinder(quality int) [][]v3.Vec {
	n := segments(quality)
	bottom := ring(n, 0, false)
	top := ring(n, 1, false)
	loops := [][]v3.Vec{bottom, ring(n, 1, true)}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		loops = append(loops, []v3.Vec{bottom[i], top[i], top[j], bottom[j]})
	}
	return loops
}

func unitCone(quality int) [][]v3.Vec {
	n := segments(quality)
	base := ring(n, 0, false)
	apex := v3.Vec{X: 0, Y: 1, Z: 0}
	loops := [][]v3.Vec{base}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		loops = append(loops, []v3.Vec{base[i], apex, base[j]})
	}
	return loops
}

func unitEllipsoid(quality int) [][]v3.Vec {
	slices := segments(quality)
	stacks := quality / 2
	if stacks < 2 {
		stacks = 2
	}
	vertex := func(i, j int) v3.Vec {
		theta := 2 * math.Pi * float64(i) / float64(slices)
		phi := math.Pi * float64(j) / float64(stacks)
		return v3.Vec{
			X: math.Cos(theta) * math.Sin(phi),
			Y: math.Cos(phi),
			Z: math.Sin(theta) * math.Sin(phi),
		}
	}
	var loops [][]v3.Vec
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			vs := []v3.Vec{vertex(i, j)}
			if j > 0 {
				vs = append(vs, vertex(i+1, j))
			}
			if j < stacks-1 {
				vs = append(vs, vertex(i+1, j+1))
			}
			vs = append(vs, vertex(i, j+1))
			loops = append(loops, vs)
		}
	}
	return loops
}

func unitLoops(kind kernel.PrimitiveKind, quality int) ([][]v3.Vec, bool) {
	switch kind {
	case kernel.PrimQuad:
		return unitQuad(), true
	case kernel.PrimCircle:
		return unitCircle(quality), true
	case kernel.PrimCuboid:
		return unitCuboid(), true
	case kernel.PrimCylinder:
		return unitCylinder(quality), true
	case kernel.PrimCone:
		return unitCone(quality), true
	case kernel.PrimEllipsoid:
		return unitEllipsoid(quality), true
	}
	return nil, false
}

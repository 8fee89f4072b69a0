// Package bsp implements kernel.Engine with binary space partitioning
// trees over convex polygons. Plane classification uses an adjustable
// epsilon and tree recursion is bounded; exceeding the bound is reported
// as kernel.ErrUnboundedRecursion instead of exhausting the stack.
package bsp

import (
	"fmt"

	"github.com/chazu/csgpart/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Engine = (*Engine)(nil)

const (
	// DefaultEpsilon is the classification tolerance in internal units.
	DefaultEpsilon = 1e-3
	// DefaultMaxDepth bounds BSP tree recursion.
	DefaultMaxDepth = 4096
)

// Engine builds and combines BSP solids. It is not safe for concurrent use.
type Engine struct {
	eps         float64
	maxDepth    int
	nextSurface int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth bounds the recursion depth of tree operations.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithEpsilon sets the initial classification tolerance.
func WithEpsilon(eps float64) Option {
	return func(e *Engine) {
		if eps > 0 {
			e.eps = eps
		}
	}
}

// New returns a new Engine.
func New(opts ...Option) *Engine {
	e := &Engine{eps: DefaultEpsilon, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Epsilon returns the current classification tolerance.
func (e *Engine) Epsilon() float64 {
	return e.eps
}

// SetEpsilon sets the classification tolerance for subsequent operations.
func (e *Engine) SetEpsilon(eps float64) {
	if eps > 0 {
		e.eps = eps
	}
}

// Build creates a unit primitive at the given quality, tags every face with
// the primitive's colour and a fresh surface id, and applies its transform.
func (e *Engine) Build(p kernel.Primitive, quality int) (kernel.Solid, error) {
	loops, ok := unitLoops(p.Kind, quality)
	if !ok {
		return nil, fmt.Errorf("bsp: build %v: %w", p.Kind, kernel.ErrUnknownPrimitive)
	}
	mirror := p.Transform.Determinant() < 0
	polys := make([]polygon, 0, len(loops))
	for _, loop := range loops {
		vs := make([]v3.Vec, len(loop))
		for i, v := range loop {
			vs[i] = p.Transform.MulPosition(v)
		}
		if mirror {
			for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
				vs[i], vs[j] = vs[j], vs[i]
			}
		}
		pl, ok := newellPlane(vs)
		if !ok {
			continue
		}
		e.nextSurface++
		polys = append(polys, polygon{
			vertices: vs,
			plane:    pl,
			shared:   shared{colour: p.Colour, surface: e.nextSurface},
		})
	}
	return newSolid(polys), nil
}

// Union returns a ∪ b.
func (e *Engine) Union(a, b kernel.Solid) (kernel.Solid, error) {
	return e.combine("union", a, b, func(o op, ta, tb *node) []func() error {
		return []func() error{
			func() error { return o.clipTo(ta, tb, 0) },
			func() error { return o.clipTo(tb, ta, 0) },
			func() error { return o.invert(tb, 0) },
			func() error { return o.clipTo(tb, ta, 0) },
			func() error { return o.invert(tb, 0) },
			func() error { return o.build(ta, allPolygons(tb, nil), 0) },
		}
	})
}

// Difference returns a − b.
func (e *Engine) Difference(a, b kernel.Solid) (kernel.Solid, error) {
	return e.combine("difference", a, b, func(o op, ta, tb *node) []func() error {
		return []func() error{
			func() error { return o.invert(ta, 0) },
			func() error { return o.clipTo(ta, tb, 0) },
			func() error { return o.clipTo(tb, ta, 0) },
			func() error { return o.invert(tb, 0) },
			func() error { return o.clipTo(tb, ta, 0) },
			func() error { return o.invert(tb, 0) },
			func() error { return o.build(ta, allPolygons(tb, nil), 0) },
			func() error { return o.invert(ta, 0) },
		}
	})
}

// Intersection returns a ∩ b.
func (e *Engine) Intersection(a, b kernel.Solid) (kernel.Solid, error) {
	return e.combine("intersection", a, b, func(o op, ta, tb *node) []func() error {
		return []func() error{
			func() error { return o.invert(ta, 0) },
			func() error { return o.clipTo(tb, ta, 0) },
			func() error { return o.invert(tb, 0) },
			func() error { return o.clipTo(ta, tb, 0) },
			func() error { return o.clipTo(tb, ta, 0) },
			func() error { return o.build(ta, allPolygons(tb, nil), 0) },
			func() error { return o.invert(ta, 0) },
		}
	})
}

// combine builds a tree per operand, runs the operation's steps in order
// and returns the polygons left in the first tree. Operands are copied, so
// a and b are never modified.
func (e *Engine) combine(name string, a, b kernel.Solid, steps func(o op, ta, tb *node) []func() error) (kernel.Solid, error) {
	sa, sb, err := unwrapPair(a, b)
	if err != nil {
		return nil, err
	}
	o := e.op()
	ta, err := o.newTree(cloneAll(sa.polygons))
	if err != nil {
		return nil, fmt.Errorf("bsp: %s: %w", name, err)
	}
	tb, err := o.newTree(cloneAll(sb.polygons))
	if err != nil {
		return nil, fmt.Errorf("bsp: %s: %w", name, err)
	}
	for _, step := range steps(o, ta, tb) {
		if err := step(); err != nil {
			return nil, fmt.Errorf("bsp: %s: %w", name, err)
		}
	}
	return newSolid(allPolygons(ta, nil)), nil
}

func (e *Engine) op() op {
	return op{eps: e.eps, maxDepth: e.maxDepth}
}

func cloneAll(polys []polygon) []polygon {
	out := make([]polygon, len(polys))
	for i, p := range polys {
		out[i] = p.clone()
	}
	return out
}

func unwrapPair(a, b kernel.Solid) (*Solid, *Solid, error) {
	sa, ok := a.(*Solid)
	if !ok {
		return nil, nil, fmt.Errorf("bsp: operand A is %T, not a bsp solid", a)
	}
	sb, ok := b.(*Solid)
	if !ok {
		return nil, nil, fmt.Errorf("bsp: operand B is %T, not a bsp solid", b)
	}
	return sa, sb, nil
}

package eval

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/csgpart/pkg/graph"
	"github.com/chazu/csgpart/pkg/kernel"
)

// BeginSweep starts a full traversal. If any node registered before the
// previous sweep was not visited by it, every cached solid is discarded,
// quality returns to its default and this sweep recomputes all nodes.
// Epsilon is left alone so a recursion backoff survives the rebuild.
func (c *Context) BeginSweep() {
	c.sweep++
	c.metrics.sweeps.Inc()

	stale := 0
	for id := range c.registered {
		if _, ok := c.parsed[id]; !ok {
			stale++
		}
	}
	c.deleteAndRecompile = stale > 0
	if c.deleteAndRecompile {
		c.clearSolids()
		c.registered = nodeSet{graph.Sentinel: {}}
		c.quality = c.defaultQuality
		c.metrics.flushes.Inc()
		c.logger.Debug("flushing solid cache",
			slog.Uint64("sweep", c.sweep),
			slog.Int("stale_nodes", stale))
	}
	c.parsed = nodeSet{}
}

// EndSweep closes the traversal. The visited set is kept for the check at
// the start of the next sweep.
func (c *Context) EndSweep() {
	c.logger.Debug("sweep done",
		slog.Uint64("sweep", c.sweep),
		slog.Int("nodes", len(c.parsed)),
		slog.Int("solids", len(c.solids)),
		slog.Bool("rebuilt", c.deleteAndRecompile))
}

// EnsureUpToDate visits n. Outside a rebuilding sweep it returns the
// node's previous result untouched; during one it recomputes the node. It
// returns the compiled solid for Compile nodes and nil for other kinds.
// A SetEpsilon node applies its value multiplied by the current backoff.
func (c *Context) EnsureUpToDate(n *graph.Node) kernel.Solid {
	if n == nil {
		return nil
	}
	c.parsed[n.ID] = struct{}{}
	if !c.deleteAndRecompile {
		return n.Compiled
	}
	delete(c.registered, graph.Sentinel)
	c.registered[n.ID] = struct{}{}
	if n.Inert() {
		return n.Compiled
	}

	if err := c.evaluate(n); err != nil {
		if errors.Is(err, kernel.ErrUnboundedRecursion) {
			c.recoverRecursion(n, err)
		} else {
			c.metrics.nodeErrors.Inc()
			c.logger.Warn("node evaluation failed",
				slog.String("node", n.ID.Short()),
				slog.String("kind", n.Kind.String()),
				slog.Int("line", n.Line),
				slog.String("error", err.Error()))
		}
	}
	return n.Compiled
}

// evaluate recomputes one node. A panic is converted to an error so one
// node cannot abort the sweep.
func (c *Context) evaluate(n *graph.Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("eval: panic in %s: %w", n.Kind, e)
			} else {
				err = fmt.Errorf("eval: panic in %s: %v", n.Kind, r)
			}
		}
	}()

	switch {
	case n.Kind.IsPrimitive():
		return c.buildPrimitive(n)
	case n.Kind.IsBoolean():
		return c.combine(n)
	case n.Kind == graph.KindCompile:
		c.compile(n)
	case n.Kind == graph.KindSetQuality:
		if n.Quality > 0 {
			c.quality = n.Quality
		}
	case n.Kind == graph.KindSetEpsilon:
		if n.Epsilon > 0 {
			c.epsilon = n.Epsilon * c.backoff
			c.engine.SetEpsilon(c.epsilon)
		}
	}
	return nil
}

func (c *Context) buildPrimitive(n *graph.Node) error {
	if n.Transform == nil {
		return nil
	}
	p := kernel.Primitive{
		Kind:      n.Kind.Primitive(),
		Colour:    n.Colour,
		Transform: kernel.Scale(kernel.UnitScale).Mul(*n.Transform),
	}
	c.metrics.primitiveBuilds.Inc()
	s, err := c.engine.Build(p, c.quality)
	if err != nil {
		return fmt.Errorf("eval: build %s %s: %w", n.Kind, n.Target(), err)
	}
	c.store(n.Target(), s)
	return nil
}

func (c *Context) combine(n *graph.Node) error {
	ka, kb, ok := n.Operands()
	if !ok {
		return nil
	}
	a, okA := c.solids[ka]
	b, okB := c.solids[kb]
	if !okA || !okB {
		c.logger.Debug("boolean operand missing",
			slog.String("dest", n.Target().String()),
			slog.Bool("a", okA),
			slog.Bool("b", okB))
		return nil
	}

	var (
		s   kernel.Solid
		err error
	)
	switch n.Kind {
	case graph.KindUnion:
		s, err = c.engine.Union(a, b)
	case graph.KindDifference:
		s, err = c.engine.Difference(a, b)
	case graph.KindIntersection:
		s, err = c.engine.Intersection(a, b)
	}
	c.metrics.booleanOps.WithLabelValues(n.Kind.String()).Inc()
	if err != nil {
		return fmt.Errorf("eval: %s %s: %w", n.Kind, n.Target(), err)
	}
	c.store(n.Target(), s)
	return nil
}

func (c *Context) compile(n *graph.Node) {
	s, ok := c.solids[n.Target()]
	if !ok {
		n.Compiled = nil
		return
	}
	snap := s.Clone()
	snap.Compile()
	n.Compiled = snap
}

// recoverRecursion discards everything and coarsens epsilon. The rest of
// the current sweep returns stale results; the sentinel left in the
// registered set forces the next sweep to rebuild.
func (c *Context) recoverRecursion(n *graph.Node, err error) {
	c.metrics.recursionFailures.Inc()
	c.clearSolids()
	c.registered = nodeSet{graph.Sentinel: {}}
	c.parsed = nodeSet{}
	c.deleteAndRecompile = false
	c.backoff *= c.backoffFactor
	c.epsilon *= c.backoffFactor
	c.engine.SetEpsilon(c.epsilon)
	c.logger.Error("boolean engine recursion, cache flushed",
		slog.String("node", n.ID.Short()),
		slog.Int("line", n.Line),
		slog.Float64("epsilon", c.epsilon),
		slog.String("error", err.Error()))
}

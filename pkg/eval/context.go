// Package eval is the evaluation cache: a single-writer memo table from
// reference key to solid that is rebuilt from scratch whenever the set of
// nodes it was built from changes.
//
// A Context is driven once per redraw:
//
//	ctx.BeginSweep()
//	for _, n := range doc.Nodes {
//		ctx.EnsureUpToDate(n)
//	}
//	ctx.EndSweep()
//
// Nodes register themselves when they are parsed (Context implements
// engine.Registrar). If a registered node is not visited by a sweep, the
// next sweep flushes every cached solid and recomputes all nodes.
//
// A Context is not safe for concurrent use.
package eval

import (
	"log/slog"
	"sort"

	"github.com/chazu/csgpart/pkg/graph"
	"github.com/chazu/csgpart/pkg/kernel"
	"github.com/prometheus/client_golang/prometheus"
)

// Defaults for the two tuning knobs and the epsilon backoff.
const (
	DefaultQuality       = 16
	DefaultEpsilon       = 1e-3
	DefaultBackoffFactor = 10.0
)

type nodeSet map[graph.NodeID]struct{}

// Context holds all evaluation state for one editing session.
type Context struct {
	engine  kernel.Engine
	logger  *slog.Logger
	metrics *metrics

	defaultQuality int
	defaultEpsilon float64
	backoffFactor  float64

	solids     map[graph.Key]kernel.Solid
	registered nodeSet
	parsed     nodeSet

	quality            int
	epsilon            float64
	backoff            float64
	deleteAndRecompile bool
	sweep              uint64
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegisterer registers the evaluation metrics on reg instead of a
// private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *Context) {
		if reg != nil {
			c.metrics = newMetrics(reg)
		}
	}
}

// WithQuality sets the quality restored by Reset.
func WithQuality(q int) Option {
	return func(c *Context) {
		if q > 0 {
			c.defaultQuality = q
		}
	}
}

// WithEpsilon sets the epsilon restored by Reset.
func WithEpsilon(eps float64) Option {
	return func(c *Context) {
		if eps > 0 {
			c.defaultEpsilon = eps
		}
	}
}

// WithBackoff sets the factor epsilon is multiplied by after an unbounded
// recursion failure.
func WithBackoff(factor float64) Option {
	return func(c *Context) {
		if factor > 1 {
			c.backoffFactor = factor
		}
	}
}

// New returns an empty context driving engine.
func New(engine kernel.Engine, opts ...Option) *Context {
	c := &Context{
		engine:         engine,
		logger:         slog.Default(),
		defaultQuality: DefaultQuality,
		defaultEpsilon: DefaultEpsilon,
		backoffFactor:  DefaultBackoffFactor,
	}
	for _, o := range opts {
		o(c)
	}
	if c.metrics == nil {
		c.metrics = newMetrics(prometheus.NewRegistry())
	}
	c.Reset()
	return c
}

// Reset discards all state and restores the default knobs.
func (c *Context) Reset() {
	c.solids = make(map[graph.Key]kernel.Solid)
	c.registered = nodeSet{}
	c.parsed = nodeSet{}
	c.quality = c.defaultQuality
	c.backoff = 1
	c.epsilon = c.defaultEpsilon
	c.deleteAndRecompile = false
	c.engine.SetEpsilon(c.epsilon)
	c.metrics.solids.Set(0)
}

// Register records a newly constructed node.
func (c *Context) Register(n *graph.Node) {
	if n != nil {
		c.registered[n.ID] = struct{}{}
	}
}

// Invalidate marks the cache dirty so the next sweep rebuilds everything.
func (c *Context) Invalidate() {
	c.registered[graph.Sentinel] = struct{}{}
}

// Lookup returns the cached solid for key.
func (c *Context) Lookup(key graph.Key) (kernel.Solid, bool) {
	s, ok := c.solids[key]
	return s, ok
}

// Quality returns the current tessellation quality.
func (c *Context) Quality() int { return c.quality }

// Epsilon returns the current numerical tolerance.
func (c *Context) Epsilon() float64 { return c.epsilon }

// DeleteAndRecompile reports whether the current sweep is rebuilding.
func (c *Context) DeleteAndRecompile() bool { return c.deleteAndRecompile }

// SolidCount returns the number of cached solids.
func (c *Context) SolidCount() int { return len(c.solids) }

// Sweep returns the number of sweeps started since New.
func (c *Context) Sweep() uint64 { return c.sweep }

// Registered returns the registered identities in a stable order.
func (c *Context) Registered() []graph.NodeID {
	ids := make([]graph.NodeID, 0, len(c.registered))
	for id := range c.registered {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (c *Context) clearSolids() {
	c.solids = make(map[graph.Key]kernel.Solid)
	c.metrics.solids.Set(0)
}

func (c *Context) store(key graph.Key, s kernel.Solid) {
	c.solids[key] = s
	c.metrics.solids.Set(float64(len(c.solids)))
}

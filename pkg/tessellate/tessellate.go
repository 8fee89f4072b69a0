// Package tessellate stands in for the render loop: it runs one evaluation
// sweep over a set of documents and produces one triangle mesh per compiled
// Compile directive.
package tessellate

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/csgpart/pkg/eval"
	"github.com/chazu/csgpart/pkg/graph"
	"github.com/chazu/csgpart/pkg/kernel"
	"github.com/chazu/csgpart/pkg/mesh"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("csgpart.tessellate")

// ErrNoContext is returned when Tessellate is called without an evaluation
// context.
var ErrNoContext = errors.New("tessellate: nil evaluation context")

// Tessellate visits every node of docs in order, exactly once, between
// BeginSweep and EndSweep. Documents are visited in the order given. Keys
// are scoped to their document, so a Compile only sees solids built by its
// own document. Compile nodes with
// no geometry produce no mesh. The sweep itself is never interrupted; ctx
// is only checked before it starts.
func Tessellate(ctx context.Context, ec *eval.Context, docs ...*graph.Document) ([]*kernel.Mesh, error) {
	if ec == nil {
		return nil, ErrNoContext
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	_, span := tracer.Start(ctx, "tessellate.Sweep",
		trace.WithAttributes(attribute.Int("csg.documents", len(docs))))
	defer span.End()

	var (
		meshes []*kernel.Mesh
		nodes  int
	)
	ec.BeginSweep()
	for _, d := range docs {
		if d == nil {
			continue
		}
		for _, n := range d.Nodes {
			nodes++
			solid := ec.EnsureUpToDate(n)
			if n.Kind != graph.KindCompile || solid == nil {
				continue
			}
			m, err := handleCompile(n, solid)
			if err != nil {
				ec.EndSweep()
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			meshes = append(meshes, m)
		}
	}
	ec.EndSweep()

	span.SetAttributes(
		attribute.Int("csg.nodes", nodes),
		attribute.Int("csg.meshes", len(meshes)),
		attribute.Bool("csg.rebuilt", ec.DeleteAndRecompile()),
		attribute.Int("csg.quality", ec.Quality()),
		attribute.Float64("csg.epsilon", ec.Epsilon()),
	)
	return meshes, nil
}

// handleCompile converts one compiled solid. The mesh is named after the
// key the Compile directive reads.
func handleCompile(n *graph.Node, solid kernel.Solid) (*kernel.Mesh, error) {
	m, err := mesh.ToMesh(solid, n.Target().String())
	if err != nil {
		return nil, fmt.Errorf("tessellate: line %d: %w", n.Line, err)
	}
	return m, nil
}

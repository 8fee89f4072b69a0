package mesh

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/csgpart/pkg/graph"
	"github.com/chazu/csgpart/pkg/kernel"
)

var (
	// ErrInertNode is returned for a node whose line did not parse.
	ErrInertNode = errors.New("mesh: node is inert")
	// ErrNotPrimitive is returned when re-inlining a non-primitive node.
	ErrNotPrimitive = errors.New("mesh: node is not a primitive")
)

const defaultMetaTag = "!LPE"

// ReinlineAsCommand re-emits a primitive directive placed by transform:
// the new matrix is transform applied after the node's own. The colour is
// written as the inherit code when it equals override.
func ReinlineAsCommand(n *graph.Node, override *kernel.Colour, transform kernel.Matrix4) (string, error) {
	if n == nil || n.Inert() || n.Transform == nil {
		return "", ErrInertNode
	}
	if !n.Kind.IsPrimitive() {
		return "", fmt.Errorf("%w: %s", ErrNotPrimitive, n.Kind)
	}

	tag := defaultMetaTag
	if f := strings.Fields(n.Source); len(f) > 1 {
		tag = f[1]
	}
	colour := strconv.Itoa(kernel.ColourInherit)
	if n.Colour != nil && (override == nil || !n.Colour.Equal(*override)) {
		colour = n.Colour.String()
	}

	fields := []string{"0", tag, n.Kind.Tag(), n.Target().Local, colour}
	for _, v := range transform.Mul(*n.Transform).LDraw() {
		fields = append(fields, FormatNumber(v))
	}
	return strings.Join(fields, " "), nil
}

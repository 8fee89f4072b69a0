package graph

import (
	"github.com/chazu/csgpart/pkg/kernel"
	"github.com/google/uuid"
)

// NodeID is the identity of one node object. Re-parsing a line yields a
// new node with a new identity even when the text is unchanged.
type NodeID uuid.UUID

// Sentinel is the reserved identity that marks a just-flushed cache. No
// node ever carries it.
var Sentinel = NodeID(uuid.Nil)

// NewNodeID returns a fresh random identity.
func NewNodeID() NodeID {
	return NodeID(uuid.New())
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight hex digits, for logs.
func (id NodeID) Short() string {
	return id.String()[:8]
}

// IsZero reports whether id is the sentinel.
func (id NodeID) IsZero() bool {
	return id == Sentinel
}

// Node is one CSG directive. Everything but Compiled is fixed at parse
// time; Compiled is owned by the node and filled in by the evaluator.
//
// Keys holds the reference keys by kind: primitives and Compile have one
// (the key they produce or consume), boolean ops have three (operand A,
// operand B, destination), SetQuality/SetEpsilon have one used only for
// display. A node whose line did not parse has no keys and is inert.
type Node struct {
	ID        NodeID
	Kind      Kind
	Source    string
	Line      int
	Keys      []Key
	Colour    *kernel.Colour
	Transform *kernel.Matrix4
	Quality   int     // staged value of a SetQuality node, 0 when invalid
	Epsilon   float64 // staged value of a SetEpsilon node, 0 when invalid

	Compiled kernel.Solid
}

// Inert reports whether the node failed to parse. Inert nodes never touch
// the cache and render as their source text.
func (n *Node) Inert() bool {
	return len(n.Keys) == 0
}

// Target is the key a primitive or boolean op writes, or the key a Compile
// node reads.
func (n *Node) Target() Key {
	if n.Inert() {
		return Key{}
	}
	return n.Keys[len(n.Keys)-1]
}

// Operands returns the two keys a boolean op reads.
func (n *Node) Operands() (a, b Key, ok bool) {
	if !n.Kind.IsBoolean() || len(n.Keys) != 3 {
		return Key{}, Key{}, false
	}
	return n.Keys[0], n.Keys[1], true
}

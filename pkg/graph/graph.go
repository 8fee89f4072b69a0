package graph

import "strings"

// Invalidator is told when a document's node set changes without a
// re-parse, so the next sweep rebuilds from scratch.
type Invalidator interface {
	Invalidate()
}

// Line is one line of a document. Node is nil for lines that are not CSG
// directives.
type Line struct {
	Number int
	Text   string
	Node   *Node
}

// Document is a part file as the evaluator sees it: every line in order and
// the CSG nodes among them in document order.
type Document struct {
	Name      string
	ShortName string
	Lines     []Line
	Nodes     []*Node
}

// NewDocument creates an empty document. The short name used in keys is
// derived from name.
func NewDocument(name string) *Document {
	return &Document{Name: name, ShortName: ShortName(name)}
}

// AddLine appends a line. A non-nil node is also appended to Nodes.
func (d *Document) AddLine(text string, n *Node) {
	d.Lines = append(d.Lines, Line{Number: len(d.Lines) + 1, Text: text, Node: n})
	if n != nil {
		d.Nodes = append(d.Nodes, n)
	}
}

// RemoveNode deletes the line holding n and tells inv, if any, that the
// node set shrank. It reports whether n was found.
func (d *Document) RemoveNode(n *Node, inv Invalidator) bool {
	found := false
	for i, l := range d.Lines {
		if l.Node == n {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false
	}
	for i, m := range d.Nodes {
		if m == n {
			d.Nodes = append(d.Nodes[:i], d.Nodes[i+1:]...)
			break
		}
	}
	for i := range d.Lines {
		d.Lines[i].Number = i + 1
	}
	if inv != nil {
		inv.Invalidate()
	}
	return true
}

// Lookup returns the last node in document order that writes the given
// local id, or nil.
func (d *Document) Lookup(local string) *Node {
	key := NewKey(local, d.ShortName)
	var found *Node
	for _, n := range d.Nodes {
		if n.Inert() || n.Kind == KindCompile || n.Kind == KindSetQuality || n.Kind == KindSetEpsilon {
			continue
		}
		if n.Target() == key {
			found = n
		}
	}
	return found
}

// Compiles returns the Compile nodes in document order.
func (d *Document) Compiles() []*Node {
	var out []*Node
	for _, n := range d.Nodes {
		if n.Kind == KindCompile {
			out = append(out, n)
		}
	}
	return out
}

// NodeCount returns the number of CSG nodes.
func (d *Document) NodeCount() int {
	return len(d.Nodes)
}

// Text returns the document content, one line per Line.
func (d *Document) Text() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

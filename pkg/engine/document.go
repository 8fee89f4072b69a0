package engine

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/csgpart/pkg/graph"
)

// maxLineLength bounds a single document line.
const maxLineLength = 1 << 20

// Registrar records every node as it is constructed. The evaluation context
// implements it.
type Registrar interface {
	Register(n *graph.Node)
}

// LoadDocument reads a part document line by line. Every line is kept;
// CSG directives become nodes and are registered with reg (which may be
// nil) in document order.
func (p *Parser) LoadDocument(name string, r io.Reader, reg Registrar) (*graph.Document, error) {
	d := graph.NewDocument(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for sc.Scan() {
		text := strings.TrimRight(sc.Text(), "\r")
		n := p.ParseLine(text, d.ShortName, len(d.Lines)+1)
		if n != nil && reg != nil {
			reg.Register(n)
		}
		d.AddLine(text, n)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("engine: read %s: %w", name, err)
	}
	return d, nil
}

// LoadString is LoadDocument over an in-memory source.
func (p *Parser) LoadString(name, source string, reg Registrar) (*graph.Document, error) {
	return p.LoadDocument(name, strings.NewReader(source), reg)
}

// Package engine turns the CSG directives of a part document into graph
// nodes. Parsing never fails: a malformed directive becomes an inert node
// that keeps its source text and takes no part in evaluation.
package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/chazu/csgpart/pkg/graph"
	"github.com/chazu/csgpart/pkg/kernel"
)

// DefaultMetaTag is the second token of every CSG directive.
const DefaultMetaTag = "!LPE"

// Quality values accepted by CSG_QUALITY lie strictly between these bounds.
const (
	minQualityExclusive = 0
	maxQualityExclusive = 49
)

// Parser builds nodes from tokenized directive lines.
type Parser struct {
	palette kernel.Palette
	metaTag string
}

// Option configures a Parser.
type Option func(*Parser)

// WithPalette sets the palette used to resolve colour codes.
func WithPalette(p kernel.Palette) Option {
	return func(ps *Parser) {
		if p != nil {
			ps.palette = p
		}
	}
}

// WithMetaTag overrides the directive meta tag.
func WithMetaTag(tag string) Option {
	return func(ps *Parser) {
		if tag != "" {
			ps.metaTag = tag
		}
	}
}

// NewParser returns a Parser with the default palette and meta tag.
func NewParser(opts ...Option) *Parser {
	p := &Parser{palette: kernel.DefaultPalette(), metaTag: DefaultMetaTag}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse builds a node with the default parser.
func Parse(tokens []string, owner string) *graph.Node {
	return defaultParser.Parse(tokens, owner)
}

// IsDirective reports whether tokens start with the three CSG tag tokens.
func (p *Parser) IsDirective(tokens []string) bool {
	if len(tokens) < 3 || tokens[0] != "0" || tokens[1] != p.metaTag {
		return false
	}
	_, ok := graph.ParseKind(tokens[2])
	return ok
}

// Parse builds the node for one directive owned by the document with the
// given short name. It returns nil if tokens is not a CSG directive at all.
// A directive with the wrong token count, an invalid id or an unparsable
// matrix yields an inert node. Out-of-range quality or epsilon values are
// dropped but the node stays registered for display.
func (p *Parser) Parse(tokens []string, owner string) *graph.Node {
	if !p.IsDirective(tokens) {
		return nil
	}
	kind, _ := graph.ParseKind(tokens[2])
	n := &graph.Node{
		ID:     graph.NewNodeID(),
		Kind:   kind,
		Source: strings.Join(tokens, " "),
	}
	if len(tokens) != kind.TokenCount() {
		return n
	}
	args := tokens[3:]

	switch {
	case kind.IsPrimitive():
		if !graph.ValidLocalID(args[0]) {
			return n
		}
		var v [12]float64
		for i := range v {
			f, err := parseFinite(args[2+i])
			if err != nil {
				return n
			}
			v[i] = f
		}
		m := kernel.FromLDraw(v)
		n.Transform = &m
		n.Colour = kernel.ParseColour(args[1], p.palette)
		n.Keys = []graph.Key{graph.NewKey(args[0], owner)}

	case kind.IsBoolean():
		for _, id := range args {
			if !graph.ValidLocalID(id) {
				return n
			}
		}
		n.Keys = []graph.Key{
			graph.NewKey(args[0], owner),
			graph.NewKey(args[1], owner),
			graph.NewKey(args[2], owner),
		}

	case kind == graph.KindCompile:
		if !graph.ValidLocalID(args[0]) {
			return n
		}
		n.Keys = []graph.Key{graph.NewKey(args[0], owner)}

	case kind == graph.KindSetQuality:
		if q, err := strconv.Atoi(args[0]); err == nil && q > minQualityExclusive && q < maxQualityExclusive {
			n.Quality = q
		}
		n.Keys = []graph.Key{graph.NewKey(args[0], owner)}

	case kind == graph.KindSetEpsilon:
		if e, err := parseFinite(args[0]); err == nil && e > 0 {
			n.Epsilon = e
		}
		n.Keys = []graph.Key{graph.NewKey(args[0], owner)}
	}
	return n
}

// ParseLine splits line on whitespace and parses it. The node keeps the
// line verbatim as its source.
func (p *Parser) ParseLine(line, owner string, number int) *graph.Node {
	n := p.Parse(strings.Fields(line), owner)
	if n != nil {
		n.Source = line
		n.Line = number
	}
	return n
}

func parseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

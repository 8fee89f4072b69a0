package mesh

import (
	"strconv"
	"strings"

	"github.com/chazu/csgpart/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Options controls Inline output.
type Options struct {
	// Edges also writes the cleaned surface boundaries as type-2 edge lines.
	Edges bool
}

// Inline freezes a compiled solid into part document text: one type-3
// triangle line per face, in document units, followed by edge lines when
// requested. Faces are written grouped by surface.
func Inline(s kernel.Solid, opts Options) string {
	var b strings.Builder
	for _, g := range groupBySurface(ExtractMesh(s)) {
		for _, f := range g.faces {
			b.WriteString("3 ")
			b.WriteString(colourToken(f.Colour))
			for _, v := range f.Triangle {
				writePoint(&b, v)
			}
			b.WriteByte('\n')
		}
	}
	if opts.Edges {
		edge := strconv.Itoa(kernel.ColourEdge)
		for _, l := range Boundaries(s) {
			for i, p := range l.Points {
				q := l.Points[(i+1)%len(l.Points)]
				b.WriteString("2 ")
				b.WriteString(edge)
				writePoint(&b, p)
				writePoint(&b, q)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func colourToken(c *kernel.Colour) string {
	if c == nil {
		return strconv.Itoa(kernel.ColourInherit)
	}
	return c.String()
}

func writePoint(b *strings.Builder, v v3.Vec) {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		b.WriteByte(' ')
		b.WriteString(FormatNumber(x / kernel.UnitScale))
	}
}

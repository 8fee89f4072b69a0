package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Record is one type-3 triangle line.
type Record struct {
	Colour   string
	Vertices [3]v3.Vec
}

// ReadTriangles reads the triangle lines of a part document. Other lines
// are skipped; a triangle line with the wrong number of fields or a bad
// number is an error.
func ReadTriangles(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		f := strings.Fields(sc.Text())
		if len(f) == 0 || f[0] != "3" {
			continue
		}
		if len(f) != 11 {
			return nil, fmt.Errorf("mesh: line %d: triangle has %d fields, want 11", line, len(f))
		}
		rec := Record{Colour: f[1]}
		var c [9]float64
		for i := range c {
			v, err := strconv.ParseFloat(f[2+i], 64)
			if err != nil {
				return nil, fmt.Errorf("mesh: line %d: %w", line, err)
			}
			c[i] = v
		}
		for i := range rec.Vertices {
			rec.Vertices[i] = v3.Vec{X: c[i*3], Y: c[i*3+1], Z: c[i*3+2]}
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mesh: read triangles: %w", err)
	}
	return out, nil
}

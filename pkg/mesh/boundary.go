package mesh

import (
	"math"

	"github.com/chazu/csgpart/pkg/kernel"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// collinearThreshold is compared with |d1-d2|² for the unit directions from
// a boundary vertex to its two neighbours. Opposite directions give 4.
const collinearThreshold = 3.999

// quantum is the grid vertices are snapped to when matching edges, in
// internal units.
const quantum = 1e-4

// Loop is one closed boundary of a surface group.
type Loop struct {
	Surface int
	Colour  *kernel.Colour
	Points  []v3.Vec
}

type vertexKey [3]int64

func keyOf(v v3.Vec) vertexKey {
	return vertexKey{
		int64(math.Round(v.X / quantum)),
		int64(math.Round(v.Y / quantum)),
		int64(math.Round(v.Z / quantum)),
	}
}

type edgeKey [2]vertexKey

func undirected(a, b vertexKey) edgeKey {
	if lessKey(b, a) {
		a, b = b, a
	}
	return edgeKey{a, b}
}

func lessKey(a, b vertexKey) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

type group struct {
	surface int
	colour  *kernel.Colour
	faces   []kernel.Face
}

// groupBySurface splits faces by surface id, in order of first appearance.
func groupBySurface(faces []kernel.Face) []*group {
	var groups []*group
	index := make(map[int]*group)
	for _, f := range faces {
		g, ok := index[f.Surface]
		if !ok {
			g = &group{surface: f.Surface, colour: f.Colour}
			index[f.Surface] = g
			groups = append(groups, g)
		}
		g.faces = append(g.faces, f)
	}
	return groups
}

// Boundaries returns the cleaned outer edges of every surface group of s.
// An edge is on the boundary when exactly one triangle of its group uses
// it. Vertices lying on the straight line between their neighbours are
// dropped. The interior is not re-triangulated.
func Boundaries(s kernel.Solid) []Loop {
	var loops []Loop
	for _, g := range groupBySurface(ExtractMesh(s)) {
		for _, pts := range boundaryLoops(g.faces) {
			pts = removeCollinear(pts)
			if len(pts) < 3 {
				continue
			}
			loops = append(loops, Loop{Surface: g.surface, Colour: g.colour, Points: pts})
		}
	}
	return loops
}

type directedEdge struct {
	from, to vertexKey
}

func boundaryLoops(faces []kernel.Face) [][]v3.Vec {
	uses := make(map[edgeKey]int)
	var edges []directedEdge
	pos := make(map[vertexKey]v3.Vec)
	for _, f := range faces {
		for i := 0; i < 3; i++ {
			a, b := f.Triangle[i], f.Triangle[(i+1)%3]
			ka, kb := keyOf(a), keyOf(b)
			if ka == kb {
				continue
			}
			pos[ka], pos[kb] = a, b
			uses[undirected(ka, kb)]++
			edges = append(edges, directedEdge{ka, kb})
		}
	}

	next := make(map[vertexKey][]int)
	var boundary []directedEdge
	for _, e := range edges {
		if uses[undirected(e.from, e.to)] == 1 {
			next[e.from] = append(next[e.from], len(boundary))
			boundary = append(boundary, e)
		}
	}

	used := make([]bool, len(boundary))
	var loops [][]v3.Vec
	for start := range boundary {
		if used[start] {
			continue
		}
		var pts []v3.Vec
		e := start
		for {
			used[e] = true
			pts = append(pts, pos[boundary[e].from])
			if boundary[e].to == boundary[start].from {
				break
			}
			e = nextUnused(next[boundary[e].to], used)
			if e < 0 {
				break
			}
		}
		loops = append(loops, pts)
	}
	return loops
}

func nextUnused(candidates []int, used []bool) int {
	for _, c := range candidates {
		if !used[c] {
			return c
		}
	}
	return -1
}

// removeCollinear drops vertices whose neighbours lie in opposite
// directions, and duplicate vertices, until none are left.
func removeCollinear(pts []v3.Vec) []v3.Vec {
	out := append([]v3.Vec(nil), pts...)
	for changed := true; changed && len(out) >= 3; {
		changed = false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			d1 := prev.Sub(out[i])
			d2 := next.Sub(out[i])
			if d1.Length() == 0 || d2.Length() == 0 {
				out = append(out[:i], out[i+1:]...)
				changed = true
				break
			}
			d := d1.Normalize().Sub(d2.Normalize())
			if d.Dot(d) > collinearThreshold {
				out = append(out[:i], out[i+1:]...)
				changed = true
				break
			}
		}
	}
	return out
}

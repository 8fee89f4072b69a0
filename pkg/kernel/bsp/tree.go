package bsp

import (
	"fmt"

	"github.com/chazu/csgpart/pkg/kernel"
)

// op carries the tolerances of one boolean operation through the tree
// recursion.
type op struct {
	eps      float64
	maxDepth int
}

func (o op) check(depth int) error {
	if depth > o.maxDepth {
		return fmt.Errorf("bsp tree deeper than %d: %w", o.maxDepth, kernel.ErrUnboundedRecursion)
	}
	return nil
}

// node is one level of a BSP tree. A node with a nil plane is empty.
type node struct {
	plane    *plane
	front    *node
	back     *node
	polygons []polygon
}

func (o op) newTree(polys []polygon) (*node, error) {
	n := &node{}
	if err := o.build(n, polys, 0); err != nil {
		return nil, err
	}
	return n, nil
}

// invert converts solid space to empty space and back.
func (o op) invert(n *node, depth int) error {
	if err := o.check(depth); err != nil {
		return err
	}
	for i, p := range n.polygons {
		n.polygons[i] = p.flip()
	}
	if n.plane != nil {
		f := n.plane.flip()
		n.plane = &f
	}
	if n.front != nil {
		if err := o.invert(n.front, depth+1); err != nil {
			return err
		}
	}
	if n.back != nil {
		if err := o.invert(n.back, depth+1); err != nil {
			return err
		}
	}
	n.front, n.back = n.back, n.front
	return nil
}

// clipPolygons removes the parts of polys that lie inside the solid n
// describes.
func (o op) clipPolygons(n *node, polys []polygon, depth int) ([]polygon, error) {
	if err := o.check(depth); err != nil {
		return nil, err
	}
	if n.plane == nil {
		return append([]polygon(nil), polys...), nil
	}
	var fronts, backs []polygon
	for _, p := range polys {
		n.plane.splitPolygon(p, o.eps, &fronts, &backs, &fronts, &backs)
	}
	var err error
	if n.front != nil {
		if fronts, err = o.clipPolygons(n.front, fronts, depth+1); err != nil {
			return nil, err
		}
	}
	if n.back != nil {
		if backs, err = o.clipPolygons(n.back, backs, depth+1); err != nil {
			return nil, err
		}
	} else {
		backs = nil
	}
	return append(fronts, backs...), nil
}

// clipTo removes every polygon of n that lies inside bsp.
func (o op) clipTo(n, bsp *node, depth int) error {
	if err := o.check(depth); err != nil {
		return err
	}
	var err error
	if n.polygons, err = o.clipPolygons(bsp, n.polygons, 0); err != nil {
		return err
	}
	if n.front != nil {
		if err := o.clipTo(n.front, bsp, depth+1); err != nil {
			return err
		}
	}
	if n.back != nil {
		if err := o.clipTo(n.back, bsp, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func allPolygons(n *node, out []polygon) []polygon {
	out = append(out, n.polygons...)
	if n.front != nil {
		out = allPolygons(n.front, out)
	}
	if n.back != nil {
		out = allPolygons(n.back, out)
	}
	return out
}

// build inserts polys into the tree rooted at n. The first polygon's plane
// becomes the splitting plane of a fresh node.
func (o op) build(n *node, polys []polygon, depth int) error {
	if len(polys) == 0 {
		return nil
	}
	if err := o.check(depth); err != nil {
		return err
	}
	if n.plane == nil {
		p := polys[0].plane
		n.plane = &p
	}
	var fronts, backs []polygon
	for _, p := range polys {
		n.plane.splitPolygon(p, o.eps, &n.polygons, &n.polygons, &fronts, &backs)
	}
	if len(fronts) > 0 {
		if n.front == nil {
			n.front = &node{}
		}
		if err := o.build(n.front, fronts, depth+1); err != nil {
			return err
		}
	}
	if len(backs) > 0 {
		if n.back == nil {
			n.back = &node{}
		}
		if err := o.build(n.back, backs, depth+1); err != nil {
			return err
		}
	}
	return nil
}

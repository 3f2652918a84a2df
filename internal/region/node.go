package region

import (
	"github.com/cenkalti/quad/internal/geometry"
)

// node owns four children indexed by geometry.Quadrant.
// A node is created undivided and subdivides on its first insert.
type node[T Point] struct {
	bounds   geometry.Rect
	opts     *Options
	depth    int
	divided  bool
	children [4]Region[T]
}

func newNode[T Point](r geometry.Rect, opts *Options, depth int) *node[T] {
	return &node[T]{
		bounds: r,
		opts:   opts,
		depth:  depth,
	}
}

func (n *node[T]) Bounds() geometry.Rect { return n.bounds }

func (n *node[T]) subdivide() {
	if n.divided {
		panic("region: node is already divided")
	}
	for _, q := range geometry.Quadrants {
		n.children[q] = newLeaf[T](n.bounds.Quarter(q), n.opts, n.depth+1)
	}
	n.divided = true
	n.opts.subdivided(n.bounds)
}

// quadrantOf returns the first quadrant, in routing priority order, containing p.
// p must be inside the node.
func (n *node[T]) quadrantOf(p T) geometry.Quadrant {
	for _, q := range geometry.Quadrants[:3] {
		if contains(n.children[q].Bounds(), p) {
			return q
		}
	}
	return geometry.SE
}

// Insert routes p into exactly one child. Points outside of the node are ignored.
func (n *node[T]) Insert(p T) Region[T] {
	if !contains(n.bounds, p) {
		return n
	}
	if !n.divided {
		n.subdivide()
	}
	q := n.quadrantOf(p)
	n.children[q] = n.children[q].Insert(p)
	return n
}

// InsertReplace uses the same routing as Insert, so a point on a shared edge
// replaces the contents of a single leaf.
func (n *node[T]) InsertReplace(p T, evicted Set[T]) Region[T] {
	if !n.divided || !contains(n.bounds, p) {
		return n
	}
	q := n.quadrantOf(p)
	n.children[q] = n.children[q].InsertReplace(p, evicted)
	return n
}

// Delete is sent to every child. If nothing is left under the node afterwards,
// an empty leaf is returned in its place.
func (n *node[T]) Delete(p T) Region[T] {
	if !n.divided {
		return newLeaf[T](n.bounds, n.opts, n.depth)
	}
	for _, q := range geometry.Quadrants {
		n.children[q] = n.children[q].Delete(p)
	}
	if !n.empty() {
		return n
	}
	n.children = [4]Region[T]{}
	n.divided = false
	n.opts.coalesced(n.bounds)
	return newLeaf[T](n.bounds, n.opts, n.depth)
}

// empty reports whether no point is stored below n.
// The walk stops at the first leaf holding a point.
func (n *node[T]) empty() bool {
	if !n.divided {
		return true
	}
	for _, c := range n.children {
		switch c := c.(type) {
		case *leaf[T]:
			if len(c.points) > 0 {
				return false
			}
		case *node[T]:
			if !c.empty() {
				return false
			}
		}
	}
	return true
}

func (n *node[T]) Find(p T) (T, bool) {
	if n.divided {
		for _, c := range n.children {
			if sp, ok := c.Find(p); ok {
				return sp, true
			}
		}
	}
	var zero T
	return zero, false
}

func (n *node[T]) CollectAll(s Set[T]) {
	if !n.divided {
		return
	}
	for _, c := range n.children {
		c.CollectAll(s)
	}
}

func (n *node[T]) CollectNear(x, y, radius float64, s Set[T]) {
	if !n.divided {
		return
	}
	for _, c := range n.children {
		if c.Bounds().OverlapsCircle(x, y, radius) {
			c.CollectNear(x, y, radius, s)
		}
	}
}

func (n *node[T]) Stats(st *Stats, depth int) {
	st.Nodes++
	if depth > st.Depth {
		st.Depth = depth
	}
	if !n.divided {
		return
	}
	for _, c := range n.children {
		c.Stats(st, depth+1)
	}
}

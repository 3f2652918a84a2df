// Package region implements the recursive structure of a point quadtree.
//
// A Region is either a leaf, which stores up to a fixed number of points, or a
// node, which owns four child regions covering the quadrants of its rectangle.
// Mutating methods return the Region that must replace the receiver in its
// parent. This is how a full leaf turns into a node and how an emptied node
// turns back into a leaf.
//
// Regions are not safe for concurrent use.
package region

import "github.com/cenkalti/quad/internal/geometry"

// Point is the constraint on values stored in the tree.
// Two points are the same point when they compare equal with ==.
type Point interface {
	comparable
	X() float64
	Y() float64
}

// Region is a rectangle of the index holding points directly or through children.
type Region[T Point] interface {
	// Bounds is fixed at construction.
	Bounds() geometry.Rect
	// Insert adds p and returns the region to store in place of the receiver.
	Insert(p T) Region[T]
	// InsertReplace makes p the only point of the leaf whose rectangle contains it.
	// Points dropped from that leaf are added to evicted.
	InsertReplace(p T, evicted Set[T]) Region[T]
	// Delete removes every stored point equal to p.
	Delete(p T) Region[T]
	// Find returns a stored point with the same coordinates as p.
	Find(p T) (T, bool)
	// CollectAll adds every stored point to s.
	CollectAll(s Set[T])
	// CollectNear adds every stored point within radius of (x, y) to s.
	CollectNear(x, y, radius float64, s Set[T])
	// Stats accumulates structural counters. depth is the depth of the receiver.
	Stats(st *Stats, depth int)
}

// Observer is notified about structural changes of the tree.
type Observer interface {
	Subdivided(r geometry.Rect)
	Coalesced(r geometry.Rect)
}

// Options are shared by every region of a tree.
type Options struct {
	// Maximum number of points in a leaf.
	Capacity int
	// Leaves at this depth do not subdivide. Bounds the recursion when more
	// than Capacity points share the same coordinates.
	MaxDepth int
	// Optional.
	Observer Observer
}

// Stats describes the shape of a tree.
type Stats struct {
	Points int
	Leaves int
	Nodes  int
	// Depth of the deepest region. A tree consisting of a single leaf has depth 0.
	Depth int
	// Largest number of points held by one leaf.
	MaxLeafPoints int
}

// DefaultMaxDepth is used when Options.MaxDepth is not set.
const DefaultMaxDepth = 32

// New returns an empty region covering r.
// It panics if opts.Capacity is less than 1.
func New[T Point](r geometry.Rect, opts Options) Region[T] {
	if opts.Capacity < 1 {
		panic("region: capacity must be positive")
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return newLeaf[T](r, &opts, 0)
}

func (o *Options) subdivided(r geometry.Rect) {
	if o.Observer != nil {
		o.Observer.Subdivided(r)
	}
}

func (o *Options) coalesced(r geometry.Rect) {
	if o.Observer != nil {
		o.Observer.Coalesced(r)
	}
}

func contains[T Point](r geometry.Rect, p T) bool {
	return r.ContainsPoint(p.X(), p.Y())
}

package region

import (
	"github.com/cenkalti/quad/internal/geometry"
)

// leaf holds points directly.
type leaf[T Point] struct {
	bounds geometry.Rect
	opts   *Options
	depth  int
	points []T
}

func newLeaf[T Point](r geometry.Rect, opts *Options, depth int) *leaf[T] {
	return &leaf[T]{
		bounds: r,
		opts:   opts,
		depth:  depth,
		points: make([]T, 0, opts.Capacity),
	}
}

func (l *leaf[T]) Bounds() geometry.Rect { return l.bounds }

// Insert appends p while there is room.
// When the leaf is full, a node over the same rectangle receives the stored
// points plus p, and the node is returned.
// A leaf at the maximum depth never splits and grows past the capacity instead.
func (l *leaf[T]) Insert(p T) Region[T] {
	if len(l.points) < l.opts.Capacity || l.depth >= l.opts.MaxDepth {
		l.points = append(l.points, p)
		return l
	}
	n := newNode[T](l.bounds, l.opts, l.depth)
	for _, sp := range l.points {
		n.Insert(sp)
	}
	n.Insert(p)
	l.points = nil
	return n
}

func (l *leaf[T]) InsertReplace(p T, evicted Set[T]) Region[T] {
	if !contains(l.bounds, p) {
		return l
	}
	for _, sp := range l.points {
		if sp != p {
			evicted.Add(sp)
		}
	}
	l.points = l.points[:0]
	l.points = append(l.points, p)
	return l
}

func (l *leaf[T]) Delete(p T) Region[T] {
	kept := l.points[:0]
	for _, sp := range l.points {
		if sp != p {
			kept = append(kept, sp)
		}
	}
	var zero T
	for i := len(kept); i < len(l.points); i++ {
		l.points[i] = zero
	}
	l.points = kept
	return l
}

// Find compares coordinates, not point identity.
func (l *leaf[T]) Find(p T) (T, bool) {
	for _, sp := range l.points {
		if sp.X() == p.X() && sp.Y() == p.Y() {
			return sp, true
		}
	}
	var zero T
	return zero, false
}

func (l *leaf[T]) CollectAll(s Set[T]) {
	for _, sp := range l.points {
		s.Add(sp)
	}
}

func (l *leaf[T]) CollectNear(x, y, radius float64, s Set[T]) {
	for _, sp := range l.points {
		if geometry.Distance(sp.X(), sp.Y(), x, y) <= radius {
			s.Add(sp)
		}
	}
}

func (l *leaf[T]) Stats(st *Stats, depth int) {
	st.Leaves++
	st.Points += len(l.points)
	if depth > st.Depth {
		st.Depth = depth
	}
	if len(l.points) > st.MaxLeafPoints {
		st.MaxLeafPoints = len(l.points)
	}
}

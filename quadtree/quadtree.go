// Package quadtree provides a spatial index of points inside a fixed rectangle.
//
// Points are kept in a region quadtree: a leaf stores up to Config.Capacity
// points and is split into four quadrants when it overflows. Quadrants that
// become empty after deletions are merged back.
//
// Quadtree is not safe for concurrent use. Guard it with a single lock if it is
// shared between goroutines.
package quadtree

import (
	"github.com/cenkalti/quad/internal/geometry"
	"github.com/cenkalti/quad/internal/logger"
	"github.com/cenkalti/quad/internal/region"
	"github.com/pkg/errors"
)

// ErrOutOfBounds is returned when a point outside of the domain is inserted.
// Use Contains to check a point in advance.
var ErrOutOfBounds = errors.New("point out of bounds")

// Point can be stored in a Quadtree.
// Points are compared with ==, so two points with the same coordinates may
// be different points.
type Point = region.Point

// Rect is a closed axis-aligned rectangle with the y-axis growing upwards.
type Rect = geometry.Rect

// NewRect returns the rectangle between the top-left and bottom-right corners.
func NewRect(topLeftX, topLeftY, bottomRightX, bottomRightY float64) Rect {
	return geometry.NewRect(topLeftX, topLeftY, bottomRightX, bottomRightY)
}

// Distance returns the Euclidean distance between two coordinates.
func Distance(x1, y1, x2, y2 float64) float64 {
	return geometry.Distance(x1, y1, x2, y2)
}

// Quadtree is a point index over a fixed domain.
type Quadtree[T Point] struct {
	config   Config
	bounds   Rect
	root     region.Region[T]
	counters counters
	log      logger.Logger
}

// Stats about the shape of the tree.
type Stats struct {
	Points        int
	Leaves        int
	Nodes         int
	Depth         int
	MaxLeafPoints int
	// Number of times a leaf was split since the tree was created.
	Subdivisions int64
	// Number of times an emptied node was merged back into a leaf.
	Coalesces int64
}

// New returns an empty Quadtree covering cfg.Domain.
func New[T Point](cfg Config) (*Quadtree[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid quadtree config")
	}
	q := &Quadtree[T]{
		config: cfg,
		bounds: cfg.Domain.Rect(),
		log:    logger.New("quadtree"),
	}
	q.counters.log = q.log
	q.root = region.New[T](q.bounds, region.Options{
		Capacity: cfg.Capacity,
		MaxDepth: cfg.MaxDepth,
		Observer: &q.counters,
	})
	return q, nil
}

// Config returns the configuration the tree was created with.
func (q *Quadtree[T]) Config() Config { return q.config }

// Bounds returns the domain of the tree.
func (q *Quadtree[T]) Bounds() Rect { return q.bounds }

// Contains returns true if a point at (x, y) can be inserted.
func (q *Quadtree[T]) Contains(x, y float64) bool {
	return q.bounds.ContainsPoint(x, y)
}

// Insert adds p to the tree.
// A point at the same location as a stored point does not replace it.
func (q *Quadtree[T]) Insert(p T) error {
	if !q.Contains(p.X(), p.Y()) {
		q.log.Debugf("rejected point (%g, %g)", p.X(), p.Y())
		return errors.Wrapf(ErrOutOfBounds, "cannot insert (%g, %g)", p.X(), p.Y())
	}
	q.root = q.root.Insert(p)
	return nil
}

// InsertReplace stores p as the only point of the leaf covering its location.
// Every other point in that leaf is removed from the tree and returned.
func (q *Quadtree[T]) InsertReplace(p T) ([]T, error) {
	if !q.Contains(p.X(), p.Y()) {
		q.log.Debugf("rejected point (%g, %g)", p.X(), p.Y())
		return nil, errors.Wrapf(ErrOutOfBounds, "cannot insert (%g, %g)", p.X(), p.Y())
	}
	evicted := region.NewSet[T]()
	q.root = q.root.InsertReplace(p, evicted)
	return evicted.Slice(), nil
}

// Delete removes every stored point equal to p. Deleting a missing point is a no-op.
func (q *Quadtree[T]) Delete(p T) {
	q.root = q.root.Delete(p)
}

// Find returns a stored point with the same coordinates as p.
func (q *Quadtree[T]) Find(p T) (T, bool) {
	return q.root.Find(p)
}

// All returns every stored point in unspecified order.
func (q *Quadtree[T]) All() []T {
	s := region.NewSet[T]()
	q.root.CollectAll(s)
	return s.Slice()
}

// Near returns the points whose distance to (x, y) is less than or equal to radius,
// in unspecified order.
func (q *Quadtree[T]) Near(x, y, radius float64) []T {
	s := region.NewSet[T]()
	q.root.CollectNear(x, y, radius, s)
	return s.Slice()
}

// Stats walks the tree and returns its current shape.
func (q *Quadtree[T]) Stats() Stats {
	var st region.Stats
	q.root.Stats(&st, 0)
	return Stats{
		Points:        st.Points,
		Leaves:        st.Leaves,
		Nodes:         st.Nodes,
		Depth:         st.Depth,
		MaxLeafPoints: st.MaxLeafPoints,
		Subdivisions:  q.counters.subdivisions,
		Coalesces:     q.counters.coalesces,
	}
}

// counters receives structural changes from the regions.
type counters struct {
	subdivisions int64
	coalesces    int64
	log          logger.Logger
}

func (c *counters) Subdivided(r Rect) {
	c.subdivisions++
	c.log.Debugln("subdivided", r.String())
}

func (c *counters) Coalesced(r Rect) {
	c.coalesces++
	c.log.Debugln("coalesced", r.String())
}

// Package geometry provides the planar predicates used to route points through the quadtree.
package geometry

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Rect is a closed axis-aligned rectangle.
// The y-axis grows upwards, so the top-left corner has the largest y value.
type Rect struct {
	r r2.Rect
}

// NewRect returns the rectangle spanned by the top-left and bottom-right corners.
func NewRect(topLeftX, topLeftY, bottomRightX, bottomRightY float64) Rect {
	return Rect{r: r2.Rect{
		X: r1.Interval{Lo: topLeftX, Hi: bottomRightX},
		Y: r1.Interval{Lo: bottomRightY, Hi: topLeftY},
	}}
}

func (r Rect) Left() float64   { return r.r.X.Lo }
func (r Rect) Right() float64  { return r.r.X.Hi }
func (r Rect) Top() float64    { return r.r.Y.Hi }
func (r Rect) Bottom() float64 { return r.r.Y.Lo }

// Width of the rectangle.
func (r Rect) Width() float64 { return r.r.X.Length() }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.r.Y.Length() }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() (x, y float64) {
	c := r.r.Center()
	return c.X, c.Y
}

// Valid reports whether left <= right and bottom <= top and no coordinate is NaN or infinite.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.Left(), r.Right(), r.Top(), r.Bottom()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Left() <= r.Right() && r.Bottom() <= r.Top()
}

// ContainsPoint is inclusive on all four edges.
// Points on an edge shared by two quadrants are contained by both of them.
func (r Rect) ContainsPoint(x, y float64) bool {
	return r.r.ContainsPoint(r2.Point{X: x, Y: y})
}

// OverlapsCircle reports whether the circle centered at (cx, cy) with radius
// touches the rectangle.
func (r Rect) OverlapsCircle(cx, cy, radius float64) bool {
	centerX, centerY := r.Center()
	halfW := r.Width() / 2
	halfH := r.Height() / 2
	dx := math.Abs(cx - centerX)
	dy := math.Abs(cy - centerY)

	if dx > halfW+radius {
		return false
	}
	if dy > halfH+radius {
		return false
	}

	if dx <= halfW {
		return true
	}
	if dy <= halfH {
		return true
	}

	cornerX := dx - halfW
	cornerY := dy - halfH
	return cornerX*cornerX+cornerY*cornerY <= radius*radius
}

// Quarter returns the quadrant q of the rectangle, split at the midpoint of
// its width and height. The four quarters share their inner edges.
func (r Rect) Quarter(q Quadrant) Rect {
	midX, midY := r.Center()
	switch q {
	case NW:
		return NewRect(r.Left(), r.Top(), midX, midY)
	case NE:
		return NewRect(midX, r.Top(), r.Right(), midY)
	case SW:
		return NewRect(r.Left(), midY, midX, r.Bottom())
	case SE:
		return NewRect(midX, midY, r.Right(), r.Bottom())
	}
	panic(fmt.Sprintf("invalid quadrant: %d", q))
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Left(), r.Top(), r.Right(), r.Bottom())
}

// Distance returns the Euclidean distance between (x1, y1) and (x2, y2).
func Distance(x1, y1, x2, y2 float64) float64 {
	return r2.Point{X: x1, Y: y1}.Sub(r2.Point{X: x2, Y: y2}).Norm()
}

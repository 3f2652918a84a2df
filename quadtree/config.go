package quadtree

import (
	"github.com/pkg/errors"
)

// Config for Quadtree.
type Config struct {
	// Maximum number of points held by a leaf before it is split into four quadrants.
	Capacity int `yaml:"capacity"`
	// Leaves at this depth are never split. Only matters when more than
	// Capacity points share the same location.
	MaxDepth int `yaml:"max_depth"`
	// Points outside of the domain are rejected with ErrOutOfBounds.
	Domain Domain `yaml:"domain"`
}

// Domain is the rectangle covered by the index.
// Top must be greater than or equal to Bottom.
type Domain struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
}

// DefaultConfig for Quadtree.
var DefaultConfig = Config{
	Capacity: 4,
	MaxDepth: 32,
	Domain: Domain{
		Left:   0,
		Top:    100,
		Right:  100,
		Bottom: 0,
	},
}

// Rect returns the domain as a rectangle.
func (d Domain) Rect() Rect {
	return NewRect(d.Left, d.Top, d.Right, d.Bottom)
}

// Validate returns an error describing the first invalid field.
func (c Config) Validate() error {
	if c.Capacity < 1 {
		return errors.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.MaxDepth < 1 {
		return errors.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if r := c.Domain.Rect(); !r.Valid() {
		return errors.Errorf("invalid domain: %s", r)
	}
	return nil
}

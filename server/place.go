package server

import (
	"github.com/gofrs/uuid"
)

// Place is a named point stored in the index.
// Places are compared by value, so two places at the same location are different points.
type Place struct {
	ID       uuid.UUID
	Name     string
	Location Location
}

// Location in the coordinate system of the index.
type Location struct {
	X, Y float64
}

func (p Place) X() float64 { return p.Location.X }
func (p Place) Y() float64 { return p.Location.Y }

// Neighbor is a place returned from a proximity query.
type Neighbor struct {
	Place    Place
	Distance float64
}

package geometry

// Quadrant identifies one of the four equal partitions of a rectangle.
type Quadrant int

// Quadrants in routing priority order.
// A point on a shared edge belongs to the first quadrant in this order that contains it.
const (
	NW Quadrant = iota
	NE
	SW
	SE
)

// Quadrants lists every quadrant in routing priority order.
var Quadrants = [4]Quadrant{NW, NE, SW, SE}

var quadrantNames = [4]string{"NW", "NE", "SW", "SE"}

func (q Quadrant) String() string {
	if q < NW || q > SE {
		return "invalid"
	}
	return quadrantNames[q]
}

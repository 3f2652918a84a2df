package server

import (
	"bytes"

	"github.com/cenkalti/quad/quadtree"
	"github.com/google/btree"
)

type neighborItem Neighbor

var _ btree.Item = (*neighborItem)(nil)

// Less orders by distance, then by ID to keep places at equal distance apart.
func (n *neighborItem) Less(than btree.Item) bool {
	o := than.(*neighborItem)
	if n.Distance != o.Distance {
		return n.Distance < o.Distance
	}
	return bytes.Compare(n.Place.ID[:], o.Place.ID[:]) < 0
}

// nearest sorts places by their distance to (x, y) and keeps the closest limit of them.
func nearest(places []Place, x, y float64, limit int) []Neighbor {
	t := btree.New(2)
	for _, p := range places {
		t.ReplaceOrInsert(&neighborItem{
			Place:    p,
			Distance: quadtree.Distance(p.X(), p.Y(), x, y),
		})
		if limit > 0 && t.Len() > limit {
			t.DeleteMax()
		}
	}
	ret := make([]Neighbor, 0, t.Len())
	t.Ascend(func(i btree.Item) bool {
		ret = append(ret, Neighbor(*i.(*neighborItem)))
		return true
	})
	return ret
}

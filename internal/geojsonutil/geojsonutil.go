// Package geojsonutil converts places to and from GeoJSON feature collections.
// The X coordinate of a place is the first position element.
package geojsonutil

import (
	"encoding/json"

	"github.com/pkg/errors"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Feature is a named point.
type Feature struct {
	ID   string
	Name string
	X, Y float64
}

// Encode returns features as a GeoJSON FeatureCollection of Points.
// Names are stored in the "name" property.
func Encode(features []Feature) ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(features))}
	for _, f := range features {
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         f.ID,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{f.X, f.Y}),
			Properties: map[string]interface{}{"name": f.Name},
		})
	}
	return json.Marshal(&fc)
}

// Decode parses a GeoJSON FeatureCollection. Every feature must have a Point geometry.
func Decode(b []byte) ([]Feature, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, errors.Wrap(err, "cannot parse feature collection")
	}
	ret := make([]Feature, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil {
			return nil, errors.Errorf("feature %d is null", i)
		}
		p, ok := f.Geometry.(*geom.Point)
		if !ok {
			return nil, errors.Errorf("feature %d: geometry is %T, not a point", i, f.Geometry)
		}
		if len(p.FlatCoords()) < 2 {
			return nil, errors.Errorf("feature %d: point has no coordinates", i)
		}
		name, _ := f.Properties["name"].(string)
		ret = append(ret, Feature{ID: f.ID, Name: name, X: p.X(), Y: p.Y()})
	}
	return ret, nil
}

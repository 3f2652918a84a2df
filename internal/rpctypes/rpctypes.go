package rpctypes

import (
	"encoding/json"
	"time"
)

type Place struct {
	ID   string
	Name string
	X    float64
	Y    float64
}

type Neighbor struct {
	Place    Place
	Distance float64
}

type TreeStats struct {
	Points        int
	Leaves        int
	Nodes         int
	Depth         int
	MaxLeafPoints int
	Subdivisions  int64
	Coalesces     int64
}

type Stats struct {
	Places    int
	StartedAt Time `structs:",omitnested"`
	Uptime    int
	Tree      TreeStats
}

type AddPlaceRequest struct {
	Name string
	X    float64
	Y    float64
}

type AddPlaceResponse struct {
	Place Place
}

type ReplacePlaceRequest struct {
	Name string
	X    float64
	Y    float64
}

type ReplacePlaceResponse struct {
	Place   Place
	Evicted []Place
}

type RemovePlaceRequest struct {
	ID string
}

type RemovePlaceResponse struct{}

type GetPlaceRequest struct {
	ID string
}

type GetPlaceResponse struct {
	Place Place
}

type FindAtRequest struct {
	X float64
	Y float64
}

type FindAtResponse struct {
	Found bool
	Place Place
}

type NearRequest struct {
	X      float64
	Y      float64
	Radius float64
	// Zero means no limit.
	Limit int
}

type NearResponse struct {
	Neighbors []Neighbor
}

type ListPlacesRequest struct{}

type ListPlacesResponse struct {
	Places []Place
}

type GetStatsRequest struct{}

type GetStatsResponse struct {
	Stats Stats
}

type GetMetricsRequest struct{}

type GetMetricsResponse struct {
	Metrics map[string]map[string]any
}

// Time is a wrapper around time.Time. Serialized as RFC3339 string.
type Time struct {
	time.Time
}

var (
	_ json.Marshaler   = (*Time)(nil)
	_ json.Unmarshaler = (*Time)(nil)
)

// MarshalJSON converts the time into RFC3339 string.
func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}

// UnmarshalJSON sets the time from a RFC3339 string.
func (t *Time) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err != nil {
		return err
	}
	t2, err := time.Parse(time.RFC3339, s)
	t.Time = t2
	return err
}

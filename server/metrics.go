package server

import (
	"time"

	"github.com/cenkalti/quad/quadtree"
	"github.com/rcrowley/go-metrics"
)

type serverMetrics struct {
	registry metrics.Registry

	Places          metrics.Gauge
	Leaves          metrics.Gauge
	Nodes           metrics.Gauge
	Depth           metrics.Gauge
	Subdivisions    metrics.Gauge
	Coalesces       metrics.Gauge
	Uptime          metrics.Gauge
	PlacesAdded     metrics.Counter
	PlacesRemoved   metrics.Counter
	PlacesEvicted   metrics.Counter
	InsertsRejected metrics.Counter
	Queries         metrics.Counter
	NearResults     metrics.Histogram
}

func (s *Server) initMetrics() {
	r := metrics.NewRegistry()
	treeGauge := func(name string, f func(st quadtree.Stats) int64) metrics.Gauge {
		return metrics.NewRegisteredFunctionalGauge(name, r, func() int64 {
			s.m.RLock()
			defer s.m.RUnlock()
			return f(s.index.Stats())
		})
	}
	s.metrics = &serverMetrics{
		registry: r,

		Places: metrics.NewRegisteredFunctionalGauge("places", r, func() int64 {
			s.m.RLock()
			defer s.m.RUnlock()
			return int64(len(s.places))
		}),
		Leaves:       treeGauge("leaves", func(st quadtree.Stats) int64 { return int64(st.Leaves) }),
		Nodes:        treeGauge("nodes", func(st quadtree.Stats) int64 { return int64(st.Nodes) }),
		Depth:        treeGauge("depth", func(st quadtree.Stats) int64 { return int64(st.Depth) }),
		Subdivisions: treeGauge("subdivisions", func(st quadtree.Stats) int64 { return st.Subdivisions }),
		Coalesces:    treeGauge("coalesces", func(st quadtree.Stats) int64 { return st.Coalesces }),
		Uptime:       metrics.NewRegisteredFunctionalGauge("uptime", r, func() int64 { return int64(time.Since(s.createdAt) / time.Second) }),

		PlacesAdded:     metrics.NewRegisteredCounter("places_added", r),
		PlacesRemoved:   metrics.NewRegisteredCounter("places_removed", r),
		PlacesEvicted:   metrics.NewRegisteredCounter("places_evicted", r),
		InsertsRejected: metrics.NewRegisteredCounter("inserts_rejected", r),
		Queries:         metrics.NewRegisteredCounter("queries", r),
		NearResults:     metrics.NewRegisteredHistogram("near_results", r, metrics.NewUniformSample(1028)),
	}
}

// Metrics returns the current value of every registered metric.
func (s *Server) Metrics() map[string]map[string]any {
	return s.metrics.registry.GetAll()
}

// Package server runs a place index behind a JSON-RPC interface.
package server

import (
	"math"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/quad/internal/logger"
	"github.com/cenkalti/quad/quadtree"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

// Version of the server. Set at build time.
var Version = "0.0.0"

var (
	// ErrPlaceNotFound is returned when there is no place with the given ID.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrInvalidArgument is returned for a negative or NaN radius or limit.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Server owns a quadtree of places. All methods are safe for concurrent use.
type Server struct {
	config    Config
	log       logger.Logger
	rpc       *rpcServer
	metrics   *serverMetrics
	createdAt time.Time

	// Guards the tree and the ID lookup table together.
	m      sync.RWMutex
	index  *quadtree.Quadtree[Place]
	places map[uuid.UUID]Place
}

// Stats about the server and its index.
type Stats struct {
	Places    int
	StartedAt time.Time
	Uptime    time.Duration
	Tree      quadtree.Stats
}

// New returns a Server with an empty index. Call Start to listen for RPC requests.
func New(cfg Config) (*Server, error) {
	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	index, err := quadtree.New[Place](cfg.Index)
	if err != nil {
		return nil, err
	}
	s := &Server{
		config:    cfg,
		log:       logger.New("server"),
		createdAt: time.Now(),
		index:     index,
		places:    make(map[uuid.UUID]Place),
	}
	s.initMetrics()
	s.rpc = newRPCServer(s)
	return s, nil
}

// Start listening for RPC requests.
func (s *Server) Start() error {
	return s.rpc.Start(s.config.RPCHost, s.config.RPCPort)
}

// Addr returns the address of the RPC listener, nil if the server is not started.
func (s *Server) Addr() net.Addr {
	return s.rpc.Addr()
}

// Close stops the RPC server.
func (s *Server) Close() error {
	err := s.rpc.Stop(s.config.RPCShutdownTimeout)
	if err != nil {
		s.log.Errorln("cannot stop RPC server:", err.Error())
	}
	s.log.Infoln("server closed")
	return err
}

// AddPlace stores a new place at (x, y).
func (s *Server) AddPlace(name string, x, y float64) (Place, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Place{}, err
	}
	p := Place{ID: id, Name: name, Location: Location{X: x, Y: y}}
	s.m.Lock()
	defer s.m.Unlock()
	if err = s.index.Insert(p); err != nil {
		s.metrics.InsertsRejected.Inc(1)
		return Place{}, err
	}
	s.places[id] = p
	s.metrics.PlacesAdded.Inc(1)
	s.log.Debugf("added place %s %q at (%g, %g)", id, name, x, y)
	return p, nil
}

// ReplacePlace stores a new place at (x, y) as the only place in its leaf
// of the tree. Places removed from the leaf are returned.
func (s *Server) ReplacePlace(name string, x, y float64) (Place, []Place, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return Place{}, nil, err
	}
	p := Place{ID: id, Name: name, Location: Location{X: x, Y: y}}
	s.m.Lock()
	defer s.m.Unlock()
	evicted, err := s.index.InsertReplace(p)
	if err != nil {
		s.metrics.InsertsRejected.Inc(1)
		return Place{}, nil, err
	}
	for _, e := range evicted {
		delete(s.places, e.ID)
	}
	s.places[id] = p
	s.metrics.PlacesAdded.Inc(1)
	s.metrics.PlacesEvicted.Inc(int64(len(evicted)))
	sortPlaces(evicted)
	return p, evicted, nil
}

// RemovePlace deletes the place with the given ID.
func (s *Server) RemovePlace(id uuid.UUID) error {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.places[id]
	if !ok {
		return ErrPlaceNotFound
	}
	s.index.Delete(p)
	delete(s.places, id)
	s.metrics.PlacesRemoved.Inc(1)
	return nil
}

// GetPlace returns the place with the given ID.
func (s *Server) GetPlace(id uuid.UUID) (Place, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	p, ok := s.places[id]
	if !ok {
		return Place{}, ErrPlaceNotFound
	}
	return p, nil
}

// FindAt returns a place located exactly at (x, y).
func (s *Server) FindAt(x, y float64) (Place, bool) {
	s.metrics.Queries.Inc(1)
	s.m.RLock()
	defer s.m.RUnlock()
	return s.index.Find(Place{Location: Location{X: x, Y: y}})
}

// Near returns places within radius of (x, y), closest first.
// At most limit places are returned unless limit is zero.
func (s *Server) Near(x, y, radius float64, limit int) ([]Neighbor, error) {
	if math.IsNaN(radius) || radius < 0 || limit < 0 {
		return nil, ErrInvalidArgument
	}
	s.metrics.Queries.Inc(1)
	s.m.RLock()
	places := s.index.Near(x, y, radius)
	s.m.RUnlock()
	ret := nearest(places, x, y, limit)
	s.metrics.NearResults.Update(int64(len(ret)))
	return ret, nil
}

// ListPlaces returns every place ordered by name.
func (s *Server) ListPlaces() []Place {
	s.m.RLock()
	places := s.index.All()
	s.m.RUnlock()
	sortPlaces(places)
	return places
}

// Stats returns statistics about the server.
func (s *Server) Stats() Stats {
	s.m.RLock()
	defer s.m.RUnlock()
	return Stats{
		Places:    len(s.places),
		StartedAt: s.createdAt,
		Uptime:    time.Since(s.createdAt),
		Tree:      s.index.Stats(),
	}
}

func sortPlaces(places []Place) {
	sort.Slice(places, func(i, j int) bool {
		if places[i].Name != places[j].Name {
			return places[i].Name < places[j].Name
		}
		return places[i].ID.String() < places[j].ID.String()
	})
}

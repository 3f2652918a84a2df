package server

import (
	"errors"

	"github.com/cenkalti/quad/internal/rpctypes"
	"github.com/cenkalti/quad/quadtree"
	"github.com/gofrs/uuid"
	"github.com/powerman/rpc-codec/jsonrpc2"
)

// Error codes returned in JSON-RPC error objects.
const (
	CodePlaceNotFound   = 1
	CodeOutOfBounds     = 2
	CodeInvalidArgument = 3
)

var errPlaceNotFound = jsonrpc2.NewError(CodePlaceNotFound, "place not found")

type rpcHandler struct {
	server *Server
}

func (h *rpcHandler) Version(args struct{}, reply *string) error {
	*reply = Version
	return nil
}

func (h *rpcHandler) AddPlace(args *rpctypes.AddPlaceRequest, reply *rpctypes.AddPlaceResponse) error {
	p, err := h.server.AddPlace(args.Name, args.X, args.Y)
	if err != nil {
		return rpcError(err)
	}
	reply.Place = newPlace(p)
	return nil
}

func (h *rpcHandler) ReplacePlace(args *rpctypes.ReplacePlaceRequest, reply *rpctypes.ReplacePlaceResponse) error {
	p, evicted, err := h.server.ReplacePlace(args.Name, args.X, args.Y)
	if err != nil {
		return rpcError(err)
	}
	reply.Place = newPlace(p)
	reply.Evicted = newPlaces(evicted)
	return nil
}

func (h *rpcHandler) RemovePlace(args *rpctypes.RemovePlaceRequest, reply *rpctypes.RemovePlaceResponse) error {
	id, err := uuid.FromString(args.ID)
	if err != nil {
		return jsonrpc2.NewError(CodeInvalidArgument, "invalid place id")
	}
	return rpcError(h.server.RemovePlace(id))
}

func (h *rpcHandler) GetPlace(args *rpctypes.GetPlaceRequest, reply *rpctypes.GetPlaceResponse) error {
	id, err := uuid.FromString(args.ID)
	if err != nil {
		return jsonrpc2.NewError(CodeInvalidArgument, "invalid place id")
	}
	p, err := h.server.GetPlace(id)
	if err != nil {
		return rpcError(err)
	}
	reply.Place = newPlace(p)
	return nil
}

func (h *rpcHandler) FindAt(args *rpctypes.FindAtRequest, reply *rpctypes.FindAtResponse) error {
	p, ok := h.server.FindAt(args.X, args.Y)
	reply.Found = ok
	if ok {
		reply.Place = newPlace(p)
	}
	return nil
}

func (h *rpcHandler) Near(args *rpctypes.NearRequest, reply *rpctypes.NearResponse) error {
	neighbors, err := h.server.Near(args.X, args.Y, args.Radius, args.Limit)
	if err != nil {
		return rpcError(err)
	}
	reply.Neighbors = make([]rpctypes.Neighbor, 0, len(neighbors))
	for _, n := range neighbors {
		reply.Neighbors = append(reply.Neighbors, rpctypes.Neighbor{
			Place:    newPlace(n.Place),
			Distance: n.Distance,
		})
	}
	return nil
}

func (h *rpcHandler) ListPlaces(args *rpctypes.ListPlacesRequest, reply *rpctypes.ListPlacesResponse) error {
	reply.Places = newPlaces(h.server.ListPlaces())
	return nil
}

func (h *rpcHandler) GetStats(args *rpctypes.GetStatsRequest, reply *rpctypes.GetStatsResponse) error {
	s := h.server.Stats()
	reply.Stats = rpctypes.Stats{
		Places:    s.Places,
		StartedAt: rpctypes.Time{Time: s.StartedAt},
		Uptime:    int(s.Uptime.Seconds()),
		Tree: rpctypes.TreeStats{
			Points:        s.Tree.Points,
			Leaves:        s.Tree.Leaves,
			Nodes:         s.Tree.Nodes,
			Depth:         s.Tree.Depth,
			MaxLeafPoints: s.Tree.MaxLeafPoints,
			Subdivisions:  s.Tree.Subdivisions,
			Coalesces:     s.Tree.Coalesces,
		},
	}
	return nil
}

func (h *rpcHandler) GetMetrics(args *rpctypes.GetMetricsRequest, reply *rpctypes.GetMetricsResponse) error {
	reply.Metrics = h.server.Metrics()
	return nil
}

// rpcError converts known errors to JSON-RPC errors with a stable code.
func rpcError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPlaceNotFound):
		return errPlaceNotFound
	case errors.Is(err, quadtree.ErrOutOfBounds):
		return jsonrpc2.NewError(CodeOutOfBounds, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return jsonrpc2.NewError(CodeInvalidArgument, err.Error())
	}
	return err
}

func newPlace(p Place) rpctypes.Place {
	return rpctypes.Place{
		ID:   p.ID.String(),
		Name: p.Name,
		X:    p.Location.X,
		Y:    p.Location.Y,
	}
}

func newPlaces(places []Place) []rpctypes.Place {
	ret := make([]rpctypes.Place, 0, len(places))
	for _, p := range places {
		ret = append(ret, newPlace(p))
	}
	return ret
}

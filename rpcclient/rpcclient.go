// Package rpcclient is a client for the JSON-RPC interface of the place index server.
package rpcclient

import (
	"net/rpc"

	"github.com/cenkalti/quad/internal/rpctypes"
	"github.com/pkg/errors"
	"github.com/powerman/rpc-codec/jsonrpc2"
)

// Errors returned by the server, matched with errors.Is.
var (
	ErrPlaceNotFound   = errors.New("place not found")
	ErrOutOfBounds     = errors.New("point out of bounds")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error codes, keep in sync with the server.
const (
	codePlaceNotFound   = 1
	codeOutOfBounds     = 2
	codeInvalidArgument = 3
)

type (
	Place     = rpctypes.Place
	Neighbor  = rpctypes.Neighbor
	Stats     = rpctypes.Stats
	TreeStats = rpctypes.TreeStats
)

// Client is a JSON-RPC 2.0 over HTTP client.
type Client struct {
	client *jsonrpc2.Client
}

// New returns a client for the server at url, e.g. "http://127.0.0.1:7247/".
func New(url string) *Client {
	return &Client{client: jsonrpc2.NewHTTPClient(url)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) call(method string, args, reply any) error {
	return translate(c.client.Call("Index."+method, args, reply))
}

func (c *Client) Version() (string, error) {
	var reply string
	err := c.call("Version", struct{}{}, &reply)
	return reply, err
}

func (c *Client) AddPlace(name string, x, y float64) (Place, error) {
	args := rpctypes.AddPlaceRequest{Name: name, X: x, Y: y}
	var reply rpctypes.AddPlaceResponse
	err := c.call("AddPlace", args, &reply)
	return reply.Place, err
}

func (c *Client) ReplacePlace(name string, x, y float64) (*rpctypes.ReplacePlaceResponse, error) {
	args := rpctypes.ReplacePlaceRequest{Name: name, X: x, Y: y}
	var reply rpctypes.ReplacePlaceResponse
	return &reply, c.call("ReplacePlace", args, &reply)
}

func (c *Client) RemovePlace(id string) error {
	args := rpctypes.RemovePlaceRequest{ID: id}
	var reply rpctypes.RemovePlaceResponse
	return c.call("RemovePlace", args, &reply)
}

func (c *Client) GetPlace(id string) (Place, error) {
	args := rpctypes.GetPlaceRequest{ID: id}
	var reply rpctypes.GetPlaceResponse
	err := c.call("GetPlace", args, &reply)
	return reply.Place, err
}

// FindAt returns the place at exactly (x, y).
func (c *Client) FindAt(x, y float64) (Place, bool, error) {
	args := rpctypes.FindAtRequest{X: x, Y: y}
	var reply rpctypes.FindAtResponse
	err := c.call("FindAt", args, &reply)
	return reply.Place, reply.Found, err
}

// Near returns places within radius of (x, y), closest first. Zero limit means no limit.
func (c *Client) Near(x, y, radius float64, limit int) ([]Neighbor, error) {
	args := rpctypes.NearRequest{X: x, Y: y, Radius: radius, Limit: limit}
	var reply rpctypes.NearResponse
	err := c.call("Near", args, &reply)
	return reply.Neighbors, err
}

func (c *Client) ListPlaces() ([]Place, error) {
	var reply rpctypes.ListPlacesResponse
	err := c.call("ListPlaces", rpctypes.ListPlacesRequest{}, &reply)
	return reply.Places, err
}

func (c *Client) GetStats() (*Stats, error) {
	var reply rpctypes.GetStatsResponse
	return &reply.Stats, c.call("GetStats", rpctypes.GetStatsRequest{}, &reply)
}

func (c *Client) GetMetrics() (map[string]map[string]any, error) {
	var reply rpctypes.GetMetricsResponse
	err := c.call("GetMetrics", rpctypes.GetMetricsRequest{}, &reply)
	return reply.Metrics, err
}

// translate maps JSON-RPC error codes to the errors of this package.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(rpc.ServerError); !ok {
		return err
	}
	e := jsonrpc2.ServerError(err)
	switch e.Code {
	case codePlaceNotFound:
		return ErrPlaceNotFound
	case codeOutOfBounds:
		return errors.WithMessage(ErrOutOfBounds, e.Message)
	case codeInvalidArgument:
		return errors.WithMessage(ErrInvalidArgument, e.Message)
	}
	return e
}

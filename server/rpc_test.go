package server

import (
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/quad/rpcclient"
	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*Server, *rpcclient.Client) {
	s := newTestServer(t)
	require.NoError(t, s.Start())
	c := rpcclient.New("http://" + s.Addr().String() + "/")
	return s, c
}

func TestRPC(t *testing.T) {
	defer leaktest.CheckTimeout(t, 5*time.Second)()
	s, c := startTestServer(t)
	defer s.Close()
	defer c.Close()

	v, err := c.Version()
	require.NoError(t, err)
	assert.Equal(t, Version, v)

	home, err := c.AddPlace("home", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, "home", home.Name)
	assert.Equal(t, 10.0, home.X)
	assert.Equal(t, 20.0, home.Y)

	work, err := c.AddPlace("work", 12, 22)
	require.NoError(t, err)

	got, err := c.GetPlace(home.ID)
	require.NoError(t, err)
	assert.Equal(t, home, got)

	found, ok, err := c.FindAt(12, 22)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, work, found)

	_, ok, err = c.FindAt(1, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	neighbors, err := c.Near(10, 20, 5, 0)
	require.NoError(t, err)
	require.Len(t, neighbors, 2)
	assert.Equal(t, home, neighbors[0].Place)
	assert.Equal(t, 0.0, neighbors[0].Distance)
	assert.Equal(t, work, neighbors[1].Place)

	places, err := c.ListPlaces()
	require.NoError(t, err)
	assert.Equal(t, []rpcclient.Place{home, work}, places)

	stats, err := c.GetStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Places)
	assert.Equal(t, 2, stats.Tree.Points)

	m, err := c.GetMetrics()
	require.NoError(t, err)
	assert.Contains(t, m, "places_added")

	require.NoError(t, c.RemovePlace(home.ID))
	places, err = c.ListPlaces()
	require.NoError(t, err)
	assert.Equal(t, []rpcclient.Place{work}, places)
}

func TestRPCReplacePlace(t *testing.T) {
	defer leaktest.CheckTimeout(t, 5*time.Second)()
	s, c := startTestServer(t)
	defer s.Close()
	defer c.Close()

	old, err := c.AddPlace("old", 10, 10)
	require.NoError(t, err)
	resp, err := c.ReplacePlace("new", 11, 11)
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Place.Name)
	assert.Equal(t, []rpcclient.Place{old}, resp.Evicted)

	_, err = c.GetPlace(old.ID)
	assert.True(t, errors.Is(err, rpcclient.ErrPlaceNotFound))
}

func TestRPCErrors(t *testing.T) {
	defer leaktest.CheckTimeout(t, 5*time.Second)()
	s, c := startTestServer(t)
	defer s.Close()
	defer c.Close()

	_, err := c.AddPlace("far", 500, 500)
	assert.True(t, errors.Is(err, rpcclient.ErrOutOfBounds))

	_, err = c.ReplacePlace("far", -1, 50)
	assert.True(t, errors.Is(err, rpcclient.ErrOutOfBounds))

	_, err = c.GetPlace("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.True(t, errors.Is(err, rpcclient.ErrPlaceNotFound))

	err = c.RemovePlace("not-a-uuid")
	assert.True(t, errors.Is(err, rpcclient.ErrInvalidArgument))

	_, err = c.Near(0, 0, -5, 0)
	assert.True(t, errors.Is(err, rpcclient.ErrInvalidArgument))
}

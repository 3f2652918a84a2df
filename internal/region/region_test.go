package region

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/cenkalti/quad/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pt struct {
	id   int
	x, y float64
}

func (p pt) X() float64 { return p.x }
func (p pt) Y() float64 { return p.y }

var (
	_ Region[pt] = (*leaf[pt])(nil)
	_ Region[pt] = (*node[pt])(nil)
)

var domain = geometry.NewRect(0, 100, 100, 0)

func newTree(capacity int) Region[pt] {
	return New[pt](domain, Options{Capacity: capacity})
}

func insertAll(r Region[pt], points ...pt) Region[pt] {
	for _, p := range points {
		r = r.Insert(p)
	}
	return r
}

func collectAll(r Region[pt]) []pt {
	s := NewSet[pt]()
	r.CollectAll(s)
	return sorted(s.Slice())
}

func collectNear(r Region[pt], x, y, radius float64) []pt {
	s := NewSet[pt]()
	r.CollectNear(x, y, radius, s)
	return sorted(s.Slice())
}

func sorted(points []pt) []pt {
	sort.Slice(points, func(i, j int) bool { return points[i].id < points[j].id })
	return points
}

func stats(r Region[pt]) Stats {
	var st Stats
	r.Stats(&st, 0)
	return st
}

func randomPoints(rnd *rand.Rand, n int) []pt {
	points := make([]pt, n)
	for i := range points {
		points[i] = pt{id: i, x: rnd.Float64() * 100, y: rnd.Float64() * 100}
	}
	return points
}

func TestExampleScenario(t *testing.T) {
	a := pt{1, 10, 10}
	b := pt{2, 20, 20}
	c := pt{3, 30, 30}
	d := pt{4, 40, 40}
	e := pt{5, 50, 50}

	r := insertAll(newTree(4), a, b, c, d)
	assert.Len(t, collectAll(r), 4)
	_, isLeaf := r.(*leaf[pt])
	assert.True(t, isLeaf)

	r = r.Insert(e)
	n, isNode := r.(*node[pt])
	require.True(t, isNode)
	assert.Len(t, collectAll(r), 5)
	assert.LessOrEqual(t, stats(r).MaxLeafPoints, 4)

	// (50,50) sits on the corner shared by all four quadrants; NW wins.
	assert.Equal(t, []pt{e}, collectAll(n.children[geometry.NW]))
	assert.Equal(t, []pt{a, b, c, d}, collectAll(n.children[geometry.SW]))

	assert.Equal(t, []pt{b, c}, collectNear(r, 25, 25, 15))
}

func TestFindAfterInsert(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	points := randomPoints(rnd, 1000)
	r := insertAll(newTree(4), points...)
	for _, p := range points {
		found, ok := r.Find(pt{id: -1, x: p.x, y: p.y})
		require.True(t, ok, "point %v not found", p)
		assert.Equal(t, p.x, found.x)
		assert.Equal(t, p.y, found.y)
	}
	_, ok := r.Find(pt{x: 101, y: 101})
	assert.False(t, ok)
}

func TestFindMatchesCoordinatesNotIdentity(t *testing.T) {
	first := pt{1, 5, 5}
	second := pt{2, 5, 5}
	r := insertAll(newTree(4), first, second)
	found, ok := r.Find(pt{id: 99, x: 5, y: 5})
	require.True(t, ok)
	assert.Equal(t, first, found)
}

func TestCapacityTriggersSubdivision(t *testing.T) {
	for _, capacity := range []int{1, 2, 4, 8} {
		rnd := rand.New(rand.NewSource(int64(capacity)))
		points := randomPoints(rnd, capacity+1)
		r := insertAll(newTree(capacity), points...)
		st := stats(r)
		assert.Equal(t, 1, st.Nodes+st.Leaves-4*st.Nodes, "capacity %d", capacity)
		assert.GreaterOrEqual(t, st.Nodes, 1, "capacity %d", capacity)
		assert.LessOrEqual(t, st.MaxLeafPoints, capacity, "capacity %d", capacity)
		assert.Equal(t, sorted(points), collectAll(r), "capacity %d", capacity)
	}
}

func TestLeavesHoldStoredPointsInBounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	r := insertAll(newTree(3), randomPoints(rnd, 500)...)
	var walk func(Region[pt])
	walk = func(r Region[pt]) {
		switch v := r.(type) {
		case *leaf[pt]:
			assert.LessOrEqual(t, len(v.points), 3)
			for _, p := range v.points {
				assert.True(t, v.bounds.ContainsPoint(p.x, p.y))
			}
		case *node[pt]:
			for _, c := range v.children {
				walk(c)
			}
		}
	}
	walk(r)
}

func TestEachPointStoredOnce(t *testing.T) {
	// Points on shared edges and corners of several levels.
	points := []pt{
		{1, 50, 50}, {2, 50, 25}, {3, 25, 50}, {4, 50, 75}, {5, 75, 50},
		{6, 25, 25}, {7, 75, 75}, {8, 0, 0}, {9, 100, 100}, {10, 50, 0},
	}
	r := insertAll(newTree(1), points...)
	st := stats(r)
	assert.Equal(t, len(points), st.Points)
	assert.Equal(t, sorted(points), collectAll(r))
}

func TestQuadrantPriority(t *testing.T) {
	n := newNode[pt](domain, &Options{Capacity: 4, MaxDepth: DefaultMaxDepth}, 0)
	n.subdivide()
	assert.Equal(t, geometry.NW, n.quadrantOf(pt{x: 50, y: 50}))
	assert.Equal(t, geometry.NW, n.quadrantOf(pt{x: 10, y: 50}))
	assert.Equal(t, geometry.NE, n.quadrantOf(pt{x: 75, y: 50}))
	assert.Equal(t, geometry.NE, n.quadrantOf(pt{x: 50.1, y: 100}))
	assert.Equal(t, geometry.SW, n.quadrantOf(pt{x: 50, y: 20}))
	assert.Equal(t, geometry.SE, n.quadrantOf(pt{x: 60, y: 20}))
	assert.Panics(t, n.subdivide)
}

func TestNodeIgnoresOutsidePoints(t *testing.T) {
	r := insertAll(newTree(1), pt{1, 10, 10}, pt{2, 90, 90})
	_, isNode := r.(*node[pt])
	require.True(t, isNode)
	before := stats(r)
	r2 := r.Insert(pt{3, 150, 50})
	assert.Same(t, r, r2)
	assert.Equal(t, before, stats(r))
}

func TestDeleteRemovesEqualPointsOnly(t *testing.T) {
	a := pt{1, 5, 5}
	b := pt{2, 5, 5}
	r := insertAll(newTree(4), a, a, b)
	r = r.Delete(a)
	assert.Equal(t, []pt{b}, collectAll(r))
	r = r.Delete(a)
	assert.Equal(t, []pt{b}, collectAll(r))
	r = r.Delete(pt{3, 70, 70})
	assert.Equal(t, []pt{b}, collectAll(r))
}

func TestDeleteCoalesces(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	points := randomPoints(rnd, 200)
	r := insertAll(newTree(4), points...)
	require.Greater(t, stats(r).Nodes, 1)

	for i, p := range points {
		r = r.Delete(p)
		if i < len(points)-1 {
			assert.Len(t, collectAll(r), len(points)-i-1)
		}
	}
	assert.Empty(t, collectAll(r))
	_, isLeaf := r.(*leaf[pt])
	require.True(t, isLeaf)
	assert.Equal(t, Stats{Leaves: 1}, stats(r))

	// Behaves like a fresh tree: no split until capacity+1 points.
	r = insertAll(r, points[:4]...)
	_, isLeaf = r.(*leaf[pt])
	assert.True(t, isLeaf)
	r = r.Insert(points[4])
	_, isNode := r.(*node[pt])
	assert.True(t, isNode)
}

func TestPartialDeleteCoalescesSubtree(t *testing.T) {
	r := insertAll(newTree(1), pt{1, 10, 10}, pt{2, 20, 20}, pt{3, 90, 90})
	n := r.(*node[pt])
	_, swIsNode := n.children[geometry.SW].(*node[pt])
	require.True(t, swIsNode)

	r = r.Delete(pt{1, 10, 10})
	r = r.Delete(pt{2, 20, 20})
	n = r.(*node[pt])
	_, swIsLeaf := n.children[geometry.SW].(*leaf[pt])
	assert.True(t, swIsLeaf)
	assert.Equal(t, []pt{{3, 90, 90}}, collectAll(r))
}

func TestDeleteKeepsNodeWithDeepPoints(t *testing.T) {
	// Points 1 and 2 sit two levels below the root in SW.
	r := insertAll(newTree(1), pt{1, 10, 10}, pt{2, 20, 20}, pt{3, 90, 90})
	r = r.Delete(pt{3, 90, 90})
	n, ok := r.(*node[pt])
	require.True(t, ok)
	assert.False(t, n.empty())
	assert.Equal(t, []pt{{1, 10, 10}, {2, 20, 20}}, collectAll(r))

	r = r.Delete(pt{1, 10, 10})
	r = r.Delete(pt{2, 20, 20})
	_, isLeaf := r.(*leaf[pt])
	assert.True(t, isLeaf)
}

func TestCollectNearMatchesLinearScan(t *testing.T) {
	rnd := rand.New(rand.NewSource(4))
	points := randomPoints(rnd, 2000)
	r := insertAll(newTree(4), points...)
	for i := 0; i < 200; i++ {
		x := rnd.Float64()*120 - 10
		y := rnd.Float64()*120 - 10
		radius := rnd.Float64() * 30
		var want []pt
		for _, p := range points {
			if geometry.Distance(p.x, p.y, x, y) <= radius {
				want = append(want, p)
			}
		}
		got := collectNear(r, x, y, radius)
		if len(want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, got, "query (%g,%g) r=%g", x, y, radius)
	}
}

func TestCollectNearInclusiveRadius(t *testing.T) {
	r := insertAll(newTree(1), pt{1, 0, 0}, pt{2, 3, 4}, pt{3, 60, 60})
	assert.Equal(t, []pt{{1, 0, 0}, {2, 3, 4}}, collectNear(r, 0, 0, 5))
	assert.Equal(t, []pt{{1, 0, 0}}, collectNear(r, 0, 0, 4.999))
}

func TestInsertReplaceClearsLeaf(t *testing.T) {
	a := pt{1, 10, 10}
	b := pt{2, 20, 20}
	r := insertAll(newTree(4), a)
	evicted := NewSet[pt]()
	r = r.InsertReplace(b, evicted)
	assert.Equal(t, []pt{b}, collectAll(r))
	assert.Equal(t, []pt{a}, sorted(evicted.Slice()))
}

func TestInsertReplaceStoredPointIsNotEvicted(t *testing.T) {
	a := pt{1, 10, 10}
	b := pt{2, 20, 20}
	r := insertAll(newTree(4), a, b)
	evicted := NewSet[pt]()
	r = r.InsertReplace(a, evicted)
	assert.Equal(t, []pt{a}, collectAll(r))
	assert.Equal(t, []pt{b}, evicted.Slice())
}

func TestInsertReplaceOutsideLeafIsNoop(t *testing.T) {
	a := pt{1, 10, 10}
	r := insertAll(newTree(4), a)
	evicted := NewSet[pt]()
	r = r.InsertReplace(pt{2, 200, 200}, evicted)
	assert.Equal(t, []pt{a}, collectAll(r))
	assert.Zero(t, evicted.Len())
}

func TestInsertReplaceTouchesSingleLeaf(t *testing.T) {
	nw := pt{1, 25, 75}
	ne := pt{2, 75, 75}
	sw := pt{3, 25, 25}
	se := pt{4, 75, 25}
	r := insertAll(newTree(1), nw, ne, sw, se)
	require.Equal(t, 4, stats(r).Leaves)

	// The center is on the edges of every quadrant, only NW is cleared.
	center := pt{5, 50, 50}
	evicted := NewSet[pt]()
	r = r.InsertReplace(center, evicted)
	assert.Equal(t, []pt{nw}, sorted(evicted.Slice()))
	assert.Equal(t, []pt{ne, sw, se, center}, collectAll(r))
}

func TestInsertReplaceDeep(t *testing.T) {
	r := insertAll(newTree(1), pt{1, 10, 10}, pt{2, 20, 20}, pt{3, 90, 90})
	evicted := NewSet[pt]()
	r = r.InsertReplace(pt{4, 11, 11}, evicted)
	assert.Equal(t, []pt{{1, 10, 10}}, sorted(evicted.Slice()))
	assert.Equal(t, []pt{{2, 20, 20}, {3, 90, 90}, {4, 11, 11}}, collectAll(r))
}

func TestColocatedPointsStopAtMaxDepth(t *testing.T) {
	r := New[pt](domain, Options{Capacity: 1, MaxDepth: 5})
	points := []pt{{1, 33, 33}, {2, 33, 33}, {3, 33, 33}}
	r = insertAll(r, points...)
	st := stats(r)
	assert.Equal(t, 5, st.Depth)
	assert.Equal(t, 3, st.MaxLeafPoints)
	assert.Equal(t, points, collectAll(r))
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { New[pt](domain, Options{}) })
}

type countingObserver struct {
	subdivided, coalesced int
}

func (o *countingObserver) Subdivided(geometry.Rect) { o.subdivided++ }
func (o *countingObserver) Coalesced(geometry.Rect)  { o.coalesced++ }

func TestObserver(t *testing.T) {
	o := &countingObserver{}
	r := New[pt](domain, Options{Capacity: 1, Observer: o})
	r = insertAll(r, pt{1, 10, 10}, pt{2, 90, 90})
	assert.Equal(t, 1, o.subdivided)
	r = r.Delete(pt{1, 10, 10})
	assert.Equal(t, 0, o.coalesced)
	r = r.Delete(pt{2, 90, 90})
	assert.Equal(t, 1, o.coalesced)
	_, isLeaf := r.(*leaf[pt])
	assert.True(t, isLeaf)
}

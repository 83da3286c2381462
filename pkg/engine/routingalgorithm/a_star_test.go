package routingalgorithm

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortestPathAStar(t *testing.T) {
	rn, rt := newSeattleGraph(t)

	res, err := rt.ShortestPath(context.Background(), 0, 5, TurnPenalty{})
	require.NoError(t, err)
	require.True(t, res.Found)

	// P(0) -> V(1) -> R(4) -> W(3) -> F(5)
	assert.Equal(t, []int32{0, 1, 4, 5}, res.Segments)
	assert.InDelta(t, 33.0, res.TravelTime, 1e-6)

	require.Len(t, res.Path, 5)
	assert.Equal(t, 47.58677, res.Path[0].Lat)
	assert.Equal(t, 47.5788, res.Path[1].Lat)
	assert.Equal(t, 47.60350, res.Path[2].Lat)
	assert.Equal(t, 47.62734, res.Path[3].Lat)
	assert.Equal(t, 47.57074, res.Path[4].Lat)

	length := 0.0
	for _, s := range res.Segments {
		length += rn.SegmentLength(s)
	}
	assert.InDelta(t, length, res.Length, 1e-6)
	assert.NotEmpty(t, res.Polyline)
	require.NotEmpty(t, res.Directions)
	assert.Equal(t, "Arrive at destination", res.Directions[len(res.Directions)-1].Instruction)
}

func TestFindPathStraightLine(t *testing.T) {
	f := newFixture()
	a := f.node(0, 0)
	b := f.node(0, lonForMeters(100))
	c := f.node(0, lonForMeters(200))
	main := f.street("Main Street")
	s1 := f.segment(main, a, b, 36, false)
	s2 := f.segment(main, b, c, 36, false)
	rn, rt := f.build(t)

	assert.InDelta(t, 100.0, rn.SegmentLength(s1), 1e-6)
	assert.InDelta(t, 10.0, rn.TravelTime(s1), 1e-6)

	penalty := NewTurnPenalty(15, 25)
	path, err := rt.FindPath(context.Background(), a, c, penalty)
	require.NoError(t, err)
	assert.Equal(t, []int32{s1, s2}, path)
	assert.InDelta(t, 20.0, rt.CostModel().PathTravelTime(path, penalty), 1e-6)

	// same path driven backwards
	path, err = rt.FindPath(context.Background(), c, a, penalty)
	require.NoError(t, err)
	assert.Equal(t, []int32{s2, s1}, path)
}

func TestFindPathTurnPenalties(t *testing.T) {
	rn, rt := newSquare(t)

	cases := []struct {
		name    string
		penalty TurnPenalty
		want    []int32
		turn    float64
	}{
		{name: "expensive left goes through C", penalty: NewTurnPenalty(5, 30), want: []int32{2, 3}, turn: 5},
		{name: "expensive right goes through A", penalty: NewTurnPenalty(30, 5), want: []int32{0, 1}, turn: 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path, err := rt.FindPath(context.Background(), 0, 3, c.penalty)
			require.NoError(t, err)
			assert.Equal(t, c.want, path)

			expected := rn.TravelTime(c.want[0]) + rn.TravelTime(c.want[1]) + c.turn
			assert.InDelta(t, expected, rt.CostModel().PathTravelTime(path, c.penalty), 1e-9)
		})
	}
}

func TestFindPathDisconnected(t *testing.T) {
	f := newFixture()
	a := f.node(0, 0)
	b := f.node(0, 0.001)
	c := f.node(1, 1)
	d := f.node(1, 1.001)
	f.segment(f.street("left"), a, b, 50, false)
	f.segment(f.street("right"), c, d, 50, false)
	_, rt := f.build(t)

	path, err := rt.FindPath(context.Background(), a, d, TurnPenalty{})
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.True(t, math.IsInf(rt.CostModel().PathTravelTime(path, TurnPenalty{}), 1))

	res, err := rt.ShortestPath(context.Background(), a, d, TurnPenalty{})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.True(t, math.IsInf(res.TravelTime, 1))
}

func TestFindPathOneWay(t *testing.T) {
	f := newFixture()
	a := f.node(0, 0)
	b := f.node(0, 0.001)
	s := f.segment(f.street("one way"), a, b, 50, true)
	_, rt := f.build(t)

	path, err := rt.FindPath(context.Background(), a, b, TurnPenalty{})
	require.NoError(t, err)
	assert.Equal(t, []int32{s}, path)

	path, err = rt.FindPath(context.Background(), b, a, TurnPenalty{})
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFindPathZeroCostCycle(t *testing.T) {
	f := newFixture()
	a := f.node(0, 0)
	b := f.node(0, 0)
	c := f.node(0, 0.001)
	d := f.node(0.5, 0.5)
	ab := f.segment(f.street("ab"), a, b, 50, false)
	f.segment(f.street("ba"), b, a, 50, false)
	f.segment(f.street("loop"), a, a, 50, false)
	bc := f.segment(f.street("bc"), b, c, 50, false)
	_, rt := f.build(t)

	path, err := rt.FindPath(context.Background(), a, c, TurnPenalty{})
	require.NoError(t, err)
	assert.Equal(t, []int32{ab, bc}, path)

	// exhausts the zero cost component without looping forever
	path, err = rt.FindPath(context.Background(), a, d, TurnPenalty{})
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestFindPathSameIntersection(t *testing.T) {
	rn, rt := newSeattleGraph(t)

	path, err := rt.FindPath(context.Background(), 2, 2, TurnPenalty{})
	require.NoError(t, err)
	assert.Empty(t, path)

	res, err := rt.ShortestPath(context.Background(), 2, 2, TurnPenalty{})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 0.0, res.TravelTime)
	assert.Equal(t, []datastructure.Coordinate{rn.Position(2)}, res.Path)
}

func TestFindPathInvalidInput(t *testing.T) {
	_, rt := newSeattleGraph(t)

	_, err := rt.FindPath(context.Background(), -1, 2, TurnPenalty{})
	assert.ErrorIs(t, err, ErrInvalidIntersection)

	_, err = rt.FindPath(context.Background(), 0, 99, TurnPenalty{})
	assert.ErrorIs(t, err, ErrInvalidIntersection)

	_, err = rt.FindPath(context.Background(), 0, 5, NewTurnPenalty(-1, 0))
	assert.ErrorIs(t, err, ErrNegativePenalty)
}

func TestFindPathCancelled(t *testing.T) {
	_, rt := newSeattleGraph(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := rt.FindPath(ctx, 0, 5, TurnPenalty{})
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = rt.FindPathsToAll(ctx, 0, []int32{5}, TurnPenalty{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFindPathConsecutiveSegmentsConnect(t *testing.T) {
	rn, rt := newSeattleGraph(t)
	penalty := NewTurnPenalty(2.5, 4.25)

	for start := int32(0); start < int32(rn.NumIntersections()); start++ {
		for end := int32(0); end < int32(rn.NumIntersections()); end++ {
			if start == end {
				continue
			}
			path, err := rt.FindPath(context.Background(), start, end, penalty)
			require.NoError(t, err)
			require.NotEmpty(t, path)

			first := rn.Segment(path[0])
			assert.True(t, first.From == start || first.To == start)
			last := rn.Segment(path[len(path)-1])
			assert.True(t, last.From == end || last.To == end)
			assert.True(t, rn.IsContiguous(start, path))
		}
	}
}

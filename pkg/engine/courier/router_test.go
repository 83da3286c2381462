package courier

import (
	"context"
	"math"
	"testing"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// lonForMeters degrees at the equator that are meters long.
func lonForMeters(meters float64) float64 {
	return meters / (geo.EARTH_RADIUS_IN_METERS * geo.DEG_TO_RAD)
}

// every segment is 100 m at 36 km/h, so 10 s to drive.
func buildRouter(t *testing.T, build func(b *datastructure.NetworkBuilder)) (*datastructure.RoadNetwork, *Router) {
	b := datastructure.NewNetworkBuilder()
	build(b)
	rn, err := b.Build()
	require.NoError(t, err)
	rt := routingalgorithm.NewRouteAlgorithm(rn, zap.NewNop(), routingalgorithm.WithWorkers(2))
	return rn, NewRouter(rt, zap.NewNop(), 2)
}

func link(b *datastructure.NetworkBuilder, street, from, to int32) int32 {
	return b.AddSegment(datastructure.SegmentInfo{StreetID: street, From: from, To: to, SpeedLimit: 36})
}

// X(0) -- P(1) -- D(2) -- E(3) along Main Street.
func newLine(t *testing.T) (*datastructure.RoadNetwork, *Router) {
	return buildRouter(t, func(b *datastructure.NetworkBuilder) {
		main := b.AddStreet("Main Street")
		for i := 0; i < 4; i++ {
			b.AddIntersection(datastructure.NewCoordinate(0, lonForMeters(float64(100*i))), "")
		}
		link(b, main, 0, 1)
		link(b, main, 1, 2)
		link(b, main, 2, 3)
	})
}

func TestSolveCourierRoutingSingleDelivery(t *testing.T) {
	rn, router := newLine(t)
	const x, p, d = 0, 1, 2
	requests := []DeliveryRequest{NewDeliveryRequest(7, p, d, 5)}
	depots := []int32{x}

	route, err := router.SolveCourierRouting(context.Background(), requests, depots, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	require.Len(t, route.Subpaths, 3)

	assert.Equal(t, int32(x), route.Subpaths[0].Start)
	assert.Equal(t, int32(p), route.Subpaths[0].End)
	assert.Empty(t, route.Subpaths[0].PickUpIDs)

	assert.Equal(t, int32(p), route.Subpaths[1].Start)
	assert.Equal(t, int32(d), route.Subpaths[1].End)
	assert.Equal(t, []int{7}, route.Subpaths[1].PickUpIDs)

	assert.Equal(t, int32(d), route.Subpaths[2].Start)
	assert.Equal(t, int32(x), route.Subpaths[2].End)
	assert.Equal(t, []int32{1, 0}, route.Subpaths[2].Segments)

	assert.InDelta(t, 40.0, route.TravelTime, 1e-6)
	assert.NoError(t, ValidateRoute(rn, route, requests, depots, 10))
}

func TestSolveCourierRoutingTooHeavy(t *testing.T) {
	_, router := newLine(t)
	requests := []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 15)}

	route, err := router.SolveCourierRouting(context.Background(), requests, []int32{0}, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	assert.True(t, route.IsEmpty())
	assert.Equal(t, 0.0, route.TravelTime)
}

func TestSolveCourierRoutingCapacity(t *testing.T) {
	rn, router := newLine(t)
	requests := []DeliveryRequest{
		NewDeliveryRequest(0, 1, 3, 6),
		NewDeliveryRequest(1, 1, 2, 6),
	}
	depots := []int32{0}

	route, err := router.SolveCourierRouting(context.Background(), requests, depots, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	require.False(t, route.IsEmpty())
	require.NoError(t, ValidateRoute(rn, route, requests, depots, 10))

	// only one of them fits, so the truck comes back to P for the other one
	stops := make([]int32, 0, len(route.Subpaths)+1)
	stops = append(stops, route.Subpaths[0].Start)
	for _, sub := range route.Subpaths {
		stops = append(stops, sub.End)
	}
	assert.Equal(t, []int32{0, 1, 3, 1, 2, 0}, stops)
	assert.Equal(t, []int{0}, route.Subpaths[1].PickUpIDs)
	assert.Equal(t, []int{1}, route.Subpaths[3].PickUpIDs)
	assert.InDelta(t, 80.0, route.TravelTime, 1e-6)

	// the same route breaks a smaller truck
	assert.ErrorIs(t, ValidateRoute(rn, route, requests, depots, 5), ErrInvalidRoute)
}

func TestSolveCourierRoutingPickUpAtDepot(t *testing.T) {
	rn, router := newLine(t)
	requests := []DeliveryRequest{NewDeliveryRequest(3, 0, 2, 1)}
	depots := []int32{0}

	route, err := router.SolveCourierRouting(context.Background(), requests, depots, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	require.Len(t, route.Subpaths, 2)
	assert.Equal(t, []int{3}, route.Subpaths[0].PickUpIDs)
	assert.Equal(t, int32(2), route.Subpaths[0].End)
	assert.NoError(t, ValidateRoute(rn, route, requests, depots, 10))
}

/*
newJunction. Y sits 100 m north of P:

	    Y(3)
	     |
	X(0)-P(1)-D(2)
*/
func newJunction(t *testing.T) (*datastructure.RoadNetwork, *Router) {
	m := lonForMeters(100)
	return buildRouter(t, func(b *datastructure.NetworkBuilder) {
		main := b.AddStreet("Main Street")
		north := b.AddStreet("North Street")
		b.AddIntersection(datastructure.NewCoordinate(0, 0), "")
		b.AddIntersection(datastructure.NewCoordinate(0, m), "")
		b.AddIntersection(datastructure.NewCoordinate(0, 2*m), "")
		b.AddIntersection(datastructure.NewCoordinate(m, m), "")
		link(b, main, 0, 1)
		link(b, main, 1, 2)
		link(b, north, 1, 3)
	})
}

func TestSolveCourierRoutingMultipleDepots(t *testing.T) {
	rn, router := newJunction(t)
	requests := []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 1)}

	// both depots are equally good, the first one listed wins
	for _, depots := range [][]int32{{3, 0}, {0, 3}} {
		route, err := router.SolveCourierRouting(context.Background(), requests, depots, routingalgorithm.TurnPenalty{}, 10)
		require.NoError(t, err)
		require.Len(t, route.Subpaths, 3)
		assert.Equal(t, depots[0], route.Subpaths[0].Start)
		assert.Equal(t, depots[0], route.Subpaths[2].End)
		assert.InDelta(t, 40.0, route.TravelTime, 1e-6)
		assert.NoError(t, ValidateRoute(rn, route, requests, depots, 10))
	}

	// the route may finish at another depot when it ends up there
	requests = []DeliveryRequest{NewDeliveryRequest(0, 2, 0, 1)}
	route, err := router.SolveCourierRouting(context.Background(), requests, []int32{3, 0}, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	require.Len(t, route.Subpaths, 2)
	assert.Equal(t, int32(3), route.Subpaths[0].Start)
	assert.Equal(t, int32(0), route.Subpaths[1].End)
	assert.Equal(t, []int{0}, route.Subpaths[1].PickUpIDs)
	assert.InDelta(t, 40.0, route.TravelTime, 1e-6)
	assert.NoError(t, ValidateRoute(rn, route, requests, []int32{3, 0}, 10))
}

func TestSolveCourierRoutingUnreachableDepot(t *testing.T) {
	_, router := buildRouter(t, func(b *datastructure.NetworkBuilder) {
		main := b.AddStreet("Main Street")
		b.AddIntersection(datastructure.NewCoordinate(0, 0), "")
		b.AddIntersection(datastructure.NewCoordinate(0, lonForMeters(100)), "")
		b.AddIntersection(datastructure.NewCoordinate(1, 1), "")
		link(b, main, 0, 1)
	})

	route, err := router.SolveCourierRouting(context.Background(),
		[]DeliveryRequest{NewDeliveryRequest(0, 0, 1, 1)}, []int32{2}, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	assert.True(t, route.IsEmpty())
}

func TestSolveCourierRoutingInvalidInput(t *testing.T) {
	_, router := newLine(t)
	ctx := context.Background()

	route, err := router.SolveCourierRouting(ctx, nil, []int32{0}, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	assert.True(t, route.IsEmpty())

	route, err = router.SolveCourierRouting(ctx, []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 1)}, nil,
		routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	assert.True(t, route.IsEmpty())

	_, err = router.SolveCourierRouting(ctx, []DeliveryRequest{NewDeliveryRequest(0, 1, 42, 1)}, []int32{0},
		routingalgorithm.TurnPenalty{}, 10)
	assert.ErrorIs(t, err, ErrInvalidIntersection)

	_, err = router.SolveCourierRouting(ctx, []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 1)}, []int32{-3},
		routingalgorithm.TurnPenalty{}, 10)
	assert.ErrorIs(t, err, ErrInvalidIntersection)

	_, err = router.SolveCourierRouting(ctx, []DeliveryRequest{
		NewDeliveryRequest(0, 1, 2, 1),
		NewDeliveryRequest(0, 2, 3, 1),
	}, []int32{0}, routingalgorithm.TurnPenalty{}, 10)
	assert.ErrorIs(t, err, ErrDuplicateRequestID)

	for _, capacity := range []float64{-1, math.NaN()} {
		_, err = router.SolveCourierRouting(ctx, []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 1)}, []int32{0},
			routingalgorithm.TurnPenalty{}, capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}

	_, err = router.SolveCourierRouting(ctx, []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 1)}, []int32{0},
		routingalgorithm.NewTurnPenalty(-1, 0), 10)
	assert.ErrorIs(t, err, routingalgorithm.ErrNegativePenalty)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = router.SolveCourierRouting(cancelled, []DeliveryRequest{NewDeliveryRequest(0, 1, 2, 1)}, []int32{0},
		routingalgorithm.TurnPenalty{}, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolveCourierRoutingCapacityBoundary(t *testing.T) {
	rn, router := newLine(t)
	// 0.1 + 0.2 rounds above 0.3, the truck must still come out empty after D.
	requests := []DeliveryRequest{
		NewDeliveryRequest(1, 1, 2, 0.1),
		NewDeliveryRequest(2, 1, 2, 0.2),
		NewDeliveryRequest(3, 2, 3, 0.45),
	}
	depots := []int32{0}

	route, err := router.SolveCourierRouting(context.Background(), requests, depots, routingalgorithm.TurnPenalty{}, 0.45)
	require.NoError(t, err)
	require.False(t, route.IsEmpty())
	assert.Equal(t, int32(0), route.Subpaths[0].Start)
	assert.Equal(t, int32(0), route.Subpaths[len(route.Subpaths)-1].End)
	assert.NoError(t, ValidateRoute(rn, route, requests, depots, 0.45))

	// a load that really exceeds capacity is still rejected.
	assert.ErrorIs(t, ValidateRoute(rn, route, requests, depots, 0.44), ErrInvalidRoute)
}

func TestSolveCourierRoutingRoundTripAtOnlyDepot(t *testing.T) {
	_, router := newLine(t)

	// pick up and drop off at the only depot, no leg ever returns to the intersection it left.
	route, err := router.SolveCourierRouting(context.Background(),
		[]DeliveryRequest{NewDeliveryRequest(0, 0, 0, 1)}, []int32{0}, routingalgorithm.TurnPenalty{}, 10)
	require.NoError(t, err)
	assert.True(t, route.IsEmpty())
}

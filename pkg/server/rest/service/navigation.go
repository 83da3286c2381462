package service

import (
	"context"
	"errors"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/geo"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
	"github.com/lintang-b-s/streetmap/pkg/kv"
	"github.com/lintang-b-s/streetmap/pkg/server"
	"github.com/lintang-b-s/streetmap/pkg/snap"
	"go.uber.org/zap"
)

const notCoveredMsg = "sorry!! the location you entered is not covered on my map :(, please use a different openstreetmap file"

type pathKey struct {
	from, to int32
	penalty  routingalgorithm.TurnPenalty
}

type NavigationService struct {
	routing  RoutingAlgorithm
	router   CourierRouter
	kv       KVDB
	snapper  IntersectionSnapper
	turns    TurnClassifier
	penalty  routingalgorithm.TurnPenalty
	capacity float64
	cache    *lru.Cache[pathKey, routingalgorithm.PathResult]
	logger   *zap.Logger
}

// NewNavigationService kvDB may be nil, snapping then goes through the r-tree only.
func NewNavigationService(routing RoutingAlgorithm, router CourierRouter, kvDB KVDB, snapper IntersectionSnapper,
	turns TurnClassifier, penalty routingalgorithm.TurnPenalty, capacity float64, cacheSize int, logger *zap.Logger,
) (*NavigationService, error) {
	cache, err := lru.New[pathKey, routingalgorithm.PathResult](cacheSize)
	if err != nil {
		return nil, err
	}
	return &NavigationService{
		routing:  routing,
		router:   router,
		kv:       kvDB,
		snapper:  snapper,
		turns:    turns,
		penalty:  penalty,
		capacity: capacity,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Penalty configured turn penalties with the non-nil overrides applied.
func (uc *NavigationService) Penalty(right, left *float64) routingalgorithm.TurnPenalty {
	p := uc.penalty
	if right != nil {
		p.Right = *right
	}
	if left != nil {
		p.Left = *left
	}
	return p
}

// TruckCapacity configured capacity, used when a courier request does not carry one.
func (uc *NavigationService) TruckCapacity() float64 {
	return uc.capacity
}

// SnapLocToIntersection closest intersection among the h3 candidates around (lat, lon).
func (uc *NavigationService) SnapLocToIntersection(lat, lon float64) (int32, error) {
	if uc.kv == nil {
		snapped, err := uc.snapper.ClosestIntersection(datastructure.NewCoordinate(lat, lon))
		if err != nil {
			return 0, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
		}
		return snapped.ID, nil
	}

	candidates, err := uc.kv.GetNearestIntersectionsFromPointCoord(lat, lon)
	if errors.Is(err, kv.ErrIntersectionsNotFound) {
		return 0, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
	} else if err != nil {
		return 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	best, bestDist := candidates[0].ID, math.Inf(1)
	for _, c := range candidates {
		d := geo.CalculateHaversineDistance(lat, lon, c.Lat, c.Lon)
		if d < bestDist || (d == bestDist && c.ID < best) {
			best, bestDist = c.ID, d
		}
	}
	return best, nil
}

// ShortestPath snaps both coordinates and runs A* between the snapped intersections.
func (uc *NavigationService) ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64,
	penalty routingalgorithm.TurnPenalty) (routingalgorithm.PathResult, error) {
	from, err := uc.SnapLocToIntersection(srcLat, srcLon)
	if err != nil {
		return routingalgorithm.PathResult{}, err
	}
	to, err := uc.SnapLocToIntersection(dstLat, dstLon)
	if err != nil {
		return routingalgorithm.PathResult{}, err
	}

	key := pathKey{from: from, to: to, penalty: penalty}
	if res, ok := uc.cache.Get(key); ok {
		return res, nil
	}

	res, err := uc.routing.ShortestPath(ctx, from, to, penalty)
	if err != nil {
		return routingalgorithm.PathResult{}, mapRoutingError(err)
	}
	if !res.Found {
		return routingalgorithm.PathResult{}, server.WrapErrorf(server.ErrPathNotFound, server.ErrNotFound,
			"no route found from %f,%f to %f,%f", srcLat, srcLon, dstLat, dstLon)
	}

	simplified := geo.SimplifyPolyline(datastructure.NewGeoCoordinates(res.Path), geo.DefaultSimplifyTolerance)
	res.Polyline = datastructure.CreatePolyline(datastructure.FromGeoCoordinates(simplified))

	uc.cache.Add(key, res)
	uc.logger.Debug("shortest path", zap.Int32("from", from), zap.Int32("to", to),
		zap.Float64("travel_time", res.TravelTime), zap.Int("segments", len(res.Segments)))
	return res, nil
}

// PathsToAll travel time from start to every destination, unreachable ones are reported as such.
func (uc *NavigationService) PathsToAll(ctx context.Context, start int32, dests []int32,
	penalty routingalgorithm.TurnPenalty) (map[int32]routingalgorithm.PathCost, error) {
	res, err := uc.routing.FindPathsToAll(ctx, start, dests, penalty)
	if err != nil {
		return nil, mapRoutingError(err)
	}
	return res, nil
}

// PathTravelTime cost of driving the given segments in order.
func (uc *NavigationService) PathTravelTime(ctx context.Context, segments []int32, penalty routingalgorithm.TurnPenalty) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	for _, s := range segments {
		if !uc.routing.Network().IsValidSegment(s) {
			return 0, server.NewErrorf(server.ErrBadParamInput, "unknown street segment %d", s)
		}
	}
	cost := uc.routing.CostModel().PathTravelTime(segments, penalty)
	if math.IsInf(cost, 1) {
		return 0, server.WrapErrorf(server.ErrPathNotFound, server.ErrNotFound, "path is empty or its segments are not connected")
	}
	return cost, nil
}

// TurnType turn made when driving from segment a into segment b.
func (uc *NavigationService) TurnType(ctx context.Context, a, b int32) (guidance.TurnType, error) {
	network := uc.routing.Network()
	if !network.IsValidSegment(a) || !network.IsValidSegment(b) {
		return guidance.TURN_NONE, server.NewErrorf(server.ErrBadParamInput, "unknown street segment %d or %d", a, b)
	}
	return uc.turns.TurnType(a, b), nil
}

// CourierRouting solves the pickup and delivery problem and checks the route before returning it.
func (uc *NavigationService) CourierRouting(ctx context.Context, requests []courier.DeliveryRequest, depots []int32,
	penalty routingalgorithm.TurnPenalty, capacity float64) (courier.Route, error) {
	route, err := uc.router.SolveCourierRouting(ctx, requests, depots, penalty, capacity)
	switch {
	case errors.Is(err, courier.ErrInvalidIntersection), errors.Is(err, courier.ErrDuplicateRequestID),
		errors.Is(err, courier.ErrInvalidWeight),
		errors.Is(err, courier.ErrInvalidCapacity), errors.Is(err, routingalgorithm.ErrNegativePenalty):
		return courier.Route{}, server.WrapErrorf(err, server.ErrBadParamInput, "invalid courier request")
	case err != nil:
		return courier.Route{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	if err := courier.ValidateRoute(uc.routing.Network(), route, requests, depots, capacity); err != nil {
		uc.logger.Error("courier route failed validation", zap.Error(err))
		return courier.Route{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return route, nil
}

// NearestIntersections intersections within radiusKm of (lat, lon), closest first.
func (uc *NavigationService) NearestIntersections(ctx context.Context, lat, lon, radiusKm float64, k int) ([]snap.SnappedIntersection, error) {
	if err := ctx.Err(); err != nil {
		return nil, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	return uc.snapper.NearestIntersections(datastructure.NewCoordinate(lat, lon), radiusKm, k), nil
}

// NearestStreet street segment closest to a coordinate.
type NearestStreet struct {
	snap.SnappedSegment
	Street string `json:"street"`
}

// NearestStreet projects (lat, lon) onto the closest street segment around it.
func (uc *NavigationService) NearestStreet(ctx context.Context, lat, lon float64) (NearestStreet, error) {
	if err := ctx.Err(); err != nil {
		return NearestStreet{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	seg, err := uc.snapper.SnapToStreet(datastructure.NewCoordinate(lat, lon))
	if errors.Is(err, snap.ErrEmptyNetwork) {
		return NearestStreet{}, server.WrapErrorf(err, server.ErrNotFound, notCoveredMsg)
	} else if err != nil {
		return NearestStreet{}, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	network := uc.routing.Network()
	return NearestStreet{
		SnappedSegment: seg,
		Street:         network.StreetName(network.Segment(seg.SegmentID).StreetID),
	}, nil
}

func mapRoutingError(err error) error {
	if errors.Is(err, routingalgorithm.ErrInvalidIntersection) || errors.Is(err, routingalgorithm.ErrNegativePenalty) {
		return server.WrapErrorf(err, server.ErrBadParamInput, "invalid routing request")
	}
	return server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
}

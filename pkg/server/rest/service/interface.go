package service

import (
	"context"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
	"github.com/lintang-b-s/streetmap/pkg/kv"
	"github.com/lintang-b-s/streetmap/pkg/snap"
)

type RoutingAlgorithm interface {
	ShortestPath(ctx context.Context, start, end int32, penalty routingalgorithm.TurnPenalty) (routingalgorithm.PathResult, error)
	FindPathsToAll(ctx context.Context, start int32, dests []int32, penalty routingalgorithm.TurnPenalty) (map[int32]routingalgorithm.PathCost, error)
	CostModel() *routingalgorithm.CostModel
	Network() routingalgorithm.RoadNetwork
}

type CourierRouter interface {
	SolveCourierRouting(ctx context.Context, requests []courier.DeliveryRequest, depots []int32,
		penalty routingalgorithm.TurnPenalty, capacity float64) (courier.Route, error)
}

type KVDB interface {
	GetNearestIntersectionsFromPointCoord(lat, lon float64) ([]kv.IndexedIntersection, error)
}

type IntersectionSnapper interface {
	ClosestIntersection(coord datastructure.Coordinate) (snap.SnappedIntersection, error)
	NearestIntersections(coord datastructure.Coordinate, radiusKm float64, k int) []snap.SnappedIntersection
	SnapToStreet(coord datastructure.Coordinate) (snap.SnappedSegment, error)
}

type TurnClassifier interface {
	TurnType(a, b int32) guidance.TurnType
}

package routingalgorithm

import "github.com/lintang-b-s/streetmap/pkg/guidance"

type RoadNetwork interface {
	guidance.RoadNetwork

	NumIntersections() int
	NumSegments() int
	IsValidIntersection(id int32) bool
	IsValidSegment(id int32) bool
	CanTraverseFrom(segment, intersection int32) (int32, bool)
	TravelTime(segment int32) float64
	SegmentLength(segment int32) float64
	TopSpeedLimit() float64
}

// Reachability answers whether any drivable path joins two intersections, without searching.
type Reachability interface {
	CanReach(a, b int32) bool
}

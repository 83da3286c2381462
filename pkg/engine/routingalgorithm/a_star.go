package routingalgorithm

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
	"go.uber.org/zap"
)

// FindPath A* shortest path from start to end minimizing travel time plus turn penalties.
// an empty path means end is unreachable (or start == end).
// https://www.cs.princeton.edu/courses/archive/spr06/cos423/Handouts/GH05.pdf
func (rt *RouteAlgorithm) FindPath(ctx context.Context, start, end int32, penalty TurnPenalty) ([]int32, error) {
	if err := rt.validateIntersection(start); err != nil {
		return nil, err
	}
	if err := rt.validateIntersection(end); err != nil {
		return nil, err
	}
	if err := validatePenalty(penalty); err != nil {
		return nil, err
	}
	if start == end {
		return []int32{}, nil
	}
	if !rt.canReach(start, end) {
		rt.logger.Debug("no path, different components", zap.Int32("start", start), zap.Int32("end", end))
		return []int32{}, nil
	}

	arena := rt.getArena()
	defer rt.putArena(arena)

	heuristic := func(node int32) float64 {
		return rt.estimatedTravelTime(node, end)
	}

	pq := arena.frontier
	pq.Insert(datastructure.NewPriorityQueueNode(heuristic(start),
		wavefrontEntry{node: start, edge: datastructure.NO_EDGE, g: 0}))

	popped := 0
	for !pq.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("find path %d -> %d: %w", start, end, err)
		}

		item, _ := pq.ExtractMin()
		popped++
		entry := item.Item
		if !arena.accept(entry) {
			continue
		}

		if entry.node == end {
			path := rt.traceBack(arena, start, end)
			rt.logger.Debug("path found",
				zap.Int32("start", start), zap.Int32("end", end),
				zap.Float64("travel_time", entry.g), zap.Int("segments", len(path)), zap.Int("popped", popped))
			return path, nil
		}

		rt.expand(pq, arena, entry, penalty, heuristic)
	}

	rt.logger.Debug("no path", zap.Int32("start", start), zap.Int32("end", end), zap.Int("popped", popped))
	return []int32{}, nil
}

type PathResult struct {
	Start      int32                       `json:"start"`
	End        int32                       `json:"end"`
	Found      bool                        `json:"found"`
	Segments   []int32                     `json:"segments"`
	Path       []datastructure.Coordinate  `json:"-"`
	Polyline   string                      `json:"polyline"`
	TravelTime float64                     `json:"travel_time"` // second, INF_WEIGHT when not found
	Length     float64                     `json:"length"`      // meter
	Directions []guidance.DrivingDirection `json:"driving_directions"`
}

// ShortestPath FindPath plus geometry, travel time, length and driving directions of the path.
func (rt *RouteAlgorithm) ShortestPath(ctx context.Context, start, end int32, penalty TurnPenalty) (PathResult, error) {
	segments, err := rt.FindPath(ctx, start, end, penalty)
	if err != nil {
		return PathResult{}, err
	}

	res := PathResult{
		Start:      start,
		End:        end,
		Segments:   segments,
		Path:       []datastructure.Coordinate{},
		Directions: []guidance.DrivingDirection{},
	}

	if start == end {
		res.Found = true
		res.Path = []datastructure.Coordinate{rt.network.Position(start)}
		res.Polyline = datastructure.CreatePolyline(res.Path)
		return res, nil
	}
	if len(segments) == 0 {
		res.TravelTime = datastructure.INF_WEIGHT
		return res, nil
	}

	res.Found = true
	res.TravelTime = rt.cost.PathTravelTimeFrom(start, segments, penalty)
	for _, segID := range segments {
		res.Length += rt.network.SegmentLength(segID)
	}
	res.Path = rt.pathCoordinates(start, segments)
	res.Polyline = datastructure.CreatePolyline(res.Path)

	directions, err := guidance.NewDirectionBuilder(rt.network, rt.network.NumSegments()).GetDrivingDirections(start, segments)
	if err != nil {
		return PathResult{}, fmt.Errorf("driving directions %d -> %d: %w", start, end, err)
	}
	res.Directions = directions
	return res, nil
}

func (rt *RouteAlgorithm) pathCoordinates(start int32, path []int32) []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, 0, len(path)*2+1)
	coords = append(coords, rt.network.Position(start))
	cur := start
	for _, segID := range path {
		points := rt.network.SegmentPoints(segID)
		if rt.network.Segment(segID).From == cur {
			coords = append(coords, points[1:]...)
		} else {
			for i := len(points) - 2; i >= 0; i-- {
				coords = append(coords, points[i])
			}
		}
		cur = rt.network.OtherEndpoint(segID, cur)
	}
	return coords
}

package routingalgorithm

import (
	"context"
	"fmt"

	"github.com/lintang-b-s/streetmap/pkg/concurrent"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/util"
	"go.uber.org/zap"
)

// PathCost cost and segments of the best path to one destination of a batch search.
type PathCost struct {
	Cost      float64 // second, INF_WEIGHT when unreachable
	Path      []int32
	Reachable bool
}

func unreachable() PathCost {
	return PathCost{Cost: datastructure.INF_WEIGHT, Path: []int32{}, Reachable: false}
}

// FindPathsToAll one Dijkstra from start that stops once every destination was settled.
// every destination is present in the result. start itself costs 0 with an empty path.
func (rt *RouteAlgorithm) FindPathsToAll(ctx context.Context, start int32, dests []int32, penalty TurnPenalty) (map[int32]PathCost, error) {
	if err := rt.validateIntersection(start); err != nil {
		return nil, err
	}
	for _, d := range dests {
		if err := rt.validateIntersection(d); err != nil {
			return nil, err
		}
	}
	if err := validatePenalty(penalty); err != nil {
		return nil, err
	}

	remaining := make(map[int32]struct{}, len(dests))
	for _, d := range dests {
		if d != start && rt.canReach(start, d) {
			remaining[d] = struct{}{}
		}
	}

	arena := rt.getArena()
	defer rt.putArena(arena)

	noHeuristic := func(int32) float64 { return 0 }

	pq := arena.frontier
	pq.Insert(datastructure.NewPriorityQueueNode(0, wavefrontEntry{node: start, edge: datastructure.NO_EDGE, g: 0}))

	for !pq.IsEmpty() && len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("batch search from %d: %w", start, err)
		}

		item, _ := pq.ExtractMin()
		entry := item.Item
		if !arena.accept(entry) {
			continue
		}
		delete(remaining, entry.node)
		if len(remaining) == 0 {
			break
		}

		rt.expand(pq, arena, entry, penalty, noHeuristic)
	}

	result := make(map[int32]PathCost, len(dests))
	for _, d := range dests {
		switch {
		case d == start:
			result[d] = PathCost{Cost: 0, Path: []int32{}, Reachable: true}
		case arena.isDefined(d):
			path := rt.traceBack(arena, start, d)
			result[d] = PathCost{
				Cost:      rt.cost.PathTravelTimeFrom(start, path, penalty),
				Path:      path,
				Reachable: true,
			}
		default:
			result[d] = unreachable()
		}
	}

	rt.logger.Debug("batch search done", zap.Int32("start", start), zap.Int("destinations", len(dests)),
		zap.Int("unreached", len(remaining)))
	return result, nil
}

// TravelTimeTable pairwise best paths between a small set of points of interest.
type TravelTimeTable struct {
	points []int32
	index  map[int32]int
	legs   [][]PathCost
}

func (t *TravelTimeTable) Points() []int32 {
	return t.points
}

// Leg best path from -> to. false when either point is not part of the table.
func (t *TravelTimeTable) Leg(from, to int32) (PathCost, bool) {
	i, ok := t.index[from]
	if !ok {
		return PathCost{}, false
	}
	j, ok := t.index[to]
	if !ok {
		return PathCost{}, false
	}
	return t.legs[i][j], true
}

// Time travel time from -> to, INF_WEIGHT when unknown or unreachable.
func (t *TravelTimeTable) Time(from, to int32) float64 {
	leg, ok := t.Leg(from, to)
	if !ok {
		return datastructure.INF_WEIGHT
	}
	return leg.Cost
}

type tableRow struct {
	costs map[int32]PathCost
	err   error
}

// TravelTimeTable runs one batch search per distinct point over the worker pool.
func (rt *RouteAlgorithm) TravelTimeTable(ctx context.Context, points []int32, penalty TurnPenalty) (*TravelTimeTable, error) {
	distinct := util.RemoveDuplicates(points)

	rows := concurrent.Run(rt.workers, distinct, func(source int32) tableRow {
		costs, err := rt.FindPathsToAll(ctx, source, distinct, penalty)
		return tableRow{costs: costs, err: err}
	})

	table := &TravelTimeTable{
		points: distinct,
		index:  make(map[int32]int, len(distinct)),
		legs:   make([][]PathCost, len(distinct)),
	}
	for i, p := range distinct {
		table.index[p] = i
	}
	for i, row := range rows {
		if row.err != nil {
			return nil, row.err
		}
		table.legs[i] = make([]PathCost, len(distinct))
		for j, p := range distinct {
			table.legs[i][j] = row.costs[p]
		}
	}

	rt.logger.Debug("travel time table built", zap.Int("points", len(distinct)), zap.Int("workers", rt.workers))
	return table, nil
}

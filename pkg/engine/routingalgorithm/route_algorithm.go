package routingalgorithm

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/geo"
	"go.uber.org/zap"
)

var (
	ErrInvalidIntersection = errors.New("unknown intersection")
	ErrNegativePenalty     = errors.New("turn penalties must not be negative")
)

// RouteAlgorithm runs single and multi target searches over a read-only RoadNetwork.
// Every query owns its search state so queries can run concurrently.
type RouteAlgorithm struct {
	network   RoadNetwork
	cost      *CostModel
	logger    *zap.Logger
	workers   int
	reach     Reachability
	arenaPool sync.Pool
}

type Option func(*RouteAlgorithm)

// WithWorkers number of goroutines used by TravelTimeTable.
func WithWorkers(n int) Option {
	return func(rt *RouteAlgorithm) {
		if n > 0 {
			rt.workers = n
		}
	}
}

// WithReachability lets the searches give up at once on targets that cannot be reached.
func WithReachability(reach Reachability) Option {
	return func(rt *RouteAlgorithm) {
		rt.reach = reach
	}
}

func (rt *RouteAlgorithm) canReach(a, b int32) bool {
	return rt.reach == nil || rt.reach.CanReach(a, b)
}

func NewRouteAlgorithm(network RoadNetwork, logger *zap.Logger, options ...Option) *RouteAlgorithm {
	rt := &RouteAlgorithm{
		network: network,
		cost:    NewCostModel(network),
		logger:  logger,
		workers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(rt)
	}

	numIntersections := network.NumIntersections()
	rt.arenaPool = sync.Pool{
		New: func() any {
			return newSearchArena(numIntersections)
		},
	}
	return rt
}

func (rt *RouteAlgorithm) CostModel() *CostModel {
	return rt.cost
}

func (rt *RouteAlgorithm) Network() RoadNetwork {
	return rt.network
}

func (rt *RouteAlgorithm) getArena() *searchArena {
	arena := rt.arenaPool.Get().(*searchArena)
	arena.reset()
	return arena
}

func (rt *RouteAlgorithm) putArena(arena *searchArena) {
	rt.arenaPool.Put(arena)
}

func (rt *RouteAlgorithm) validateIntersection(id int32) error {
	if !rt.network.IsValidIntersection(id) {
		return fmt.Errorf("intersection %d: %w", id, ErrInvalidIntersection)
	}
	return nil
}

func validatePenalty(penalty TurnPenalty) error {
	if penalty.Right < 0 || penalty.Left < 0 || math.IsNaN(penalty.Right) || math.IsNaN(penalty.Left) {
		return fmt.Errorf("right %f left %f: %w", penalty.Right, penalty.Left, ErrNegativePenalty)
	}
	return nil
}

// estimatedTravelTime lower bound of the travel time from intersection to target (second).
func (rt *RouteAlgorithm) estimatedTravelTime(intersection, target int32) float64 {
	topSpeed := rt.network.TopSpeedLimit()
	if topSpeed <= 0 {
		return 0
	}
	from := rt.network.Position(intersection)
	to := rt.network.Position(target)
	dist := geo.EquirectangularDistance(from.Lat, from.Lon, to.Lat, to.Lon)
	return dist / (topSpeed / 3.6)
}

// expand push a wavefront entry for every intersection legally reachable from entry.node.
func (rt *RouteAlgorithm) expand(pq *datastructure.MinHeap[wavefrontEntry], arena *searchArena,
	entry wavefrontEntry, penalty TurnPenalty, heuristic func(int32) float64) {
	for _, segID := range rt.network.Segments(entry.node) {
		next, ok := rt.network.CanTraverseFrom(segID, entry.node)
		if !ok {
			continue
		}
		g := entry.g + rt.cost.TransitionCostAt(entry.edge, segID, entry.node, penalty)
		if math.IsInf(g, 1) || !arena.improves(next, g) {
			continue
		}
		pq.Insert(datastructure.NewPriorityQueueNode(g+heuristic(next), wavefrontEntry{node: next, edge: segID, g: g}))
	}
}

// traceBack segments from start to end following reaching edges backwards.
func (rt *RouteAlgorithm) traceBack(arena *searchArena, start, end int32) []int32 {
	path := make([]int32, 0)
	cur := end
	for cur != start {
		segID := arena.nodes[cur].reachingEdge
		if segID == datastructure.NO_EDGE {
			break
		}
		path = append(path, segID)
		cur = rt.network.OtherEndpoint(segID, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

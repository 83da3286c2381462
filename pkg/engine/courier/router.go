package courier

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/lintang-b-s/streetmap/pkg/concurrent"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"go.uber.org/zap"
)

// Router greedy single vehicle pickup and delivery planner.
type Router struct {
	engine  RouteEngine
	logger  *zap.Logger
	workers int
}

func NewRouter(engine RouteEngine, logger *zap.Logger, workers int) *Router {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Router{engine: engine, logger: logger, workers: workers}
}

type candidate struct {
	depot int32
	route Route
	ok    bool
}

// SolveCourierRouting plans one route per starting depot and returns the cheapest.
// An empty Route means no depot could serve every request.
func (r *Router) SolveCourierRouting(ctx context.Context, requests []DeliveryRequest, depots []int32,
	penalty routingalgorithm.TurnPenalty, capacity float64) (Route, error) {
	if len(requests) == 0 || len(depots) == 0 {
		return emptyRoute(), nil
	}
	if err := r.validate(requests, depots, capacity); err != nil {
		return emptyRoute(), err
	}

	points := make([]int32, 0, 2*len(requests)+len(depots))
	for _, req := range requests {
		points = append(points, req.PickUp, req.DropOff)
	}
	points = append(points, depots...)

	table, err := r.engine.TravelTimeTable(ctx, points, penalty)
	if err != nil {
		return emptyRoute(), fmt.Errorf("courier travel time table: %w", err)
	}

	candidates := concurrent.Run(r.workers, depots, func(depot int32) candidate {
		route, ok := newTruck(table, requests, depots, capacity).drive(depot)
		return candidate{depot: depot, route: route, ok: ok}
	})
	if err := ctx.Err(); err != nil {
		return emptyRoute(), fmt.Errorf("courier routing: %w", err)
	}

	best := emptyRoute()
	bestTime := math.Inf(1)
	bestDepot := int32(datastructure.INVALID_INTERSECTION)
	for _, c := range candidates {
		if !c.ok {
			r.logger.Debug("depot can not serve all requests", zap.Int32("depot", c.depot))
			continue
		}
		if c.route.TravelTime < bestTime {
			best, bestTime, bestDepot = c.route, c.route.TravelTime, c.depot
		}
	}

	r.logger.Info("courier route planned", zap.Int("requests", len(requests)), zap.Int("depots", len(depots)),
		zap.Int32("start_depot", bestDepot), zap.Int("subpaths", len(best.Subpaths)),
		zap.Float64("travel_time", best.TravelTime))
	return best, nil
}

func (r *Router) validate(requests []DeliveryRequest, depots []int32, capacity float64) error {
	if capacity < 0 || math.IsNaN(capacity) {
		return fmt.Errorf("capacity %f: %w", capacity, ErrInvalidCapacity)
	}
	network := r.engine.Network()
	ids := make(map[int]struct{}, len(requests))
	for _, req := range requests {
		if _, ok := ids[req.ID]; ok {
			return fmt.Errorf("request %d: %w", req.ID, ErrDuplicateRequestID)
		}
		ids[req.ID] = struct{}{}

		if !network.IsValidIntersection(req.PickUp) {
			return fmt.Errorf("request %d pick up %d: %w", req.ID, req.PickUp, ErrInvalidIntersection)
		}
		if !network.IsValidIntersection(req.DropOff) {
			return fmt.Errorf("request %d drop off %d: %w", req.ID, req.DropOff, ErrInvalidIntersection)
		}
		if req.Weight < 0 || math.IsNaN(req.Weight) {
			return fmt.Errorf("request %d weight %f: %w", req.ID, req.Weight, ErrInvalidWeight)
		}
	}
	for _, depot := range depots {
		if !network.IsValidIntersection(depot) {
			return fmt.Errorf("depot %d: %w", depot, ErrInvalidIntersection)
		}
	}
	return nil
}

package courier

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
)

var ErrInvalidRoute = errors.New("invalid courier route")

// ValidateRoute replays route against the requests. it checks that legs chain up and can be
// driven, that the route starts and ends at a depot, that nothing is dropped off before it
// was picked up, that the load never exceeds capacity and that every request is delivered.
func ValidateRoute(network routingalgorithm.RoadNetwork, route Route, requests []DeliveryRequest,
	depots []int32, capacity float64) error {
	if route.IsEmpty() {
		return nil
	}

	isDepot := make(map[int32]struct{}, len(depots))
	for _, d := range depots {
		isDepot[d] = struct{}{}
	}
	byID := make(map[int]int, len(requests))
	for i, req := range requests {
		byID[req.ID] = i
	}

	first, last := route.Subpaths[0], route.Subpaths[len(route.Subpaths)-1]
	if _, ok := isDepot[first.Start]; !ok {
		return fmt.Errorf("%w: starts at %d which is not a depot", ErrInvalidRoute, first.Start)
	}
	if _, ok := isDepot[last.End]; !ok {
		return fmt.Errorf("%w: ends at %d which is not a depot", ErrInvalidRoute, last.End)
	}

	var (
		load      float64
		onBoard   = make(map[int]int)
		pickedUp  = make(map[int]struct{})
		delivered = make(map[int]struct{})
	)
	onBoardLoad := func() float64 {
		indices := make([]int, 0, len(onBoard))
		for _, idx := range onBoard {
			indices = append(indices, idx)
		}
		return loadOf(requests, indices)
	}
	dropOffAt := func(intersection int32) {
		for id, idx := range onBoard {
			if requests[idx].DropOff == intersection {
				delete(onBoard, id)
				delivered[id] = struct{}{}
			}
		}
		load = onBoardLoad()
	}

	for i, sub := range route.Subpaths {
		if i > 0 && route.Subpaths[i-1].End != sub.Start {
			return fmt.Errorf("%w: subpath %d starts at %d but the previous one ends at %d",
				ErrInvalidRoute, i, sub.Start, route.Subpaths[i-1].End)
		}
		if !drivable(network, sub) {
			return fmt.Errorf("%w: subpath %d can not be driven from %d to %d", ErrInvalidRoute, i, sub.Start, sub.End)
		}

		dropOffAt(sub.Start)
		for _, id := range sub.PickUpIDs {
			idx, ok := byID[id]
			if !ok {
				return fmt.Errorf("%w: subpath %d picks up unknown request %d", ErrInvalidRoute, i, id)
			}
			req := requests[idx]
			if req.PickUp != sub.Start {
				return fmt.Errorf("%w: request %d picked up at %d instead of %d", ErrInvalidRoute, id, sub.Start, req.PickUp)
			}
			if _, ok := pickedUp[id]; ok {
				return fmt.Errorf("%w: request %d picked up twice", ErrInvalidRoute, id)
			}
			pickedUp[id] = struct{}{}
			onBoard[id] = idx
			load = onBoardLoad()
			if overCapacity(load, capacity) {
				return fmt.Errorf("%w: load %f exceeds capacity %f after subpath %d pick up", ErrInvalidRoute,
					load, capacity, i)
			}
		}
		dropOffAt(sub.Start)
	}
	dropOffAt(last.End)

	for _, req := range requests {
		if _, ok := delivered[req.ID]; !ok {
			return fmt.Errorf("%w: request %d was never delivered", ErrInvalidRoute, req.ID)
		}
	}
	return nil
}

func drivable(network routingalgorithm.RoadNetwork, sub CourierSubpath) bool {
	if len(sub.Segments) == 0 {
		return sub.Start == sub.End
	}
	cur := sub.Start
	for _, segID := range sub.Segments {
		if !network.IsValidSegment(segID) {
			return false
		}
		next, ok := network.CanTraverseFrom(segID, cur)
		if !ok {
			return false
		}
		cur = next
	}
	return cur == sub.End
}

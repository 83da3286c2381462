package courier

import (
	"math"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
)

// truck state of one greedy run from a single starting depot.
type truck struct {
	table    *routingalgorithm.TravelTimeTable
	requests []DeliveryRequest
	depots   []int32
	isDepot  map[int32]struct{}
	capacity float64

	load       float64
	pending    []bool          // request index -> still waiting at its pick up
	onBoard    map[int32][]int // drop off -> request indices
	numWaiting int
}

func newTruck(table *routingalgorithm.TravelTimeTable, requests []DeliveryRequest, depots []int32, capacity float64) *truck {
	t := &truck{
		table:      table,
		requests:   requests,
		depots:     depots,
		isDepot:    make(map[int32]struct{}, len(depots)),
		capacity:   capacity,
		pending:    make([]bool, len(requests)),
		onBoard:    make(map[int32][]int),
		numWaiting: len(requests),
	}
	for _, d := range depots {
		t.isDepot[d] = struct{}{}
	}
	for i := range t.pending {
		t.pending[i] = true
	}
	return t
}

// drive runs the pickup and delivery loop starting at depot. false when some leg has no path
// or a pending request can never be loaded.
func (t *truck) drive(depot int32) (Route, bool) {
	route := Route{Subpaths: make([]CourierSubpath, 0, 2*len(t.requests)+1)}
	cur := depot

	// each leg unloads or loads at least one request, so the loop ends.
	for {
		loaded := t.stop(cur)

		if t.numWaiting == 0 && len(t.onBoard) == 0 {
			if _, ok := t.isDepot[cur]; ok && len(loaded) == 0 {
				return route, true
			}
			next, ok := t.nearestDepot(cur)
			if !ok {
				return emptyRoute(), false
			}
			if !t.appendLeg(&route, cur, next, loaded) {
				return emptyRoute(), false
			}
			return route, true
		}

		next, ok := t.nextStop(cur)
		if !ok {
			return emptyRoute(), false
		}
		if !t.appendLeg(&route, cur, next, loaded) {
			return emptyRoute(), false
		}
		cur = next
	}
}

func (t *truck) appendLeg(route *Route, from, to int32, loaded []int) bool {
	leg, ok := t.table.Leg(from, to)
	if !ok || !leg.Reachable || math.IsInf(leg.Cost, 1) {
		return false
	}
	route.Subpaths = append(route.Subpaths, CourierSubpath{
		Start:     from,
		End:       to,
		Segments:  leg.Path,
		PickUpIDs: loaded,
	})
	route.TravelTime += leg.Cost
	return true
}

// stop unloads whatever is bound for intersection, then loads waiting requests in request
// order while they fit. requests picked up and dropped off at the same place leave right away.
// returns the ids loaded here.
func (t *truck) stop(intersection int32) []int {
	t.unload(intersection)

	loaded := make([]int, 0)
	for i, req := range t.requests {
		if !t.pending[i] || req.PickUp != intersection {
			continue
		}
		if overCapacity(t.load+req.Weight, t.capacity) {
			continue
		}
		t.pending[i] = false
		t.numWaiting--
		t.load += req.Weight
		t.onBoard[req.DropOff] = append(t.onBoard[req.DropOff], i)
		loaded = append(loaded, req.ID)
	}

	t.unload(intersection)
	return loaded
}

func (t *truck) unload(intersection int32) {
	if _, ok := t.onBoard[intersection]; !ok {
		return
	}
	delete(t.onBoard, intersection)

	remaining := make([]int, 0)
	for _, indices := range t.onBoard {
		remaining = append(remaining, indices...)
	}
	t.load = loadOf(t.requests, remaining)
}

// nextStop the nearer of the closest pick up that still fits and the closest on board drop off.
// drop offs win ties. the current intersection is never a target.
func (t *truck) nextStop(cur int32) (int32, bool) {
	pickUp, pickUpTime := t.nearestPickUp(cur)
	dropOff, dropOffTime := t.nearestDropOff(cur)

	switch {
	case dropOff != datastructure.INVALID_INTERSECTION && dropOffTime <= pickUpTime:
		return dropOff, true
	case pickUp != datastructure.INVALID_INTERSECTION:
		return pickUp, true
	default:
		return datastructure.INVALID_INTERSECTION, false
	}
}

func (t *truck) nearestPickUp(cur int32) (int32, float64) {
	// smallest waiting weight per pick up location
	lightest := make(map[int32]float64)
	order := make([]int32, 0)
	for i, req := range t.requests {
		if !t.pending[i] || req.PickUp == cur {
			continue
		}
		w, ok := lightest[req.PickUp]
		if !ok {
			order = append(order, req.PickUp)
			lightest[req.PickUp] = req.Weight
		} else if req.Weight < w {
			lightest[req.PickUp] = req.Weight
		}
	}

	best := int32(datastructure.INVALID_INTERSECTION)
	bestTime := math.Inf(1)
	for _, p := range order {
		if overCapacity(t.load+lightest[p], t.capacity) {
			continue
		}
		if cost := t.table.Time(cur, p); cost < bestTime {
			best, bestTime = p, cost
		}
	}
	return best, bestTime
}

func (t *truck) nearestDropOff(cur int32) (int32, float64) {
	best := int32(datastructure.INVALID_INTERSECTION)
	bestTime := math.Inf(1)
	// request order keeps the choice deterministic across map iteration
	for i, req := range t.requests {
		if t.pending[i] || req.DropOff == cur {
			continue
		}
		if _, ok := t.onBoard[req.DropOff]; !ok {
			continue
		}
		if cost := t.table.Time(cur, req.DropOff); cost < bestTime {
			best, bestTime = req.DropOff, cost
		}
	}
	return best, bestTime
}

func (t *truck) nearestDepot(cur int32) (int32, bool) {
	best := int32(datastructure.INVALID_INTERSECTION)
	bestTime := math.Inf(1)
	for _, d := range t.depots {
		if d == cur {
			continue
		}
		if cost := t.table.Time(cur, d); cost < bestTime {
			best, bestTime = d, cost
		}
	}
	return best, best != datastructure.INVALID_INTERSECTION
}

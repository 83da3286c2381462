package courier

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
)

var (
	ErrInvalidIntersection = errors.New("unknown intersection")
	ErrDuplicateRequestID  = errors.New("duplicate delivery request id")
	ErrInvalidWeight       = errors.New("delivery weight must not be negative")
	ErrInvalidCapacity     = errors.New("truck capacity must not be negative")
)

// loadTolerance relative slack for float rounding when a load is compared to the capacity.
const loadTolerance = 1e-9

func overCapacity(load, capacity float64) bool {
	return load > capacity+loadTolerance*math.Max(1, math.Abs(capacity))
}

// loadOf sum of the weights of the given requests, in ascending index order so that the
// truck and ValidateRoute round the same way.
func loadOf(requests []DeliveryRequest, indices []int) float64 {
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.Ints(sorted)
	load := 0.0
	for _, i := range sorted {
		load += requests[i].Weight
	}
	return load
}

type DeliveryRequest struct {
	ID      int     `json:"id" yaml:"id"`
	PickUp  int32   `json:"pick_up" yaml:"pick_up"`
	DropOff int32   `json:"drop_off" yaml:"drop_off"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

func NewDeliveryRequest(id int, pickUp, dropOff int32, weight float64) DeliveryRequest {
	return DeliveryRequest{ID: id, PickUp: pickUp, DropOff: dropOff, Weight: weight}
}

// CourierSubpath one leg of the route. PickUpIDs are loaded at Start before driving.
type CourierSubpath struct {
	Start     int32   `json:"start_intersection" yaml:"start"`
	End       int32   `json:"end_intersection" yaml:"end"`
	Segments  []int32 `json:"segments" yaml:"segments"`
	PickUpIDs []int   `json:"pick_up_ids" yaml:"pick_up_ids"`
}

type Route struct {
	Subpaths   []CourierSubpath `json:"subpaths" yaml:"subpaths"`
	TravelTime float64          `json:"travel_time" yaml:"travel_time"` // second, sum over subpaths
}

func emptyRoute() Route {
	return Route{Subpaths: []CourierSubpath{}}
}

func (r Route) IsEmpty() bool {
	return len(r.Subpaths) == 0
}

type RouteEngine interface {
	TravelTimeTable(ctx context.Context, points []int32, penalty routingalgorithm.TurnPenalty) (*routingalgorithm.TravelTimeTable, error)
	Network() routingalgorithm.RoadNetwork
}

package routingalgorithm

import (
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
)

// TurnPenalty seconds added for a right or left turn. straight and undefined turns are free.
type TurnPenalty struct {
	Right float64 `json:"right_turn_penalty"`
	Left  float64 `json:"left_turn_penalty"`
}

func NewTurnPenalty(right, left float64) TurnPenalty {
	return TurnPenalty{Right: right, Left: left}
}

func (p TurnPenalty) forTurn(turn guidance.TurnType) float64 {
	switch turn {
	case guidance.TURN_LEFT:
		return p.Left
	case guidance.TURN_RIGHT:
		return p.Right
	default:
		return 0
	}
}

type CostModel struct {
	network RoadNetwork
	turns   *guidance.TurnClassifier
}

func NewCostModel(network RoadNetwork) *CostModel {
	return &CostModel{
		network: network,
		turns:   guidance.NewTurnClassifier(network),
	}
}

// TurnCost penalty of turning from prev into next. NO_EDGE as prev (query origin) costs nothing.
func (cm *CostModel) TurnCost(prev, next int32, penalty TurnPenalty) float64 {
	if prev == datastructure.NO_EDGE {
		return 0
	}
	return penalty.forTurn(cm.turns.TurnType(prev, next))
}

// TurnCostAt like TurnCost with the junction known.
func (cm *CostModel) TurnCostAt(prev, next, junction int32, penalty TurnPenalty) float64 {
	if prev == datastructure.NO_EDGE {
		return 0
	}
	return penalty.forTurn(cm.turns.TurnTypeAt(prev, next, junction))
}

// TransitionCost travel time of next plus the turn penalty from prev.
func (cm *CostModel) TransitionCost(prev, next int32, penalty TurnPenalty) float64 {
	return cm.network.TravelTime(next) + cm.TurnCost(prev, next, penalty)
}

// TransitionCostAt edge cost used by the searches when leaving junction over next.
func (cm *CostModel) TransitionCostAt(prev, next, junction int32, penalty TurnPenalty) float64 {
	return cm.network.TravelTime(next) + cm.TurnCostAt(prev, next, junction, penalty)
}

// PathTravelTime total time of path including turn penalties. the start intersection is inferred
// from how the first two segments connect. empty or broken paths cost INF_WEIGHT.
func (cm *CostModel) PathTravelTime(path []int32, penalty TurnPenalty) float64 {
	start, ok := cm.inferStart(path)
	if !ok {
		return datastructure.INF_WEIGHT
	}
	return cm.PathTravelTimeFrom(start, path, penalty)
}

// PathTravelTimeFrom total time of path driven from start. equals the cost the searches accumulate.
func (cm *CostModel) PathTravelTimeFrom(start int32, path []int32, penalty TurnPenalty) float64 {
	if len(path) == 0 {
		return datastructure.INF_WEIGHT
	}

	total := 0.0
	prev := datastructure.NO_EDGE
	cur := start
	for _, segID := range path {
		if !cm.network.IsValidSegment(segID) {
			return datastructure.INF_WEIGHT
		}
		next, ok := cm.network.CanTraverseFrom(segID, cur)
		if !ok {
			return datastructure.INF_WEIGHT
		}
		total = total + cm.TransitionCostAt(prev, segID, cur, penalty)
		prev = segID
		cur = next
	}
	return total
}

func (cm *CostModel) inferStart(path []int32) (int32, bool) {
	if len(path) == 0 || !cm.network.IsValidSegment(path[0]) {
		return datastructure.INVALID_INTERSECTION, false
	}
	first := cm.network.Segment(path[0])
	if len(path) == 1 {
		return first.From, true
	}
	if !cm.network.IsValidSegment(path[1]) {
		return datastructure.INVALID_INTERSECTION, false
	}
	junction, ok := guidance.SharedIntersection(first, cm.network.Segment(path[1]))
	if !ok {
		return datastructure.INVALID_INTERSECTION, false
	}
	return cm.network.OtherEndpoint(path[0], junction), true
}

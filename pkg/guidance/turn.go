package guidance

import (
	"math"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
)

type TurnType uint8

const (
	TURN_NONE TurnType = iota
	TURN_STRAIGHT
	TURN_LEFT
	TURN_RIGHT
)

func (t TurnType) String() string {
	switch t {
	case TURN_STRAIGHT:
		return "STRAIGHT"
	case TURN_LEFT:
		return "LEFT"
	case TURN_RIGHT:
		return "RIGHT"
	default:
		return "NONE"
	}
}

// TurnClassifier classifies the maneuver between two consecutive street segments.
type TurnClassifier struct {
	network RoadNetwork
}

func NewTurnClassifier(network RoadNetwork) *TurnClassifier {
	return &TurnClassifier{network: network}
}

/*
TurnType. classify the turn from segment a into segment b.

same street -> STRAIGHT, no shared intersection -> NONE. otherwise with J the shared intersection:

	near_a ---A---> J ---B---> far_b

near_a is the point of a adjacent to J (curve point or the other endpoint), far_b the point of b adjacent to J.
cross(A, B) > 0 is a LEFT turn, everything else RIGHT except a collinear forward continuation (STRAIGHT).
when a and b share both endpoints, J is b.From.
*/
func (tc *TurnClassifier) TurnType(a, b int32) TurnType {
	segA := tc.network.Segment(a)
	segB := tc.network.Segment(b)
	if segA.StreetID == segB.StreetID {
		return TURN_STRAIGHT
	}

	junction, ok := SharedIntersection(segA, segB)
	if !ok {
		return TURN_NONE
	}
	return tc.classify(a, b, junction)
}

// TurnTypeAt like TurnType but with the junction already known, as when a search expands from it.
func (tc *TurnClassifier) TurnTypeAt(a, b, junction int32) TurnType {
	segA := tc.network.Segment(a)
	segB := tc.network.Segment(b)
	if segA.StreetID == segB.StreetID {
		return TURN_STRAIGHT
	}
	if !touches(segA, junction) || !touches(segB, junction) {
		return TURN_NONE
	}
	return tc.classify(a, b, junction)
}

func (tc *TurnClassifier) classify(a, b, junction int32) TurnType {
	shared := tc.network.Position(junction)
	near := pointNextTo(tc.network.SegmentPoints(a), tc.network.Segment(a).From == junction)
	far := pointNextTo(tc.network.SegmentPoints(b), tc.network.Segment(b).From == junction)

	ax, ay := shared.Lon-near.Lon, shared.Lat-near.Lat
	bx, by := far.Lon-shared.Lon, far.Lat-shared.Lat

	cross := ax*by - ay*bx
	if cross > 0 {
		return TURN_LEFT
	}
	if cross == 0 && ax*bx+ay*by > 0 {
		return TURN_STRAIGHT
	}
	return TURN_RIGHT
}

// pointNextTo second point of the segment polyline counted from the junction side.
func pointNextTo(points []datastructure.Coordinate, junctionIsFrom bool) datastructure.Coordinate {
	if junctionIsFrom {
		return points[1]
	}
	return points[len(points)-2]
}

// SharedIntersection endpoint common to both segments. b.From wins when both endpoints are shared.
func SharedIntersection(a, b *datastructure.StreetSegment) (int32, bool) {
	junction := datastructure.INVALID_INTERSECTION
	if b.To == a.From || b.To == a.To {
		junction = b.To
	}
	if b.From == a.From || b.From == a.To {
		junction = b.From
	}
	return junction, junction != datastructure.INVALID_INTERSECTION
}

func touches(seg *datastructure.StreetSegment, intersection int32) bool {
	return seg.From == intersection || seg.To == intersection
}

// TurnAngle signed bearing change in degrees at the junction between a and b, negative to the left.
func (tc *TurnClassifier) TurnAngle(a, b, junction int32) float64 {
	shared := tc.network.Position(junction)
	near := pointNextTo(tc.network.SegmentPoints(a), tc.network.Segment(a).From == junction)
	far := pointNextTo(tc.network.SegmentPoints(b), tc.network.Segment(b).From == junction)

	prevOrientation := calcOrientation(near.Lat, near.Lon, shared.Lat, shared.Lon)
	delta := calculateOrientationDelta(shared.Lat, shared.Lon, far.Lat, far.Lon, prevOrientation)
	return delta * (180 / math.Pi)
}

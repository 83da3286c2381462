package guidance

import (
	"math"

	"github.com/lintang-b-s/streetmap/pkg/geo"
)

/*
GetAlternativeTurns. segments leaving baseNode other than the one we came from (prevSeg) and the one we take (curSeg):

		 |
	 alternative
		 |
--prev-- B --current---
		 |
	 alternative
		 |

returns 1 + number of alternatives.
*/
func (db *DirectionBuilder) GetAlternativeTurns(baseNode, prevSeg, curSeg int32) (int, []int32) {
	alternativeTurns := make([]int32, 0)
	for _, s := range db.network.Segments(baseNode) {
		if s == prevSeg || s == curSeg {
			continue
		}
		seg := db.network.Segment(s)
		if seg.OneWay && seg.From != baseNode {
			continue
		}
		alternativeTurns = append(alternativeTurns, s)
	}
	return 1 + len(alternativeTurns), alternativeTurns
}

func (db *DirectionBuilder) isLeavingCurrentStreet(prevStreetName, currentStreetName string) bool {
	return prevStreetName != currentStreetName
}

/*
getOtherSegmentContinueDirection. another segment leaving baseNode that also goes (nearly) straight:

				---- currentSegment-----
--prevSegment-- baseNode
				----alternativeSegment-----
*/
func (db *DirectionBuilder) getOtherSegmentContinueDirection(baseNode int32, prevOrientation float64, alternativeTurns []int32) (int32, bool) {
	base := db.network.Position(baseNode)
	for _, s := range alternativeTurns {
		next := pointNextTo(db.network.SegmentPoints(s), db.network.Segment(s).From == baseNode)
		tmpSign := getTurnDirection(base.Lat, base.Lon, next.Lat, next.Lon, prevOrientation)
		if abs(tmpSign) <= 1 {
			return s, true
		}
	}
	return -1, false
}

/*
CheckUTurn. two consecutive right (or left) turns that bring us back onto the street we left, heading the opposite way:

A --doublePrev--> B
				  |
				prev
				  |
D <--current----- C
*/
func (db *DirectionBuilder) CheckUTurn(sign int, name string, curOrientation float64) (bool, int) {
	if db.prevInstruction == nil || !db.hasDoublePrev {
		return false, SIGN_U_TURN_UNKNOWN
	}
	prevSign := db.prevInstruction.Sign
	if (sign > 0) != (prevSign > 0) || !isTurn(sign) || !isTurn(prevSign) ||
		!isSameName(db.doublePrevStreetName, name) {
		return false, SIGN_U_TURN_UNKNOWN
	}

	diffAngle := math.Abs(db.doublePrevOrientation-curOrientation) * (180 / math.Pi)
	if diffAngle > 155 && diffAngle < 205 {
		if sign < 0 {
			return true, SIGN_U_TURN_LEFT
		}
		return true, SIGN_U_TURN_RIGHT
	}
	return false, SIGN_U_TURN_UNKNOWN
}

func isTurn(sign int) bool {
	a := abs(sign)
	return a == SIGN_TURN_SLIGHT_RIGHT || a == SIGN_TURN_RIGHT || a == SIGN_TURN_SHARP_RIGHT
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

const (
	DEGREE_TO_RADIANS = 0.017453292519943295
)

func toRadians(degrees float64) float64 {
	return degrees * DEGREE_TO_RADIANS
}

func alignOrientation(baseOrientation, orientation float64) float64 {
	var resultOrientation float64
	if baseOrientation >= 0 {
		if orientation < -math.Pi+baseOrientation {
			resultOrientation = orientation + 2*math.Pi
		} else {
			resultOrientation = orientation
		}
	} else if orientation > math.Pi+baseOrientation {
		resultOrientation = orientation - 2*math.Pi
	} else {
		resultOrientation = orientation
	}
	return resultOrientation
}

// isSameName empty names never match, unnamed osm ways are common.
func isSameName(name1, name2 string) bool {
	if isEmpty(name1) || isEmpty(name2) {
		return false
	}
	return name1 == name2
}

func calcOrientation(lat1, lon1, lat2, lon2 float64) float64 {
	return toRadians(geo.BearingTo(lat1, lon1, lat2, lon2))
}

func calculateOrientationDelta(prevLatitude, prevLongitude, latitude, longitude, prevOrientation float64) float64 {
	orientation := calcOrientation(prevLatitude, prevLongitude, latitude, longitude)
	orientation = alignOrientation(prevOrientation, orientation)
	return orientation - prevOrientation
}

func getTurnDirection(prevLatitude, prevLongitude, latitude, longitude, prevOrientation float64) int {
	delta := calculateOrientationDelta(prevLatitude, prevLongitude, latitude, longitude, prevOrientation)
	deltaDegree := math.Abs(delta) * (180 / math.Pi)
	if deltaDegree < 12 {
		return SIGN_CONTINUE_ON_STREET
	} else if deltaDegree < 40 {
		if delta < 0 {
			return SIGN_TURN_SLIGHT_LEFT
		}
		return SIGN_TURN_SLIGHT_RIGHT
	} else if deltaDegree < 105 {
		if delta < 0 {
			return SIGN_TURN_LEFT
		}
		return SIGN_TURN_RIGHT
	} else if delta < 0 {
		return SIGN_TURN_SHARP_LEFT
	}
	return SIGN_TURN_SHARP_RIGHT
}

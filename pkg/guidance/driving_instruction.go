package guidance

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/geo"
)

var (
	ErrEmptyPath     = errors.New("path is empty")
	ErrBrokenPath    = errors.New("path segments are not connected")
	ErrInvalidPathID = errors.New("path contains an unknown segment")
)

// DirectionBuilder turns a segment path into turn by turn instructions.
// Not safe for concurrent use, create one per request.
type DirectionBuilder struct {
	network               RoadNetwork
	numSegments           int
	ways                  []*Instruction
	prevSeg               int32
	prevOrientation       float64 // bearing (radians) of the last stretch of prevSeg
	doublePrevOrientation float64 // prevOrientation when the previous instruction was created
	hasDoublePrev         bool
	prevInstruction       *Instruction
	doublePrevStreetName  string
}

func NewDirectionBuilder(network RoadNetwork, numSegments int) *DirectionBuilder {
	return &DirectionBuilder{
		network:     network,
		numSegments: numSegments,
	}
}

func (db *DirectionBuilder) reset() {
	db.ways = make([]*Instruction, 0)
	db.prevSeg = datastructure.NO_EDGE
	db.prevOrientation = 0
	db.doublePrevOrientation = 0
	db.hasDoublePrev = false
	db.prevInstruction = nil
	db.doublePrevStreetName = ""
}

// GetDrivingDirections instructions for driving path starting at intersection start.
// the last one is always the arrival.
func (db *DirectionBuilder) GetDrivingDirections(start int32, path []int32) ([]DrivingDirection, error) {
	if len(path) == 0 {
		return []DrivingDirection{}, ErrEmptyPath
	}
	db.reset()

	cur := start
	for i, segID := range path {
		if segID < 0 || int(segID) >= db.numSegments {
			return nil, fmt.Errorf("segment %d at index %d: %w", segID, i, ErrInvalidPathID)
		}
		if !touches(db.network.Segment(segID), cur) {
			return nil, fmt.Errorf("segment %d at index %d does not touch intersection %d: %w", segID, i, cur, ErrBrokenPath)
		}
		db.addInstructionFromSegment(segID, cur)
		cur = db.network.OtherEndpoint(segID, cur)
	}
	db.finish(cur)

	directions := make([]DrivingDirection, 0, len(db.ways))
	for _, ins := range db.ways {
		directions = append(directions, NewDrivingDirection(*ins))
	}
	return directions, nil
}

func (db *DirectionBuilder) addInstructionFromSegment(segID, baseNode int32) {
	seg := db.network.Segment(segID)
	name := db.network.StreetName(seg.StreetID)
	base := db.network.Position(baseNode)
	next := pointNextTo(db.network.SegmentPoints(segID), seg.From == baseNode)

	if db.prevInstruction == nil {
		ins := NewInstruction(SIGN_START, name, base)
		ins.Heading = geo.BearingTo(base.Lat, base.Lon, next.Lat, next.Lon)
		db.appendInstruction(&ins)
	} else {
		prev := db.network.Segment(db.prevSeg)
		near := pointNextTo(db.network.SegmentPoints(db.prevSeg), prev.From == baseNode)
		db.prevOrientation = calcOrientation(near.Lat, near.Lon, base.Lat, base.Lon)

		sign := db.getTurnSign(segID, baseNode, name, next)
		if sign != SIGN_IGNORE {
			curOrientation := calcOrientation(base.Lat, base.Lon, next.Lat, next.Lon)
			if isUTurn, uTurnType := db.CheckUTurn(sign, name, curOrientation); isUTurn {
				db.prevInstruction.Sign = uTurnType
				db.prevInstruction.Name = name
				_, db.prevInstruction.TurnType = getDirectionDescription(uTurnType)
			} else {
				ins := NewInstruction(sign, name, base)
				db.doublePrevOrientation = db.prevOrientation
				db.hasDoublePrev = true
				db.doublePrevStreetName = db.network.StreetName(prev.StreetID)
				db.appendInstruction(&ins)
			}
		}
	}

	db.prevInstruction.Distance += seg.Length
	db.prevInstruction.Time += seg.TravelTime
	db.prevInstruction.SegmentIDs = append(db.prevInstruction.SegmentIDs, segID)
	db.prevSeg = segID
}

func (db *DirectionBuilder) appendInstruction(ins *Instruction) {
	db.prevInstruction = ins
	db.ways = append(db.ways, ins)
}

/*
getTurnSign. turn sign between prevSeg and the segment leaving baseNode towards next, from the bearing change:

prevNode----prevSeg----baseNode
						|
					  segment
						|
					   next
*/
func (db *DirectionBuilder) getTurnSign(segID, baseNode int32, name string, next datastructure.Coordinate) int {
	base := db.network.Position(baseNode)
	sign := getTurnDirection(base.Lat, base.Lon, next.Lat, next.Lon, db.prevOrientation)
	prevName := db.network.StreetName(db.network.Segment(db.prevSeg).StreetID)

	alternativeTurnsCount, alternativeTurns := db.GetAlternativeTurns(baseNode, db.prevSeg, segID)
	if alternativeTurnsCount == 1 {
		if abs(sign) > 1 || db.isLeavingCurrentStreet(prevName, name) {
			return sign
		}
		return SIGN_IGNORE
	}

	if abs(sign) > 1 {
		if isSameName(name, prevName) {
			// the street itself bends
			return SIGN_IGNORE
		}
		return sign
	}

	other, ok := db.getOtherSegmentContinueDirection(baseNode, db.prevOrientation, alternativeTurns)
	if ok && !isSameName(name, prevName) {
		otherNext := pointNextTo(db.network.SegmentPoints(other), db.network.Segment(other).From == baseNode)
		curDelta := calculateOrientationDelta(base.Lat, base.Lon, next.Lat, next.Lon, db.prevOrientation)
		otherDelta := calculateOrientationDelta(base.Lat, base.Lon, otherNext.Lat, otherNext.Lon, db.prevOrientation)
		if curDelta > otherDelta {
			return SIGN_KEEP_RIGHT
		}
		return SIGN_KEEP_LEFT
	}

	if db.isLeavingCurrentStreet(prevName, name) {
		return sign
	}
	return SIGN_IGNORE
}

func (db *DirectionBuilder) finish(end int32) {
	name := db.network.StreetName(db.network.Segment(db.prevSeg).StreetID)
	ins := NewInstruction(SIGN_FINISH, name, db.network.Position(end))
	db.ways = append(db.ways, &ins)
}

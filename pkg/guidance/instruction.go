package guidance

import (
	"fmt"
	"strings"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/util"
)

const (
	SIGN_UNKNOWN            = -9999
	SIGN_U_TURN_UNKNOWN     = -999
	SIGN_U_TURN_LEFT        = -8
	SIGN_KEEP_LEFT          = -7
	SIGN_TURN_SHARP_LEFT    = -3
	SIGN_TURN_LEFT          = -2
	SIGN_TURN_SLIGHT_LEFT   = -1
	SIGN_CONTINUE_ON_STREET = 0
	SIGN_TURN_SLIGHT_RIGHT  = 1
	SIGN_TURN_RIGHT         = 2
	SIGN_TURN_SHARP_RIGHT   = 3
	SIGN_FINISH             = 4
	SIGN_KEEP_RIGHT         = 7
	SIGN_U_TURN_RIGHT       = 8
	SIGN_START              = 101
	SIGN_IGNORE             = 9999999
)

const unnamedRoad = "unnamed road"

type Instruction struct {
	Point      datastructure.Coordinate
	Sign       int
	Name       string
	Distance   float64 // meter driven after this instruction until the next one
	Time       float64 // second
	Heading    float64 // only for SIGN_START
	SegmentIDs []int32
	TurnType   string
}

func NewInstruction(sign int, name string, p datastructure.Coordinate) Instruction {
	ins := Instruction{
		Sign:       sign,
		Name:       name,
		Point:      p,
		SegmentIDs: make([]int32, 0, 2),
	}
	_, ins.TurnType = getDirectionDescription(sign)
	return ins
}

func (instr *Instruction) GetName() string {
	if isEmpty(instr.Name) || instr.Name == "<unknown>" {
		return unnamedRoad
	}
	return instr.Name
}

func (instr *Instruction) GetTurnDescription() string {
	streetName := instr.GetName()

	switch instr.Sign {
	case SIGN_CONTINUE_ON_STREET:
		return fmt.Sprintf("Continue onto %s", streetName)
	case SIGN_START:
		heading := instr.Heading
		if heading < 0.0 {
			heading += 360
		}
		return fmt.Sprintf("Head %s on %s", bearingToCompass(heading), streetName)
	case SIGN_FINISH:
		return "Arrive at destination"
	}

	dir, _ := getDirectionDescription(instr.Sign)
	switch dir {
	case "":
		return fmt.Sprintf("unknown %d", instr.Sign)
	case "Keep left":
		return fmt.Sprintf("%s to continue on %s", dir, streetName)
	case "Keep right":
		return fmt.Sprintf("%s to continue on %s", dir, streetName)
	default:
		return fmt.Sprintf("%s onto %s", dir, streetName)
	}
}

func bearingToCompass(bearing float64) string {
	if bearing < 22.5 {
		return "North"
	} else if bearing < 67.5 {
		return "North East"
	} else if bearing < 112.5 {
		return "East"
	} else if bearing < 157.5 {
		return "South East"
	} else if bearing < 202.5 {
		return "South"
	} else if bearing < 247.5 {
		return "South West"
	} else if bearing < 292.5 {
		return "West"
	} else if bearing < 337.5 {
		return "North West"
	}
	return "North"
}

func getDirectionDescription(sign int) (string, string) {
	switch sign {
	case SIGN_U_TURN_UNKNOWN:
		return "Make U-turn", "U_TURN_RIGHT"
	case SIGN_U_TURN_RIGHT:
		return "Make U-turn right", "U_TURN_RIGHT"
	case SIGN_U_TURN_LEFT:
		return "Make U-turn left", "U_TURN_LEFT"
	case SIGN_KEEP_LEFT:
		return "Keep left", "KEEP_LEFT"
	case SIGN_TURN_SHARP_LEFT:
		return "Turn sharp left", "TURN_SHARP_LEFT"
	case SIGN_TURN_LEFT:
		return "Turn left", "TURN_LEFT"
	case SIGN_TURN_SLIGHT_LEFT:
		return "Turn slight left", "TURN_SLIGHT_LEFT"
	case SIGN_TURN_SLIGHT_RIGHT:
		return "Turn slight right", "TURN_SLIGHT_RIGHT"
	case SIGN_TURN_RIGHT:
		return "Turn right", "TURN_RIGHT"
	case SIGN_TURN_SHARP_RIGHT:
		return "Turn sharp right", "TURN_SHARP_RIGHT"
	case SIGN_KEEP_RIGHT:
		return "Keep right", "KEEP_RIGHT"
	case SIGN_CONTINUE_ON_STREET:
		return "Continue", "CONTINUE"
	case SIGN_START:
		return "Head", "START"
	case SIGN_FINISH:
		return "Arrive", "FINISH"
	default:
		return "", ""
	}
}

func isEmpty(str string) bool {
	return strings.TrimSpace(str) == ""
}

type DrivingDirection struct {
	Instruction string                   `json:"instruction"`
	Point       datastructure.Coordinate `json:"turn_point"`
	StreetName  string                   `json:"street_name"`
	ETA         float64                  `json:"eta"`
	Distance    float64                  `json:"distance"`
	SegmentIDs  []int32                  `json:"segment_ids"`
	TurnType    string                   `json:"turn_type"`
}

func NewDrivingDirection(ins Instruction) DrivingDirection {
	return DrivingDirection{
		Instruction: ins.GetTurnDescription(),
		Point:       ins.Point,
		StreetName:  ins.Name,
		ETA:         util.RoundFloat(ins.Time, 2),
		Distance:    util.RoundFloat(ins.Distance, 2),
		SegmentIDs:  ins.SegmentIDs,
		TurnType:    ins.TurnType,
	}
}

package osmparser

import (
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

var (
	skipHighway = map[string]struct{}{
		"footway":                {},
		"construction":           {},
		"cycleway":               {},
		"path":                   {},
		"pedestrian":             {},
		"busway":                 {},
		"steps":                  {},
		"bridleway":              {},
		"corridor":               {},
		"street_lamp":            {},
		"bus_stop":               {},
		"crossing":               {},
		"cyclist_waiting_aid":    {},
		"elevator":               {},
		"emergency_bay":          {},
		"emergency_access_point": {},
		"give_way":               {},
		"phone":                  {},
		"ladder":                 {},
		"milestone":              {},
		"passing_place":          {},
		"platform":               {},
		"proposed":               {},
		"speed_camera":           {},
		"track":                  {},
		"bus_guideway":           {},
		"speed_display":          {},
		"stop":                   {},
		"toll_gantry":            {},
		"traffic_mirror":         {},
		"traffic_signals":        {},
		"trailhead":              {},
	}
)

// wayInfo attributes shared by every segment cut from one OSM way.
type wayInfo struct {
	name    string
	speed   float64 // km/h
	oneWay  bool
	forward bool // false when traffic flows against the node order
}

func acceptOsmWay(way *osm.Way) bool {
	highway := way.Tags.Find("highway")
	if highway != "" {
		_, skip := skipHighway[highway]
		return !skip
	}
	return way.Tags.Find("route") == "road" || way.Tags.Find("junction") != ""
}

func isRestricted(value string) bool {
	switch value {
	case "no", "restricted", "military", "emergency", "private", "permit":
		return true
	}
	return false
}

func getReversedOneWay(way *osm.Way) (bool, bool, bool, bool) {
	vehicleForward := way.Tags.Find("vehicle:forward")
	motorVehicleForward := way.Tags.Find("motor_vehicle:forward")
	vehicleBackward := way.Tags.Find("vehicle:backward")
	motorVehicleBackward := way.Tags.Find("motor_vehicle:backward")
	return isRestricted(vehicleForward), isRestricted(motorVehicleForward), isRestricted(vehicleBackward), isRestricted(motorVehicleBackward)
}

func newWayInfo(way *osm.Way) wayInfo {
	info := wayInfo{name: way.Tags.Find("name"), forward: true}
	if info.name == "" {
		info.name = way.Tags.Find("ref")
	}

	okvf, okmvf, okvb, okmvb := getReversedOneWay(way)
	oneway := way.Tags.Find("oneway")
	junction := way.Tags.Find("junction")
	switch {
	case oneway == "-1" || okvf || okmvf:
		info.oneWay, info.forward = true, false
	case oneway == "yes" || oneway == "true" || oneway == "1" || okvb || okmvb:
		info.oneWay = true
	case oneway == "" && (junction == "roundabout" || junction == "circular"):
		info.oneWay = true
	}

	info.speed = parseMaxSpeed(way.Tags.Find("maxspeed"))
	if info.speed <= 0 {
		info.speed = RoadTypeMaxSpeed(way.Tags.Find("highway"))
	}
	return info
}

// parseMaxSpeed maxspeed tag in km/h, 0 when missing or not numeric ("signals", "walk").
func parseMaxSpeed(value string) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(value, "mph"):
		factor = 1.60934
		value = strings.TrimSuffix(value, "mph")
	case strings.HasSuffix(value, "km/h"):
		value = strings.TrimSuffix(value, "km/h")
	case strings.HasSuffix(value, "knots"):
		factor = 1.852
		value = strings.TrimSuffix(value, "knots")
	}

	speed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || speed < 0 {
		return 0
	}
	return speed * factor
}

func RoadTypeMaxSpeed(roadType string) float64 {
	switch roadType {
	case "motorway":
		return 100
	case "trunk":
		return 70
	case "primary":
		return 65
	case "secondary":
		return 60
	case "tertiary":
		return 50
	case "unclassified":
		return 30
	case "residential":
		return 30
	case "service":
		return 20
	case "motorway_link":
		return 70
	case "trunk_link":
		return 65
	case "primary_link":
		return 60
	case "secondary_link":
		return 50
	case "tertiary_link":
		return 40
	case "living_street":
		return 10
	case "road":
		return 20
	case "track":
		return 15
	default:
		return defaultSpeed
	}
}

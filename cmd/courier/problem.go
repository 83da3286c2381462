package main

import (
	"fmt"
	"io"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"gopkg.in/yaml.v3"
)

// problem courier routing input read from a yaml file. unset penalties and capacity fall back to config.
type problem struct {
	TruckCapacity    *float64                  `yaml:"truck_capacity"`
	RightTurnPenalty *float64                  `yaml:"right_turn_penalty"`
	LeftTurnPenalty  *float64                  `yaml:"left_turn_penalty"`
	Depots           []int32                   `yaml:"depots"`
	Requests         []courier.DeliveryRequest `yaml:"requests"`
}

func decodeProblem(r io.Reader) (problem, error) {
	var p problem
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return problem{}, fmt.Errorf("decode courier problem: %w", err)
	}
	if len(p.Depots) == 0 {
		return problem{}, fmt.Errorf("courier problem has no depots")
	}
	return p, nil
}

type summary struct {
	Depot      int32         `yaml:"depot"`
	TravelTime float64       `yaml:"travel_time"`
	Stops      []int32       `yaml:"stops"`
	Route      courier.Route `yaml:"route"`
}

func summarize(route courier.Route) summary {
	s := summary{Depot: -1, TravelTime: route.TravelTime, Stops: []int32{}, Route: route}
	if route.IsEmpty() {
		return s
	}
	s.Depot = route.Subpaths[0].Start
	s.Stops = append(s.Stops, route.Subpaths[0].Start)
	for _, sub := range route.Subpaths {
		s.Stops = append(s.Stops, sub.End)
	}
	return s
}

func encodeSummary(w io.Writer, s summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// routeGeoJSON every segment of the route in driving order, starting at the depot.
func routeGeoJSON(network *datastructure.RoadNetwork, route courier.Route) ([]byte, error) {
	segments := make([]int32, 0)
	for _, sub := range route.Subpaths {
		segments = append(segments, sub.Segments...)
	}
	return datastructure.PathGeoJSON(network, route.Subpaths[0].Start, segments)
}

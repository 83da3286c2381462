package datastructure

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/streetmap/pkg/geo"
	"github.com/lintang-b-s/streetmap/pkg/util"
)

var (
	ErrUnknownIntersection = errors.New("segment references unknown intersection")
	ErrUnknownStreet       = errors.New("segment references unknown street")
	ErrInvalidSpeedLimit   = errors.New("segment speed limit must not be negative")
)

// SegmentInfo raw street segment fed to NetworkBuilder. Length and travel time are derived.
type SegmentInfo struct {
	StreetID    int32
	WayID       int64
	From        int32
	To          int32
	CurvePoints []Coordinate
	SpeedLimit  float64 // km/h
	OneWay      bool
}

// NetworkBuilder collects intersections, streets and segments and freezes them into a RoadNetwork.
type NetworkBuilder struct {
	intersections []Intersection
	streets       []Street
	segments      []SegmentInfo
}

func NewNetworkBuilder() *NetworkBuilder {
	return &NetworkBuilder{
		intersections: make([]Intersection, 0),
		streets:       make([]Street, 0),
		segments:      make([]SegmentInfo, 0),
	}
}

func (b *NetworkBuilder) AddIntersection(coord Coordinate, name string) int32 {
	id := int32(len(b.intersections))
	b.intersections = append(b.intersections, Intersection{
		ID:    id,
		Name:  name,
		Coord: coord,
	})
	return id
}

func (b *NetworkBuilder) AddStreet(name string) int32 {
	id := int32(len(b.streets))
	b.streets = append(b.streets, Street{
		ID:   id,
		Name: name,
	})
	return id
}

func (b *NetworkBuilder) AddSegment(info SegmentInfo) int32 {
	id := int32(len(b.segments))
	b.segments = append(b.segments, info)
	return id
}

func (b *NetworkBuilder) NumIntersections() int {
	return len(b.intersections)
}

func (b *NetworkBuilder) NumSegments() int {
	return len(b.segments)
}

// Build validates every segment, computes lengths, travel times, incident segments, adjacency and
// per-street aggregates. The builder must not be reused afterwards.
func (b *NetworkBuilder) Build() (*RoadNetwork, error) {
	numIntersections := int32(len(b.intersections))
	numStreets := int32(len(b.streets))

	segments := make([]StreetSegment, len(b.segments))
	topSpeed := 0.0

	for i, info := range b.segments {
		if info.From < 0 || info.From >= numIntersections || info.To < 0 || info.To >= numIntersections {
			return nil, fmt.Errorf("segment %d (%d -> %d): %w", i, info.From, info.To, ErrUnknownIntersection)
		}
		if info.StreetID < 0 || info.StreetID >= numStreets {
			return nil, fmt.Errorf("segment %d street %d: %w", i, info.StreetID, ErrUnknownStreet)
		}
		if info.SpeedLimit < 0 {
			return nil, fmt.Errorf("segment %d speed %f: %w", i, info.SpeedLimit, ErrInvalidSpeedLimit)
		}

		length := polylineLength(b.intersections[info.From].Coord, info.CurvePoints, b.intersections[info.To].Coord)

		segments[i] = StreetSegment{
			ID:          int32(i),
			StreetID:    info.StreetID,
			WayID:       info.WayID,
			From:        info.From,
			To:          info.To,
			CurvePoints: info.CurvePoints,
			Length:      length,
			SpeedLimit:  info.SpeedLimit,
			TravelTime:  travelTime(length, info.SpeedLimit),
			OneWay:      info.OneWay,
		}

		if info.SpeedLimit > topSpeed {
			topSpeed = info.SpeedLimit
		}
	}

	intersections := b.intersections
	for i := range intersections {
		intersections[i].Segments = make([]int32, 0, 4)
		intersections[i].Adjacent = make([]int32, 0, 4)
	}

	streetSegments := make([][]int32, len(b.streets))
	streetIntersections := make([][]int32, len(b.streets))

	for i := range segments {
		seg := &segments[i]
		from, to := seg.From, seg.To

		intersections[from].Segments = append(intersections[from].Segments, seg.ID)
		if to != from {
			intersections[to].Segments = append(intersections[to].Segments, seg.ID)
		}

		intersections[from].Adjacent = append(intersections[from].Adjacent, to)
		if !seg.OneWay && to != from {
			intersections[to].Adjacent = append(intersections[to].Adjacent, from)
		}

		streetSegments[seg.StreetID] = append(streetSegments[seg.StreetID], seg.ID)
		streetIntersections[seg.StreetID] = append(streetIntersections[seg.StreetID], from, to)
	}

	for i := range intersections {
		intersections[i].Adjacent = util.SortedUnique(intersections[i].Adjacent)
	}

	streets := b.streets
	for i := range streets {
		streets[i].Segments = streetSegments[i]
		if streets[i].Segments == nil {
			streets[i].Segments = []int32{}
		}
		streets[i].Intersections = util.SortedUnique(streetIntersections[i])
		if streets[i].Intersections == nil {
			streets[i].Intersections = []int32{}
		}
		length := 0.0
		for _, s := range streets[i].Segments {
			length += segments[s].Length
		}
		streets[i].Length = length
	}

	b.intersections, b.streets, b.segments = nil, nil, nil

	return &RoadNetwork{
		intersections: intersections,
		segments:      segments,
		streets:       streets,
		topSpeedLimit: topSpeed,
	}, nil
}

// polylineLength sum of equirectangular distances of consecutive points (meter).
func polylineLength(from Coordinate, curve []Coordinate, to Coordinate) float64 {
	length := 0.0
	prev := from
	for _, p := range curve {
		length += geo.EquirectangularDistance(prev.Lat, prev.Lon, p.Lat, p.Lon)
		prev = p
	}
	length += geo.EquirectangularDistance(prev.Lat, prev.Lon, to.Lat, to.Lon)
	return length
}

// travelTime seconds needed to drive length meters at speed km/h. zero speed gives +Inf.
func travelTime(length, speedKmh float64) float64 {
	if speedKmh == 0 {
		if length == 0 {
			return 0
		}
		return INF_WEIGHT
	}
	return length / (speedKmh / 3.6)
}

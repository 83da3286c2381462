package datastructure

import (
	"fmt"
	"math"
	"sort"
)

const (
	NO_EDGE              int32 = -1
	INVALID_INTERSECTION int32 = -1
)

// INF_WEIGHT travel time of a path that does not exist.
var INF_WEIGHT = math.Inf(1)

type Intersection struct {
	ID       int32
	Name     string
	Coord    Coordinate
	Segments []int32 // incident segments, insertion order
	Adjacent []int32 // sorted. contains ID itself only when a segment loops back here
}

type StreetSegment struct {
	ID          int32
	StreetID    int32
	WayID       int64
	From        int32
	To          int32
	CurvePoints []Coordinate // ordered from -> to
	Length      float64      // meter
	SpeedLimit  float64      // km/h
	TravelTime  float64      // second
	OneWay      bool
}

type Street struct {
	ID            int32
	Name          string
	Segments      []int32
	Intersections []int32
	Length        float64 // meter
}

// RoadNetwork read-only view of the street network. Safe for concurrent readers.
// Out of range ids are precondition violations and panic.
type RoadNetwork struct {
	intersections []Intersection
	segments      []StreetSegment
	streets       []Street
	topSpeedLimit float64
}

func (rn *RoadNetwork) NumIntersections() int {
	return len(rn.intersections)
}

func (rn *RoadNetwork) NumSegments() int {
	return len(rn.segments)
}

func (rn *RoadNetwork) NumStreets() int {
	return len(rn.streets)
}

func (rn *RoadNetwork) IsValidIntersection(id int32) bool {
	return id >= 0 && int(id) < len(rn.intersections)
}

func (rn *RoadNetwork) IsValidSegment(id int32) bool {
	return id >= 0 && int(id) < len(rn.segments)
}

func (rn *RoadNetwork) IsValidStreet(id int32) bool {
	return id >= 0 && int(id) < len(rn.streets)
}

func (rn *RoadNetwork) Intersection(id int32) *Intersection {
	return &rn.intersections[id]
}

func (rn *RoadNetwork) Segment(id int32) *StreetSegment {
	return &rn.segments[id]
}

func (rn *RoadNetwork) Street(id int32) *Street {
	return &rn.streets[id]
}

func (rn *RoadNetwork) Intersections() []Intersection {
	return rn.intersections
}

func (rn *RoadNetwork) AllSegments() []StreetSegment {
	return rn.segments
}

func (rn *RoadNetwork) Streets() []Street {
	return rn.streets
}

// Segments incident segment ids of an intersection.
func (rn *RoadNetwork) Segments(intersection int32) []int32 {
	return rn.intersections[intersection].Segments
}

// Adjacent intersections reachable from intersection over one legal segment.
func (rn *RoadNetwork) Adjacent(intersection int32) []int32 {
	return rn.intersections[intersection].Adjacent
}

func (rn *RoadNetwork) Endpoints(segment int32) (int32, int32, bool) {
	seg := &rn.segments[segment]
	return seg.From, seg.To, seg.OneWay
}

func (rn *RoadNetwork) TravelTime(segment int32) float64 {
	return rn.segments[segment].TravelTime
}

func (rn *RoadNetwork) SegmentLength(segment int32) float64 {
	return rn.segments[segment].Length
}

func (rn *RoadNetwork) Position(intersection int32) Coordinate {
	return rn.intersections[intersection].Coord
}

// TopSpeedLimit fastest speed limit (km/h) over all segments.
func (rn *RoadNetwork) TopSpeedLimit() float64 {
	return rn.topSpeedLimit
}

// SegmentPoints from endpoint, curve points, to endpoint.
func (rn *RoadNetwork) SegmentPoints(segment int32) []Coordinate {
	seg := &rn.segments[segment]
	points := make([]Coordinate, 0, len(seg.CurvePoints)+2)
	points = append(points, rn.intersections[seg.From].Coord)
	points = append(points, seg.CurvePoints...)
	points = append(points, rn.intersections[seg.To].Coord)
	return points
}

// OtherEndpoint endpoint of segment that is not intersection.
func (rn *RoadNetwork) OtherEndpoint(segment, intersection int32) int32 {
	seg := &rn.segments[segment]
	if seg.To == intersection {
		return seg.From
	}
	return seg.To
}

// CanTraverseFrom whether segment can be driven starting at intersection, and where it ends.
func (rn *RoadNetwork) CanTraverseFrom(segment, intersection int32) (int32, bool) {
	seg := &rn.segments[segment]
	if seg.From == intersection {
		return seg.To, true
	}
	if seg.To == intersection && !seg.OneWay {
		return seg.From, true
	}
	return INVALID_INTERSECTION, false
}

func (rn *RoadNetwork) AreDirectlyConnected(a, b int32) bool {
	if a == b {
		return true
	}
	adj := rn.intersections[a].Adjacent
	idx := sort.Search(len(adj), func(i int) bool { return adj[i] >= b })
	return idx < len(adj) && adj[idx] == b
}

func (rn *RoadNetwork) StreetSegments(street int32) []int32 {
	return rn.streets[street].Segments
}

func (rn *RoadNetwork) StreetIntersections(street int32) []int32 {
	return rn.streets[street].Intersections
}

func (rn *RoadNetwork) StreetLength(street int32) float64 {
	return rn.streets[street].Length
}

func (rn *RoadNetwork) StreetName(street int32) string {
	return rn.streets[street].Name
}

// IntersectionsOfStreets intersections shared by both streets, sorted.
func (rn *RoadNetwork) IntersectionsOfStreets(streetA, streetB int32) []int32 {
	a := rn.streets[streetA].Intersections
	b := rn.streets[streetB].Intersections
	shared := make([]int32, 0)
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			shared = append(shared, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return shared
}

// IntersectionStreetNames street name of every incident segment, in segment order.
func (rn *RoadNetwork) IntersectionStreetNames(intersection int32) []string {
	segs := rn.intersections[intersection].Segments
	names := make([]string, 0, len(segs))
	for _, s := range segs {
		names = append(names, rn.streets[rn.segments[s].StreetID].Name)
	}
	return names
}

// IsContiguous whether consecutive segments of path share an intersection and every segment is
// driven in a legal direction, starting at start.
func (rn *RoadNetwork) IsContiguous(start int32, path []int32) bool {
	cur := start
	for _, s := range path {
		if !rn.IsValidSegment(s) {
			return false
		}
		next, ok := rn.CanTraverseFrom(s, cur)
		if !ok {
			return false
		}
		cur = next
	}
	return true
}

func (rn *RoadNetwork) String() string {
	return fmt.Sprintf("RoadNetwork{intersections: %d, segments: %d, streets: %d, topSpeedLimit: %.1f}",
		len(rn.intersections), len(rn.segments), len(rn.streets), rn.topSpeedLimit)
}

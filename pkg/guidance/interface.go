package guidance

import "github.com/lintang-b-s/streetmap/pkg/datastructure"

type RoadNetwork interface {
	Segment(id int32) *datastructure.StreetSegment
	Segments(intersection int32) []int32
	SegmentPoints(segment int32) []datastructure.Coordinate
	Position(intersection int32) datastructure.Coordinate
	OtherEndpoint(segment, intersection int32) int32
	StreetName(street int32) string
}

package datastructure

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

func CreatePolyline(path []Coordinate) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

func DecodePolyline(encoded string) ([]Coordinate, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	path := make([]Coordinate, 0, len(coords))
	for _, c := range coords {
		path = append(path, NewCoordinate(c[0], c[1]))
	}
	return path, nil
}

// NewLineString orb linestring of path. orb points are lon,lat.
func NewLineString(path []Coordinate) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, p := range path {
		ls = append(ls, orb.Point{p.Lon, p.Lat})
	}
	return ls
}

// PathGeoJSON one feature per segment of the path, carrying its id, street name and travel time.
func PathGeoJSON(rn *RoadNetwork, start int32, path []int32) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	cur := start
	for _, segID := range path {
		seg := rn.Segment(segID)
		points := rn.SegmentPoints(segID)
		if seg.To == cur && seg.From != cur {
			points = reverseCoords(points)
		}
		f := geojson.NewFeature(NewLineString(points))
		f.Properties["segment_id"] = segID
		f.Properties["street"] = rn.StreetName(seg.StreetID)
		f.Properties["travel_time"] = seg.TravelTime
		fc.Append(f)

		cur = rn.OtherEndpoint(segID, cur)
	}
	return fc.MarshalJSON()
}

func reverseCoords(coords []Coordinate) []Coordinate {
	reversed := make([]Coordinate, len(coords))
	for i, c := range coords {
		reversed[len(coords)-1-i] = c
	}
	return reversed
}

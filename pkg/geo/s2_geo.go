package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

type Coordinate struct {
	Lat float64
	Lon float64
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// DistanceToPolyline great-circle distance in meters from p to the closest point of line,
// and that closest point.
func DistanceToPolyline(p Coordinate, line []Coordinate) (float64, Coordinate) {
	if len(line) == 0 {
		return math.Inf(1), Coordinate{}
	}
	query := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon))
	if len(line) == 1 {
		d := s2.LatLngFromDegrees(p.Lat, p.Lon).Distance(s2.LatLngFromDegrees(line[0].Lat, line[0].Lon))
		return d.Radians() * earthRadiusM, line[0]
	}

	points := make([]s2.Point, len(line))
	for i, c := range line {
		points[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
	}
	polyline := s2.Polyline(points)
	closest, _ := polyline.Project(query)
	closestLatLng := s2.LatLngFromPoint(closest)
	dist := s2.LatLngFromPoint(query).Distance(closestLatLng).Radians() * earthRadiusM
	return dist, Coordinate{closestLatLng.Lat.Degrees(), closestLatLng.Lng.Degrees()}
}

const (
	tolerancePointInLine = 1e-3
)

// PointPositionBetweenLinePoints index of the line point that follows the projection lat,lon.
func PointPositionBetweenLinePoints(lat, lon float64, linePoints []Coordinate) int {
	minDiff := math.MaxFloat64
	var pos int
	for i := 0; i < len(linePoints)-1; i++ {

		currQueryDist := s2.LatLngFromDegrees(lat, lon).Distance(s2.LatLngFromDegrees(linePoints[i].Lat, linePoints[i].Lon)).Radians()
		nextQueryDist := s2.LatLngFromDegrees(lat, lon).Distance(s2.LatLngFromDegrees(linePoints[i+1].Lat, linePoints[i+1].Lon)).Radians()

		currNextDist := s2.LatLngFromDegrees(linePoints[i].Lat, linePoints[i].Lon).Distance(s2.LatLngFromDegrees(linePoints[i+1].Lat, linePoints[i+1].Lon)).Radians()

		diff := math.Abs(currQueryDist + nextQueryDist - currNextDist)
		if diff < tolerancePointInLine && diff < minDiff {
			minDiff = diff
			pos = i + 1
		}
	}
	return pos
}

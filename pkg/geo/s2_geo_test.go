package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPointInLine(t *testing.T) {

	lat, lon := 47.667347, -122.120561

	linePoints := []Coordinate{
		NewCoordinate(47.667324, -122.118989),
		NewCoordinate(47.667338, -122.121784),
	}

	result := PointPositionBetweenLinePoints(lat, lon, linePoints)
	if result != 1 {
		t.Errorf("Expected 1, got %d", result)
	}
}

func TestDistanceToPolyline(t *testing.T) {
	line := []Coordinate{
		NewCoordinate(0, 0),
		NewCoordinate(0, 0.01),
	}

	// 0.001 degree north of the middle of the line
	dist, closest := DistanceToPolyline(NewCoordinate(0.001, 0.005), line)
	assert.InDelta(t, 111.2, dist, 0.5)
	assert.InDelta(t, 0.0, closest.Lat, 1e-9)
	assert.InDelta(t, 0.005, closest.Lon, 1e-9)

	dist, _ = DistanceToPolyline(NewCoordinate(0, 0), nil)
	assert.True(t, dist > 1e300)
}

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimplifyPolyline(t *testing.T) {
	// Jalan Slamet Riyadi, the middle point is a few meters off the chord
	lineCoords := []Coordinate{
		{-7.565837, 110.831586},
		{-7.566063, 110.832379},
		{-7.566406, 110.833232},
	}
	simplified := SimplifyPolyline(lineCoords, DefaultSimplifyTolerance)
	assert.Equal(t, []Coordinate{lineCoords[0], lineCoords[2]}, simplified)

	// tighter than the offset keeps everything
	assert.Len(t, SimplifyPolyline(lineCoords, 0.01), 3)

	assert.Len(t, SimplifyPolyline(lineCoords[:2], DefaultSimplifyTolerance), 2)
}

func TestSimplifyPolylineKeepsCorner(t *testing.T) {
	// L shaped line, the corner is ~78 m away from the chord
	lineCoords := []Coordinate{
		{0, 0},
		{0.0002, 0},
		{0.001, 0},
		{0.001, 0.0005},
		{0.001, 0.001},
	}
	simplified := SimplifyPolyline(lineCoords, DefaultSimplifyTolerance)
	assert.Equal(t, []Coordinate{{0, 0}, {0.001, 0}, {0.001, 0.001}}, simplified)
}

func TestEquirectangularDistance(t *testing.T) {
	// 0.001 degree of latitude is ~111.2 m
	d := EquirectangularDistance(43.0, -79.0, 43.001, -79.0)
	assert.InDelta(t, 111.23, d, 0.1)

	assert.Equal(t, 0.0, EquirectangularDistance(43.0, -79.0, 43.0, -79.0))

	// agrees with haversine on short distances
	h := CalculateHaversineDistance(43.0, -79.0, 43.002, -79.003) * 1000
	e := EquirectangularDistance(43.0, -79.0, 43.002, -79.003)
	assert.InDelta(t, h, e, 0.5)
}

func TestBearingAndDestinationPoint(t *testing.T) {
	assert.InDelta(t, 0.0, BearingTo(0, 0, 1, 0), 1e-9)
	assert.InDelta(t, 90.0, BearingTo(0, 0, 0, 1), 1e-9)
	assert.InDelta(t, -90.0, BearingTo(0, 0, 0, -1), 1e-9)

	lat, lon := GetDestinationPoint(-7.56, 110.83, 90, 1.0)
	assert.InDelta(t, 1.0, CalculateHaversineDistance(-7.56, 110.83, lat, lon), 1e-6)
	assert.InDelta(t, 90.0, BearingTo(-7.56, 110.83, lat, lon), 0.01)
}

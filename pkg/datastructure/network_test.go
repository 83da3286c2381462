package datastructure

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
buildTestNetwork:

	3 ---- 2     Jalan Kartini: 2 - 3 (speed 0)
	       ^
	       |     Jalan Gajah Mada: 0 - 1 two way, 1 -> 2 one way
	0 ---- 1
*/
func buildTestNetwork(t *testing.T) *RoadNetwork {
	b := NewNetworkBuilder()
	b.AddIntersection(NewCoordinate(0, 0), "")
	b.AddIntersection(NewCoordinate(0, 0.001), "")
	b.AddIntersection(NewCoordinate(0.001, 0.001), "Tugu")
	b.AddIntersection(NewCoordinate(0.001, 0), "")
	gajahMada := b.AddStreet("Jalan Gajah Mada")
	kartini := b.AddStreet("Jalan Kartini")
	b.AddSegment(SegmentInfo{StreetID: gajahMada, From: 0, To: 1, SpeedLimit: 36})
	b.AddSegment(SegmentInfo{StreetID: gajahMada, From: 1, To: 2, SpeedLimit: 36, OneWay: true})
	b.AddSegment(SegmentInfo{StreetID: kartini, From: 2, To: 3, SpeedLimit: 0})
	rn, err := b.Build()
	require.NoError(t, err)
	return rn
}

func TestRoadNetworkQueries(t *testing.T) {
	rn := buildTestNetwork(t)

	require.Equal(t, 4, rn.NumIntersections())
	require.Equal(t, 3, rn.NumSegments())
	require.Equal(t, 2, rn.NumStreets())

	from, to, oneWay := rn.Endpoints(1)
	assert.Equal(t, int32(1), from)
	assert.Equal(t, int32(2), to)
	assert.True(t, oneWay)

	assert.Equal(t, []int32{0, 1}, rn.Segments(1))
	assert.Equal(t, []int32{0, 2}, rn.Adjacent(1))
	assert.Equal(t, []int32{3}, rn.Adjacent(2))
	assert.Equal(t, []int32{2}, rn.Adjacent(3))

	// 0.001 degree of longitude on the equator
	assert.InDelta(t, 111.19, rn.SegmentLength(0), 0.5)
	assert.InDelta(t, rn.SegmentLength(0)/10, rn.TravelTime(0), 1e-9)
	assert.True(t, math.IsInf(rn.TravelTime(2), 1))
	assert.Equal(t, 36.0, rn.TopSpeedLimit())

	assert.True(t, rn.IsValidStreet(1))
	assert.False(t, rn.IsValidStreet(2))
	assert.False(t, rn.IsValidStreet(-1))
	assert.False(t, rn.IsValidSegment(3))
	assert.False(t, rn.IsValidIntersection(4))
}

func TestStreetQueries(t *testing.T) {
	rn := buildTestNetwork(t)

	assert.Equal(t, []int32{0, 1}, rn.StreetSegments(0))
	assert.Equal(t, []int32{0, 1, 2}, rn.StreetIntersections(0))
	assert.Equal(t, []int32{2, 3}, rn.StreetIntersections(1))
	assert.InDelta(t, rn.SegmentLength(0)+rn.SegmentLength(1), rn.StreetLength(0), 1e-9)

	assert.Equal(t, []int32{2}, rn.IntersectionsOfStreets(0, 1))
	assert.Equal(t, []string{"Jalan Gajah Mada", "Jalan Kartini"}, rn.IntersectionStreetNames(2))
}

func TestIsContiguous(t *testing.T) {
	rn := buildTestNetwork(t)

	assert.True(t, rn.IsContiguous(0, []int32{0, 1, 2}))
	assert.True(t, rn.IsContiguous(3, []int32{2}))
	assert.True(t, rn.IsContiguous(2, nil))
	// one way 1 -> 2 driven backwards
	assert.False(t, rn.IsContiguous(2, []int32{1}))
	// 0 -> 1 does not touch 3
	assert.False(t, rn.IsContiguous(3, []int32{0}))
	assert.False(t, rn.IsContiguous(0, []int32{7}))
}

func TestBuildInvalidSegments(t *testing.T) {
	cases := []struct {
		name string
		info SegmentInfo
		err  error
	}{
		{"unknown intersection", SegmentInfo{StreetID: 0, From: 0, To: 5, SpeedLimit: 30}, ErrUnknownIntersection},
		{"unknown street", SegmentInfo{StreetID: 3, From: 0, To: 1, SpeedLimit: 30}, ErrUnknownStreet},
		{"negative speed", SegmentInfo{StreetID: 0, From: 0, To: 1, SpeedLimit: -1}, ErrInvalidSpeedLimit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := NewNetworkBuilder()
			b.AddIntersection(NewCoordinate(0, 0), "")
			b.AddIntersection(NewCoordinate(0, 0.001), "")
			b.AddStreet("Jalan Sudirman")
			b.AddSegment(c.info)
			_, err := b.Build()
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestPolyline(t *testing.T) {
	path := []Coordinate{
		NewCoordinate(-7.55025, 110.82775),
		NewCoordinate(-7.55102, 110.82843),
		NewCoordinate(-7.56691, 110.81654),
	}
	decoded, err := DecodePolyline(CreatePolyline(path))
	require.NoError(t, err)
	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Lat, decoded[i].Lat, 1e-5)
		assert.InDelta(t, path[i].Lon, decoded[i].Lon, 1e-5)
	}
}

func TestPathGeoJSON(t *testing.T) {
	rn := buildTestNetwork(t)

	// 1 -> 0 drives segment 0 against its drawing order
	data, err := PathGeoJSON(rn, 1, []int32{0})
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "Jalan Gajah Mada", fc.Features[0].Properties["street"])

	ls, ok := fc.Features[0].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.Point{0.001, 0}, ls[0])
	assert.Equal(t, orb.Point{0, 0}, ls[len(ls)-1])

	data, err = PathGeoJSON(rn, 0, []int32{0, 1})
	require.NoError(t, err)
	fc, err = geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
}

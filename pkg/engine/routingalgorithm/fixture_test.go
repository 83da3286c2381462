package routingalgorithm

import (
	"testing"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/geo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fixture builds small networks whose segments have exact travel times.
type fixture struct {
	b      *datastructure.NetworkBuilder
	coords []datastructure.Coordinate
}

func newFixture() *fixture {
	return &fixture{b: datastructure.NewNetworkBuilder()}
}

func (f *fixture) node(lat, lon float64) int32 {
	c := datastructure.NewCoordinate(lat, lon)
	f.coords = append(f.coords, c)
	return f.b.AddIntersection(c, "")
}

func (f *fixture) street(name string) int32 {
	return f.b.AddStreet(name)
}

// timed segment from -> to that takes exactly seconds to drive.
func (f *fixture) timed(street, from, to int32, seconds float64, oneWay bool) int32 {
	a, c := f.coords[from], f.coords[to]
	dist := geo.EquirectangularDistance(a.Lat, a.Lon, c.Lat, c.Lon)
	return f.b.AddSegment(datastructure.SegmentInfo{
		StreetID:   street,
		From:       from,
		To:         to,
		SpeedLimit: dist / seconds * 3.6,
		OneWay:     oneWay,
	})
}

func (f *fixture) segment(street, from, to int32, speed float64, oneWay bool) int32 {
	return f.b.AddSegment(datastructure.SegmentInfo{
		StreetID:   street,
		From:       from,
		To:         to,
		SpeedLimit: speed,
		OneWay:     oneWay,
	})
}

func (f *fixture) build(t *testing.T) (*datastructure.RoadNetwork, *RouteAlgorithm) {
	rn, err := f.b.Build()
	require.NoError(t, err)
	return rn, NewRouteAlgorithm(rn, zap.NewNop(), WithWorkers(2))
}

// lonForMeters longitude offset at the equator that is meters away from lon 0.
func lonForMeters(meters float64) float64 {
	return meters / (geo.EARTH_RADIUS_IN_METERS * geo.DEG_TO_RAD)
}

/*
newSeattleGraph. every segment is two way and on its own street, weights in seconds:

	P(0) --10-- V(1) --3-- R(4)
	             \          |
	              6         5
	               \        |
	               Q(2) --5-- W(3) --15-- F(5)
*/
func newSeattleGraph(t *testing.T) (*datastructure.RoadNetwork, *RouteAlgorithm) {
	f := newFixture()
	p := f.node(47.58677, -122.18003)
	v := f.node(47.5788, -122.2332)
	q := f.node(47.64029, -122.17226)
	w := f.node(47.62734, -122.14634)
	r := f.node(47.60350, -122.18170)
	fNode := f.node(47.57074, -122.16883)

	f.timed(f.street("pv"), p, v, 10, false)
	f.timed(f.street("vr"), v, r, 3, false)
	f.timed(f.street("vq"), v, q, 6, false)
	f.timed(f.street("qw"), q, w, 5, false)
	f.timed(f.street("wr"), w, r, 5, false)
	f.timed(f.street("wf"), w, fNode, 15, false)
	return f.build(t)
}

/*
newSquare. two equally long routes from S to G:

	C --east--> G
	^           ^
	north      north
	|           |
	S --east--> A

S -> A -> G turns left at A, S -> C -> G turns right at C.
*/
func newSquare(t *testing.T) (*datastructure.RoadNetwork, *RouteAlgorithm) {
	f := newFixture()
	s := f.node(0, 0)
	a := f.node(0, 0.001)
	c := f.node(0.001, 0)
	g := f.node(0.001, 0.001)

	f.timed(f.street("sa"), s, a, 10, true)
	f.timed(f.street("ag"), a, g, 10, true)
	f.timed(f.street("sc"), s, c, 10, true)
	f.timed(f.street("cg"), c, g, 10, true)
	return f.build(t)
}

package rest

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/engine/courier"
	"github.com/lintang-b-s/streetmap/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/streetmap/pkg/guidance"
	"github.com/lintang-b-s/streetmap/pkg/server"
	"github.com/lintang-b-s/streetmap/pkg/server/rest/service"
	"github.com/lintang-b-s/streetmap/pkg/snap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	gotPenalty  routingalgorithm.TurnPenalty
	gotCapacity float64
}

func (f *fakeService) Penalty(right, left *float64) routingalgorithm.TurnPenalty {
	p := routingalgorithm.NewTurnPenalty(15, 25)
	if right != nil {
		p.Right = *right
	}
	if left != nil {
		p.Left = *left
	}
	return p
}

func (f *fakeService) TruckCapacity() float64 {
	return 100
}

func (f *fakeService) ShortestPath(ctx context.Context, srcLat, srcLon, dstLat, dstLon float64,
	penalty routingalgorithm.TurnPenalty) (routingalgorithm.PathResult, error) {
	f.gotPenalty = penalty
	if dstLat > 50 {
		return routingalgorithm.PathResult{}, server.WrapErrorf(server.ErrPathNotFound, server.ErrNotFound, "no route found")
	}
	return routingalgorithm.PathResult{Found: true, Segments: []int32{0, 1}, Polyline: "_p~iF~ps|U", TravelTime: 30, Length: 200}, nil
}

func (f *fakeService) PathsToAll(ctx context.Context, start int32, dests []int32,
	penalty routingalgorithm.TurnPenalty) (map[int32]routingalgorithm.PathCost, error) {
	return map[int32]routingalgorithm.PathCost{
		1: {Cost: 10, Path: []int32{0}, Reachable: true},
		5: {Cost: math.Inf(1), Path: []int32{}, Reachable: false},
	}, nil
}

func (f *fakeService) PathTravelTime(ctx context.Context, segments []int32, penalty routingalgorithm.TurnPenalty) (float64, error) {
	return 42, nil
}

func (f *fakeService) TurnType(ctx context.Context, a, b int32) (guidance.TurnType, error) {
	if b > 10 {
		return guidance.TURN_NONE, server.NewErrorf(server.ErrBadParamInput, "unknown street segment %d", b)
	}
	return guidance.TURN_LEFT, nil
}

func (f *fakeService) CourierRouting(ctx context.Context, requests []courier.DeliveryRequest, depots []int32,
	penalty routingalgorithm.TurnPenalty, capacity float64) (courier.Route, error) {
	f.gotCapacity = capacity
	return courier.Route{Subpaths: []courier.CourierSubpath{{Start: 0, End: 1, Segments: []int32{0}, PickUpIDs: []int{}}}, TravelTime: 10}, nil
}

func (f *fakeService) NearestIntersections(ctx context.Context, lat, lon, radiusKm float64, k int) ([]snap.SnappedIntersection, error) {
	return []snap.SnappedIntersection{{ID: 3, Coord: datastructure.NewCoordinate(lat, lon), Distance: 0}}, nil
}

func (f *fakeService) NearestStreet(ctx context.Context, lat, lon float64) (service.NearestStreet, error) {
	if lat > 80 {
		return service.NearestStreet{}, server.WrapErrorf(snap.ErrEmptyNetwork, server.ErrNotFound, "not covered")
	}
	return service.NearestStreet{
		SnappedSegment: snap.SnappedSegment{SegmentID: 4, Projection: datastructure.NewCoordinate(lat, lon), NextPoint: 1, Distance: 3},
		Street:         "Jalan Slamet Riyadi",
	}, nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *fakeService, *Metrics) {
	svc := &fakeService{}
	m := NewMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(PromeHttpMiddleware(m))
	NavigatorRouter(r, svc, zap.NewNop())
	return r, svc, m
}

func post(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestShortestPathHandler(t *testing.T) {
	r, svc, m := newTestRouter(t)

	rec := post(t, r, "/api/navigations/shortest-path",
		`{"src_lat": -7.55, "src_lon": 110.8, "dst_lat": -7.56, "dst_lon": 110.81, "left_turn_penalty": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ShortestPathResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Found)
	assert.Equal(t, 30.0, resp.TravelTime)
	assert.Equal(t, []int32{0, 1}, resp.Segments)
	assert.Equal(t, routingalgorithm.NewTurnPenalty(15, 0), svc.gotPenalty)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/navigations/shortest-path", http.MethodPost, "200")))
}

func TestShortestPathHandlerErrors(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := post(t, r, "/api/navigations/shortest-path", `{"src_lat": 100, "src_lon": 110.8, "dst_lat": -7.56, "dst_lon": 110.81}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var errResp ErrResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Len(t, errResp.ErrValidation, 1)

	rec = post(t, r, "/api/navigations/shortest-path", `{"src_lat": -7.55, "src_lon": 110.8, "dst_lat": 51.5, "dst_lon": -0.12}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(t, r, "/api/navigations/shortest-path", `{"src_lat": -7.55, "src_lon": 110.8, "dst_lat": -7.56, "dst_lon": 110.81, "right_turn_penalty": -3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, r, "/api/navigations/shortest-path", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPathsToAllHandler(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := post(t, r, "/api/navigations/paths-to-all", `{"start": 0, "destinations": [5, 1, 5]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PathsToAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Paths, 2)
	assert.Equal(t, DestinationPath{Destination: 5, Reachable: false, TravelTime: -1, Segments: []int32{}}, resp.Paths[0])
	assert.Equal(t, DestinationPath{Destination: 1, Reachable: true, TravelTime: 10, Segments: []int32{0}}, resp.Paths[1])

	rec = post(t, r, "/api/navigations/paths-to-all", `{"start": 0, "destinations": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTravelTimeAndTurnTypeHandlers(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := post(t, r, "/api/navigations/travel-time", `{"segments": [0, 1]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"travel_time": 42}`, rec.Body.String())

	rec = post(t, r, "/api/navigations/turn-type", `{"from_segment": 0, "to_segment": 1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"turn_type": "LEFT"}`, rec.Body.String())

	rec = post(t, r, "/api/navigations/turn-type", `{"from_segment": 0, "to_segment": 11}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourierRoutingHandler(t *testing.T) {
	r, svc, _ := newTestRouter(t)

	rec := post(t, r, "/api/navigations/courier-routing",
		`{"requests": [{"id": 1, "pick_up": 1, "drop_off": 2, "weight": 3}], "depots": [0]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100.0, svc.gotCapacity)

	var resp CourierRoutingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Route.Subpaths, 1)

	rec = post(t, r, "/api/navigations/courier-routing",
		`{"requests": [{"id": 1, "pick_up": 1, "drop_off": 2, "weight": 3}], "depots": [0], "truck_capacity": 7.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7.5, svc.gotCapacity)

	rec = post(t, r, "/api/navigations/courier-routing",
		`{"requests": [{"id": 1, "pick_up": 1, "drop_off": 2, "weight": -3}], "depots": [0]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearestIntersectionsHandler(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := post(t, r, "/api/navigations/nearest-intersections", `{"lat": -7.55, "lon": 110.8, "radius": 0.5, "k": 3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp NearestIntersectionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Intersections, 1)
	assert.Equal(t, int32(3), resp.Intersections[0].ID)

	rec = post(t, r, "/api/navigations/nearest-intersections", `{"lat": -7.55, "lon": 110.8, "radius": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearestStreetHandler(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rec := post(t, r, "/api/navigations/nearest-street", `{"lat": -7.56, "lon": 110.82}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.NearestStreet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int32(4), resp.SegmentID)
	assert.Equal(t, "Jalan Slamet Riyadi", resp.Street)

	rec = post(t, r, "/api/navigations/nearest-street", `{"lat": 85, "lon": 110.82}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = post(t, r, "/api/navigations/nearest-street", `{"lat": -95, "lon": 110.82}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

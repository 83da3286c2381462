package snap

import (
	"errors"
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/geo"
	"github.com/lintang-b-s/streetmap/pkg/util"
	"go.uber.org/zap"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
	pointTolerance   = 1e-9
	// nearest neighbours fetched from the r-tree before re-ranking by great-circle distance.
	rerankCandidates = 8
)

var ErrEmptyNetwork = errors.New("road network has no intersections")

type RoadNetwork interface {
	NumIntersections() int
	Position(intersection int32) datastructure.Coordinate
	Segments(intersection int32) []int32
	SegmentPoints(segment int32) []datastructure.Coordinate
}

// SnappedIntersection intersection near a query point. Distance in meters.
type SnappedIntersection struct {
	ID       int32                    `json:"intersection_id"`
	Coord    datastructure.Coordinate `json:"coordinate"`
	Distance float64                  `json:"distance"`
}

// SnappedSegment closest point of a street segment to a query point. NextPoint indexes the
// segment polyline (from, curve points, to) point that follows the projection.
type SnappedSegment struct {
	SegmentID  int32                    `json:"segment_id"`
	Projection datastructure.Coordinate `json:"projection"`
	NextPoint  int                      `json:"next_point"`
	Distance   float64                  `json:"distance"`
}

// intersectionLeaf r-tree entry. The point lives on an equirectangular plane scaled at the
// network's mean latitude so that euclidean r-tree distances track meters.
type intersectionLeaf struct {
	id   int32
	rect rtreego.Rect
}

func (l *intersectionLeaf) Bounds() rtreego.Rect {
	return l.rect
}

// IntersectionSnapper answers closest intersection queries over an r-tree.
type IntersectionSnapper struct {
	rtree   *rtreego.Rtree
	network RoadNetwork
	refLat  float64
	logger  *zap.Logger
}

func NewIntersectionSnapper(network RoadNetwork, logger *zap.Logger) *IntersectionSnapper {
	return &IntersectionSnapper{
		rtree:   rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren),
		network: network,
		logger:  logger,
	}
}

// BuildSnapper inserts every intersection of the network.
func (is *IntersectionSnapper) BuildSnapper() {
	n := is.network.NumIntersections()
	sumLat := 0.0
	for i := int32(0); i < int32(n); i++ {
		sumLat += is.network.Position(i).Lat
	}
	if n > 0 {
		is.refLat = sumLat / float64(n)
	}

	for i := int32(0); i < int32(n); i++ {
		if (i+1)%100000 == 0 {
			is.logger.Debug("inserting intersections to r-tree...", zap.Int32("inserted", i+1))
		}
		pos := is.network.Position(i)
		is.rtree.Insert(&intersectionLeaf{id: i, rect: is.toPoint(pos.Lat, pos.Lon).ToRect(pointTolerance)})
	}
	is.logger.Info("intersection r-tree built", zap.Int("intersections", is.rtree.Size()))
}

func (is *IntersectionSnapper) toPoint(lat, lon float64) rtreego.Point {
	x, y := geo.ProjectToPlane(lat, lon, is.refLat)
	return rtreego.Point{x, y}
}

func greatCircleMeters(a, b datastructure.Coordinate) float64 {
	return s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon)).Radians() *
		geo.EARTH_RADIUS_IN_METERS
}

func (is *IntersectionSnapper) snapped(id int32, query datastructure.Coordinate) SnappedIntersection {
	pos := is.network.Position(id)
	return SnappedIntersection{ID: id, Coord: pos, Distance: greatCircleMeters(query, pos)}
}

// sortSnapped closest first, lower id on equal distance.
func sortSnapped(items []SnappedIntersection) []SnappedIntersection {
	return util.QuickSortG(items, func(a, b SnappedIntersection) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return int(a.ID - b.ID)
	})
}

// ClosestIntersection intersection with the smallest great-circle distance to coord.
func (is *IntersectionSnapper) ClosestIntersection(coord datastructure.Coordinate) (SnappedIntersection, error) {
	if is.rtree.Size() == 0 {
		return SnappedIntersection{}, ErrEmptyNetwork
	}

	candidates := is.rtree.NearestNeighbors(rerankCandidates, is.toPoint(coord.Lat, coord.Lon))
	items := make([]SnappedIntersection, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		items = append(items, is.snapped(c.(*intersectionLeaf).id, coord))
	}
	items = sortSnapped(items)
	return items[0], nil
}

// NearestIntersections at most k intersections within radiusKm of coord, closest first.
// k <= 0 returns all of them.
func (is *IntersectionSnapper) NearestIntersections(coord datastructure.Coordinate, radiusKm float64, k int) []SnappedIntersection {
	if is.rtree.Size() == 0 || radiusKm <= 0 {
		return []SnappedIntersection{}
	}

	northLat, _ := geo.GetDestinationPoint(coord.Lat, coord.Lon, 0, radiusKm)
	southLat, _ := geo.GetDestinationPoint(coord.Lat, coord.Lon, 180, radiusKm)
	_, eastLon := geo.GetDestinationPoint(coord.Lat, coord.Lon, 90, radiusKm)
	_, westLon := geo.GetDestinationPoint(coord.Lat, coord.Lon, 270, radiusKm)

	lower := is.toPoint(southLat, westLon)
	upper := is.toPoint(northLat, eastLon)
	bound, err := rtreego.NewRectFromPoints(
		rtreego.Point{math.Min(lower[0], upper[0]), math.Min(lower[1], upper[1])},
		rtreego.Point{math.Max(lower[0], upper[0]) + pointTolerance, math.Max(lower[1], upper[1]) + pointTolerance},
	)
	if err != nil {
		is.logger.Error("invalid search rectangle", zap.Error(err))
		return []SnappedIntersection{}
	}

	radiusM := radiusKm * 1000
	items := make([]SnappedIntersection, 0)
	for _, obj := range is.rtree.SearchIntersect(bound) {
		s := is.snapped(obj.(*intersectionLeaf).id, coord)
		if s.Distance <= radiusM {
			items = append(items, s)
		}
	}
	items = sortSnapped(items)
	if k > 0 && len(items) > k {
		items = items[:k]
	}
	return items
}

// SnapToStreet closest street segment incident to one of the intersections around coord.
func (is *IntersectionSnapper) SnapToStreet(coord datastructure.Coordinate) (SnappedSegment, error) {
	if is.rtree.Size() == 0 {
		return SnappedSegment{}, ErrEmptyNetwork
	}

	best := SnappedSegment{SegmentID: datastructure.NO_EDGE, Distance: math.Inf(1)}
	seen := make(map[int32]struct{})
	for _, c := range is.rtree.NearestNeighbors(rerankCandidates, is.toPoint(coord.Lat, coord.Lon)) {
		if c == nil {
			continue
		}
		for _, segID := range is.network.Segments(c.(*intersectionLeaf).id) {
			if _, ok := seen[segID]; ok {
				continue
			}
			seen[segID] = struct{}{}

			points := datastructure.NewGeoCoordinates(is.network.SegmentPoints(segID))
			dist, projection := geo.DistanceToPolyline(coord.ToGeo(), points)
			if dist < best.Distance || (dist == best.Distance && segID < best.SegmentID) {
				best = SnappedSegment{
					SegmentID:  segID,
					Projection: datastructure.NewCoordinate(projection.Lat, projection.Lon),
					NextPoint:  geo.PointPositionBetweenLinePoints(projection.Lat, projection.Lon, points),
					Distance:   dist,
				}
			}
		}
	}
	if best.SegmentID == datastructure.NO_EDGE {
		return SnappedSegment{}, ErrEmptyNetwork
	}
	return best, nil
}

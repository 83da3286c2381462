package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/kelindar/binary"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/util"
	"go.uber.org/zap"
)

const (
	snapshotVersion = 1
	chunkSize       = 50000
	oneWayBit       = 31

	metaKey          = "network/meta"
	intersectionsKey = "network/intersections/%08d"
	streetsKey       = "network/streets/%08d"
	segmentsKey      = "network/segments/%08d"
)

var (
	ErrSnapshotNotFound = errors.New("network snapshot not found")
	ErrSnapshotVersion  = errors.New("unsupported network snapshot version")
)

type snapshotMeta struct {
	Version          int32
	NumIntersections int32
	NumStreets       int32
	NumSegments      int32
}

type intersectionRecord struct {
	Lat  float64
	Lon  float64
	Name string
}

type streetRecord struct {
	Name string
}

type segmentRecord struct {
	StreetOneWay int32 // street id, one way flag in bit 31
	WayID        int64
	From         int32
	To           int32
	CurveLat     []float64
	CurveLon     []float64
	SpeedLimit   float64
}

// NetworkStore persists the built road network in pebble. Derived values (length, travel
// time, adjacency) are recomputed by NetworkBuilder on load.
type NetworkStore struct {
	db     *pebble.DB
	logger *zap.Logger
}

func OpenNetworkStore(dir string, logger *zap.Logger) (*NetworkStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{Logger: logger.Sugar()})
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", dir, err)
	}
	return &NetworkStore{db: db, logger: logger}, nil
}

func (s *NetworkStore) Close() error {
	return s.db.Close()
}

func numChunks(n int) int {
	return (n + chunkSize - 1) / chunkSize
}

func putRecords[T any](batch *pebble.Batch, keyFormat string, records []T) error {
	for c := 0; c < numChunks(len(records)); c++ {
		lo := c * chunkSize
		hi := min(lo+chunkSize, len(records))
		bb, err := binary.Marshal(records[lo:hi])
		if err != nil {
			return fmt.Errorf("encode %s: %w", keyFormat, err)
		}
		compressed, err := compressData(bb)
		if err != nil {
			return err
		}
		if err := batch.Set([]byte(fmt.Sprintf(keyFormat, c)), compressed, nil); err != nil {
			return err
		}
	}
	return nil
}

func getRecords[T any](db *pebble.DB, keyFormat string, n int) ([]T, error) {
	records := make([]T, 0, n)
	for c := 0; c < numChunks(n); c++ {
		val, closer, err := db.Get([]byte(fmt.Sprintf(keyFormat, c)))
		if err != nil {
			return nil, fmt.Errorf("get %s chunk %d: %w", keyFormat, c, err)
		}
		bb, err := decompressData(val)
		closer.Close()
		if err != nil {
			return nil, err
		}
		var chunk []T
		if err := binary.Unmarshal(bb, &chunk); err != nil {
			return nil, fmt.Errorf("decode %s chunk %d: %w", keyFormat, c, err)
		}
		records = append(records, chunk...)
	}
	if len(records) != n {
		return nil, fmt.Errorf("%s: expected %d records, got %d", keyFormat, n, len(records))
	}
	return records, nil
}

// Save writes network in a single pebble batch.
func (s *NetworkStore) Save(ctx context.Context, network *datastructure.RoadNetwork) error {
	s.logger.Info("saving road network snapshot...",
		zap.Int("intersections", network.NumIntersections()),
		zap.Int("segments", network.NumSegments()),
		zap.Int("streets", network.NumStreets()))

	intersections := make([]intersectionRecord, network.NumIntersections())
	for i, in := range network.Intersections() {
		intersections[i] = intersectionRecord{Lat: in.Coord.Lat, Lon: in.Coord.Lon, Name: in.Name}
	}
	streets := make([]streetRecord, network.NumStreets())
	for i, st := range network.Streets() {
		streets[i] = streetRecord{Name: st.Name}
	}
	segments := make([]segmentRecord, network.NumSegments())
	for i, seg := range network.AllSegments() {
		if i%chunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("save road network: %w", err)
			}
		}
		rec := segmentRecord{
			StreetOneWay: util.BitPackIntBool(seg.StreetID, seg.OneWay, oneWayBit),
			WayID:        seg.WayID,
			From:         seg.From,
			To:           seg.To,
			CurveLat:     make([]float64, len(seg.CurvePoints)),
			CurveLon:     make([]float64, len(seg.CurvePoints)),
			SpeedLimit:   seg.SpeedLimit,
		}
		for j, p := range seg.CurvePoints {
			rec.CurveLat[j], rec.CurveLon[j] = p.Lat, p.Lon
		}
		segments[i] = rec
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	meta, err := binary.Marshal(snapshotMeta{
		Version:          snapshotVersion,
		NumIntersections: int32(len(intersections)),
		NumStreets:       int32(len(streets)),
		NumSegments:      int32(len(segments)),
	})
	if err != nil {
		return fmt.Errorf("encode snapshot meta: %w", err)
	}
	if err := batch.Set([]byte(metaKey), meta, nil); err != nil {
		return err
	}
	if err := putRecords(batch, intersectionsKey, intersections); err != nil {
		return err
	}
	if err := putRecords(batch, streetsKey, streets); err != nil {
		return err
	}
	if err := putRecords(batch, segmentsKey, segments); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save road network: %w", err)
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("commit road network snapshot: %w", err)
	}

	s.logger.Info("saving road network snapshot done")
	return nil
}

// Load rebuilds the road network from the snapshot.
func (s *NetworkStore) Load(ctx context.Context) (*datastructure.RoadNetwork, error) {
	val, closer, err := s.db.Get([]byte(metaKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot meta: %w", err)
	}
	var meta snapshotMeta
	err = binary.Unmarshal(val, &meta)
	closer.Close()
	if err != nil {
		return nil, fmt.Errorf("decode snapshot meta: %w", err)
	}
	if meta.Version != snapshotVersion {
		return nil, fmt.Errorf("version %d: %w", meta.Version, ErrSnapshotVersion)
	}

	intersections, err := getRecords[intersectionRecord](s.db, intersectionsKey, int(meta.NumIntersections))
	if err != nil {
		return nil, err
	}
	streets, err := getRecords[streetRecord](s.db, streetsKey, int(meta.NumStreets))
	if err != nil {
		return nil, err
	}
	segments, err := getRecords[segmentRecord](s.db, segmentsKey, int(meta.NumSegments))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load road network: %w", err)
	}

	b := datastructure.NewNetworkBuilder()
	for _, in := range intersections {
		b.AddIntersection(datastructure.NewCoordinate(in.Lat, in.Lon), in.Name)
	}
	for _, st := range streets {
		b.AddStreet(st.Name)
	}
	for _, rec := range segments {
		streetID, oneWay := util.BitUnpackIntBool(rec.StreetOneWay, oneWayBit)
		b.AddSegment(datastructure.SegmentInfo{
			StreetID:    streetID,
			WayID:       rec.WayID,
			From:        rec.From,
			To:          rec.To,
			CurvePoints: datastructure.NewCoordinates(rec.CurveLat, rec.CurveLon),
			SpeedLimit:  rec.SpeedLimit,
			OneWay:      oneWay,
		})
	}

	network, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("rebuild road network: %w", err)
	}
	s.logger.Info("road network snapshot loaded", zap.Int("intersections", network.NumIntersections()),
		zap.Int("segments", network.NumSegments()))
	return network, nil
}

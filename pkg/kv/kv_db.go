package kv

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/uber/h3-go/v4"
	"go.uber.org/zap"
)

const (
	h3Resolution = 9
	batchSize    = 1000
	maxRingLevel = 10
)

var (
	ErrIntersectionsNotFound = errors.New("intersections not found")
)

// KVDB h3 cell -> intersections index on top of badger.
type KVDB struct {
	db     *badger.DB
	logger *zap.Logger
}

func NewKVDB(db *badger.DB, logger *zap.Logger) *KVDB {
	return &KVDB{db: db, logger: logger}
}

// OpenKVDB opens (or creates) a badger database in dir.
func OpenKVDB(dir string, logger *zap.Logger) (*KVDB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", dir, err)
	}
	return NewKVDB(db, logger), nil
}

func cellKey(lat, lon float64) h3.Cell {
	return h3.LatLngToCell(h3.NewLatLng(lat, lon), h3Resolution)
}

// BuildH3IndexedIntersections stores every intersection of network under its h3 cell.
func (k *KVDB) BuildH3IndexedIntersections(ctx context.Context, network *datastructure.RoadNetwork) error {
	k.logger.Info("creating & saving h3 indexed intersections to key-value db...",
		zap.Int("intersections", network.NumIntersections()))

	cells := make(map[string][]IndexedIntersection)
	for i := int32(0); i < int32(network.NumIntersections()); i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build h3 index: %w", err)
		}
		pos := network.Position(i)
		key := cellKey(pos.Lat, pos.Lon).String()
		cells[key] = append(cells[key], NewIndexedIntersection(i, pos.Lat, pos.Lon))
	}

	batches := make([]batchData, 0, batchSize)
	for key, value := range cells {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build h3 index: %w", err)
		}
		batches = append(batches, batchData{key: key, value: value})
		if len(batches) == batchSize {
			if err := k.saveBatch(ctx, batches); err != nil {
				return err
			}
			batches = make([]batchData, 0, batchSize)
		}
	}
	if len(batches) > 0 {
		if err := k.saveBatch(ctx, batches); err != nil {
			return err
		}
	}

	k.logger.Info("creating & saving h3 indexed intersections to key-value db done", zap.Int("cells", len(cells)))
	return nil
}

type batchData struct {
	key   string
	value []IndexedIntersection
}

func (k *KVDB) saveBatch(ctx context.Context, data []batchData) error {
	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	for _, d := range data {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("save h3 cells: %w", err)
		}
		val, err := encodeIntersections(d.value)
		if err != nil {
			return err
		}
		if err := batch.Set([]byte(d.key), val); err != nil {
			return fmt.Errorf("save h3 cell %s: %w", d.key, err)
		}
	}

	if err := batch.Flush(); err != nil {
		return fmt.Errorf("flush h3 cells: %w", err)
	}
	k.logger.Debug("saved h3 cells", zap.Int("cells", len(data)))
	return nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *KVDB) cellIntersections(cell h3.Cell) ([]IndexedIntersection, error) {
	val, err := k.get([]byte(cell.String()))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return []IndexedIntersection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get h3 cell %s: %w", cell.String(), err)
	}
	return decodeIntersections(val)
}

// GetNearestIntersectionsFromPointCoord intersections in the cell of (lat, lon). When that cell is empty
// the search grows ring by ring until something is found.
func (k *KVDB) GetNearestIntersectionsFromPointCoord(lat, lon float64) ([]IndexedIntersection, error) {
	cell := cellKey(lat, lon)
	found, err := k.cellIntersections(cell)
	if err != nil {
		return nil, err
	}

	visited := map[h3.Cell]struct{}{cell: {}}
	for lev := 1; lev <= maxRingLevel && len(found) == 0; lev++ {
		for _, c := range h3.GridDisk(cell, lev) {
			if _, ok := visited[c]; ok {
				continue
			}
			visited[c] = struct{}{}
			items, err := k.cellIntersections(c)
			if err != nil {
				return nil, err
			}
			found = append(found, items...)
		}
	}

	if len(found) == 0 {
		return nil, ErrIntersectionsNotFound
	}
	return found, nil
}

// GetIntersectionsWithinRadius intersections in every cell of the smallest disk covering radiusKm.
func (k *KVDB) GetIntersectionsWithinRadius(lat, lon, radiusKm float64) ([]IndexedIntersection, error) {
	found := make([]IndexedIntersection, 0)
	for _, c := range kRingIndexesArea(lat, lon, radiusKm) {
		items, err := k.cellIntersections(c)
		if err != nil {
			return nil, err
		}
		found = append(found, items...)
	}
	return found, nil
}

func kRingIndexesArea(lat, lon, searchRadiusKm float64) []h3.Cell {
	origin := cellKey(lat, lon)
	originArea := h3.CellAreaKm2(origin)
	searchArea := math.Pi * searchRadiusKm * searchRadiusKm

	radius := 0
	diskArea := originArea

	for diskArea < searchArea {
		radius++
		cellCount := float64(3*radius*(radius+1) + 1)
		diskArea = cellCount * originArea
	}

	return h3.GridDisk(origin, radius)
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

package kv

import (
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// IndexedIntersection intersection stored under the h3 cell that contains it.
type IndexedIntersection struct {
	ID  int32
	Lat float64
	Lon float64
}

func NewIndexedIntersection(id int32, lat, lon float64) IndexedIntersection {
	return IndexedIntersection{ID: id, Lat: lat, Lon: lon}
}

func encodeIntersections(items []IndexedIntersection) ([]byte, error) {
	bb, err := binary.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode intersections: %w", err)
	}
	return compress(bb)
}

func decodeIntersections(bbCompressed []byte) ([]IndexedIntersection, error) {
	if len(bbCompressed) == 0 {
		return []IndexedIntersection{}, nil
	}
	bb, err := decompress(bbCompressed)
	if err != nil {
		return nil, err
	}
	var items []IndexedIntersection
	if err := binary.Unmarshal(bb, &items); err != nil {
		return nil, fmt.Errorf("decode intersections: %w", err)
	}
	return items, nil
}

func compress(bb []byte) ([]byte, error) {
	bbCompressed, err := zstd.Compress(nil, bb)
	if err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	bb, err := zstd.Decompress(nil, bbCompressed)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return bb, nil
}

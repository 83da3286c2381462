package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lintang-b-s/streetmap/pkg/datastructure"
	"github.com/lintang-b-s/streetmap/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type nodeCoord struct {
	lat float64
	lon float64
}

// OsmParser turns OSM ways into a road network. Every junction, way end and barrier becomes an
// intersection, the nodes in between become curve points of the street segment.
type OsmParser struct {
	wayNodeMap      map[int64]NodeType
	acceptedNodeMap map[int64]nodeCoord
	barrierNodes    map[int64]struct{}
	nodeNames       map[int64]string
	nodeIDMap       map[int64]int32
	streetNames     util.IDMap

	builder *datastructure.NetworkBuilder
	logger  *zap.Logger

	skippedWays int
}

func NewOSMParser(logger *zap.Logger) *OsmParser {
	return &OsmParser{
		wayNodeMap:      make(map[int64]NodeType),
		acceptedNodeMap: make(map[int64]nodeCoord),
		barrierNodes:    make(map[int64]struct{}),
		nodeNames:       make(map[int64]string),
		nodeIDMap:       make(map[int64]int32),
		streetNames:     util.NewIdMap(),
		builder:         datastructure.NewNetworkBuilder(),
		logger:          logger,
	}
}

// Parse reads a .osm.pbf (or .osm xml) file.
func (p *OsmParser) Parse(ctx context.Context, mapFile string) (*datastructure.RoadNetwork, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, fmt.Errorf("open osm file: %w", err)
	}
	defer f.Close()

	format := FORMAT_PBF
	if ext := strings.ToLower(filepath.Ext(mapFile)); ext == ".osm" || ext == ".xml" {
		format = FORMAT_XML
	}
	return p.ParseReader(ctx, f, format)
}

func newScanner(ctx context.Context, r io.Reader, format Format) osm.Scanner {
	if format == FORMAT_XML {
		return osmxml.New(ctx, r)
	}
	// must not be parallel
	return osmpbf.New(ctx, r, 1)
}

// ParseReader makes two passes over r: the first one finds junction nodes, the second one
// collects node coordinates and cuts every accepted way into street segments.
func (p *OsmParser) ParseReader(ctx context.Context, r io.ReadSeeker, format Format) (*datastructure.RoadNetwork, error) {
	if err := p.scanWayNodes(ctx, r, format); err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind osm file: %w", err)
	}
	if err := p.scanSegments(ctx, r, format); err != nil {
		return nil, err
	}

	p.logger.Info("building road network...",
		zap.Int("intersections", p.builder.NumIntersections()),
		zap.Int("segments", p.builder.NumSegments()),
		zap.Int("streets", p.streetNames.Len()),
		zap.Int("skipped_ways", p.skippedWays))
	network, err := p.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build road network: %w", err)
	}
	return network, nil
}

func (p *OsmParser) scanWayNodes(ctx context.Context, r io.Reader, format Format) error {
	scanner := newScanner(ctx, r, format)
	defer scanner.Close()

	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || len(way.Nodes) < 2 || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%progressEvery == 0 {
			p.logger.Info("reading openstreetmap ways...", zap.Int("ways", countWays+1))
		}
		countWays++

		for i, node := range way.Nodes {
			id := int64(node.ID)
			if _, ok := p.wayNodeMap[id]; !ok {
				if i == 0 || i == len(way.Nodes)-1 {
					p.wayNodeMap[id] = END_NODE
				} else {
					p.wayNodeMap[id] = BETWEEN_NODE
				}
			} else {
				p.wayNodeMap[id] = JUNCTION_NODE
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan osm ways: %w", err)
	}
	return nil
}

func (p *OsmParser) scanSegments(ctx context.Context, r io.Reader, format Format) error {
	scanner := newScanner(ctx, r, format)
	defer scanner.Close()

	countWays, countNodes := 0, 0
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			if (countNodes+1)%progressEvery == 0 {
				p.logger.Debug("processing openstreetmap nodes...", zap.Int("nodes", countNodes+1))
			}
			countNodes++

			id := int64(o.ID)
			if _, ok := p.wayNodeMap[id]; !ok {
				continue
			}
			p.acceptedNodeMap[id] = nodeCoord{lat: o.Lat, lon: o.Lon}
			if o.Tags.Find("barrier") != "" || o.Tags.Find("ford") != "" {
				p.barrierNodes[id] = struct{}{}
			}
			if name := o.Tags.Find("name"); name != "" {
				p.nodeNames[id] = name
			}
		case *osm.Way:
			if len(o.Nodes) < 2 || !acceptOsmWay(o) {
				continue
			}
			if (countWays+1)%progressEvery == 0 {
				p.logger.Info("processing openstreetmap ways...", zap.Int("ways", countWays+1))
			}
			countWays++
			p.processWay(o)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan osm segments: %w", err)
	}
	return nil
}

func (p *OsmParser) isSplitNode(id int64) bool {
	if p.wayNodeMap[id] != BETWEEN_NODE {
		return true
	}
	_, barrier := p.barrierNodes[id]
	return barrier
}

func (p *OsmParser) processWay(way *osm.Way) {
	nodeIDs := make([]int64, 0, len(way.Nodes))
	for _, n := range way.Nodes {
		id := int64(n.ID)
		if _, ok := p.acceptedNodeMap[id]; !ok {
			// clipped extracts reference nodes outside the file
			p.skippedWays++
			return
		}
		if len(nodeIDs) > 0 && nodeIDs[len(nodeIDs)-1] == id {
			continue
		}
		nodeIDs = append(nodeIDs, id)
	}
	if len(nodeIDs) < 2 {
		return
	}

	info := newWayInfo(way)
	streetID := p.streetID(info.name)

	segment := []int64{nodeIDs[0]}
	for i := 1; i < len(nodeIDs); i++ {
		segment = append(segment, nodeIDs[i])
		if i == len(nodeIDs)-1 || p.isSplitNode(nodeIDs[i]) {
			p.processSegment(segment, streetID, int64(way.ID), info)
			segment = []int64{nodeIDs[i]}
		}
	}
}

// processSegment splits a closed loop in two so that no segment starts and ends at the same node.
func (p *OsmParser) processSegment(segment []int64, streetID int32, wayID int64, info wayInfo) {
	if len(segment) > 2 && segment[0] == segment[len(segment)-1] {
		mid := len(segment) / 2
		p.addSegment(segment[:mid+1], streetID, wayID, info)
		p.addSegment(segment[mid:], streetID, wayID, info)
		return
	}
	p.addSegment(segment, streetID, wayID, info)
}

func (p *OsmParser) addSegment(segment []int64, streetID int32, wayID int64, info wayInfo) {
	if !info.forward {
		segment = util.ReverseG(segment)
	}

	curve := make([]datastructure.Coordinate, 0, len(segment)-2)
	for _, id := range segment[1 : len(segment)-1] {
		c := p.acceptedNodeMap[id]
		curve = append(curve, datastructure.NewCoordinate(c.lat, c.lon))
	}

	p.builder.AddSegment(datastructure.SegmentInfo{
		StreetID:    streetID,
		WayID:       wayID,
		From:        p.intersectionID(segment[0]),
		To:          p.intersectionID(segment[len(segment)-1]),
		CurvePoints: curve,
		SpeedLimit:  info.speed,
		OneWay:      info.oneWay,
	})
}

func (p *OsmParser) intersectionID(osmID int64) int32 {
	if id, ok := p.nodeIDMap[osmID]; ok {
		return id
	}
	c := p.acceptedNodeMap[osmID]
	id := p.builder.AddIntersection(datastructure.NewCoordinate(c.lat, c.lon), p.nodeNames[osmID])
	p.nodeIDMap[osmID] = id
	return id
}

// streetID one street per distinct way name. Unnamed ways share the "" street.
func (p *OsmParser) streetID(name string) int32 {
	before := p.streetNames.Len()
	id := p.streetNames.GetID(name)
	if p.streetNames.Len() > before {
		p.builder.AddStreet(name)
	}
	return id
}

package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/config"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/costmatrix"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/logger"
)

var (
	configDir = flag.String("config_dir", "./data", "directory holding config.yaml")
	devLog    = flag.Bool("dev", false, "use a human-readable development logger")
)

func main() {
	flag.Parse()

	log, err := logger.New(*devLog)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal("loading config", zap.Error(err))
	}

	reader, sources, targets, err := demoGraph()
	if err != nil {
		log.Fatal("building demo graph", zap.Error(err))
	}

	costing := demoCosting{}
	turnCostTable := defaultTurnCostTable()

	matrix := costmatrix.New(reader, costing, turnCostTable, cfg.BucketWidth, cfg.MaxCost, cfg.Concurrency)
	result, err := matrix.SourceToTarget(context.Background(), sources, targets)
	if err != nil {
		log.Fatal("computing cost matrix", zap.Error(err))
	}

	for i, row := range result {
		log.Info("source costs", zap.Int("source", i), zap.Float64s("cost_to_targets", row))
	}
}

// demoCosting is a flat, unconditional costing model: every edge and
// node is traversable, and an edge's cost is simply its length.
type demoCosting struct{}

func (demoCosting) Allowed(edge graph.DirectedEdge, pred graph.EdgeLabel, tile graph.Tile, edgeID graphid.ID) bool {
	return true
}

func (demoCosting) AllowedNode(node graph.NodeInfo) bool { return true }

func (demoCosting) EdgeCost(edge graph.DirectedEdge) float64 { return edge.Length() }

func (demoCosting) TravelMode() graph.TravelMode { return graph.TravelModeDrive }

// defaultTurnCostTable penalizes sharper turns more, capping at a u-turn.
func defaultTurnCostTable() [pkg.TurnCostTableSize]float64 {
	var table [pkg.TurnCostTableSize]float64
	for degree := range table {
		table[degree] = float64(degree) / 45.0
	}
	return table
}

// demoGraph builds a small three-node line graph and a single
// source/target pair as a smoke-test fixture for the cost matrix, in
// lieu of a tile loader reading real extracted data.
func demoGraph() (*graph.MemReader, []graph.PathLocation, []graph.PathLocation, error) {
	tileID := graphid.TileID{Tile: 0, Level: 0}
	tiles := map[graphid.TileID]graph.RawTile{
		tileID: {
			Nodes: []graph.RawNode{
				{LatLng: graph.PointLL{Lat: -6.200, Lng: 106.816}, EdgeIndex: 0, EdgeCount: 1},
				{LatLng: graph.PointLL{Lat: -6.201, Lng: 106.817}, EdgeIndex: 1, EdgeCount: 1},
				{LatLng: graph.PointLL{Lat: -6.202, Lng: 106.818}, EdgeIndex: 2, EdgeCount: 0},
			},
			Edges: []graph.RawEdge{
				{
					EndNode: graphid.New(0, 0, 1), Length: 140, Forward: true,
					Shape: []graph.PointLL{{Lat: -6.200, Lng: 106.816}, {Lat: -6.201, Lng: 106.817}},
				},
				{
					EndNode: graphid.New(0, 0, 2), Length: 130, Forward: true,
					Shape: []graph.PointLL{{Lat: -6.201, Lng: 106.817}, {Lat: -6.202, Lng: 106.818}},
				},
			},
		},
	}

	reader, err := graph.NewMemReader(16, tiles)
	if err != nil {
		return nil, nil, nil, err
	}

	sources := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: graphid.New(0, 0, 0), Dist: 0, BeginNode: true}}},
	}
	targets := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: graphid.New(0, 0, 1), Dist: 1, EndNode: true}}},
	}
	return reader, sources, targets, nil
}

package costmatrix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
)

type flatCosting struct{}

func (flatCosting) Allowed(edge graph.DirectedEdge, pred graph.EdgeLabel, tile graph.Tile, edgeID graphid.ID) bool {
	return true
}
func (flatCosting) AllowedNode(node graph.NodeInfo) bool     { return true }
func (flatCosting) EdgeCost(edge graph.DirectedEdge) float64 { return edge.Length() }
func (flatCosting) TravelMode() graph.TravelMode             { return graph.TravelModeDrive }

// buildLine builds a 3-node, 2-edge line: node0 --100--> node1 --50--> node2.
func buildLine(t *testing.T) (*graph.MemReader, graphid.ID, graphid.ID) {
	t.Helper()
	tileID := graphid.TileID{Tile: 1, Level: 0}
	tiles := map[graphid.TileID]graph.RawTile{
		tileID: {
			Nodes: []graph.RawNode{
				{LatLng: graph.PointLL{Lat: 0, Lng: 0}, EdgeIndex: 0, EdgeCount: 1},
				{LatLng: graph.PointLL{Lat: 0, Lng: 1}, EdgeIndex: 1, EdgeCount: 1},
				{LatLng: graph.PointLL{Lat: 0, Lng: 2}, EdgeIndex: 2, EdgeCount: 0},
			},
			Edges: []graph.RawEdge{
				{
					EndNode: graphid.New(1, 0, 1), Length: 100, Forward: true,
					Shape: []graph.PointLL{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}},
				},
				{
					EndNode: graphid.New(1, 0, 2), Length: 50, Forward: true,
					Shape: []graph.PointLL{{Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}},
				},
			},
		},
	}
	r, err := graph.NewMemReader(4, tiles)
	if err != nil {
		t.Fatalf("NewMemReader: %v", err)
	}
	edge0 := graphid.New(1, 0, 0)
	edge1 := graphid.New(1, 0, 1)
	return r, edge0, edge1
}

func TestSourceToTargetComputesPairwiseCosts(t *testing.T) {
	reader, edge0, edge1 := buildLine(t)
	m := New(reader, flatCosting{}, [pkg.TurnCostTableSize]float64{}, 1.0, 1_000_000, 2)

	sources := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: edge0, Dist: 0, BeginNode: true}}},
	}
	targets := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: edge1, Dist: 1, EndNode: true}}}, // node2
		{Edges: []graph.CandidateEdge{{ID: edge0, Dist: 1, EndNode: true}}}, // node1
	}

	matrix, err := m.SourceToTarget(context.Background(), sources, targets)
	require.NoError(t, err)
	require.Len(t, matrix, 1)
	require.Len(t, matrix[0], 2)

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"to node2", matrix[0][0], 150.0},
		{"to node1", matrix[0][1], 100.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
}

func TestSourceToTargetUnreachableIsInfWeight(t *testing.T) {
	reader, edge0, _ := buildLine(t)
	m := New(reader, flatCosting{}, [pkg.TurnCostTableSize]float64{}, 1.0, 1_000_000, 2)

	sources := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: edge0, Dist: 0, BeginNode: true}}},
	}
	phantom := graphid.New(1, 0, 99)
	targets := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: phantom, Dist: 1, EndNode: true}}},
	}

	matrix, err := m.SourceToTarget(context.Background(), sources, targets)
	if err != nil {
		t.Fatalf("SourceToTarget: %v", err)
	}
	if got := matrix[0][0]; got != pkg.INF_WEIGHT {
		t.Errorf("matrix[0][0] = %v, want INF_WEIGHT", got)
	}
}

func TestMultipleSourcesAreIndependent(t *testing.T) {
	reader, edge0, edge1 := buildLine(t)
	m := New(reader, flatCosting{}, [pkg.TurnCostTableSize]float64{}, 1.0, 1_000_000, 4)

	sources := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: edge0, Dist: 0, BeginNode: true}}},  // node0
		{Edges: []graph.CandidateEdge{{ID: edge0, Dist: 1, EndNode: true}}},    // node1
	}
	targets := []graph.PathLocation{
		{Edges: []graph.CandidateEdge{{ID: edge1, Dist: 1, EndNode: true}}}, // node2
	}

	matrix, err := m.SourceToTarget(context.Background(), sources, targets)
	if err != nil {
		t.Fatalf("SourceToTarget: %v", err)
	}
	if got, want := matrix[0][0], 150.0; got != want {
		t.Errorf("matrix[0][0] (node0->node2) = %v, want %v", got, want)
	}
	if got, want := matrix[1][0], 50.0; got != want {
		t.Errorf("matrix[1][0] (node1->node2) = %v, want %v", got, want)
	}
}

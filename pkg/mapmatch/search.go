// Package mapmatch implements the single-source, multi-destination
// labeled Dijkstra/A* search the HMM map-matcher uses as its per-transition
// distance oracle: seed an origin and a set of destination candidates,
// expand the frontier until every reachable destination has settled or
// the frontier is exhausted, and report each destination's best cost.
package mapmatch

import (
	"fmt"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/heuristic"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/labelset"
)

// Result is one destination's outcome once it settles.
type Result struct {
	Dest       int
	Cost       float64
	TurnCost   float64
	EdgeID     graphid.ID
	Source     float32
	Target     float32
	LabelIndex int32
}

// Search is one origin's labeled search against a fixed set of
// destination candidates. It owns a LabelSet and is not reused across
// origins; build a new Search per call to FindShortestPath.
type Search struct {
	reader  graph.GraphReader
	costing graph.Costing
	heur    *heuristic.Disc
	turn    [181]float64

	labels *labelset.LabelSet

	destinations []graph.PathLocation
	remaining    map[int]bool
	results      map[int]Result

	// originIdx is the index into destinations holding the origin's own
	// candidate edges, set by SetOrigin. It is never added to remaining
	// (the caller never asked about the origin itself). It is registered
	// in the same node/edge destination tables as a real destination, but
	// settle and relaxEdgeDestinations skip any index not in remaining,
	// so a later path reaching the origin's location never re-expands it:
	// only the origin's own mid-edge seed label, when popped, leads to
	// expandOrigin. -1 until SetOrigin runs.
	originIdx int32

	tileID graphid.TileID
	tile   graph.Tile
}

// New builds a Search. turnCostTable is indexed by absolute turn degree,
// [0,180]; heur may be nil to disable the A* lower bound and fall back
// to plain Dijkstra.
func New(reader graph.GraphReader, costing graph.Costing, turnCostTable [181]float64, heur *heuristic.Disc, bucketWidth, maxCost float64) *Search {
	return &Search{
		reader:    reader,
		costing:   costing,
		heur:      heur,
		turn:      turnCostTable,
		labels:    labelset.New(bucketWidth, maxCost),
		originIdx: -1,
	}
}

// edge fetches a directed edge, refreshing the cached tile only when id
// crosses into a different tile than the last lookup.
func (s *Search) edge(id graphid.ID) (graph.DirectedEdge, graph.Tile, error) {
	tile, err := s.tileFor(id)
	if err != nil {
		return nil, nil, err
	}
	e, ok := tile.DirectedEdge(id.Index())
	if !ok {
		return nil, nil, fmt.Errorf("mapmatch: no directed edge at %s", id)
	}
	return e, tile, nil
}

func (s *Search) node(id graphid.ID) (graph.NodeInfo, graph.Tile, error) {
	tile, err := s.tileFor(id)
	if err != nil {
		return nil, nil, err
	}
	n, ok := tile.NodeInfo(id.Index())
	if !ok {
		return nil, nil, fmt.Errorf("mapmatch: no node info at %s", id)
	}
	return n, tile, nil
}

func (s *Search) tileFor(id graphid.ID) (graph.Tile, error) {
	want := graphid.TileOf(id)
	if s.tile != nil && s.tileID == want {
		return s.tile, nil
	}
	t, err := s.reader.GetTile(want)
	if err != nil {
		return nil, fmt.Errorf("mapmatch: fetching tile %+v: %w", want, err)
	}
	s.tileID, s.tile = want, t
	return t, nil
}

func errEdgeNotFound(id graphid.ID) error {
	return fmt.Errorf("mapmatch: no edge endpoints at %s", id)
}

// Remaining reports how many destinations have not yet settled.
func (s *Search) Remaining() int {
	return len(s.remaining)
}

func (s *Search) turnCost(degree int) float64 {
	if degree < 0 {
		degree = 0
	}
	if degree >= len(s.turn) {
		degree = len(s.turn) - 1
	}
	return s.turn[degree]
}

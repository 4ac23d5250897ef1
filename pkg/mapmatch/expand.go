package mapmatch

import (
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/heuristic"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/labelset"
)

// FindShortestPath expands the frontier seeded by SetOrigin until every
// destination registered by SetDestinations has settled, or the
// frontier is exhausted first. An exhausted frontier is not an error:
// the returned map simply holds fewer than len(destinations) entries,
// one per destination that was actually reachable within the search's
// cost ceiling.
func (s *Search) FindShortestPath() (map[int]Result, error) {
	for {
		done, err := s.Step()
		if err != nil {
			return s.results, err
		}
		if done {
			return s.results, nil
		}
	}
}

// Results returns the destinations settled so far, keyed by index into
// the slice passed to SetDestinations. Callers driving the search
// themselves via Step (costmatrix's cooperative scheduler) read this
// instead of FindShortestPath's return value.
func (s *Search) Results() map[int]Result {
	return s.results
}

// Done reports whether every destination has settled. It does not report
// an exhausted frontier; Step's done result covers that case.
func (s *Search) Done() bool {
	return len(s.remaining) == 0
}

// Step pops and processes a single label: settling a destination if the
// label reached one, otherwise relaxing its node's outgoing edges. It
// reports done once every destination has settled or the frontier is
// exhausted, so a caller driving many searches cooperatively can round
// robin Step across all of them and stop polling a search once it
// reports done.
func (s *Search) Step() (done bool, err error) {
	if s.results == nil {
		s.results = make(map[int]Result, len(s.destinations))
	}
	if len(s.remaining) == 0 {
		return true, nil
	}

	idx, ok, err := s.labels.Pop()
	if err != nil {
		return true, err
	}
	if !ok {
		return true, nil
	}
	lbl, err := s.labels.Get(idx)
	if err != nil {
		return true, err
	}

	if lbl.IsDest() {
		if lbl.Dest == s.originIdx {
			s.labels.EraseDest(lbl.Dest)
			if err := s.expandOrigin(idx, lbl); err != nil {
				return true, err
			}
			return len(s.remaining) == 0, nil
		}
		s.settle(int(lbl.Dest), lbl, idx)
		return len(s.remaining) == 0, nil
	}

	for _, d := range s.labels.NodeDests(lbl.NodeID) {
		s.settle(int(d), lbl, idx)
	}
	if len(s.remaining) == 0 {
		return true, nil
	}

	if err := s.expandNode(idx, lbl); err != nil {
		return true, err
	}
	return len(s.remaining) == 0, nil
}

func (s *Search) settle(dest int, lbl labelset.Label, idx int32) {
	if !s.remaining[dest] {
		return
	}
	s.results[dest] = Result{
		Dest:       dest,
		Cost:       lbl.Cost,
		TurnCost:   lbl.TurnCost,
		EdgeID:     lbl.EdgeID,
		Source:     lbl.Source,
		Target:     lbl.Target,
		LabelIndex: idx,
	}
	delete(s.remaining, dest)
	s.labels.EraseDest(int32(dest))
}

// lastNonTransitionPredecessor walks lbl's predecessor chain past any
// transition edges to find the costing-relevant predecessor: a
// transition edge fabricates its own edgelabel/heading purely to carry
// the search across a hierarchy level, and using it directly for
// turn-cost or IsEdgeAllowed decisions on the next hop would judge the
// turn against graph scaffolding instead of the last real road edge
// traveled. Returns (nil, nil, nil) when lbl itself has no predecessor
// edge (a seed label).
func (s *Search) lastNonTransitionPredecessor(lbl labelset.Label) (graph.DirectedEdge, graph.EdgeLabel, error) {
	cur := lbl
	for cur.EdgeID.IsValid() {
		edge, _, err := s.edge(cur.EdgeID)
		if err != nil {
			return nil, nil, nil
		}
		if !edge.IsTransition() {
			return edge, cur.EdgeLabel, nil
		}
		if cur.Predecessor == labelset.NoPredecessor {
			return edge, cur.EdgeLabel, nil
		}
		pred, err := s.labels.Get(cur.Predecessor)
		if err != nil {
			return nil, nil, err
		}
		cur = pred
	}
	return nil, nil, nil
}

// expandNode relaxes every outgoing edge of the node lbl reached.
func (s *Search) expandNode(predIdx int32, lbl labelset.Label) error {
	node, tile, err := s.node(lbl.NodeID)
	if err != nil {
		return nil // NodeSkipped: tile/node missing, prune silently
	}
	if !s.costing.AllowedNode(node) {
		return nil
	}

	predEdge, predEdgeLabel, err := s.lastNonTransitionPredecessor(lbl)
	if err != nil {
		return err
	}
	var inboundHeading uint16
	if predEdge != nil {
		inboundHeading = heuristic.InboundHeading(predEdgeLabel, predEdge, node)
	}

	mode := s.costing.TravelMode()
	tileOf := graphid.TileOf(lbl.NodeID)
	for i := uint32(0); i < node.EdgeCount(); i++ {
		edgeIdx := node.EdgeIndex() + i
		edgeID := graphid.New(tileOf.Tile, tileOf.Level, edgeIdx)

		edge, ok := tile.DirectedEdge(edgeIdx)
		if !ok {
			continue // EdgeSkipped
		}
		if edge.IsShortcut() || edge.Use() == graph.UseTransitConnection {
			continue
		}
		if !s.IsEdgeAllowed(edge, edgeID, predEdge, predEdgeLabel, tile) {
			continue
		}

		turnCost := lbl.TurnCost
		if predEdge != nil && !edge.IsTransition() {
			outboundHeading := heuristic.OutboundHeading(edge, node)
			turnCost += s.turnCost(heuristic.TurnDegree(inboundHeading, outboundHeading))
		}

		edgeCost := s.costing.EdgeCost(edge)
		lblData := newEdgeLabel(edgeID, edge)

		if err := s.relaxEdgeDestinations(predIdx, edgeID, edge, lbl.Cost, turnCost, lblData); err != nil {
			return err
		}

		newCost := lbl.Cost + edgeCost
		sortCost := newCost + s.heuristicCost(edge.EndNode())
		if _, err := s.labels.PutNode(
			edge.EndNode(), edgeID, 0, 1,
			newCost, turnCost, sortCost,
			predIdx, mode, lblData,
		); err != nil {
			return err
		}
	}
	return nil
}

// relaxEdgeDestinations puts a dest-kind label for every destination
// registered partway along edge, costed for just the fraction of the
// edge between its start and the destination's snap position.
// sortcost equals cost exactly: a destination label's rank in the
// queue is its true settled cost, never inflated by turn cost, which
// is carried along as its own field instead.
func (s *Search) relaxEdgeDestinations(predIdx int32, edgeID graphid.ID, edge graph.DirectedEdge, labelCost, turnCost float64, lblData graph.EdgeLabel) error {
	for _, d := range s.labels.EdgeDests(edgeID) {
		dest := int(d)
		if !s.remaining[dest] {
			continue
		}
		ce := s.candidateOn(dest, edgeID)
		if ce == nil {
			continue
		}
		destCost := labelCost + s.costing.EdgeCost(edge)*float64(ce.Dist)
		if _, err := s.labels.PutDest(
			d, edgeID, 0, ce.Dist,
			destCost, turnCost, destCost,
			predIdx, s.costing.TravelMode(), lblData,
		); err != nil {
			return err
		}
	}
	return nil
}

// expandOrigin runs the moment the origin's own dest-kind seed label
// settles (only possible when the origin was mid-edge, never at a
// node): it re-expands each of the origin's candidate edges that
// IsEdgeAllowed accepts. A u-turn back onto the edge the search just
// arrived by costs an extra turnCost(0), and edge-mid destinations at or
// ahead of the origin, and the edge's end, are costed from the origin's
// own snap position rather than the edge's start. Unlike expandNode it
// does not skip shortcut or transit-connection edges and adds no
// heading-based turn cost. A begin/end-node origin candidate
// never produces a dest-kind label in the first place, so this never
// runs for it: ordinary node expansion already fans out over its
// edges.
func (s *Search) expandOrigin(predIdx int32, lbl labelset.Label) error {
	predEdge, predEdgeLabel, err := s.lastNonTransitionPredecessor(lbl)
	if err != nil {
		return err
	}

	mode := s.costing.TravelMode()
	origin := s.destinations[s.originIdx]
	for _, oe := range origin.Edges {
		edge, tile, err := s.edge(oe.ID)
		if err != nil {
			continue
		}
		if !s.IsEdgeAllowed(edge, oe.ID, predEdge, predEdgeLabel, tile) {
			continue
		}

		turnCost := lbl.TurnCost
		if predEdgeLabel != nil && predEdgeLabel.EdgeID() != oe.ID && predEdgeLabel.OppLocalIdx() == edge.LocalEdgeIndex() {
			turnCost += s.turnCost(0)
		}

		lblData := newEdgeLabel(oe.ID, edge)
		edgeCost := s.costing.EdgeCost(edge)

		for _, d := range s.labels.EdgeDests(oe.ID) {
			dest := int(d)
			if !s.remaining[dest] {
				continue
			}
			ce := s.candidateOn(dest, oe.ID)
			if ce == nil || ce.Dist < oe.Dist {
				continue
			}
			cost := lbl.Cost + edgeCost*float64(ce.Dist-oe.Dist)
			if _, err := s.labels.PutDest(
				d, oe.ID, oe.Dist, ce.Dist,
				cost, turnCost, cost,
				predIdx, mode, lblData,
			); err != nil {
				return err
			}
		}

		remaining := 1 - float64(oe.Dist)
		if remaining < 0 {
			remaining = 0
		}
		cost := lbl.Cost + edgeCost*remaining
		sortCost := cost + s.heuristicCost(edge.EndNode())
		if _, err := s.labels.PutNode(
			edge.EndNode(), oe.ID, oe.Dist, 1,
			cost, turnCost, sortCost,
			predIdx, mode, lblData,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Search) candidateOn(dest int, edgeID graphid.ID) *graph.CandidateEdge {
	if dest < 0 || dest >= len(s.destinations) {
		return nil
	}
	edges := s.destinations[dest].Edges
	for i := range edges {
		if edges[i].ID == edgeID {
			return &edges[i]
		}
	}
	return nil
}

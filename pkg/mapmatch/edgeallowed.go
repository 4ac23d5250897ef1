package mapmatch

import (
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
)

// edgeLabel is the concrete graph.EdgeLabel this search attaches to every
// label it puts, carrying just enough of the edge's identity for the
// costing model and u-turn detection to consult later without needing
// a fresh tile lookup.
type edgeLabel struct {
	edgeID      graphid.ID
	oppLocalIdx uint8
	use         graph.Use
}

func (e edgeLabel) EdgeID() graphid.ID  { return e.edgeID }
func (e edgeLabel) OppLocalIdx() uint8  { return e.oppLocalIdx }
func (e edgeLabel) Use() graph.Use      { return e.use }

func newEdgeLabel(edgeID graphid.ID, edge graph.DirectedEdge) edgeLabel {
	return edgeLabel{edgeID: edgeID, oppLocalIdx: edge.OppLocalIdx(), use: edge.Use()}
}

// IsEdgeAllowed decides whether the search may relax edge, arriving at
// it from predLabel (nil at the origin, where everything is allowed:
// costing has nothing to compare against yet). It forbids two
// hierarchy-transition edges back to back, then allows unconditionally
// if edge is the same edge predLabel already cleared or is itself
// transition scaffolding (costing has no opinion on those), and
// otherwise defers to the costing model. Shortcut and transit-connection
// filtering happens one level up, in the edge loop, before this is
// even called.
func (s *Search) IsEdgeAllowed(edge graph.DirectedEdge, edgeID graphid.ID, predEdge graph.DirectedEdge, predLabel graph.EdgeLabel, tile graph.Tile) bool {
	if predLabel == nil {
		return true
	}
	if edge.IsTransition() && (predLabel.Use() == graph.UseTransitionUp || predLabel.Use() == graph.UseTransitionDown) {
		return false
	}
	if edgeID == predLabel.EdgeID() {
		return true
	}
	if edge.IsTransition() {
		return true
	}
	return s.costing.Allowed(edge, predLabel, tile, edgeID)
}

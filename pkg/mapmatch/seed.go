package mapmatch

import (
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/labelset"
)

// SetOrigin seeds the search from a candidate location. Call it after
// SetDestinations: the origin is registered into the very same
// node/edge destination tables a real destination uses, under a
// reserved index past the end of the destinations slice. That index is
// never in remaining, so the registration itself settles nothing; a
// destination sitting further along a mid-edge origin's own candidate
// edge is found by expandOrigin when the origin's seed label settles.
//
// Each candidate edge seeds a zero-cost label and nothing else: a
// begin/end-node candidate pushes a node-kind seed at that node, so
// normal node expansion fans out over every edge there exactly as it
// would for any other settled node; a mid-edge candidate pushes a
// dest-kind seed keyed at the origin's own reserved index, which the
// expansion loop recognizes and re-expands along the origin's
// candidate edges (u-turn cost, co-located destinations ahead on the
// same edge, and continuing past the edge's end) the first time it
// settles. Begin/end-node candidates whose node the costing model
// rejects, or whose edge or node cannot be looked up, are silently
// skipped (EdgeSkipped); candidate edges are not filtered by Use here:
// an origin with no usable candidate edges yields an empty, not
// erroring, search.
func (s *Search) SetOrigin(origin graph.PathLocation) error {
	s.originIdx = int32(len(s.destinations))
	s.destinations = append(s.destinations, origin)
	s.registerDestination(int(s.originIdx), origin)

	mode := s.costing.TravelMode()
	for _, ce := range origin.Edges {
		switch {
		case ce.BeginNode:
			begin, err := s.beginNode(ce.ID)
			if err != nil {
				continue
			}
			node, _, err := s.node(begin)
			if err != nil || !s.costing.AllowedNode(node) {
				continue
			}
			if _, err := s.labels.PutNode(
				begin, graphid.Invalid, 0, 0,
				0, 0, 0,
				labelset.NoPredecessor, mode, nil,
			); err != nil {
				return err
			}
		case ce.EndNode:
			edge, _, err := s.edge(ce.ID)
			if err != nil {
				continue
			}
			node, _, err := s.node(edge.EndNode())
			if err != nil || !s.costing.AllowedNode(node) {
				continue
			}
			if _, err := s.labels.PutNode(
				edge.EndNode(), graphid.Invalid, 0, 0,
				0, 0, 0,
				labelset.NoPredecessor, mode, nil,
			); err != nil {
				return err
			}
		default:
			if _, err := s.labels.PutDest(
				s.originIdx, graphid.Invalid, 0, 0,
				0, 0, 0,
				labelset.NoPredecessor, mode, nil,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetDestinations registers every candidate edge of every destination
// location in the appropriate destination table, so the expansion loop
// recognizes an arrival at a destination without scanning the
// destination list on every label.
func (s *Search) SetDestinations(destinations []graph.PathLocation) error {
	s.destinations = destinations
	s.remaining = make(map[int]bool, len(destinations))
	s.originIdx = -1
	for i, dest := range destinations {
		s.remaining[i] = true
		s.registerDestination(i, dest)
	}
	return nil
}

// registerDestination records dest's candidate edges in the node/edge
// destination tables under idx, the same bookkeeping SetDestinations
// uses for every caller-supplied destination and SetOrigin reuses for
// the origin's own reserved index.
func (s *Search) registerDestination(idx int, dest graph.PathLocation) {
	for _, ce := range dest.Edges {
		switch {
		case ce.EndNode:
			edge, _, err := s.edge(ce.ID)
			if err != nil {
				continue
			}
			s.labels.AddNodeDest(edge.EndNode(), int32(idx))
		case ce.BeginNode:
			begin, err := s.beginNode(ce.ID)
			if err != nil {
				continue
			}
			s.labels.AddNodeDest(begin, int32(idx))
		default:
			s.labels.AddEdgeDest(ce.ID, int32(idx))
		}
	}
}

func (s *Search) beginNode(id graphid.ID) (graphid.ID, error) {
	tile, err := s.tileFor(id)
	if err != nil {
		return graphid.Invalid, err
	}
	begin, _, ok := tile.EdgeEndpoints(id.Index())
	if !ok {
		return graphid.Invalid, errEdgeNotFound(id)
	}
	return begin, nil
}

func (s *Search) heuristicCost(nodeID graphid.ID) float64 {
	if s.heur == nil {
		return 0
	}
	node, _, err := s.node(nodeID)
	if err != nil {
		return 0
	}
	return s.heur.Cost(node.LatLng())
}

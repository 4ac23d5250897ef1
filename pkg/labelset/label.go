package labelset

import (
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
)

// NoPredecessor marks a label with no predecessor (the search origin).
const NoPredecessor int32 = -1

// noDest marks a label as a node-kind label rather than a
// destination-kind one.
const noDest int32 = -1

// Label is a tagged union: exactly one of NodeID (valid) or Dest (>= 0)
// identifies what this label reached — a real graph node, or a
// destination's snapped point partway along an edge. Never both.
type Label struct {
	NodeID graphid.ID
	Dest   int32

	EdgeID graphid.ID
	Source float32 // fractional position along EdgeID where this path enters it
	Target float32 // fractional position along EdgeID where this path leaves it

	Cost     float64 // accumulated path cost, excluding all turn cost
	TurnCost float64 // turn cost accumulated along the path to this label
	SortCost float64 // Cost + heuristic (Cost alone for a destination); what the queue orders by

	Predecessor int32 // index into the owning LabelSet's storage, or NoPredecessor

	TravelMode graph.TravelMode
	EdgeLabel  graph.EdgeLabel
}

// IsNode reports whether this label reached a graph node.
func (l Label) IsNode() bool { return l.Dest == noDest }

// IsDest reports whether this label reached a destination.
func (l Label) IsDest() bool { return l.Dest != noDest }

func nodeLabel(nodeID graphid.ID) Label {
	return Label{NodeID: nodeID, Dest: noDest}
}

func destLabel(dest int32) Label {
	return Label{NodeID: graphid.Invalid, Dest: dest}
}

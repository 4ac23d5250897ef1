package labelset

import (
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/bucketqueue"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
)

type statusEntry struct {
	index     int32
	permanent bool
}

// LabelSet is the single source of truth for one search's labels: the
// label storage itself, the status of every node/destination key that
// has ever been reached, and the bucket queue ordering not-yet-permanent
// labels by sortcost. No other part of a search keeps its own copy of a
// label's cost.
//
// Invariants this type enforces:
//
//	L1: for every queued or permanent label, SortCost >= Cost >= 0. A
//	    destination label additionally holds SortCost == Cost exactly;
//	    TurnCost accumulates separately and never folds into either.
//	L2: a status key maps to exactly one queued label index, unless that
//	    key is permanent, in which case it maps to no queued label.
//	L3: a permanent key is never popped again; attempting to do so means
//	    the search offered a strictly lower cost after settling the key,
//	    which only a negative-cost edge can cause.
type LabelSet struct {
	labels []Label

	nodeStatus map[graphid.ID]*statusEntry
	destStatus map[int32]*statusEntry

	nodeDests map[graphid.ID][]int32
	edgeDests map[graphid.ID][]int32

	queue *bucketqueue.Queue[int32]

	maxCost float64
}

// New builds an empty LabelSet. bucketWidth and maxCost size the
// underlying bucket queue; maxCost should match the search's cost
// ceiling (beyond which paths are abandoned as unreachable): a put whose
// sortcost is at or above maxCost stores nothing and returns index -1
// with no error.
func New(bucketWidth, maxCost float64) *LabelSet {
	ls := &LabelSet{
		maxCost:    maxCost,
		nodeStatus: make(map[graphid.ID]*statusEntry),
		destStatus: make(map[int32]*statusEntry),
		nodeDests:  make(map[graphid.ID][]int32),
		edgeDests:  make(map[graphid.ID][]int32),
	}
	ls.queue = bucketqueue.New(bucketWidth, maxCost, func(idx int32) float64 {
		return ls.labels[idx].SortCost
	})
	return ls
}

// Get returns a copy of the label at index idx. Copying, rather than
// returning a pointer into the backing slice, is deliberate: that slice
// can be reallocated by a later Put, so no reference into it may
// outlive the call that produced it.
func (ls *LabelSet) Get(idx int32) (Label, error) {
	if idx < 0 || int(idx) >= len(ls.labels) {
		return Label{}, newError(InvalidKey, "label index %d out of range [0,%d)", idx, len(ls.labels))
	}
	return ls.labels[idx], nil
}

// NodeStatus reports the label index and permanence of nodeID, if it
// has ever been put.
func (ls *LabelSet) NodeStatus(nodeID graphid.ID) (index int32, permanent bool, ok bool) {
	e, ok := ls.nodeStatus[nodeID]
	if !ok {
		return 0, false, false
	}
	return e.index, e.permanent, true
}

// DestStatus reports the label index and permanence of dest, if it has
// been put and not since dropped by EraseDest.
func (ls *LabelSet) DestStatus(dest int32) (index int32, permanent bool, ok bool) {
	e, ok := ls.destStatus[dest]
	if !ok {
		return 0, false, false
	}
	return e.index, e.permanent, true
}

// PutNode inserts or decrease-keys the label reached at nodeID.
func (ls *LabelSet) PutNode(
	nodeID, edgeID graphid.ID,
	source, target float32,
	cost, turnCost, sortCost float64,
	predecessor int32,
	travelMode graph.TravelMode,
	edgeLabel graph.EdgeLabel,
) (int32, error) {
	return put(ls, ls.nodeStatus, nodeID, func() Label { return nodeLabel(nodeID) },
		edgeID, source, target, cost, turnCost, sortCost, predecessor, travelMode, edgeLabel)
}

// PutDest inserts or decrease-keys the label reached at destination
// index dest, partway along edgeID.
func (ls *LabelSet) PutDest(
	dest int32, edgeID graphid.ID,
	source, target float32,
	cost, turnCost, sortCost float64,
	predecessor int32,
	travelMode graph.TravelMode,
	edgeLabel graph.EdgeLabel,
) (int32, error) {
	return put(ls, ls.destStatus, dest, func() Label { return destLabel(dest) },
		edgeID, source, target, cost, turnCost, sortCost, predecessor, travelMode, edgeLabel)
}

func put[K comparable](ls *LabelSet, statusMap map[K]*statusEntry, key K, makeLabel func() Label,
	edgeID graphid.ID, source, target float32, cost, turnCost, sortCost float64,
	predecessor int32, travelMode graph.TravelMode, edgeLabel graph.EdgeLabel) (int32, error) {

	if sortCost < cost {
		return -1, newError(InvalidKey, "sortcost %.6f below cost %.6f", sortCost, cost)
	}
	if sortCost >= ls.maxCost {
		return -1, nil
	}

	if entry, ok := statusMap[key]; ok {
		current := ls.labels[entry.index]
		if entry.permanent {
			if sortCost < current.SortCost {
				return -1, newError(NotOptimal,
					"offered sortcost %.6f for an already-permanent key (settled at %.6f)",
					sortCost, current.SortCost)
			}
			return entry.index, nil
		}
		if sortCost >= current.SortCost {
			return entry.index, nil
		}
		lbl := &ls.labels[entry.index]
		lbl.EdgeID = edgeID
		lbl.Source = source
		lbl.Target = target
		lbl.Cost = cost
		lbl.TurnCost = turnCost
		lbl.SortCost = sortCost
		lbl.Predecessor = predecessor
		lbl.TravelMode = travelMode
		lbl.EdgeLabel = edgeLabel
		ls.queue.Decrease(entry.index)
		return entry.index, nil
	}

	lbl := makeLabel()
	lbl.EdgeID = edgeID
	lbl.Source = source
	lbl.Target = target
	lbl.Cost = cost
	lbl.TurnCost = turnCost
	lbl.SortCost = sortCost
	lbl.Predecessor = predecessor
	lbl.TravelMode = travelMode
	lbl.EdgeLabel = edgeLabel

	idx := int32(len(ls.labels))
	ls.labels = append(ls.labels, lbl)
	statusMap[key] = &statusEntry{index: idx}
	ls.queue.Add(idx)
	return idx, nil
}

// Pop removes the lowest-sortcost not-yet-permanent label, marks its key
// permanent, and returns its index. ok is false once every label has
// been popped.
func (ls *LabelSet) Pop() (idx int32, ok bool, err error) {
	idx, ok = ls.queue.Pop()
	if !ok {
		return -1, false, nil
	}
	lbl := ls.labels[idx]

	var entry *statusEntry
	if lbl.IsNode() {
		entry = ls.nodeStatus[lbl.NodeID]
	} else {
		entry = ls.destStatus[lbl.Dest]
	}
	if entry == nil {
		return -1, false, newError(StatusDesync, "popped label %d has no status entry", idx)
	}
	if entry.permanent {
		return -1, false, newError(NotOptimal,
			"re-popped already-permanent label %d; a negative-cost edge is the only way this happens", idx)
	}
	entry.permanent = true
	return idx, true, nil
}

// AddNodeDest records that destination dest can be reached at nodeID,
// so the expansion loop can recognize node-kind arrivals at a
// destination without a linear scan of all destinations.
func (ls *LabelSet) AddNodeDest(nodeID graphid.ID, dest int32) {
	ls.nodeDests[nodeID] = append(ls.nodeDests[nodeID], dest)
}

// AddEdgeDest records that destination dest sits partway along edgeID.
func (ls *LabelSet) AddEdgeDest(edgeID graphid.ID, dest int32) {
	ls.edgeDests[edgeID] = append(ls.edgeDests[edgeID], dest)
}

// NodeDests returns the destinations registered at nodeID.
func (ls *LabelSet) NodeDests(nodeID graphid.ID) []int32 {
	return ls.nodeDests[nodeID]
}

// EdgeDests returns the destinations registered partway along edgeID.
func (ls *LabelSet) EdgeDests(edgeID graphid.ID) []int32 {
	return ls.edgeDests[edgeID]
}

// EraseDest drops dest from the destination status table and both
// destination tables, once it has settled and no further relaxation
// against it is useful. This scans both tables; a reference
// implementation favors the simpler code over an index-backed removal,
// since a search's destination count is small relative to its node
// count.
func (ls *LabelSet) EraseDest(dest int32) {
	delete(ls.destStatus, dest)
	for k, dests := range ls.nodeDests {
		if filtered, changed := removeInt32(dests, dest); changed {
			if len(filtered) == 0 {
				delete(ls.nodeDests, k)
			} else {
				ls.nodeDests[k] = filtered
			}
		}
	}
	for k, dests := range ls.edgeDests {
		if filtered, changed := removeInt32(dests, dest); changed {
			if len(filtered) == 0 {
				delete(ls.edgeDests, k)
			} else {
				ls.edgeDests[k] = filtered
			}
		}
	}
}

func removeInt32(s []int32, v int32) ([]int32, bool) {
	for i, x := range s {
		if x == v {
			out := append(s[:i:i], s[i+1:]...)
			return out, true
		}
	}
	return s, false
}

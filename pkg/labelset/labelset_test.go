package labelset

import (
	"errors"
	"testing"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
)

func node(i uint32) graphid.ID { return graphid.New(0, 0, i) }

func TestPutNodeInsertsAndDecreasesKey(t *testing.T) {
	ls := New(1.0, 1000)

	idx1, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 10, 0, 10, NoPredecessor, graph.TravelModeDrive, nil)
	if err != nil {
		t.Fatalf("PutNode: %v", err)
	}
	idx2, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 5, 0, 5, NoPredecessor, graph.TravelModeDrive, nil)
	if err != nil {
		t.Fatalf("PutNode decrease: %v", err)
	}
	if idx1 != idx2 {
		t.Fatalf("decrease-key changed index: %d -> %d", idx1, idx2)
	}
	lbl, err := ls.Get(idx2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if lbl.SortCost != 5 {
		t.Errorf("SortCost = %v, want 5", lbl.SortCost)
	}

	// Offering a higher cost must not clobber the lower one.
	if _, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 8, 0, 8, NoPredecessor, graph.TravelModeDrive, nil); err != nil {
		t.Fatalf("PutNode worse cost: %v", err)
	}
	lbl, _ = ls.Get(idx2)
	if lbl.SortCost != 5 {
		t.Errorf("SortCost after worse offer = %v, want 5 (unchanged)", lbl.SortCost)
	}
}

func TestPopMarksPermanentAndOrdersBySortCost(t *testing.T) {
	ls := New(1.0, 1000)
	_, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 10, 0, 10, NoPredecessor, graph.TravelModeDrive, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ls.PutNode(node(2), graphid.Invalid, 0, 1, 3, 0, 3, NoPredecessor, graph.TravelModeDrive, nil)
	if err != nil {
		t.Fatal(err)
	}

	idx, ok, err := ls.Pop()
	if err != nil || !ok {
		t.Fatalf("Pop() = (%d,%v,%v)", idx, ok, err)
	}
	first, _ := ls.Get(idx)
	if first.NodeID != node(2) {
		t.Errorf("first pop = node %v, want node 2 (lowest cost)", first.NodeID)
	}

	_, permanent, ok := ls.NodeStatus(node(2))
	if !ok || !permanent {
		t.Errorf("NodeStatus(node 2) = (permanent=%v,ok=%v), want (true,true)", permanent, ok)
	}
}

func TestPutAfterPermanentWithLowerCostIsNotOptimal(t *testing.T) {
	ls := New(1.0, 1000)
	if _, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 10, 0, 10, NoPredecessor, graph.TravelModeDrive, nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ls.Pop(); err != nil {
		t.Fatal(err)
	}

	_, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 1, 0, 1, NoPredecessor, graph.TravelModeDrive, nil)
	if err == nil {
		t.Fatal("expected a ProgrammingError, got nil")
	}
	var progErr *ProgrammingError
	if !errors.As(err, &progErr) || progErr.Kind != NotOptimal {
		t.Errorf("err = %v, want ProgrammingError{Kind: NotOptimal}", err)
	}
}

func TestPutAfterPermanentWithHigherCostIsNoOp(t *testing.T) {
	ls := New(1.0, 1000)
	if _, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 1, 0, 1, NoPredecessor, graph.TravelModeDrive, nil); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ls.Pop(); err != nil {
		t.Fatal(err)
	}

	if _, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 10, 0, 10, NoPredecessor, graph.TravelModeDrive, nil); err != nil {
		t.Fatalf("redundant relax should be a no-op, got error: %v", err)
	}
}

func TestPopEmptyReturnsFalseWithoutError(t *testing.T) {
	ls := New(1.0, 1000)
	idx, ok, err := ls.Pop()
	if err != nil {
		t.Fatalf("Pop on empty set: %v", err)
	}
	if ok || idx != -1 {
		t.Errorf("Pop() = (%d,%v), want (-1,false)", idx, ok)
	}
}

func TestDestinationTablesTrackAndErase(t *testing.T) {
	ls := New(1.0, 1000)
	edgeID := graphid.New(0, 0, 7)
	ls.AddEdgeDest(edgeID, 3)
	ls.AddEdgeDest(edgeID, 4)

	dests := ls.EdgeDests(edgeID)
	if len(dests) != 2 {
		t.Fatalf("EdgeDests = %v, want 2 entries", dests)
	}

	ls.EraseDest(3)
	dests = ls.EdgeDests(edgeID)
	if len(dests) != 1 || dests[0] != 4 {
		t.Errorf("EdgeDests after erase = %v, want [4]", dests)
	}
}

func TestSortCostBelowCostIsInvalidKey(t *testing.T) {
	ls := New(1.0, 1000)
	_, err := ls.PutNode(node(1), graphid.Invalid, 0, 1, 10, 5, 1, NoPredecessor, graph.TravelModeDrive, nil)
	if err == nil {
		t.Fatal("expected an error for sortcost below cost")
	}
	var progErr *ProgrammingError
	if !errors.As(err, &progErr) || progErr.Kind != InvalidKey {
		t.Errorf("err = %v, want ProgrammingError{Kind: InvalidKey}", err)
	}
}

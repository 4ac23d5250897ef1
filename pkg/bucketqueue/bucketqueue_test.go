package bucketqueue

import "testing"

func TestPopOrdersByBucket(t *testing.T) {
	costs := map[string]float64{
		"a": 5,
		"b": 1,
		"c": 3,
		"d": 1.5,
	}
	q := New(1.0, 100, func(k string) float64 { return costs[k] })
	for k := range costs {
		q.Add(k)
	}
	if q.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", q.Len())
	}

	var order []string
	for {
		k, ok := q.Pop()
		if !ok {
			break
		}
		order = append(order, k)
	}
	if len(order) != 4 {
		t.Fatalf("popped %d keys, want 4", len(order))
	}
	// "b" and "d" share bucket 1 (width 1.0), so only their relative
	// order to "c" and "a" is guaranteed.
	pos := make(map[string]int, len(order))
	for i, k := range order {
		pos[k] = i
	}
	if pos["c"] < pos["b"] || pos["c"] < pos["d"] {
		t.Errorf("order = %v, want bucket 1 keys before bucket 3", order)
	}
	if pos["a"] < pos["c"] {
		t.Errorf("order = %v, want bucket 3 before bucket 5", order)
	}
}

func TestDecreaseMovesKeyEarlier(t *testing.T) {
	costs := map[string]float64{"a": 10, "b": 2}
	q := New(1.0, 100, func(k string) float64 { return costs[k] })
	q.Add("a")
	q.Add("b")

	costs["a"] = 0
	q.Decrease("a")

	k, ok := q.Pop()
	if !ok || k != "a" {
		t.Fatalf("Pop() = (%v,%v), want (a,true)", k, ok)
	}
}

func TestOverflowBucketHoldsCostsAtCeiling(t *testing.T) {
	costs := map[string]float64{"near": 4, "far": 1000}
	q := New(1.0, 5, func(k string) float64 { return costs[k] })
	q.Add("near")
	q.Add("far")

	k, ok := q.Pop()
	if !ok || k != "near" {
		t.Fatalf("first Pop() = (%v,%v), want (near,true)", k, ok)
	}
	k, ok = q.Pop()
	if !ok || k != "far" {
		t.Fatalf("second Pop() = (%v,%v), want (far,true)", k, ok)
	}
}

func TestPopEmptyReturnsFalse(t *testing.T) {
	q := New[string](1.0, 10, func(string) float64 { return 0 })
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop() on empty queue reported true")
	}
}

func TestRemoveThenPopSkipsDeletedKey(t *testing.T) {
	costs := map[string]float64{"a": 1, "b": 1}
	q := New(1.0, 10, func(k string) float64 { return costs[k] })
	q.Add("a")
	q.Add("b")
	q.remove("a")
	if q.Len() != 1 {
		t.Fatalf("Len() after remove = %d, want 1", q.Len())
	}
	k, ok := q.Pop()
	if !ok || k != "b" {
		t.Fatalf("Pop() = (%v,%v), want (b,true)", k, ok)
	}
}

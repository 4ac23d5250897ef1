// Package pkg holds constants shared across the routing core's packages,
// mirroring the teacher layout where a single root package carries the
// values every deeper package needs without importing each other.
package pkg

// TurnType enumerates turn classifications. The turn-cost table itself
// is indexed by absolute turn degree, not by TurnType.
type TurnType uint8

const (
	LEFT_TURN TurnType = iota
	RIGHT_TURN
	STRAIGHT_ON
	U_TURN
	NO_ENTRY
	NONE
)

const (
	// INF_WEIGHT is the sentinel "unreachable" cost. Any sortcost at or
	// above it is outside the search horizon and must not be queued.
	INF_WEIGHT float64 = 1e15

	// TurnCostTableSize is the width of the |turn_degree| -> cost table.
	TurnCostTableSize = 181
)

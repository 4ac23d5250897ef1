// Package graph declares the external collaborator contracts the routing
// core consumes (a tiled GraphReader and a pluggable Costing model) plus
// the candidate-location data model (PathLocation/CandidateEdge) the map
// matching front end hands in. None of this package's interfaces are
// implemented here for production use — see the reference in-memory
// implementation in memgraph.go, used by tests and the demo CLI.
package graph

import "github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"

// Use classifies a directed edge the way the costing model needs to: most
// edges are ordinary road segments, but a few are graph scaffolding
// (hierarchy transitions) or excluded from routing outright (transit
// connections, handled upstream of this core and simply filtered here).
type Use uint8

const (
	UseRoad Use = iota
	UseTransitConnection
	UseTransitionUp
	UseTransitionDown
)

// TravelMode enumerates the costing model's travel mode, carried through
// labels unchanged so path reconstruction downstream can tell which mode
// produced a given edge.
type TravelMode uint8

const (
	TravelModeDrive TravelMode = iota
	TravelModePedestrian
	TravelModeBicycle
	TravelModeTransit
)

// PointLL is a geographic point in degrees, matching the teacher's
// geo.Coordinate shape but named for the external interface's latlng()
// accessor.
type PointLL struct {
	Lat float64
	Lng float64
}

// DirectedEdge is the subset of a tile's directed-edge record the core
// needs to expand the search frontier.
type DirectedEdge interface {
	ID() graphid.ID
	Length() float64
	EndNode() graphid.ID
	LeavesTile() bool
	Forward() bool
	LocalEdgeIndex() uint8
	// OppLocalIdx is the local edge index, at this edge's end node, of
	// the opposing (reverse) edge. Comparing it against a candidate
	// edge's own LocalEdgeIndex at the current node is how a u-turn is
	// detected without needing edge geometry.
	OppLocalIdx() uint8
	IsShortcut() bool
	IsTransition() bool
	Use() Use
	// Shape returns the edge's decoded polyline geometry, begin to end.
	// Used only by the heading helpers when the node has no cached
	// heading for this edge's local index.
	Shape() []PointLL
}

// NodeInfo is the subset of a tile's node record the core needs.
type NodeInfo interface {
	EdgeCount() uint32
	// EdgeIndex is the within-tile index of the node's first outgoing
	// directed edge; outgoing edges occupy EdgeIndex..EdgeIndex+EdgeCount-1.
	EdgeIndex() uint32
	LatLng() PointLL
	// Heading returns the cached heading (degrees, [0,359]) for the
	// local edge index, and whether a cached value exists. Only local
	// indices below 8 are ever cached by a real tile.
	Heading(localIdx uint8) (uint16, bool)
}

// Tile is a cache-friendly handle to one tile's decoded contents. Callers
// hold it in a local variable and only ask the GraphReader for a new one
// when crossing into a different tile; the Tile itself does not own its
// lifetime (the GraphReader does, per the "tile is a cache hint" policy).
type Tile interface {
	ID() graphid.TileID
	DirectedEdge(index uint32) (DirectedEdge, bool)
	NodeInfo(index uint32) (NodeInfo, bool)
	// EdgeEndpoints returns the begin and end node ids of the directed
	// edge at index, without requiring a full DirectedEdge fetch.
	EdgeEndpoints(index uint32) (begin, end graphid.ID, ok bool)
}

// GraphReader is the tiled-graph collaborator this core reads through.
// Implementations are expected to cache decoded tiles themselves (see
// memgraph.go for the reference LRU-backed implementation); the core
// never assumes GetTile is free, and never calls it more than once per
// tile crossing.
type GraphReader interface {
	GetTile(id graphid.TileID) (Tile, error)
}

// EdgeLabel is the opaque costing-side label attached to a routing
// label, consulted by the costing model and by IsEdgeAllowed/u-turn
// detection. It is never mutated once created; many routing labels may
// share the same EdgeLabel value (Go's GC retires the reference-counting
// concern the original's shared_ptr<const EdgeLabel> design managed
// explicitly).
type EdgeLabel interface {
	EdgeID() graphid.ID
	OppLocalIdx() uint8
	Use() Use
}

// Costing is the pluggable cost model. Allowed(node) gates node
// expansion; Allowed(edge, ...) gates individual edge relaxation.
type Costing interface {
	Allowed(edge DirectedEdge, pred EdgeLabel, tile Tile, edgeID graphid.ID) bool
	AllowedNode(node NodeInfo) bool
	// EdgeCost returns the base traversal cost of edge, in the same
	// units as the turn-cost table the caller supplies (mapmatch's
	// search does not interpret units itself).
	EdgeCost(edge DirectedEdge) float64
	TravelMode() TravelMode
}

// CandidateEdge is a single snapped location along (or at an endpoint of)
// a directed edge.
type CandidateEdge struct {
	ID        graphid.ID
	Dist      float32 // fractional position along the edge, [0,1]
	BeginNode bool
	EndNode   bool
}

// PathLocation is a candidate location: the set of directed edges a
// measured point could plausibly have snapped to.
type PathLocation struct {
	Edges []CandidateEdge
}

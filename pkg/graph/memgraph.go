package graph

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	polyline "github.com/twpayne/go-polyline"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graphid"
)

// RawNode is the caller-supplied description of one node, used to build a
// MemReader. It mirrors the teacher's datastructure.Vertex fields
// (lat/lon, first-out-edge bookkeeping) flattened to the plain tiled
// model this core targets.
type RawNode struct {
	LatLng    PointLL
	EdgeIndex uint32
	EdgeCount uint32
	// Headings caches outbound heading in degrees for local edge indices
	// below 8, matching the real tile's cached-heading behavior.
	Headings map[uint8]uint16
}

// RawEdge is the caller-supplied description of one directed edge.
type RawEdge struct {
	EndNode        graphid.ID
	Length         float64
	LeavesTile     bool
	Forward        bool
	LocalEdgeIndex uint8
	OppLocalIdx    uint8
	IsShortcut     bool
	IsTransition   bool
	Use            Use
	Shape          []PointLL
}

// RawTile is a tile's full contents prior to encoding. Edge indices are
// positions into Edges; NodeInfo.EdgeIndex/EdgeCount select a contiguous
// run belonging to one node, matching the real tiled-graph layout.
type RawTile struct {
	Nodes []RawNode
	Edges []RawEdge
}

// encodedTile stores edge shapes polyline-encoded, the way a real tile
// packs geometry on disk, and is what a MemReader keeps as its ground
// truth. Decoding happens lazily in GetTile and the result is cached.
type encodedTile struct {
	nodes       []RawNode
	edgeFixed   []RawEdge // all fields except Shape
	shapeBytes  [][]byte
}

// MemReader is a reference, in-memory GraphReader. It keeps every tile's
// ground truth polyline-encoded and decodes tiles into a Tile on demand,
// caching the decoded result behind an LRU (bounded the same way the
// teacher bounds its page-usage cache in pkg/engine/engine.go), so a
// tile decoded once stays cheap to reread until evicted.
type MemReader struct {
	encoded map[graphid.TileID]*encodedTile
	cache   *lru.Cache[graphid.TileID, *memTile]
}

// NewMemReader builds a MemReader from a set of raw tiles, encoding each
// tile's edge shapes to polyline up front. cacheSize bounds how many
// decoded tiles are held at once.
func NewMemReader(cacheSize int, tiles map[graphid.TileID]RawTile) (*MemReader, error) {
	cache, err := lru.New[graphid.TileID, *memTile](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("graph: building tile cache: %w", err)
	}
	r := &MemReader{
		encoded: make(map[graphid.TileID]*encodedTile, len(tiles)),
		cache:   cache,
	}
	for id, raw := range tiles {
		enc := &encodedTile{
			nodes:      raw.Nodes,
			edgeFixed:  make([]RawEdge, len(raw.Edges)),
			shapeBytes: make([][]byte, len(raw.Edges)),
		}
		for i, e := range raw.Edges {
			fixed := e
			fixed.Shape = nil
			enc.edgeFixed[i] = fixed
			enc.shapeBytes[i] = encodeShape(e.Shape)
		}
		r.encoded[id] = enc
	}
	return r, nil
}

func encodeShape(points []PointLL) []byte {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return polyline.EncodeCoords(coords)
}

func decodeShape(data []byte) ([]PointLL, error) {
	coords, _, err := polyline.DecodeCoords(data)
	if err != nil {
		return nil, err
	}
	points := make([]PointLL, len(coords))
	for i, c := range coords {
		points[i] = PointLL{Lat: c[0], Lng: c[1]}
	}
	return points, nil
}

// GetTile implements GraphReader.
func (r *MemReader) GetTile(id graphid.TileID) (Tile, error) {
	if t, ok := r.cache.Get(id); ok {
		return t, nil
	}
	enc, ok := r.encoded[id]
	if !ok {
		return nil, fmt.Errorf("graph: no such tile %+v", id)
	}
	edges := make([]memEdge, len(enc.edgeFixed))
	for i, fixed := range enc.edgeFixed {
		shape, err := decodeShape(enc.shapeBytes[i])
		if err != nil {
			return nil, fmt.Errorf("graph: decoding tile %+v edge %d shape: %w", id, i, err)
		}
		edges[i] = memEdge{
			id:    graphid.New(id.Tile, id.Level, uint32(i)),
			raw:   fixed,
			shape: shape,
		}
	}
	nodes := make([]memNode, len(enc.nodes))
	for i, n := range enc.nodes {
		nodes[i] = memNode{raw: n}
	}
	t := &memTile{id: id, nodes: nodes, edges: edges}
	r.cache.Add(id, t)
	return t, nil
}

// memTile is the decoded, cached form of a RawTile.
type memTile struct {
	id    graphid.TileID
	nodes []memNode
	edges []memEdge
}

func (t *memTile) ID() graphid.TileID { return t.id }

func (t *memTile) DirectedEdge(index uint32) (DirectedEdge, bool) {
	if int(index) >= len(t.edges) {
		return nil, false
	}
	return &t.edges[index], true
}

func (t *memTile) NodeInfo(index uint32) (NodeInfo, bool) {
	if int(index) >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[index], true
}

func (t *memTile) EdgeEndpoints(index uint32) (begin, end graphid.ID, ok bool) {
	if int(index) >= len(t.edges) {
		return graphid.Invalid, graphid.Invalid, false
	}
	e := t.edges[index]
	// The begin node is whichever node owns this edge index in its
	// EdgeIndex..EdgeIndex+EdgeCount run; scan nodes for it the way a
	// caller without a direct back-pointer would have to.
	for i := range t.nodes {
		n := &t.nodes[i]
		if index >= n.raw.EdgeIndex && index < n.raw.EdgeIndex+n.raw.EdgeCount {
			return graphid.New(t.id.Tile, t.id.Level, uint32(i)), e.raw.EndNode, true
		}
	}
	return graphid.Invalid, e.raw.EndNode, true
}

type memNode struct {
	raw RawNode
}

func (n *memNode) EdgeCount() uint32 { return n.raw.EdgeCount }
func (n *memNode) EdgeIndex() uint32 { return n.raw.EdgeIndex }
func (n *memNode) LatLng() PointLL   { return n.raw.LatLng }

func (n *memNode) Heading(localIdx uint8) (uint16, bool) {
	h, ok := n.raw.Headings[localIdx]
	return h, ok
}

type memEdge struct {
	id    graphid.ID
	raw   RawEdge
	shape []PointLL
}

func (e *memEdge) ID() graphid.ID           { return e.id }
func (e *memEdge) Length() float64          { return e.raw.Length }
func (e *memEdge) EndNode() graphid.ID      { return e.raw.EndNode }
func (e *memEdge) LeavesTile() bool         { return e.raw.LeavesTile }
func (e *memEdge) Forward() bool            { return e.raw.Forward }
func (e *memEdge) LocalEdgeIndex() uint8    { return e.raw.LocalEdgeIndex }
func (e *memEdge) OppLocalIdx() uint8       { return e.raw.OppLocalIdx }
func (e *memEdge) IsShortcut() bool         { return e.raw.IsShortcut }
func (e *memEdge) IsTransition() bool       { return e.raw.IsTransition }
func (e *memEdge) Use() Use                 { return e.raw.Use }
func (e *memEdge) Shape() []PointLL         { return e.shape }

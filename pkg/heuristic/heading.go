package heuristic

import (
	"math"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
)

// OutboundHeading returns the heading, in degrees [0,359], an edge
// departs beginNode with. A tile caches this for the first 8 local edge
// indices at a node (the common case, since most intersections have
// few legs); beyond that it is decoded from the edge's own shape.
func OutboundHeading(edge graph.DirectedEdge, beginNode graph.NodeInfo) uint16 {
	if edge.LocalEdgeIndex() < 8 {
		if h, ok := beginNode.Heading(edge.LocalEdgeIndex()); ok {
			return h
		}
	}
	return shapeHeading(edge, true)
}

// InboundHeading returns the heading, in degrees [0,359], an edge
// arrives at its end node with. predEdgeLabel's OppLocalIdx names the
// local index, at endNode, of predEdge's opposing edge; a tile caches
// that opposing edge's own heading for the first 8 local indices, and
// reusing it here avoids decoding predEdge's shape on every hop. Only
// falls back to shape decoding when no cached heading is available.
func InboundHeading(predEdgeLabel graph.EdgeLabel, predEdge graph.DirectedEdge, endNode graph.NodeInfo) uint16 {
	if predEdgeLabel != nil && predEdgeLabel.OppLocalIdx() < 8 {
		if h, ok := endNode.Heading(predEdgeLabel.OppLocalIdx()); ok {
			return h
		}
	}
	return shapeHeading(predEdge, false)
}

// shapeHeading decodes a bearing from an edge's shape. outbound picks
// the first segment (leaving the start node); otherwise the last
// segment (arriving at the end node). An edge's shape is always stored
// begin-to-end in tile order regardless of travel direction, so
// Forward() decides whether that first/last segment is read forwards or
// reversed.
func shapeHeading(edge graph.DirectedEdge, outbound bool) uint16 {
	shape := edge.Shape()
	if len(shape) < 2 {
		return 0
	}
	var a, b graph.PointLL
	switch {
	case outbound && edge.Forward():
		a, b = shape[0], shape[1]
	case outbound && !edge.Forward():
		a, b = shape[len(shape)-1], shape[len(shape)-2]
	case !outbound && edge.Forward():
		a, b = shape[len(shape)-2], shape[len(shape)-1]
	default: // inbound, reverse traversal
		a, b = shape[1], shape[0]
	}
	return clampHeading(bearingDegrees(a, b))
}

// bearingDegrees returns the initial great-circle bearing from a to b,
// in degrees, measured clockwise from true north.
func bearingDegrees(a, b graph.PointLL) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	return math.Atan2(y, x) * 180 / math.Pi
}

func clampHeading(degrees float64) uint16 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	h := uint16(degrees)
	if h > 359 {
		h = 359
	}
	return h
}

// TurnDegree returns the absolute turn angle, in [0,180], between an
// inbound heading and an outbound heading. Index this into a turn-cost
// table sized pkg.TurnCostTableSize.
func TurnDegree(inbound, outbound uint16) int {
	diff := int(outbound) - int(inbound)
	if diff < 0 {
		diff = -diff
	}
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

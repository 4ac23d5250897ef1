// Package heuristic implements the admissible A* lower bound the
// expansion loop adds to a label's accumulated cost before bucketing it,
// plus the heading helpers turn-cost attribution needs.
package heuristic

import (
	"math"

	"github.com/golang/geo/s2"

	"github.com/lintang-b-s/meili-mapmatch-core/pkg/graph"
)

const earthRadiusMeters = 6371008.8

// Disc is an admissible, consistent heuristic for a single-source
// search bounded to a disc around center: h(p) = max(0,
// greatCircleDistance(p, center) - radius). Any path from p to a point
// inside the disc is at least that long, so adding h(p) to a label's
// accumulated cost never overestimates the remaining cost to reach a
// destination known to lie within the disc.
type Disc struct {
	center      graph.PointLL
	centerS2    s2.LatLng
	radius      float64
	cosCenterLat float64
}

// NewDisc builds a Disc heuristic around center with the given radius,
// both in meters for radius and degrees for center.
func NewDisc(center graph.PointLL, radiusMeters float64) *Disc {
	return &Disc{
		center:       center,
		centerS2:     s2.LatLngFromDegrees(center.Lat, center.Lng),
		radius:       radiusMeters,
		cosCenterLat: math.Cos(center.Lat * math.Pi / 180),
	}
}

// Cost returns the heuristic lower bound for point p. Distance is a
// cheap equirectangular approximation (accurate enough at the scale of
// a single search's disc): 0 when the point lies inside the disc,
// otherwise that approximate distance minus the radius.
func (d *Disc) Cost(p graph.PointLL) float64 {
	d2 := d.equirectangularDist2(p)
	r2 := d.radius * d.radius
	if d2 < r2 {
		return 0
	}
	dist := math.Sqrt(d2)
	if dist <= d.radius {
		return 0
	}
	return dist - d.radius
}

// equirectangularDist2 approximates squared planar distance in meters
// between p and the disc center, valid for the modest spans a single
// search covers.
func (d *Disc) equirectangularDist2(p graph.PointLL) float64 {
	const degToRad = math.Pi / 180
	dLat := (p.Lat - d.center.Lat) * degToRad
	dLng := (p.Lng - d.center.Lng) * degToRad * d.cosCenterLat
	x := dLng * earthRadiusMeters
	y := dLat * earthRadiusMeters
	return x*x + y*y
}

// Contains reports whether p lies within the disc, using s2's exact
// great-circle distance rather than the cheap approximation Cost uses.
// Neither the search seeding nor the expansion loop calls it.
func (d *Disc) Contains(p graph.PointLL) bool {
	ll := s2.LatLngFromDegrees(p.Lat, p.Lng)
	angle := d.centerS2.Distance(ll)
	return float64(angle)*earthRadiusMeters <= d.radius
}

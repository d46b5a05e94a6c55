// Package geo measures distances between coordinates for graphs built from
// map data. Distances are great-circle metres on orb's spherical earth.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// MinEdgeMeters replaces zero-length edges, which the dense graph would
// otherwise read as "no edge".
const MinEdgeMeters = 0.001

// Point converts lat/lng to an orb point (orb stores lon first).
func Point(lat, lng float64) orb.Point {
	return orb.Point{lng, lat}
}

// Distance returns the great-circle distance in metres between two points.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	return orbgeo.DistanceHaversine(Point(lat1, lng1), Point(lat2, lng2))
}

// ValidLatLng reports whether lat/lng are finite and in range.
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Bound returns the bounding box of the given coordinates.
func Bound(lats, lngs []float64) orb.Bound {
	if len(lats) == 0 {
		return orb.Bound{}
	}
	b := Point(lats[0], lngs[0]).Bound()
	for i := 1; i < len(lats); i++ {
		b = b.Extend(Point(lats[i], lngs[i]))
	}
	return b
}

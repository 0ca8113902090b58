// Package geometry builds parcel point geometries and converts between the
// geographic reference (EPSG:4326, degrees) and the planar Web Mercator
// reference (EPSG:3857, meters) used for buffer and distance work.
package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Spherical Mercator radius (EPSG:3857).
const earthRadius = 6378137.0

// SRIDs for the two references in play.
const (
	SRIDGeographic = 4326
	SRIDPlanar     = 3857
)

// Project converts geographic coordinates to Web Mercator meters.
// Arguments are ordered longitude then latitude (the x, y axis order); do
// not transpose.
func Project(lng, lat float64) (x, y float64) {
	x = earthRadius * lng * math.Pi / 180
	y = earthRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y
}

// Unproject converts Web Mercator meters back to longitude, latitude.
func Unproject(x, y float64) (lng, lat float64) {
	lng = x / earthRadius * 180 / math.Pi
	lat = (2*math.Atan(math.Exp(y/earthRadius)) - math.Pi/2) * 180 / math.Pi
	return lng, lat
}

// PlanarPoint builds a projected point geometry from geographic
// coordinates.
func PlanarPoint(lng, lat float64) *geom.Point {
	x, y := Project(lng, lat)
	return geom.NewPointFlat(geom.XY, []float64{x, y}).SetSRID(SRIDPlanar)
}

// GeographicPoint builds a lng/lat point geometry.
func GeographicPoint(lng, lat float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{lng, lat}).SetSRID(SRIDGeographic)
}

// ProjectFlatCoords projects a flat XY coordinate slice (lng, lat pairs)
// into Web Mercator, returning a new slice.
func ProjectFlatCoords(flat []float64) []float64 {
	out := make([]float64, len(flat))
	for i := 0; i+1 < len(flat); i += 2 {
		out[i], out[i+1] = Project(flat[i], flat[i+1])
	}
	return out
}

// ProjectPolygon reprojects a geographic polygon into the planar reference.
func ProjectPolygon(p *geom.Polygon) *geom.Polygon {
	ends := make([]int, len(p.Ends()))
	copy(ends, p.Ends())
	return geom.NewPolygonFlat(geom.XY, ProjectFlatCoords(p.FlatCoords()), ends).SetSRID(SRIDPlanar)
}

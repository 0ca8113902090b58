// Package region defines the areas of interest parcels are filtered
// against: a circular buffer around a point, a fixed polygon, or a
// user-drawn boundary. Each variant carries exactly the fields it needs and
// is normalized to the planar reference before any intersection test.
package region

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
)

// MetersPerMile converts buffer radii from miles to planar meters.
const MetersPerMile = 1609.34

// Kind discriminates the region variants.
type Kind int

const (
	// KindBuffer is a disc of fixed radius around a projected center.
	KindBuffer Kind = iota
	// KindPolygon is a fixed polygon authored in geographic coordinates.
	KindPolygon
	// KindDrawn is a user-supplied boundary from the map draw tool.
	KindDrawn
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindPolygon:
		return "polygon"
	case KindDrawn:
		return "drawn"
	default:
		return "unknown"
	}
}

// Region is an intersection predicate over planar parcel points.
type Region struct {
	Name  string
	Color string

	kind Kind

	// Buffer fields (planar).
	centerX, centerY, radius float64

	// Polygon fields (planar). Multiple entries for MultiPolygon input.
	polygons []*geom.Polygon

	bounds *geom.Bounds
}

// NewBuffer builds a circular-buffer region: the geographic center is
// projected, then a disc of radiusMiles * 1609.34 meters is taken around
// it.
func NewBuffer(name string, lat, lng, radiusMiles float64) *Region {
	x, y := geometry.Project(lng, lat)
	r := radiusMiles * MetersPerMile
	b := geom.NewBounds(geom.XY)
	b.Set(x-r, y-r, x+r, y+r)
	return &Region{
		Name:    name,
		kind:    KindBuffer,
		centerX: x,
		centerY: y,
		radius:  r,
		bounds:  b,
	}
}

// NewPolygon builds a fixed-polygon region from a geographic exterior ring
// (lng, lat order). The ring is closed if the source left it open.
func NewPolygon(name string, ring []geom.Coord) (*Region, error) {
	flat := make([]float64, 0, (len(ring)+1)*2)
	for _, c := range ring {
		flat = append(flat, c[0], c[1])
	}
	flat = closeRing(flat)
	if len(flat) < 8 { // 3 distinct vertices plus closure
		return nil, eris.Errorf("region: polygon %q needs at least 3 vertices", name)
	}

	poly := geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(geometry.SRIDGeographic)
	return newPolygonal(name, KindPolygon, []*geom.Polygon{poly})
}

// newPolygonal projects geographic polygons to the planar reference and
// wraps them in a Region.
func newPolygonal(name string, kind Kind, geographic []*geom.Polygon) (*Region, error) {
	if len(geographic) == 0 {
		return nil, eris.Errorf("region: %q has no polygon geometry", name)
	}

	r := &Region{Name: name, kind: kind, bounds: geom.NewBounds(geom.XY)}
	for _, p := range geographic {
		planar := geometry.ProjectPolygon(p)
		r.polygons = append(r.polygons, planar)
		r.bounds.Extend(planar)
	}
	return r, nil
}

// Kind reports the region variant.
func (r *Region) Kind() Kind { return r.kind }

// Radius reports the planar buffer radius in meters; 0 for polygon kinds.
func (r *Region) Radius() float64 { return r.radius }

// Bounds returns the planar bounding box, used to seed index lookups.
func (r *Region) Bounds() *geom.Bounds { return r.bounds }

// Contains reports whether a planar point intersects the region.
// Intersection is boundary-inclusive: a point exactly on the edge counts.
func (r *Region) Contains(x, y float64) bool {
	if r.kind == KindBuffer {
		dx, dy := x-r.centerX, y-r.centerY
		return dx*dx+dy*dy <= r.radius*r.radius
	}

	pt := geom.Coord{x, y}
	for _, poly := range r.polygons {
		if polygonContains(poly, pt) {
			return true
		}
	}
	return false
}

// polygonContains tests one polygon, holes included, boundary-inclusive.
func polygonContains(poly *geom.Polygon, pt geom.Coord) bool {
	flat := poly.FlatCoords()
	ends := poly.Ends()

	start := 0
	for i, end := range ends {
		ring := flat[start:end]
		if xy.IsOnLine(geom.XY, pt, ring) {
			// Touching any ring, exterior or hole, is intersection.
			return true
		}
		inside := xy.IsPointInRing(geom.XY, pt, ring)
		if i == 0 {
			if !inside {
				return false
			}
		} else if inside {
			// Strictly inside a hole.
			return false
		}
		start = end
	}
	return true
}

// closeRing appends the first vertex when the ring is left open.
func closeRing(flat []float64) []float64 {
	n := len(flat)
	if n < 4 {
		return flat
	}
	if flat[0] != flat[n-2] || flat[1] != flat[n-1] {
		flat = append(flat, flat[0], flat[1])
	}
	return flat
}

// OutlineRing returns the region's exterior outline as geographic
// [lat, lng] pairs for rendering. Buffers are approximated as discs with
// the given segment count; polygon kinds return the first polygon's
// exterior ring and ignore segments.
func (r *Region) OutlineRing(segments int) [][]float64 {
	var planar []geom.Coord
	if r.kind == KindBuffer {
		planar = r.DiscRing(segments)
	} else {
		flat := r.polygons[0].FlatCoords()
		end := r.polygons[0].Ends()[0]
		for i := 0; i < end; i += 2 {
			planar = append(planar, geom.Coord{flat[i], flat[i+1]})
		}
	}

	out := make([][]float64, 0, len(planar))
	for _, c := range planar {
		lng, lat := geometry.Unproject(c[0], c[1])
		out = append(out, []float64{lat, lng})
	}
	return out
}

// DiscRing approximates a buffer region's disc as a closed planar ring,
// for rendering. Returns nil for polygon kinds.
func (r *Region) DiscRing(segments int) []geom.Coord {
	if r.kind != KindBuffer {
		return nil
	}
	if segments < 8 {
		segments = 8
	}
	ring := make([]geom.Coord, 0, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		ring = append(ring, geom.Coord{
			r.centerX + r.radius*math.Cos(theta),
			r.centerY + r.radius*math.Sin(theta),
		})
	}
	return ring
}

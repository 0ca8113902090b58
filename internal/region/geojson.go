package region

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/xy/lineintersector"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
)

// ErrInvalidBoundary marks a user-supplied boundary that cannot be used:
// wrong geometry type, too few vertices, or a self-intersection that
// survived repair. Callers treat it as a client error, not a server fault.
var ErrInvalidBoundary = eris.New("region: invalid boundary geometry")

// FromGeoJSON builds a drawn region from a raw GeoJSON geometry object
// (Polygon or MultiPolygon, geographic coordinates). Rings are repaired
// once (duplicate consecutive vertices dropped, closure forced) and
// rejected with ErrInvalidBoundary if still degenerate or self-intersecting.
func FromGeoJSON(name string, raw []byte) (*Region, error) {
	var g geom.T
	if err := geojson.Unmarshal(raw, &g); err != nil {
		return nil, eris.Wrap(ErrInvalidBoundary, err.Error())
	}

	var polys []*geom.Polygon
	switch t := g.(type) {
	case *geom.Polygon:
		polys = []*geom.Polygon{t}
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
	default:
		return nil, eris.Wrapf(ErrInvalidBoundary, "unsupported geometry type %T", g)
	}
	if len(polys) == 0 {
		return nil, eris.Wrap(ErrInvalidBoundary, "empty geometry")
	}

	repaired := make([]*geom.Polygon, 0, len(polys))
	for _, p := range polys {
		rp, err := repairPolygon(p)
		if err != nil {
			return nil, err
		}
		repaired = append(repaired, rp)
	}

	return newPolygonal(name, KindDrawn, repaired)
}

// repairPolygon normalizes each ring and validates it. This is the whole
// repair pass: anything still self-intersecting afterwards is rejected.
func repairPolygon(p *geom.Polygon) (*geom.Polygon, error) {
	flat := p.FlatCoords()
	ends := p.Ends()
	if len(ends) == 0 || len(flat) == 0 {
		return nil, eris.Wrap(ErrInvalidBoundary, "polygon has no coordinates")
	}

	var outFlat []float64
	var outEnds []int
	start := 0
	for _, end := range ends {
		ring := repairRing(flat[start:end])
		if len(ring) < 8 {
			return nil, eris.Wrap(ErrInvalidBoundary, "ring has fewer than 3 distinct vertices")
		}
		if ringSelfIntersects(ring) {
			return nil, eris.Wrap(ErrInvalidBoundary, "ring is self-intersecting")
		}
		outFlat = append(outFlat, ring...)
		outEnds = append(outEnds, len(outFlat))
		start = end
	}

	return geom.NewPolygonFlat(geom.XY, outFlat, outEnds).SetSRID(geometry.SRIDGeographic), nil
}

// repairRing drops duplicate consecutive vertices and forces closure.
func repairRing(flat []float64) []float64 {
	out := make([]float64, 0, len(flat))
	for i := 0; i+1 < len(flat); i += 2 {
		n := len(out)
		if n >= 2 && out[n-2] == flat[i] && out[n-1] == flat[i+1] {
			continue
		}
		out = append(out, flat[i], flat[i+1])
	}
	// An explicitly closed input leaves a trailing duplicate of the first
	// vertex; strip it before re-closing so the distinct-vertex count is
	// honest.
	n := len(out)
	if n >= 4 && out[0] == out[n-2] && out[1] == out[n-1] {
		out = out[:n-2]
	}
	return closeRing(out)
}

// ringSelfIntersects tests every pair of non-adjacent segments. Adjacent
// segments share an endpoint by construction and are skipped, as is the
// closing segment against the first.
func ringSelfIntersects(flat []float64) bool {
	type segment struct{ a, b geom.Coord }
	var segs []segment
	for i := 0; i+3 < len(flat); i += 2 {
		segs = append(segs, segment{
			a: geom.Coord{flat[i], flat[i+1]},
			b: geom.Coord{flat[i+2], flat[i+3]},
		})
	}

	n := len(segs)
	strategy := lineintersector.RobustLineIntersector{}
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // closing segment is adjacent to the first
			}
			res := lineintersector.LineIntersectsLine(strategy, segs[i].a, segs[i].b, segs[j].a, segs[j].b)
			if res.HasIntersection() {
				return true
			}
		}
	}
	return false
}

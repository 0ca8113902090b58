// Package spatial evaluates region predicates over the planar parcel
// point set, with a reusable grid index to keep per-query work proportional
// to the region's footprint.
package spatial

import "math"

// cellSize is the grid cell edge in planar meters. Parcel points cluster at
// city scale, so a few hundred meters keeps buckets small without bloating
// the cell map.
const cellSize = 250.0

// gridIndex buckets point ids by grid cell. Built once per dataset and
// reused across queries; correctness never depends on it, only throughput.
type gridIndex struct {
	cells map[[2]int][]int
}

func newGridIndex(xs, ys []float64) *gridIndex {
	idx := &gridIndex{cells: make(map[[2]int][]int)}
	for i := range xs {
		key := cellOf(xs[i], ys[i])
		idx.cells[key] = append(idx.cells[key], i)
	}
	return idx
}

func cellOf(x, y float64) [2]int {
	return [2]int{int(math.Floor(x / cellSize)), int(math.Floor(y / cellSize))}
}

// candidates returns the ids of all points in cells overlapping the given
// planar bounding box. A superset of the true matches; callers apply the
// exact predicate afterwards.
func (g *gridIndex) candidates(minX, minY, maxX, maxY float64) []int {
	lo := cellOf(minX, minY)
	hi := cellOf(maxX, maxY)

	var out []int
	for cx := lo[0]; cx <= hi[0]; cx++ {
		for cy := lo[1]; cy <= hi[1]; cy++ {
			out = append(out, g.cells[[2]int{cx, cy}]...)
		}
	}
	return out
}

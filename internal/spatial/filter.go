package spatial

import (
	"sort"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/region"
)

// PointSet is the planar geometry for a set of geocoded parcels, with a
// grid index built once at construction. It is immutable after New and safe
// for concurrent queries.
type PointSet struct {
	parcels []model.ParcelRecord
	xs, ys  []float64
	index   *gridIndex
}

// NewPointSet projects each parcel's geographic coordinate into the planar
// reference and indexes the result. Every parcel must carry a location;
// rows without one are the loader's responsibility to exclude.
func NewPointSet(parcels []model.ParcelRecord) *PointSet {
	xs := make([]float64, len(parcels))
	ys := make([]float64, len(parcels))
	for i, p := range parcels {
		xs[i], ys[i] = geometry.Project(p.Longitude, p.Latitude)
	}
	return &PointSet{
		parcels: parcels,
		xs:      xs,
		ys:      ys,
		index:   newGridIndex(xs, ys),
	}
}

// Len reports the number of indexed parcels.
func (s *PointSet) Len() int { return len(s.parcels) }

// Parcels returns the underlying records. Callers must not mutate.
func (s *PointSet) Parcels() []model.ParcelRecord { return s.parcels }

// Filter returns the parcels whose point intersects the region,
// boundary-inclusive, in stable dataset order. Filtering the same set
// against the same region always yields identical results.
func (s *PointSet) Filter(r *region.Region) []model.ParcelRecord {
	b := r.Bounds()
	ids := s.index.candidates(b.Min(0), b.Min(1), b.Max(0), b.Max(1))
	sort.Ints(ids)

	var out []model.ParcelRecord
	for _, i := range ids {
		if r.Contains(s.xs[i], s.ys[i]) {
			out = append(out, s.parcels[i])
		}
	}
	return out
}

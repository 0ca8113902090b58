// Package aggregate computes assessed-value statistics over a filtered
// parcel subset.
package aggregate

import (
	"sort"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// Summarize groups the subset by use code and computes per-group count,
// mean, and sum, plus a grand total equal to the sum over all groups.
// Assessed values were already coerced at load time (non-numeric → 0), so
// every row participates. Groups are sorted by use code for deterministic
// output; an empty subset yields a zero-valued summary, which is a normal
// result, not an error.
func Summarize(regionName string, parcels []model.ParcelRecord) model.RegionSummary {
	type acc struct {
		count int
		sum   float64
	}
	groups := make(map[string]*acc)

	var total float64
	for _, p := range parcels {
		a := groups[p.UseCode]
		if a == nil {
			a = &acc{}
			groups[p.UseCode] = a
		}
		a.count++
		a.sum += p.AssessedValue
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stats := make([]model.GroupStat, 0, len(keys))
	for _, k := range keys {
		a := groups[k]
		stats = append(stats, model.GroupStat{
			UseCode: k,
			Count:   a.count,
			Mean:    a.sum / float64(a.count),
			Sum:     a.sum,
		})
		total += a.sum
	}

	return model.RegionSummary{
		RegionName:  regionName,
		ParcelCount: len(parcels),
		TotalValue:  total,
		Groups:      stats,
	}
}

// Details converts a filtered subset into exportable per-parcel rows tagged
// with the region name. A parcel matched by several overlapping regions
// yields one row per region by design.
func Details(regionName string, parcels []model.ParcelRecord) []model.ParcelDetail {
	out := make([]model.ParcelDetail, 0, len(parcels))
	for _, p := range parcels {
		addr := p.Address
		if addr == "" {
			addr = "N/A"
		}
		out = append(out, model.ParcelDetail{
			Area:          regionName,
			SSL:           p.SSL,
			Address:       addr,
			AssessedValue: p.AssessedValue,
		})
	}
	return out
}

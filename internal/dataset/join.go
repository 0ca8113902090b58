package dataset

import (
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// DedupeAddresses keeps the first occurrence of each normalized SSL, in
// input order. The output therefore depends on the address file's row
// order; that is the documented tie-break, not a bug. Rows with a blank
// identifier are dropped since they can never match.
func DedupeAddresses(points []model.AddressPoint) []model.AddressPoint {
	seen := make(map[string]struct{}, len(points))
	out := make([]model.AddressPoint, 0, len(points))
	for _, p := range points {
		ssl := NormalizeIdentifier(p.SSL)
		if ssl == "" {
			continue
		}
		if _, ok := seen[ssl]; ok {
			continue
		}
		seen[ssl] = struct{}{}
		p.SSL = ssl
		out = append(out, p)
	}
	return out
}

// JoinCoordinates left-joins address coordinates onto parcel rows by
// normalized SSL. Every parcel row is retained exactly once; rows with no
// match are returned separately as the unmatched diagnostic set. The
// address slice must already be deduplicated.
func JoinCoordinates(parcels []model.ParcelRecord, addresses []model.AddressPoint) (matched, unmatched []model.ParcelRecord) {
	byID := make(map[string]model.AddressPoint, len(addresses))
	for _, a := range addresses {
		byID[a.SSL] = a
	}

	matched = make([]model.ParcelRecord, 0, len(parcels))
	for _, p := range parcels {
		a, ok := byID[p.SSL]
		if !ok {
			p.Address = "N/A"
			unmatched = append(unmatched, p)
			continue
		}
		p.Latitude = a.Latitude
		p.Longitude = a.Longitude
		p.HasLocation = true
		if a.FullAddress != "" {
			p.Address = a.FullAddress
		} else if p.Address == "" {
			p.Address = "N/A"
		}
		matched = append(matched, p)
	}
	return matched, unmatched
}

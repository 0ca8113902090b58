// Package model defines the core data types shared across the parcel
// analysis pipeline.
package model

// ParcelRecord is one row of the tax-parcel attribute table after
// identifier normalization and the coordinate join.
type ParcelRecord struct {
	// SSL is the canonical (trimmed) square-suffix-lot identifier used as
	// the join key. Not guaranteed unique in source data.
	SSL string `json:"SSL"`

	// UseCode classifies the parcel's use; aggregation groups on it.
	UseCode string `json:"use_code,omitempty"`

	// AssessedValue is coerced from source text at load time. Non-numeric
	// and missing values coerce to 0, in sums and means alike.
	AssessedValue float64 `json:"ASSESSED_VALUE_TAX"`

	// Address is populated by the join; "N/A" when absent.
	Address string `json:"FULLADDRESS"`

	// Latitude/Longitude are present only when HasLocation is true.
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	HasLocation bool    `json:"-"`

	// RawColumns preserves the original source row, in source column
	// order, for the unmatched-parcels diagnostic export.
	RawColumns []string `json:"-"`
}

// AddressPoint is one row of the address table: an identifier with its
// geographic coordinate. Deduplicated by SSL before joining.
type AddressPoint struct {
	SSL         string
	Latitude    float64
	Longitude   float64
	FullAddress string
}

// GroupStat holds per-use-code aggregate statistics.
type GroupStat struct {
	UseCode string  `json:"use_code"`
	Count   int     `json:"count"`
	Mean    float64 `json:"mean"`
	Sum     float64 `json:"sum"`
}

// RegionSummary is the ephemeral result of filtering and aggregating one
// region. Recomputed per query, never persisted beyond the run.
type RegionSummary struct {
	RegionName  string      `json:"region_name"`
	ParcelCount int         `json:"parcel_count"`
	TotalValue  float64     `json:"total_assessed_value"`
	Groups      []GroupStat `json:"grouped_stats"`
}

// ParcelDetail is one exported row of the per-area details report and the
// boundary-query response payload.
type ParcelDetail struct {
	Area          string  `json:"area,omitempty"`
	SSL           string  `json:"SSL"`
	Address       string  `json:"FULLADDRESS"`
	AssessedValue float64 `json:"ASSESSED_VALUE_TAX"`
}

package model

import "time"

// BoundaryQuery records one user-drawn boundary analysis: when it ran,
// what it matched, and the per-parcel rows behind the downloadable CSV.
type BoundaryQuery struct {
	ID          string         `json:"id"`
	RequestedAt time.Time      `json:"requested_at"`
	ParcelCount int            `json:"parcel_count"`
	TotalValue  float64        `json:"total_value"`
	Details     []ParcelDetail `json:"details,omitempty"`
}

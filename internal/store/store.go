// Package store persists boundary-query history behind a driver-agnostic
// interface with SQLite and PostgreSQL implementations.
package store

import (
	"context"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// QueryFilter specifies criteria for listing boundary queries.
type QueryFilter struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Store defines the persistence interface for boundary-query history.
// Listing returns summaries only; Details are loaded for the latest query,
// which backs the CSV download.
type Store interface {
	SaveBoundaryQuery(ctx context.Context, q *model.BoundaryQuery) error
	LatestBoundaryQuery(ctx context.Context) (*model.BoundaryQuery, error)
	ListBoundaryQueries(ctx context.Context, filter QueryFilter) ([]model.BoundaryQuery, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

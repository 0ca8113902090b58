package server

import (
	"time"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/dataset"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/spatial"
)

// Snapshot is one immutable load of the parcel dataset with its spatial
// index. Handlers read whichever snapshot is current; a reload swaps in a
// fresh one atomically and never mutates the old.
type Snapshot struct {
	Dataset  *dataset.Dataset
	Points   *spatial.PointSet
	LoadedAt time.Time
}

// NewSnapshot indexes a loaded dataset.
func NewSnapshot(ds *dataset.Dataset) *Snapshot {
	return &Snapshot{
		Dataset:  ds,
		Points:   spatial.NewPointSet(ds.Parcels),
		LoadedAt: time.Now().UTC(),
	}
}

// Package export serializes filtered parcel sets: CSV reports and Leaflet
// map documents.
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

// WriteUnmatched writes parcels with no coordinate match, preserving the
// original source columns only. An empty set still produces a header-only
// file; zero unmatched rows is a normal outcome.
func WriteUnmatched(path string, header []string, unmatched []model.ParcelRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write unmatched header")
	}
	for _, p := range unmatched {
		if err := w.Write(p.RawColumns); err != nil {
			return eris.Wrap(err, "export: write unmatched row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "export: flush unmatched csv")
}

// WriteAreaDetails writes the combined per-region detail report: one row
// per parcel per matched region, so overlapping regions repeat a parcel
// under each area.
func WriteAreaDetails(path string, details []model.ParcelDetail) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := writeDetails(f, details, true); err != nil {
		return err
	}
	return nil
}

// DetailsCSV renders boundary-query details as an in-memory CSV document
// for the download endpoint. The Area column is omitted: a drawn boundary
// has no configured name.
func DetailsCSV(details []model.ParcelDetail) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDetails(&buf, details, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDetails(out io.Writer, details []model.ParcelDetail, withArea bool) error {
	w := csv.NewWriter(out)

	header := []string{"SSL", "FULLADDRESS", "ASSESSED_VALUE_TAX"}
	if withArea {
		header = []string{"Area", "SSL", "Address", "Assessed Value"}
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "export: write details header")
	}

	for _, d := range details {
		value := strconv.FormatFloat(d.AssessedValue, 'f', -1, 64)
		row := []string{d.SSL, d.Address, value}
		if withArea {
			row = []string{d.Area, d.SSL, d.Address, value}
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "export: write details row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush details csv")
}

// Package fetcher parses the tabular sources (CSV, XLSX) that feed the
// parcel pipeline.
package fetcher

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a parsed tabular source: one header row plus data rows. Rows may
// have fewer cells than the header (ragged sources are common in the open
// data portal exports this tool consumes).
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of a named header column, matched
// case-insensitively with surrounding whitespace ignored, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is ragged or the
// column is -1.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ReadTable reads a tabular file, dispatching on extension: .xlsx is parsed
// as a workbook (first sheet), anything else as CSV.
func ReadTable(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	return ReadCSV(f)
}

// ReadCSV parses CSV from a reader. The first row is the header. Rows with
// varying field counts are accepted.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("fetcher: csv is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: read csv header")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "fetcher: read csv row")
		}
		rows = append(rows, record)
	}

	return &Table{Header: header, Rows: rows}, nil
}

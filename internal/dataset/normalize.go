// Package dataset loads the parcel and address source tables, normalizes
// their shared SSL identifier, and joins coordinates onto parcel rows.
package dataset

import (
	"strconv"
	"strings"
)

// NormalizeIdentifier canonicalizes a raw SSL value: stringified source
// cells are trimmed of surrounding whitespace. Missing or blank values
// normalize to "" and are excluded from matching entirely, so a parcel with
// no identifier simply never joins; it is not an error.
func NormalizeIdentifier(raw string) string {
	return strings.TrimSpace(raw)
}

// CoerceValue converts a source assessed-value cell to a float64. The one
// uniform policy: anything non-numeric (including "") coerces to 0.
// Thousands separators and a leading dollar sign are stripped first since
// both appear in portal exports.
func CoerceValue(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

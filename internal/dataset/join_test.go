package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
)

func TestDedupeAddresses_KeepsFirst(t *testing.T) {
	points := []model.AddressPoint{
		{SSL: "0100 0001", Latitude: 38.90, Longitude: -77.00, FullAddress: "1 FIRST ST"},
		{SSL: " 0100 0001 ", Latitude: 38.95, Longitude: -77.05, FullAddress: "1 FIRST ST REV"},
		{SSL: "0100 0002", Latitude: 38.91, Longitude: -77.01, FullAddress: "2 SECOND ST"},
	}

	out := DedupeAddresses(points)
	require.Len(t, out, 2)
	assert.Equal(t, "1 FIRST ST", out[0].FullAddress, "first occurrence wins")
	assert.Equal(t, 38.90, out[0].Latitude)
	assert.Equal(t, "0100 0002", out[1].SSL)
}

func TestDedupeAddresses_DropsBlankIdentifiers(t *testing.T) {
	points := []model.AddressPoint{
		{SSL: "   ", Latitude: 38.90, Longitude: -77.00},
		{SSL: "", Latitude: 38.91, Longitude: -77.01},
		{SSL: "0100 0001", Latitude: 38.92, Longitude: -77.02},
	}

	out := DedupeAddresses(points)
	require.Len(t, out, 1)
	assert.Equal(t, "0100 0001", out[0].SSL)
}

func TestJoinCoordinates(t *testing.T) {
	parcels := []model.ParcelRecord{
		{SSL: "0100 0001", UseCode: "011", AssessedValue: 500000},
		{SSL: "0100 0002", UseCode: "012", AssessedValue: 750000},
		{SSL: "9999 9999", UseCode: "011", AssessedValue: 100000},
	}
	addresses := []model.AddressPoint{
		{SSL: "0100 0001", Latitude: 38.90, Longitude: -77.00, FullAddress: "1 FIRST ST NW"},
		{SSL: "0100 0002", Latitude: 38.91, Longitude: -77.01, FullAddress: "2 SECOND ST NE"},
	}

	matched, unmatched := JoinCoordinates(parcels, addresses)
	require.Len(t, matched, 2)
	require.Len(t, unmatched, 1)

	assert.True(t, matched[0].HasLocation)
	assert.Equal(t, 38.90, matched[0].Latitude)
	assert.Equal(t, "1 FIRST ST NW", matched[0].Address)

	assert.Equal(t, "9999 9999", unmatched[0].SSL)
	assert.False(t, unmatched[0].HasLocation)
	assert.Equal(t, "N/A", unmatched[0].Address)
}

func TestJoinCoordinates_EveryParcelRetainedOnce(t *testing.T) {
	parcels := []model.ParcelRecord{
		{SSL: "A"}, {SSL: "B"}, {SSL: "C"}, {SSL: ""},
	}
	addresses := []model.AddressPoint{
		{SSL: "B", Latitude: 1, Longitude: 1},
	}

	matched, unmatched := JoinCoordinates(parcels, addresses)
	assert.Equal(t, len(parcels), len(matched)+len(unmatched))
	require.Len(t, matched, 1)
	assert.Equal(t, "B", matched[0].SSL)
}

func TestJoinCoordinates_BlankAddressFallback(t *testing.T) {
	parcels := []model.ParcelRecord{
		{SSL: "A", Address: "PREMISE ADDR"},
		{SSL: "B", Address: ""},
	}
	addresses := []model.AddressPoint{
		{SSL: "A", Latitude: 1, Longitude: 1, FullAddress: ""},
		{SSL: "B", Latitude: 2, Longitude: 2, FullAddress: ""},
	}

	matched, _ := JoinCoordinates(parcels, addresses)
	require.Len(t, matched, 2)
	assert.Equal(t, "PREMISE ADDR", matched[0].Address, "premise address kept when the address table has none")
	assert.Equal(t, "N/A", matched[1].Address)
}

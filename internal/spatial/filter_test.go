package spatial

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/region"
)

// gridParcels lays out a lat/lng grid of parcels around a center point.
func gridParcels(centerLat, centerLng float64, n int, stepDeg float64) []model.ParcelRecord {
	var out []model.ParcelRecord
	for i := -n; i <= n; i++ {
		for j := -n; j <= n; j++ {
			out = append(out, model.ParcelRecord{
				SSL:         fmt.Sprintf("%04d %04d", i+n, j+n),
				Latitude:    centerLat + float64(i)*stepDeg,
				Longitude:   centerLng + float64(j)*stepDeg,
				HasLocation: true,
			})
		}
	}
	return out
}

func TestFilter_Buffer(t *testing.T) {
	parcels := gridParcels(38.890, -76.972, 10, 0.002)
	set := NewPointSet(parcels)
	require.Equal(t, len(parcels), set.Len())

	r := region.NewBuffer("test", 38.890, -76.972, 0.5)
	matched := set.Filter(r)

	assert.NotEmpty(t, matched)
	assert.Less(t, len(matched), len(parcels))

	// Center parcel is always matched.
	found := false
	for _, p := range matched {
		if p.Latitude == 38.890 && p.Longitude == -76.972 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestFilter_MatchesBruteForce(t *testing.T) {
	parcels := gridParcels(38.890, -76.972, 12, 0.0017)
	set := NewPointSet(parcels)

	regions := []*region.Region{
		region.NewBuffer("buffer", 38.8915, -76.9705, 0.3),
	}
	square, err := region.NewPolygon("square", []geom.Coord{
		{-76.980, 38.885},
		{-76.965, 38.885},
		{-76.965, 38.895},
		{-76.980, 38.895},
	})
	require.NoError(t, err)
	regions = append(regions, square)

	for _, r := range regions {
		var want []string
		for _, p := range parcels {
			x, y := geometry.Project(p.Longitude, p.Latitude)
			if r.Contains(x, y) {
				want = append(want, p.SSL)
			}
		}

		var got []string
		for _, p := range set.Filter(r) {
			got = append(got, p.SSL)
		}

		assert.Equal(t, want, got, "index must agree with the exact predicate for %s", r.Name)
	}
}

func TestFilter_Deterministic(t *testing.T) {
	parcels := gridParcels(38.890, -76.972, 8, 0.002)
	set := NewPointSet(parcels)
	r := region.NewBuffer("test", 38.890, -76.972, 0.4)

	first := set.Filter(r)
	second := set.Filter(r)
	assert.Equal(t, first, second)
}

func TestFilter_PointOnPolygonEdge(t *testing.T) {
	parcels := []model.ParcelRecord{
		{SSL: "EDGE", Latitude: 38.905, Longitude: -77.00, HasLocation: true},
		{SSL: "VERTEX", Latitude: 38.90, Longitude: -77.01, HasLocation: true},
		{SSL: "OUT", Latitude: 38.905, Longitude: -77.02, HasLocation: true},
	}
	set := NewPointSet(parcels)

	square, err := region.NewPolygon("square", []geom.Coord{
		{-77.01, 38.90},
		{-77.00, 38.90},
		{-77.00, 38.91},
		{-77.01, 38.91},
	})
	require.NoError(t, err)

	matched := set.Filter(square)
	require.Len(t, matched, 2, "edge and vertex points intersect, the outside one does not")
	assert.Equal(t, "EDGE", matched[0].SSL)
	assert.Equal(t, "VERTEX", matched[1].SSL)
}

func TestFilter_EmptyRegion(t *testing.T) {
	parcels := gridParcels(38.890, -76.972, 3, 0.002)
	set := NewPointSet(parcels)

	// A buffer far from every parcel.
	r := region.NewBuffer("nowhere", 40.0, -75.0, 0.5)
	assert.Empty(t, set.Filter(r))
}

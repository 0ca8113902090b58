package region

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
)

func TestNewBuffer_Radius(t *testing.T) {
	r := NewBuffer("RFK Stadium", 38.890, -76.972, 0.5)
	assert.Equal(t, KindBuffer, r.Kind())
	assert.InDelta(t, 804.67, r.Radius(), 0.001, "half a mile at 1609.34 meters per mile")
}

func TestBuffer_Contains(t *testing.T) {
	r := NewBuffer("test", 38.890, -76.972, 0.5)
	cx, cy := geometry.Project(-76.972, 38.890)

	assert.True(t, r.Contains(cx, cy), "center")
	assert.True(t, r.Contains(cx+800, cy), "inside the radius")
	assert.False(t, r.Contains(cx+806, cy), "outside the radius")
	assert.False(t, r.Contains(cx+600, cy+600), "outside diagonally, inside the bounding box")
}

func TestBuffer_BoundaryInclusive(t *testing.T) {
	// Centered at the planar origin so the boundary point is exact.
	r := NewBuffer("origin", 0, 0, 0.5)
	assert.True(t, r.Contains(r.Radius(), 0))
	assert.True(t, r.Contains(0, -r.Radius()))
}

func TestBuffer_Bounds(t *testing.T) {
	r := NewBuffer("test", 38.890, -76.972, 0.5)
	cx, cy := geometry.Project(-76.972, 38.890)

	b := r.Bounds()
	assert.InDelta(t, cx-r.Radius(), b.Min(0), 1e-9)
	assert.InDelta(t, cy+r.Radius(), b.Max(1), 1e-9)
}

func TestNewPolygon_Contains(t *testing.T) {
	r, err := NewPolygon("square", []geom.Coord{
		{-77.01, 38.90},
		{-77.00, 38.90},
		{-77.00, 38.91},
		{-77.01, 38.91},
	})
	require.NoError(t, err)
	assert.Equal(t, KindPolygon, r.Kind())

	inX, inY := geometry.Project(-77.005, 38.905)
	assert.True(t, r.Contains(inX, inY))

	outX, outY := geometry.Project(-77.02, 38.905)
	assert.False(t, r.Contains(outX, outY))

	// A vertex lies on the boundary and intersects.
	vX, vY := geometry.Project(-77.01, 38.90)
	assert.True(t, r.Contains(vX, vY))

	// Same for a point in the middle of an edge.
	eX, eY := geometry.Project(-77.00, 38.905)
	assert.True(t, r.Contains(eX, eY))
}

func TestNewPolygon_ClosesOpenRing(t *testing.T) {
	r, err := NewPolygon("open", []geom.Coord{
		{-77.01, 38.90},
		{-77.00, 38.90},
		{-77.00, 38.91},
	})
	require.NoError(t, err)

	inX, inY := geometry.Project(-77.003, 38.903)
	assert.True(t, r.Contains(inX, inY))
}

func TestNewPolygon_TooFewVertices(t *testing.T) {
	_, err := NewPolygon("degenerate", []geom.Coord{
		{-77.01, 38.90},
		{-77.00, 38.90},
	})
	require.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "buffer", KindBuffer.String())
	assert.Equal(t, "polygon", KindPolygon.String())
	assert.Equal(t, "drawn", KindDrawn.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestOutlineRing_Buffer(t *testing.T) {
	r := NewBuffer("test", 38.890, -76.972, 0.5)
	ring := r.OutlineRing(32)
	require.Len(t, ring, 33, "segments plus closing vertex")
	assert.InDelta(t, ring[0][0], ring[len(ring)-1][0], 1e-9)
	assert.InDelta(t, ring[0][1], ring[len(ring)-1][1], 1e-9)

	// Every vertex sits on the disc boundary.
	cx, cy := geometry.Project(-76.972, 38.890)
	for _, p := range ring {
		x, y := geometry.Project(p[1], p[0])
		assert.InDelta(t, r.Radius(), math.Hypot(x-cx, y-cy), 0.01)
	}
}

func TestOutlineRing_Polygon(t *testing.T) {
	r, err := NewPolygon("square", []geom.Coord{
		{-77.01, 38.90},
		{-77.00, 38.90},
		{-77.00, 38.91},
		{-77.01, 38.91},
	})
	require.NoError(t, err)

	ring := r.OutlineRing(0)
	require.Len(t, ring, 5)
	assert.InDelta(t, 38.90, ring[0][0], 1e-9, "lat first")
	assert.InDelta(t, -77.01, ring[0][1], 1e-9)
}

func TestDiscRing_PolygonKindIsNil(t *testing.T) {
	r, err := NewPolygon("square", []geom.Coord{
		{-77.01, 38.90}, {-77.00, 38.90}, {-77.00, 38.91},
	})
	require.NoError(t, err)
	assert.Nil(t, r.DiscRing(16))
}

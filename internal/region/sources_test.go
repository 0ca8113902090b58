package region

import (
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/config"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
)

func TestDefaultRegions(t *testing.T) {
	regions := DefaultRegions()
	require.Len(t, regions, 4)

	assert.Equal(t, "RFK Stadium", regions[0].Name)
	assert.Equal(t, "red", regions[0].Color)
	assert.Equal(t, KindBuffer, regions[0].Kind())
	assert.InDelta(t, 804.67, regions[0].Radius(), 0.001)

	names := []string{regions[1].Name, regions[2].Name, regions[3].Name}
	assert.Equal(t, []string{"Navy Yard", "The Wharf", "Union Market"}, names)
	for _, r := range regions[1:] {
		assert.Equal(t, KindPolygon, r.Kind())
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - name: Stadium Buffer
    color: red
    buffer:
      latitude: 38.890
      longitude: -76.972
      radius_miles: 0.5
  - name: Test Square
    color: blue
    polygon:
      - [-77.01, 38.90]
      - [-77.00, 38.90]
      - [-77.00, 38.91]
      - [-77.01, 38.91]
`), 0o644))

	regions, err := LoadYAML(path)
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.Equal(t, "Stadium Buffer", regions[0].Name)
	assert.Equal(t, KindBuffer, regions[0].Kind())
	assert.InDelta(t, 804.67, regions[0].Radius(), 0.001)

	assert.Equal(t, "Test Square", regions[1].Name)
	assert.Equal(t, "blue", regions[1].Color)
	x, y := geometry.Project(-77.005, 38.905)
	assert.True(t, regions[1].Contains(x, y))
}

func TestLoadYAML_BothKindsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - name: Ambiguous
    buffer:
      latitude: 38.9
      longitude: -77.0
      radius_miles: 1
    polygon:
      - [-77.01, 38.90]
      - [-77.00, 38.90]
      - [-77.00, 38.91]
`), 0o644))

	_, err := LoadYAML(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both buffer and polygon")
}

func TestLoadYAML_NeitherKindRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions:\n  - name: Empty\n"), 0o644))

	_, err := LoadYAML(path)
	require.Error(t, err)
}

func TestLoadYAML_NoRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("regions: []\n"), 0o644))

	_, err := LoadYAML(path)
	require.Error(t, err)
}

func TestLoadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.shp")

	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	w.SetFields([]shp.Field{
		shp.StringField("NAME", 25),
		shp.StringField("COLOR", 10),
	})

	square := shp.NewPolyLine([][]shp.Point{{
		{X: -77.01, Y: 38.90},
		{X: -77.01, Y: 38.91},
		{X: -77.00, Y: 38.91},
		{X: -77.00, Y: 38.90},
		{X: -77.01, Y: 38.90},
	}})
	n := w.Write((*shp.Polygon)(square))
	require.NoError(t, w.WriteAttribute(int(n), 0, "Shape Area"))
	require.NoError(t, w.WriteAttribute(int(n), 1, "orange"))
	w.Close()

	regions, err := LoadShapefile(path)
	require.NoError(t, err)
	require.Len(t, regions, 1)

	assert.Equal(t, "Shape Area", regions[0].Name)
	assert.Equal(t, "orange", regions[0].Color)
	x, y := geometry.Project(-77.005, 38.905)
	assert.True(t, regions[0].Contains(x, y))
}

func TestFromConfig_DefaultsWhenUnset(t *testing.T) {
	regions, err := FromConfig(config.RegionsConfig{})
	require.NoError(t, err)
	assert.Len(t, regions, 4)
}

func TestFromConfig_YAMLWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - name: Only One
    buffer: {latitude: 38.9, longitude: -77.0, radius_miles: 1}
`), 0o644))

	regions, err := FromConfig(config.RegionsConfig{YAMLPath: path, ShapefilePath: "ignored.shp"})
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "Only One", regions[0].Name)
}

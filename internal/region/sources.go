package region

import (
	"os"
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/config"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/geometry"
)

// DefaultRegions returns the built-in DC areas of interest: the RFK Stadium
// half-mile buffer and three fixed neighborhood polygons.
func DefaultRegions() []*Region {
	rfk := NewBuffer("RFK Stadium", 38.890, -76.972, 0.5)
	rfk.Color = "red"

	navyYard := mustPolygon("Navy Yard", "blue", []geom.Coord{
		{-77.0120, 38.8850},
		{-76.9950, 38.8829},
		{-76.9881, 38.8683},
		{-77.0116, 38.8710},
	})
	wharf := mustPolygon("The Wharf", "green", []geom.Coord{
		{-77.03098, 38.88056},
		{-77.01578, 38.88056},
		{-77.01600, 38.86700},
		{-77.03098, 38.86700},
	})
	unionMarket := mustPolygon("Union Market", "purple", []geom.Coord{
		{-77.00400, 38.90190},
		{-76.99300, 38.90190},
		{-76.99300, 38.90858},
		{-77.00400, 38.90858},
	})

	return []*Region{rfk, navyYard, wharf, unionMarket}
}

func mustPolygon(name, color string, ring []geom.Coord) *Region {
	r, err := NewPolygon(name, ring)
	if err != nil {
		panic(err) // built-in coordinates are fixed and valid
	}
	r.Color = color
	return r
}

// yamlFile is the on-disk shape of a regions YAML document. Each entry
// carries exactly one of buffer or polygon.
type yamlFile struct {
	Regions []yamlRegion `yaml:"regions"`
}

type yamlRegion struct {
	Name    string       `yaml:"name"`
	Color   string       `yaml:"color"`
	Buffer  *yamlBuffer  `yaml:"buffer"`
	Polygon [][2]float64 `yaml:"polygon"` // lng, lat pairs
}

type yamlBuffer struct {
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	RadiusMiles float64 `yaml:"radius_miles"`
}

// LoadYAML reads fixed-region definitions from a YAML file.
func LoadYAML(path string) ([]*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: read %s", path)
	}

	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(err, "region: parse %s", path)
	}
	if len(file.Regions) == 0 {
		return nil, eris.Errorf("region: %s defines no regions", path)
	}

	out := make([]*Region, 0, len(file.Regions))
	for _, yr := range file.Regions {
		if yr.Name == "" {
			return nil, eris.Errorf("region: unnamed region in %s", path)
		}
		switch {
		case yr.Buffer != nil && yr.Polygon != nil:
			return nil, eris.Errorf("region: %q defines both buffer and polygon", yr.Name)
		case yr.Buffer != nil:
			r := NewBuffer(yr.Name, yr.Buffer.Latitude, yr.Buffer.Longitude, yr.Buffer.RadiusMiles)
			r.Color = yr.Color
			out = append(out, r)
		case yr.Polygon != nil:
			ring := make([]geom.Coord, 0, len(yr.Polygon))
			for _, c := range yr.Polygon {
				ring = append(ring, geom.Coord{c[0], c[1]})
			}
			r, err := NewPolygon(yr.Name, ring)
			if err != nil {
				return nil, err
			}
			r.Color = yr.Color
			out = append(out, r)
		default:
			return nil, eris.Errorf("region: %q defines neither buffer nor polygon", yr.Name)
		}
	}
	return out, nil
}

// LoadShapefile reads fixed-polygon regions from an ESRI shapefile. The
// NAME attribute is required per record; COLOR is optional.
func LoadShapefile(path string) ([]*Region, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "region: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, "NAME")
	if nameIdx < 0 {
		return nil, eris.New("region: shapefile has no NAME field")
	}
	colorIdx := fieldIndex(reader, "COLOR")

	var out []*Region
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok || poly == nil {
			continue
		}

		name := strings.TrimSpace(reader.Attribute(nameIdx))
		if name == "" {
			continue
		}

		geographic := shpPolygonToGeoms(poly)
		if len(geographic) == 0 {
			zap.L().Warn("region: skipping shapefile record with no usable rings", zap.String("name", name))
			continue
		}

		r, err := newPolygonal(name, KindPolygon, geographic)
		if err != nil {
			return nil, err
		}
		if colorIdx >= 0 {
			r.Color = strings.TrimSpace(reader.Attribute(colorIdx))
		}
		out = append(out, r)
	}

	if len(out) == 0 {
		return nil, eris.Errorf("region: %s yielded no regions", path)
	}
	return out, nil
}

// FromConfig resolves the configured region source: YAML wins over
// shapefile, and the built-in DC set is the fallback.
func FromConfig(cfg config.RegionsConfig) ([]*Region, error) {
	switch {
	case cfg.YAMLPath != "":
		return LoadYAML(cfg.YAMLPath)
	case cfg.ShapefilePath != "":
		return LoadShapefile(cfg.ShapefilePath)
	default:
		return DefaultRegions(), nil
	}
}

// shpPolygonToGeoms converts a shapefile polygon's parts into geographic
// polygons, one per part. Malformed parts are skipped.
func shpPolygonToGeoms(p *shp.Polygon) []*geom.Polygon {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	var out []*geom.Polygon
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		flat = closeRing(flat)
		if len(flat) < 8 {
			continue
		}
		out = append(out, geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(geometry.SRIDGeographic))
	}
	return out
}

// fieldIndex returns the index of a named shapefile field, or -1.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

package export

import (
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/adkf37/DC-Property-Tax-Analysis/internal/model"
	"github.com/adkf37/DC-Property-Tax-Analysis/internal/region"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var mapTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// Fallback map center when no parcel carries a coordinate.
const (
	defaultCenterLat = 38.9072
	defaultCenterLng = -77.0369
)

// Marker is one parcel point on the rendered map.
type Marker struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
}

// Overlay is a region outline drawn on the rendered map.
type Overlay struct {
	Name  string      `json:"name"`
	Color string      `json:"color"`
	Ring  [][]float64 `json:"ring"`
}

type mapData struct {
	Title     string
	CenterLat float64
	CenterLng float64
	Markers   template.JS
	Overlays  template.JS
}

// MapCenter returns the mean coordinate of the geocoded parcels, falling
// back to the DC center when the set is empty.
func MapCenter(parcels []model.ParcelRecord) (lat, lng float64) {
	var sumLat, sumLng float64
	var n int
	for _, p := range parcels {
		if !p.HasLocation {
			continue
		}
		sumLat += p.Latitude
		sumLng += p.Longitude
		n++
	}
	if n == 0 {
		return defaultCenterLat, defaultCenterLng
	}
	return sumLat / float64(n), sumLng / float64(n)
}

// RegionMarkers builds one marker per parcel in each region's filtered
// subset, colored by region, with an SSL/address/value tooltip.
func RegionMarkers(regions []*region.Region, subsets [][]model.ParcelRecord) []Marker {
	var out []Marker
	for i, r := range regions {
		for _, p := range subsets[i] {
			addr := p.Address
			if addr == "" {
				addr = "N/A"
			}
			out = append(out, Marker{
				Lat:     p.Latitude,
				Lng:     p.Longitude,
				Color:   r.Color,
				Tooltip: r.Name + "<br>SSL: " + p.SSL + "<br>" + addr + "<br>Assessed: " + FormatUSD(p.AssessedValue),
			})
		}
	}
	return out
}

// RegionOverlays builds the outline rings for the configured regions in
// geographic coordinates, approximating buffers as 64-segment discs.
func RegionOverlays(regions []*region.Region) []Overlay {
	out := make([]Overlay, 0, len(regions))
	for _, r := range regions {
		out = append(out, Overlay{
			Name:  r.Name,
			Color: r.Color,
			Ring:  r.OutlineRing(64),
		})
	}
	return out
}

// RenderMap writes the static all-locations map document: every region's
// parcels as colored circle markers plus the region outlines.
func RenderMap(w io.Writer, centerLat, centerLng float64, markers []Marker, overlays []Overlay) error {
	mj, err := json.Marshal(markers)
	if err != nil {
		return eris.Wrap(err, "export: marshal markers")
	}
	oj, err := json.Marshal(overlays)
	if err != nil {
		return eris.Wrap(err, "export: marshal overlays")
	}
	data := mapData{
		Title:     "All Parcel Locations",
		CenterLat: centerLat,
		CenterLng: centerLng,
		Markers:   template.JS(mj),
		Overlays:  template.JS(oj),
	}
	return eris.Wrap(mapTemplates.ExecuteTemplate(w, "static_map.html.tmpl", data), "export: render map")
}

// WriteMapFile renders the static map to a file.
func WriteMapFile(path string, centerLat, centerLng float64, markers []Marker, overlays []Overlay) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close() //nolint:errcheck
	return RenderMap(f, centerLat, centerLng, markers, overlays)
}

// RenderDrawPage writes the interactive page served at the web root: a map
// with draw controls wired to the boundary endpoint and the CSV download.
func RenderDrawPage(w io.Writer, centerLat, centerLng float64) error {
	data := mapData{
		Title:     "DC Parcel Explorer",
		CenterLat: centerLat,
		CenterLng: centerLng,
	}
	return eris.Wrap(mapTemplates.ExecuteTemplate(w, "draw_map.html.tmpl", data), "export: render draw page")
}

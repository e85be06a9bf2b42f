package mapdoc

import (
	_ "embed"
	"html/template"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
)

//go:embed map.html.tmpl
var pageSource string

var page = template.Must(template.New("map").Parse(pageSource))

// pageData is what map.html.tmpl renders.
type pageData struct {
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	MarkerCount int
	Bounds      string // "south,west,north,east"; empty leaves the view at the center
	TileURL     string
	Attribution string
	Features    template.JS
}

// Render writes the map as a standalone HTML page. Leaflet and the tiles are
// referenced by URL; the markers are embedded as GeoJSON.
func (d *Document) Render(w io.Writer) error {
	features, err := d.GeoJSON()
	if err != nil {
		return err
	}

	data := pageData{
		Title:       d.Options.Title,
		CenterLat:   d.CenterLat,
		CenterLon:   d.CenterLon,
		Zoom:        d.Options.Zoom,
		MarkerCount: len(d.Markers),
		TileURL:     d.Options.TileURL,
		Attribution: d.Options.Attribution,
		// GeoJSON() output comes from encoding/json, which escapes <, > and &.
		Features: template.JS(features), //nolint:gosec
	}
	if d.Options.FitBounds && len(d.Markers) > 1 {
		data.Bounds = formatBounds(d)
	}

	if err := page.Execute(w, data); err != nil {
		return eris.Wrap(err, "mapdoc: render html")
	}
	return nil
}

// WriteFile renders the map to path, replacing any existing file.
func (d *Document) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "mapdoc: create %s", path)
	}
	if err := d.Render(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrapf(err, "mapdoc: close %s", path)
	}
	return nil
}

func formatBounds(d *Document) string {
	b := d.Bounds()
	if b == nil {
		return ""
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	// Leaflet wants [lat, lon] corners; bounds X is longitude.
	return f(b.Min(1)) + "," + f(b.Min(0)) + "," + f(b.Max(1)) + "," + f(b.Max(0))
}

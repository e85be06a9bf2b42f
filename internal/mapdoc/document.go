// Package mapdoc builds an interactive marker map from geocode results and
// writes it out as a standalone Leaflet HTML page.
package mapdoc

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/mapscrape/internal/model"
)

var (
	// ErrEmptyResultSet means there is no row to center the map on.
	ErrEmptyResultSet = eris.New("mapdoc: empty result set")

	// ErrInvalidCenter means the first row has no coordinates to center on.
	ErrInvalidCenter = eris.New("mapdoc: first row has no coordinates to center the map on")
)

const (
	DefaultZoom        = 13
	DefaultTileURL     = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	DefaultTitle       = "Geocoded addresses"
)

// Options controls the map's presentation.
type Options struct {
	Zoom        int
	TileURL     string
	Attribution string
	Title       string

	// FitBounds zooms the view to enclose every marker after centering.
	FitBounds bool
}

// DefaultOptions returns OpenStreetMap tiles at zoom 13.
func DefaultOptions() Options {
	return Options{
		Zoom:        DefaultZoom,
		TileURL:     DefaultTileURL,
		Attribution: DefaultAttribution,
		Title:       DefaultTitle,
	}
}

// Marker is one pin on the map.
type Marker struct {
	Lat     float64
	Lon     float64
	Popup   string
	Tooltip string
}

// Document is a map ready to render. It is not modified after Build.
type Document struct {
	CenterLat float64
	CenterLon float64
	Options   Options
	Markers   []Marker

	// Skipped counts rows left off the map for lack of coordinates.
	Skipped int
}

// Build centers the map on the first row and adds a marker for every row that
// has coordinates, whatever its status. Rows without coordinates are skipped.
func Build(rs model.ResultSet, opts Options) (*Document, error) {
	if len(rs) == 0 {
		return nil, ErrEmptyResultSet
	}

	lat, lon, ok := rs[0].Coordinates()
	if !ok {
		return nil, eris.Wrapf(ErrInvalidCenter, "mapdoc: first row %q has status %q", rs[0].Address, rs[0].Status)
	}

	if opts.TileURL == "" {
		opts.TileURL = DefaultTileURL
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	doc := &Document{
		CenterLat: lat,
		CenterLon: lon,
		Options:   opts,
		Markers:   make([]Marker, 0, len(rs)),
	}

	for i, r := range rs {
		mlat, mlon, ok := r.Coordinates()
		if !ok {
			zap.L().Debug("mapdoc: skipping row without coordinates",
				zap.Int("row", i+1),
				zap.String("address", r.Address),
				zap.String("status", string(r.Status)),
			)
			doc.Skipped++
			continue
		}
		doc.Markers = append(doc.Markers, Marker{
			Lat:     mlat,
			Lon:     mlon,
			Popup:   r.Address,
			Tooltip: string(r.Status),
		})
	}

	return doc, nil
}

// GeoJSON encodes the markers as a FeatureCollection of points with "popup"
// and "tooltip" properties.
func (d *Document) GeoJSON() ([]byte, error) {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(d.Markers))}
	for _, m := range d.Markers {
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: geom.NewPointFlat(geom.XY, []float64{m.Lon, m.Lat}),
			Properties: map[string]any{
				"popup":   m.Popup,
				"tooltip": m.Tooltip,
			},
		})
	}

	b, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "mapdoc: encode geojson")
	}
	return b, nil
}

// Bounds returns the box enclosing every marker, or nil when there are none.
// X is longitude and Y latitude.
func (d *Document) Bounds() *geom.Bounds {
	if len(d.Markers) == 0 {
		return nil
	}
	b := geom.NewBounds(geom.XY)
	for _, m := range d.Markers {
		b.Extend(geom.NewPointFlat(geom.XY, []float64{m.Lon, m.Lat}))
	}
	return b
}

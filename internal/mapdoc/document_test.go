package mapdoc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/mapscrape/internal/model"
)

func TestBuild_EmptyResultSet(t *testing.T) {
	t.Parallel()

	doc, err := Build(nil, DefaultOptions())
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrEmptyResultSet)

	_, err = Build(model.ResultSet{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyResultSet)
}

func TestBuild_FirstRowWithoutCoordinates(t *testing.T) {
	t.Parallel()

	_, err := Build(model.ResultSet{model.NotFound("##invalid##")}, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCenter))
	assert.Contains(t, err.Error(), "##invalid##")
}

func TestBuild_SingleSuccessRow(t *testing.T) {
	t.Parallel()

	rs := model.ResultSet{model.Success("1600 Amphitheatre Parkway, Mountain View, CA", 37.4220, -122.0841)}

	doc, err := Build(rs, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, 37.4220, doc.CenterLat, 1e-9)
	assert.InDelta(t, -122.0841, doc.CenterLon, 1e-9)
	require.Len(t, doc.Markers, 1)
	assert.Equal(t, Marker{
		Lat:     37.4220,
		Lon:     -122.0841,
		Popup:   "1600 Amphitheatre Parkway, Mountain View, CA",
		Tooltip: "success",
	}, doc.Markers[0])
	assert.Zero(t, doc.Skipped)
}

func TestBuild_SkipsRowsWithoutCoordinates(t *testing.T) {
	t.Parallel()

	lat, lon := 1.0, 2.0
	rs := model.ResultSet{
		model.Success("a", 10, 20),
		model.NotFound("b"),
		model.Failed("c", errors.New("timeout")),
		// Coordinates are plotted whatever the status says.
		{Address: "d", Latitude: &lat, Longitude: &lon, Status: "error: stale"},
		{Address: "e", Latitude: &lat, Status: model.StatusNotFound},
	}

	doc, err := Build(rs, DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Markers, 2)
	assert.Equal(t, "a", doc.Markers[0].Popup)
	assert.Equal(t, "d", doc.Markers[1].Popup)
	assert.Equal(t, "error: stale", doc.Markers[1].Tooltip)
	assert.Equal(t, 3, doc.Skipped)
}

func TestBuild_FillsDefaults(t *testing.T) {
	t.Parallel()

	doc, err := Build(model.ResultSet{model.Success("a", 1, 2)}, Options{Zoom: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, doc.Options.Zoom)
	assert.Equal(t, DefaultTileURL, doc.Options.TileURL)
	assert.Equal(t, DefaultTitle, doc.Options.Title)
}

func TestGeoJSON(t *testing.T) {
	t.Parallel()

	doc, err := Build(model.ResultSet{
		model.Success("<b>a</b>", 37.422, -122.0841),
		model.Success("b", -33.8568, 151.2153),
	}, DefaultOptions())
	require.NoError(t, err)

	b, err := doc.GeoJSON()
	require.NoError(t, err)
	assert.NotContains(t, string(b), "<b>")

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, "Point", fc.Features[0].Geometry.Type)
	assert.InDeltaSlice(t, []float64{-122.0841, 37.422}, fc.Features[0].Geometry.Coordinates, 1e-9)
	assert.Equal(t, "<b>a</b>", fc.Features[0].Properties["popup"])
	assert.Equal(t, "success", fc.Features[0].Properties["tooltip"])
}

func TestBounds(t *testing.T) {
	t.Parallel()

	doc, err := Build(model.ResultSet{
		model.Success("a", 10, -20),
		model.Success("b", -5, 30),
		model.Success("c", 2, 0),
	}, DefaultOptions())
	require.NoError(t, err)

	b := doc.Bounds()
	require.NotNil(t, b)
	assert.InDelta(t, -20.0, b.Min(0), 1e-9)
	assert.InDelta(t, -5.0, b.Min(1), 1e-9)
	assert.InDelta(t, 30.0, b.Max(0), 1e-9)
	assert.InDelta(t, 10.0, b.Max(1), 1e-9)

	assert.Nil(t, (&Document{}).Bounds())
}

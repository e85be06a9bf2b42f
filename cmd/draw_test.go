package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/mapscrape/internal/config"
	"github.com/sells-group/mapscrape/internal/model"
	"github.com/sells-group/mapscrape/internal/resultset"
)

func TestRunDraw_SkipsRowsWithoutCoordinates(t *testing.T) {
	c := testConfig(t.TempDir())
	require.NoError(t, resultset.WriteFile(c.Render.InputFile, model.ResultSet{
		model.Success("a", 25.033, 121.5654),
		model.NotFound("b"),
		model.Success("c", 25.04, 121.56),
	}))

	var out bytes.Buffer
	require.NoError(t, runDraw(c, &out))
	assert.Contains(t, out.String(), "2 markers, 1 rows without coordinates")
	assert.FileExists(t, c.Render.OutputFile)
}

func TestRunDraw_MissingInput(t *testing.T) {
	c := testConfig(t.TempDir())

	err := runDraw(c, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NoFileExists(t, c.Render.OutputFile)
}

func TestApplyDrawFlags(t *testing.T) {
	base := testConfig("/data")

	c := applyDrawFlags(base, drawOpts{Input: "r.csv", Output: "m.html", Zoom: 7, ZoomSet: true, FitBounds: true})
	assert.Equal(t, "r.csv", c.Render.InputFile)
	assert.Equal(t, "m.html", c.Render.OutputFile)
	assert.Equal(t, 7, c.Render.Zoom)
	assert.True(t, c.Render.FitBounds)
	assert.Equal(t, 13, base.Render.Zoom)

	o := mapOptions(c)
	assert.Equal(t, 7, o.Zoom)
	assert.True(t, o.FitBounds)
}

func TestApplyDrawFlags_ZoomZero(t *testing.T) {
	base := testConfig("/data")

	unset := applyDrawFlags(base, drawOpts{})
	assert.Equal(t, 13, unset.Render.Zoom)

	world := applyDrawFlags(base, drawOpts{Zoom: 0, ZoomSet: true})
	assert.Equal(t, 0, world.Render.Zoom)
	require.NoError(t, world.Validate())
}

func TestDrawCmd_ZoomZeroFlag(t *testing.T) {
	c := testConfig(t.TempDir())
	require.NoError(t, resultset.WriteFile(c.Render.InputFile, model.ResultSet{
		model.Success("a", 25.033, 121.5654),
	}))

	prevCfg, prevFlags := cfg, drawFlags
	t.Cleanup(func() {
		cfg, drawFlags = prevCfg, prevFlags
		drawCmd.Flags().Lookup("zoom").Changed = false
	})
	cfg = c

	require.NoError(t, drawCmd.Flags().Set("zoom", "0"))
	require.NoError(t, drawCmd.RunE(drawCmd, nil))

	html, err := os.ReadFile(c.Render.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(html), `data-zoom="0"`)
}

func TestPrintConfig_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(dir)
	c.Log = config.LogConfig{Level: "debug", Format: "console"}

	var buf bytes.Buffer
	require.NoError(t, printConfig(c, &buf))

	var back config.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *c, back)
	assert.Contains(t, buf.String(), "search_selector:")

	// The output is usable as config.yaml.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), buf.Bytes(), 0o644))
}

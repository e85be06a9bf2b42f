package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mapscrape/internal/config"
	"github.com/sells-group/mapscrape/internal/mapdoc"
	"github.com/sells-group/mapscrape/internal/resultset"
)

// drawOpts holds the draw flags; zero values defer to config. Zoom only
// applies when ZoomSet is true since 0 is a valid zoom level.
type drawOpts struct {
	Input     string
	Output    string
	Zoom      int
	ZoomSet   bool
	FitBounds bool
}

var drawFlags drawOpts

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Plot a results CSV as markers on an HTML map",
	Long: `Reads the CSV written by "scrape", centers a map on the first row and adds
one marker per row that has coordinates (popup: address, tooltip: status).
The map is saved as a standalone HTML file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		drawFlags.ZoomSet = cmd.Flags().Changed("zoom")
		c := applyDrawFlags(cfg, drawFlags)
		if err := c.Validate(); err != nil {
			return err
		}
		return runDraw(c, os.Stdout)
	},
}

func init() {
	drawCmd.Flags().StringVarP(&drawFlags.Input, "input", "i", "", "results CSV (default from config: coordinates_results.csv)")
	drawCmd.Flags().StringVarP(&drawFlags.Output, "output", "o", "", "HTML map file (default from config: map.html)")
	drawCmd.Flags().IntVar(&drawFlags.Zoom, "zoom", 0, "initial zoom level (default from config: 13)")
	drawCmd.Flags().BoolVar(&drawFlags.FitBounds, "fit-bounds", false, "zoom to fit every marker")
	rootCmd.AddCommand(drawCmd)
}

// applyDrawFlags returns a copy of c with any set flags layered on top.
func applyDrawFlags(c *config.Config, f drawOpts) *config.Config {
	out := *c
	if f.Input != "" {
		out.Render.InputFile = f.Input
	}
	if f.Output != "" {
		out.Render.OutputFile = f.Output
	}
	if f.ZoomSet {
		out.Render.Zoom = f.Zoom
	}
	if f.FitBounds {
		out.Render.FitBounds = true
	}
	return &out
}

// mapOptions maps config onto the renderer.
func mapOptions(c *config.Config) mapdoc.Options {
	return mapdoc.Options{
		Zoom:        c.Render.Zoom,
		TileURL:     c.Render.TileURL,
		Attribution: c.Render.Attribution,
		Title:       c.Render.Title,
		FitBounds:   c.Render.FitBounds,
	}
}

// runDraw reads the results CSV and writes the HTML map.
func runDraw(c *config.Config, out io.Writer) error {
	rs, err := resultset.ReadFile(c.Render.InputFile)
	if err != nil {
		return err
	}

	doc, err := mapdoc.Build(rs, mapOptions(c))
	if err != nil {
		return err
	}

	if err := doc.WriteFile(c.Render.OutputFile); err != nil {
		return err
	}

	zap.L().Info("map written",
		zap.String("path", c.Render.OutputFile),
		zap.Int("markers", len(doc.Markers)),
		zap.Int("skipped", doc.Skipped),
	)
	fmt.Fprintf(out, "map saved to %s (%d markers, %d rows without coordinates); open it in a browser\n",
		c.Render.OutputFile, len(doc.Markers), doc.Skipped)
	return nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape coordinates, then draw the map",
	Long: `Runs "scrape" followed by "draw". The map is only drawn once the scrape
has finished writing its CSV.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		drawFlags.ZoomSet = cmd.Flags().Changed("zoom")
		c := applyDrawFlags(applyScrapeFlags(cfg, scrapeFlags), drawFlags)
		c.Render.InputFile = c.Batch.OutputFile
		if err := c.Validate(); err != nil {
			return err
		}

		if _, err := runScrape(ctx, c, browserOptions(c).Opener(), scrapeFlags.Limit, os.Stdout); err != nil {
			return err
		}
		return runDraw(c, os.Stdout)
	},
}

func init() {
	runCmd.Flags().StringVarP(&scrapeFlags.Input, "input", "i", "", "address list, one per line (default from config: addresses2.txt)")
	runCmd.Flags().StringVar(&scrapeFlags.Output, "csv", "", "results CSV (default from config: coordinates_results.csv)")
	runCmd.Flags().StringVarP(&drawFlags.Output, "output", "o", "", "HTML map file (default from config: map.html)")
	runCmd.Flags().DurationVar(&scrapeFlags.Delay, "delay", 0, "pause after each address (default from config: 2s)")
	runCmd.Flags().IntVar(&scrapeFlags.Limit, "limit", 0, "max addresses to process (0 = all)")
	runCmd.Flags().BoolVar(&scrapeFlags.Headful, "headful", false, "show the browser window")
	runCmd.Flags().IntVar(&drawFlags.Zoom, "zoom", 0, "initial zoom level (default from config: 13)")
	runCmd.Flags().BoolVar(&drawFlags.FitBounds, "fit-bounds", false, "zoom to fit every marker")
	rootCmd.AddCommand(runCmd)
}

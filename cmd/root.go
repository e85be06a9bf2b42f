package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mapscrape/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mapscrape",
	Short: "Scrape address coordinates from a map search and plot them",
	Long: `Looks each address up in a browser-driven map search, reads the coordinates
the map puts in its URL, saves them to CSV, and draws them on an HTML map.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/mapscrape/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Prints the configuration after merging defaults, config.yaml in the working
directory, and MAPSCRAPE_* environment variables. The output is a valid
config.yaml.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printConfig(cfg, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func printConfig(c *config.Config, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return eris.Wrap(err, "config: encode yaml")
	}
	return enc.Close()
}

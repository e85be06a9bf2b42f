package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/mapscrape/internal/batch"
	"github.com/sells-group/mapscrape/internal/browser"
	"github.com/sells-group/mapscrape/internal/config"
	"github.com/sells-group/mapscrape/internal/model"
	"github.com/sells-group/mapscrape/internal/resolver"
	"github.com/sells-group/mapscrape/internal/resultset"
)

// scrapeOpts holds the scrape flags; zero values defer to config.
type scrapeOpts struct {
	Input   string
	Output  string
	Delay   time.Duration
	Limit   int
	Headful bool
}

var scrapeFlags scrapeOpts

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Look up coordinates for every address in a file",
	Long: `Reads one address per line, searches each one in a headless browser, and
writes address, latitude, longitude and status to a CSV file.

Addresses are processed one at a time with a fixed pause in between.
Interrupting the run (Ctrl-C) still writes the results gathered so far.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := applyScrapeFlags(cfg, scrapeFlags)
		if err := c.Validate(); err != nil {
			return err
		}

		_, err := runScrape(ctx, c, browserOptions(c).Opener(), scrapeFlags.Limit, os.Stdout)
		return err
	},
}

func init() {
	scrapeCmd.Flags().StringVarP(&scrapeFlags.Input, "input", "i", "", "address list, one per line (default from config: addresses2.txt)")
	scrapeCmd.Flags().StringVarP(&scrapeFlags.Output, "output", "o", "", "results CSV (default from config: coordinates_results.csv)")
	scrapeCmd.Flags().DurationVar(&scrapeFlags.Delay, "delay", 0, "pause after each address (default from config: 2s)")
	scrapeCmd.Flags().IntVar(&scrapeFlags.Limit, "limit", 0, "max addresses to process (0 = all)")
	scrapeCmd.Flags().BoolVar(&scrapeFlags.Headful, "headful", false, "show the browser window")
	rootCmd.AddCommand(scrapeCmd)
}

// applyScrapeFlags returns a copy of c with any set flags layered on top.
func applyScrapeFlags(c *config.Config, f scrapeOpts) *config.Config {
	out := *c
	if f.Input != "" {
		out.Batch.AddressesFile = f.Input
	}
	if f.Output != "" {
		out.Batch.OutputFile = f.Output
	}
	if f.Delay > 0 {
		out.Batch.DelayMs = int(f.Delay / time.Millisecond)
	}
	if f.Headful {
		out.Browser.Headless = false
	}
	return &out
}

// browserOptions maps config onto the Chrome launcher.
func browserOptions(c *config.Config) browser.Options {
	return browser.Options{
		ExecPath:      c.Browser.ExecPath,
		Headless:      c.Browser.Headless,
		NoSandbox:     c.Browser.NoSandbox,
		DisableDevShm: c.Browser.DisableDevShm,
		UserAgent:     c.Browser.UserAgent,
	}
}

// resolverOptions maps config onto the coordinate resolver.
func resolverOptions(c *config.Config) resolver.Options {
	return resolver.Options{
		BaseURL:        c.Resolver.BaseURL,
		SearchSelector: c.Resolver.SearchSelector,
		PageLoadWait:   c.Resolver.PageLoadWait(),
		ElementTimeout: c.Resolver.ElementTimeout(),
		SettleWait:     c.Resolver.SettleWait(),
	}
}

// runScrape loads addresses, resolves them on one browser session, writes the
// CSV and prints a summary to out. Results gathered before an interruption
// are still written.
func runScrape(ctx context.Context, c *config.Config, open browser.Opener, limit int, out io.Writer) (model.Summary, error) {
	log := zap.L().With(zap.String("command", "scrape"))

	addrs, err := batch.LoadAddresses(c.Batch.AddressesFile)
	if err != nil {
		if errors.Is(err, batch.ErrAddressFileNotFound) {
			return model.Summary{}, eris.Wrapf(err, "scrape: save the address list, one per line, as %s", c.Batch.AddressesFile)
		}
		return model.Summary{}, err
	}

	if limit > 0 && limit < len(addrs) {
		addrs = addrs[:limit]
	}

	fmt.Fprintf(out, "processing %d addresses...\n", len(addrs))

	var (
		results model.ResultSet
		runErr  error
		sessErr error
	)
	if len(addrs) > 0 {
		sessErr = batch.WithSession(ctx, open, func(s browser.Session) error {
			r := resolver.New(s, resolverOptions(c))
			results, runErr = batch.Run(ctx, r, addrs, batch.Options{Delay: c.Batch.Delay()})
			return nil
		})
		// No session means nothing ran and there is nothing to save.
		if sessErr != nil && results == nil {
			return model.Summary{}, sessErr
		}
	} else {
		log.Warn("no addresses to process", zap.String("input", c.Batch.AddressesFile))
	}

	if err := resultset.WriteFile(c.Batch.OutputFile, results); err != nil {
		return results.Summary(), err
	}

	sum := results.Summary()
	if runErr != nil {
		fmt.Fprintf(out, "interrupted after %d of %d addresses; partial results saved to %s\n", sum.Total, len(addrs), c.Batch.OutputFile)
		return sum, runErr
	}
	if sessErr != nil {
		return sum, sessErr
	}

	fmt.Fprintf(out, "done, results saved to %s\n", c.Batch.OutputFile)
	fmt.Fprintf(out, "succeeded: %d\nfailed: %d\n", sum.Succeeded, sum.Failed)
	return sum, nil
}

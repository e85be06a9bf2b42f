// Package batch runs the coordinate resolver over an address list, one
// address at a time with a fixed pause between lookups.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/sells-group/mapscrape/internal/browser"
	"github.com/sells-group/mapscrape/internal/model"
	"github.com/sells-group/mapscrape/internal/pacing"
)

// Resolver turns one address into a result. Implementations report failures
// in the result's status instead of returning them.
type Resolver interface {
	Resolve(ctx context.Context, address string) model.GeocodeResult
}

// Options configures Run.
type Options struct {
	// Delay is the pause after every lookup, including the last.
	Delay time.Duration

	// Progress receives a progress bar. When nil, a bar is drawn on stderr
	// only if stderr is a terminal; otherwise each address is logged.
	Progress io.Writer

	// Sleep replaces pacing.Sleep; tests use it to skip real pauses.
	Sleep pacing.SleepFunc
}

// Run resolves addrs in order and returns one result per address. If ctx is
// cancelled mid-batch, the results gathered so far are returned together with
// the error so the caller can still persist them.
func Run(ctx context.Context, r Resolver, addrs []string, opts Options) (model.ResultSet, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = pacing.Sleep
	}

	runID := uuid.NewString()
	log := zap.L().With(zap.String("component", "batch"), zap.String("run_id", runID))
	total := len(addrs)
	start := time.Now()

	log.Info("batch: starting", zap.Int("addresses", total), zap.Duration("delay", opts.Delay))

	bar := newProgressBar(total, opts.Progress)

	results := make(model.ResultSet, 0, total)
	for i, addr := range addrs {
		if err := ctx.Err(); err != nil {
			return results, eris.Wrapf(err, "batch: stopped after %d/%d addresses", len(results), total)
		}

		if bar == nil {
			log.Info(fmt.Sprintf("processing address %d/%d", i+1, total), zap.String("address", addr))
		}

		res := r.Resolve(ctx, addr)
		if err := ctx.Err(); err != nil {
			// The lookup in flight was cut short; its status says nothing about the address.
			log.Debug("batch: dropping interrupted lookup", zap.String("address", addr), zap.String("status", string(res.Status)))
			return results, eris.Wrapf(err, "batch: stopped after %d/%d addresses", len(results), total)
		}
		results = append(results, res)

		if bar != nil {
			_ = bar.Add(1)
		} else {
			log.Debug("batch: address done", zap.String("address", res.Address), zap.String("status", string(res.Status)))
		}

		if err := sleep(ctx, opts.Delay); err != nil {
			return results, eris.Wrapf(err, "batch: stopped after %d/%d addresses", len(results), total)
		}
	}

	if bar != nil {
		_ = bar.Finish()
	}

	sum := results.Summary()
	log.Info("batch: complete",
		zap.Int("total", sum.Total),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Duration("elapsed", time.Since(start)),
	)

	return results, nil
}

// newProgressBar returns nil when no bar should be drawn.
func newProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	if w == nil {
		if !isatty.IsTerminal(os.Stderr.Fd()) {
			return nil
		}
		w = os.Stderr
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Geocoding"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// WithSession opens a browser session, hands it to fn and closes it on every
// exit path, including a panic in fn.
func WithSession(ctx context.Context, open browser.Opener, fn func(browser.Session) error) (err error) {
	s, err := open(ctx)
	if err != nil {
		return eris.Wrap(err, "batch: open browser session")
	}

	defer func() {
		if cerr := s.Close(); cerr != nil {
			zap.L().Warn("batch: close browser session", zap.Error(cerr))
			if err == nil {
				err = eris.Wrap(cerr, "batch: close browser session")
			}
		}
	}()

	return fn(s)
}

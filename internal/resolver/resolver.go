// Package resolver turns one address into coordinates by searching for it in a
// browser-driven map application and reading the viewport center the map
// encodes into its URL as "@lat,lon".
package resolver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/mapscrape/internal/browser"
	"github.com/sells-group/mapscrape/internal/model"
	"github.com/sells-group/mapscrape/internal/pacing"
)

// coordPattern matches the viewport center segment of a map URL.
var coordPattern = regexp.MustCompile(`@(-?\d+(?:\.\d+)?),(-?\d+(?:\.\d+)?)`)

// Options configures a Resolver.
type Options struct {
	BaseURL        string
	SearchSelector string
	PageLoadWait   time.Duration // pause after loading BaseURL
	ElementTimeout time.Duration // bound on waiting for the search input
	SettleWait     time.Duration // pause after submitting, for client-side navigation
}

// Resolver looks addresses up one at a time on a single browser session.
type Resolver struct {
	session browser.Session
	opts    Options
	sleep   pacing.SleepFunc
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithSleep replaces the wait function; tests use it to skip real pauses.
func WithSleep(fn pacing.SleepFunc) Option {
	return func(r *Resolver) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// New creates a Resolver bound to session. The session stays owned by the
// caller.
func New(session browser.Session, opts Options, extra ...Option) *Resolver {
	r := &Resolver{
		session: session,
		opts:    opts,
		sleep:   pacing.Sleep,
	}
	for _, o := range extra {
		o(r)
	}
	return r
}

// Resolve returns the outcome for address. It never fails: navigation, wait
// and extraction problems are all reported through the result's status.
func (r *Resolver) Resolve(ctx context.Context, address string) (result model.GeocodeResult) {
	address = strings.TrimSpace(address)
	log := zap.L().With(zap.String("address", address))

	defer func() {
		if p := recover(); p != nil {
			log.Error("resolver: panic during lookup", zap.Any("panic", p))
			result = model.Failed(address, fmt.Errorf("panic: %v", p))
		}
	}()

	loc, err := r.search(ctx, address)
	if err != nil {
		log.Warn("resolver: lookup failed", zap.Error(err))
		return model.Failed(address, err)
	}

	if blocked, kind := browser.DetectBlock(loc); blocked {
		log.Warn("resolver: blocked", zap.String("block_type", string(kind)), zap.String("url", loc))
		return model.Failed(address, eris.Errorf("blocked (%s)", kind))
	}

	lat, lon, ok, err := ExtractCoordinates(loc)
	if err != nil {
		log.Warn("resolver: bad coordinates in url", zap.String("url", loc), zap.Error(err))
		return model.Failed(address, err)
	}
	if !ok {
		log.Info("resolver: coordinates not found", zap.String("url", loc))
		return model.NotFound(address)
	}

	log.Debug("resolver: resolved", zap.Float64("lat", lat), zap.Float64("lon", lon))
	return model.Success(address, lat, lon)
}

// search drives the browser through one lookup and returns the final URL.
func (r *Resolver) search(ctx context.Context, address string) (string, error) {
	if err := r.session.Navigate(ctx, r.opts.BaseURL); err != nil {
		return "", err
	}
	if err := r.sleep(ctx, r.opts.PageLoadWait); err != nil {
		return "", eris.Wrap(err, "resolver: page load wait")
	}

	if err := r.waitForSearchBox(ctx); err != nil {
		return "", err
	}

	if err := r.session.Submit(ctx, r.opts.SearchSelector, address); err != nil {
		return "", err
	}
	if err := r.sleep(ctx, r.opts.SettleWait); err != nil {
		return "", eris.Wrap(err, "resolver: settle wait")
	}

	return r.session.Location(ctx)
}

// waitForSearchBox waits for the search input, bounded by ElementTimeout.
func (r *Resolver) waitForSearchBox(ctx context.Context) error {
	waitCtx := ctx
	if r.opts.ElementTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.opts.ElementTimeout)
		defer cancel()
	}

	err := r.session.WaitReady(waitCtx, r.opts.SearchSelector)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return eris.Errorf("resolver: search input %s not found within %s", r.opts.SearchSelector, r.opts.ElementTimeout)
	}
	return err
}

// ExtractCoordinates pulls the "@lat,lon" viewport center out of a map URL.
// ok is false when the URL carries no such segment; err is set when it does
// but the numbers are unusable.
func ExtractCoordinates(rawURL string) (lat, lon float64, ok bool, err error) {
	m := coordPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return 0, 0, false, nil
	}

	lat, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false, eris.Wrapf(err, "resolver: parse latitude %q", m[1])
	}
	lon, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false, eris.Wrapf(err, "resolver: parse longitude %q", m[2])
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false, eris.Errorf("resolver: coordinates out of range: %s,%s", m[1], m[2])
	}

	return lat, lon, true, nil
}

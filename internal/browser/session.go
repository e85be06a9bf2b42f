// Package browser drives a headless Chrome session through the narrow set of
// actions the coordinate resolver needs: navigate, wait for an element, type a
// query into it, and read back the current URL.
package browser

import (
	"context"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Session is a single exclusively-owned browser tab.
type Session interface {
	// Navigate loads url in the tab and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// WaitReady blocks until the element matching selector is in the DOM.
	// Callers bound the wait through ctx.
	WaitReady(ctx context.Context, selector string) error

	// Submit clears the element matching selector, types text into it and
	// presses Enter. Text goes through the browser's own input path.
	Submit(ctx context.Context, selector, text string) error

	// Location returns the tab's current URL.
	Location(ctx context.Context) (string, error)

	// Close releases the tab and the browser process behind it.
	Close() error
}

// Opener starts a new Session.
type Opener func(ctx context.Context) (Session, error)

// Options configures the Chrome process.
type Options struct {
	ExecPath      string
	Headless      bool
	NoSandbox     bool
	DisableDevShm bool
	UserAgent     string
}

// ChromeSession implements Session on top of chromedp.
type ChromeSession struct {
	ctx         context.Context // tab context; every action runs under it
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
}

// allocatorOptions translates Options into chromedp exec allocator flags.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	out = append(out, chromedp.Flag("headless", opts.Headless))
	if opts.NoSandbox {
		out = append(out, chromedp.NoSandbox)
	}
	if opts.DisableDevShm {
		out = append(out, chromedp.Flag("disable-dev-shm-usage", true))
	}
	if opts.UserAgent != "" {
		out = append(out, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	return out
}

// NewChromeSession launches Chrome and opens a tab. The browser lives until
// Close is called; ctx is only used for its values, not its cancellation.
func NewChromeSession(ctx context.Context, opts Options) (*ChromeSession, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocatorOptions(opts)...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	s := &ChromeSession{ctx: tabCtx, cancelTab: cancelTab, cancelAlloc: cancelAlloc}

	// The first Run allocates the browser and must use the tab context itself:
	// cancelling a context derived for that call would kill the process.
	if err := chromedp.Run(tabCtx); err != nil {
		_ = s.Close()
		return nil, eris.Wrap(err, "browser: start chrome")
	}

	zap.L().Debug("browser: chrome session started",
		zap.Bool("headless", opts.Headless),
		zap.String("exec_path", opts.ExecPath),
	)
	return s, nil
}

// Opener returns an Opener that launches Chrome with opts.
func (o Options) Opener() Opener {
	return func(ctx context.Context) (Session, error) {
		return NewChromeSession(ctx, o)
	}
}

// Navigate implements Session.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	if err := s.run(ctx, chromedp.Navigate(url)); err != nil {
		return eris.Wrapf(err, "browser: navigate to %s", url)
	}
	return nil
}

// WaitReady implements Session.
func (s *ChromeSession) WaitReady(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.WaitReady(selector, chromedp.ByQuery)); err != nil {
		return eris.Wrapf(err, "browser: wait for %s", selector)
	}
	return nil
}

// Submit implements Session.
func (s *ChromeSession) Submit(ctx context.Context, selector, text string) error {
	err := s.run(ctx,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
		chromedp.SendKeys(selector, kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return eris.Wrapf(err, "browser: submit to %s", selector)
	}
	return nil
}

// Location implements Session.
func (s *ChromeSession) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", eris.Wrap(err, "browser: read location")
	}
	return loc, nil
}

// Close implements Session. It is safe to call more than once.
func (s *ChromeSession) Close() error {
	var err error
	if s.cancelTab != nil {
		if cerr := chromedp.Cancel(s.ctx); cerr != nil && !eris.Is(cerr, context.Canceled) {
			err = eris.Wrap(cerr, "browser: close tab")
		}
		s.cancelTab()
		s.cancelTab = nil
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
		s.cancelAlloc = nil
	}
	return err
}

// run executes actions on the tab, honoring cancellation of the caller's ctx.
// The tab context itself is never cancelled here, so a timed-out action does
// not tear down the browser.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

// Package browsertest provides a scripted browser.Session for tests.
package browsertest

import (
	"context"
	"sync"

	"github.com/sells-group/mapscrape/internal/browser"
)

var _ browser.Session = (*Session)(nil)

// Session is a fake browser.Session. LocationFor decides the URL the tab lands
// on after a query is submitted; the per-step error fields inject failures.
type Session struct {
	mu sync.Mutex

	LocationFor func(query string) string

	NavigateErr error
	WaitErr     error
	SubmitErr   error
	LocationErr error
	CloseErr    error

	// BlockWait makes WaitReady block until its context is done.
	BlockWait bool

	Navigated []string
	Submitted []string
	Closed    int

	current string
}

// Navigate implements browser.Session.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Navigated = append(s.Navigated, url)
	if s.NavigateErr != nil {
		return s.NavigateErr
	}
	s.current = url
	return nil
}

// WaitReady implements browser.Session.
func (s *Session) WaitReady(ctx context.Context, _ string) error {
	if s.BlockWait {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.WaitErr
}

// Submit implements browser.Session.
func (s *Session) Submit(_ context.Context, _ string, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submitted = append(s.Submitted, text)
	if s.SubmitErr != nil {
		return s.SubmitErr
	}
	if s.LocationFor != nil {
		s.current = s.LocationFor(text)
	}
	return nil
}

// Location implements browser.Session.
func (s *Session) Location(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LocationErr != nil {
		return "", s.LocationErr
	}
	return s.current, nil
}

// Close implements browser.Session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed++
	return s.CloseErr
}

// Opener returns a browser.Opener that hands out s.
func (s *Session) Opener() browser.Opener {
	return func(_ context.Context) (browser.Session, error) {
		return s, nil
	}
}

// Locations returns a LocationFor that looks queries up in m and falls back
// to base for unknown queries.
func Locations(base string, m map[string]string) func(string) string {
	return func(q string) string {
		if loc, ok := m[q]; ok {
			return loc
		}
		return base
	}
}

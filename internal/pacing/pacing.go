// Package pacing holds the fixed waits used to keep browser traffic polite.
package pacing

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, whichever comes first. It returns
// ctx.Err() when cut short. Non-positive durations return immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SleepFunc matches Sleep; components take one so tests can skip real waits.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Recorder is a SleepFunc that records requested durations without waiting.
type Recorder struct {
	Calls []time.Duration
}

// Sleep records d and returns ctx.Err().
func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.Calls = append(r.Calls, d)
	return ctx.Err()
}

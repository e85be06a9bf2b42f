package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleep_Completes(t *testing.T) {
	t.Parallel()

	start := time.Now()
	err := Sleep(context.Background(), 20*time.Millisecond)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestSleep_ZeroReturnsImmediately(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Sleep(context.Background(), 0))
	assert.NoError(t, Sleep(context.Background(), -time.Second))
}

func TestSleep_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)

	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	var r Recorder
	var fn SleepFunc = r.Sleep
	assert.NoError(t, fn(context.Background(), time.Second))
	assert.NoError(t, fn(context.Background(), 2*time.Second))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, r.Calls)
}

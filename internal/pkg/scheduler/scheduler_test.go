package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cleaner struct {
	calls  atomic.Int32
	maxAge time.Duration
	err    error
}

func (c *cleaner) CleanupExpired(_ context.Context, maxAge time.Duration) (int, error) {
	c.calls.Add(1)
	c.maxAge = maxAge
	return 3, c.err
}

func TestPreviewCleanup(t *testing.T) {
	c := &cleaner{}
	PreviewCleanup(c, 72*time.Hour)(context.Background())
	assert.Equal(t, int32(1), c.calls.Load())
	assert.Equal(t, 72*time.Hour, c.maxAge)

	c.err = errors.New("disk gone")
	PreviewCleanup(c, time.Hour)(context.Background())
	assert.Equal(t, int32(2), c.calls.Load())
}

func TestSchedulerRunsJobs(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	var runs atomic.Int32
	require.NoError(t, s.Every("tick", 20*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}))
	s.Start()

	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())
}

func TestShutdownCancelsJobContext(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	started := make(chan struct{})
	var once atomic.Bool
	require.NoError(t, s.Every("block", 10*time.Millisecond, func(ctx context.Context) {
		if once.CompareAndSwap(false, true) {
			close(started)
		}
		<-ctx.Done()
	}))
	s.Start()

	<-started
	assert.NoError(t, s.Shutdown())
}

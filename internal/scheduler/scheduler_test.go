package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"arena-league/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsRunAndStop(t *testing.T) {
	var runs, failures atomic.Int64
	s, err := newScheduler([]Job{
		{
			Name:  "counter",
			Every: 20 * time.Millisecond,
			Run: func(ctx context.Context, now time.Time) (service.BatchReport, error) {
				assert.Equal(t, time.UTC, now.Location())
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				runs.Add(1)
				return service.BatchReport{Due: 1, Completed: 1}, nil
			},
		},
		{
			Name:  "broken",
			Every: 20 * time.Millisecond,
			Run: func(context.Context, time.Time) (service.BatchReport, error) {
				failures.Add(1)
				return service.BatchReport{}, errors.New("boom")
			},
		},
	}, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 && failures.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())

	stopped := runs.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load(), "no runs after stop")
}

func TestStopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	var cancelled atomic.Bool
	s, err := newScheduler([]Job{{
		Name:  "slow",
		Every: time.Hour,
		Run: func(ctx context.Context, _ time.Time) (service.BatchReport, error) {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
			return service.BatchReport{}, ctx.Err()
		},
	}}, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	<-started
	require.NoError(t, s.Stop())
	assert.True(t, cancelled.Load())
}

func TestRejectsInvalidInterval(t *testing.T) {
	_, err := newScheduler([]Job{{Name: "never", Every: 0, Run: nil}}, zerolog.Nop())
	assert.Error(t, err)
}

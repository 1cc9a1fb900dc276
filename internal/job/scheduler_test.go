package job_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/job"
	"github.com/zcrawl/zcrawl/internal/sources"
)

func noopRun(context.Context, sources.Config) error { return nil }

func TestScheduleRegistersTriggers(t *testing.T) {
	t.Parallel()

	s, err := job.NewScheduler(noopRun, nil)
	require.NoError(t, err)

	src := sources.Config{Name: "bong_da", Time: []string{"06:30", "18:00"}}
	require.NoError(t, s.Schedule(src))

	entries := s.Entries()
	require.Len(t, entries, 2)

	specs := make(map[string]job.Entry, len(entries))
	for _, e := range entries {
		specs[e.Spec] = e
		assert.Equal(t, "bong_da", e.Source)
		assert.False(t, e.Next.IsZero())
		assert.True(t, e.Next.After(time.Now()))
		assert.True(t, e.Next.Before(time.Now().Add(24*time.Hour+time.Minute)))
	}
	assert.Contains(t, specs, "30 6 * * *")
	assert.Contains(t, specs, "0 18 * * *")
}

func TestScheduleRejectsBadSources(t *testing.T) {
	t.Parallel()

	s, err := job.NewScheduler(noopRun, nil)
	require.NoError(t, err)

	err = s.Schedule(sources.Config{Name: "bong_da", Time: []string{"25:00"}})
	assert.ErrorContains(t, err, "invalid schedule time")

	err = s.Schedule(sources.Config{Name: "bong_da"})
	assert.ErrorContains(t, err, "no schedule times")

	err = s.Schedule(sources.Config{Time: []string{"06:00"}})
	assert.ErrorContains(t, err, "name cannot be empty")
}

func TestNewSchedulerRequiresRunFunc(t *testing.T) {
	t.Parallel()

	_, err := job.NewScheduler(nil, nil)
	assert.ErrorContains(t, err, "run function cannot be nil")
}

func TestRunNowInvokesRun(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	var gotName atomic.Value
	s, err := job.NewScheduler(func(ctx context.Context, src sources.Config) error {
		require.NotNil(t, ctx)
		calls.Add(1)
		gotName.Store(src.Name)
		return nil
	}, nil)
	require.NoError(t, err)

	s.RunNow(sources.Config{Name: "bong_da", Time: []string{"06:00"}})

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "bong_da", gotName.Load())
}

func TestRunNowSkipsOverlappingTrigger(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	s, err := job.NewScheduler(func(context.Context, sources.Config) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	}, nil)
	require.NoError(t, err)

	src := sources.Config{Name: "bong_da", Time: []string{"06:00"}}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.RunNow(src)
	}()

	<-started
	s.RunNow(src)
	assert.Equal(t, int32(1), calls.Load())

	close(release)
	wg.Wait()

	// The guard clears once the first crawl returns.
	s.RunNow(src)
	assert.Equal(t, int32(2), calls.Load())
}

func TestStopCancelsInFlightCrawl(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var cancelled atomic.Bool

	s, err := job.NewScheduler(func(ctx context.Context, _ sources.Config) error {
		close(started)
		<-ctx.Done()
		cancelled.Store(true)
		return ctx.Err()
	}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.RunNow(sources.Config{Name: "bong_da", Time: []string{"06:00"}})
	}()

	<-started
	require.NoError(t, s.Stop(context.Background()))
	wg.Wait()

	assert.True(t, cancelled.Load())
}

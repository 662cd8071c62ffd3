package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s := New(cfg, zap.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func TestNew_AppliesDefaults(t *testing.T) {
	s := New(Config{RetryAttempts: 1}, zap.NewNop())
	assert.Equal(t, 2, s.config.Workers)
	assert.Equal(t, 100, s.config.QueueSize)
	assert.Equal(t, time.Minute, s.config.JobTimeout)
	assert.Equal(t, 1, s.config.RetryAttempts)
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob(Task{Name: "noop"}, 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	require.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, "boom", job.Error)
	assert.True(t, job.ShouldRetry())

	job.RetryCount = 1
	assert.False(t, job.ShouldRetry())

	job.Start()
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
	assert.Empty(t, job.Error)
}

func TestScheduler_RunsSubmittedTasks(t *testing.T) {
	s := startScheduler(t, Config{Workers: 2})

	var runs atomic.Int32
	task := Task{Name: "count", Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}}
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Submit(task))
	}

	assert.Eventually(t, func() bool { return runs.Load() == 5 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_RetriesFailedTasks(t *testing.T) {
	s := startScheduler(t, Config{Workers: 1, RetryAttempts: 2, RetryDelay: 10 * time.Millisecond})

	var attempts atomic.Int32
	require.NoError(t, s.Submit(Task{Name: "flaky", Run: func(context.Context) error {
		if attempts.Add(1) < 3 {
			return errors.New("not yet")
		}
		return nil
	}}))

	assert.Eventually(t, func() bool { return attempts.Load() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := startScheduler(t, Config{Workers: 1, JobTimeout: 20 * time.Millisecond})

	done := make(chan error, 1)
	require.NoError(t, s.Submit(Task{Name: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}}))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task was not cancelled")
	}
}

func TestScheduler_SubmitErrors(t *testing.T) {
	s := New(Config{Workers: 1, QueueSize: 1}, zap.NewNop())
	assert.ErrorIs(t, s.Submit(Task{Name: "early"}), ErrSchedulerNotRunning)

	// Started but with the queue already filled by a blocked worker.
	require.NoError(t, s.Start(context.Background()))
	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.Submit(Task{Name: "block", Run: func(context.Context) error {
		close(started)
		<-release
		return nil
	}}))
	<-started
	require.NoError(t, s.Submit(Task{Name: "queued", Run: func(context.Context) error { return nil }}))
	assert.ErrorIs(t, s.Submit(Task{Name: "overflow"}), ErrJobQueueFull)

	close(release)
	require.NoError(t, s.Stop(context.Background()))
	assert.ErrorIs(t, s.Submit(Task{Name: "late"}), ErrSchedulerNotRunning)
}

func TestPeriodicTrigger(t *testing.T) {
	s := startScheduler(t, Config{Workers: 1})

	var runs atomic.Int32
	trigger := NewPeriodicTrigger(20*time.Millisecond, s, zap.NewNop(), Task{Name: "tick", Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})
	require.NoError(t, trigger.Start(context.Background()))

	// One run at start plus at least two ticks.
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))

	after := runs.Load()
	time.Sleep(60 * time.Millisecond)
	assert.LessOrEqual(t, runs.Load(), after+1)
}

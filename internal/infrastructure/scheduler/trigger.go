package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PeriodicTrigger submits the same tasks every interval, and once at start
type PeriodicTrigger struct {
	interval  time.Duration
	tasks     []Task
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewPeriodicTrigger creates a trigger feeding scheduler
func NewPeriodicTrigger(interval time.Duration, scheduler *Scheduler, logger *zap.Logger, tasks ...Task) *PeriodicTrigger {
	return &PeriodicTrigger{
		interval:  interval,
		tasks:     tasks,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start begins the trigger loop
func (t *PeriodicTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Periodic trigger started",
		zap.Duration("interval", t.interval),
		zap.Int("tasks", len(t.tasks)))
	return nil
}

// Stop ends the trigger loop
func (t *PeriodicTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Fire submits every task now
func (t *PeriodicTrigger) Fire() {
	for _, task := range t.tasks {
		if err := t.scheduler.Submit(task); err != nil {
			level := zap.WarnLevel
			if errors.Is(err, ErrSchedulerNotRunning) {
				level = zap.DebugLevel
			}
			t.logger.Log(level, "Failed to submit task", zap.String("task", task.Name), zap.Error(err))
		}
	}
}

func (t *PeriodicTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	t.Fire()
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Fire()
		}
	}
}

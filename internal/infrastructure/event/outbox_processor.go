package event

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// OutboxProcessor drains the outbox into the event bus in the background
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	publisher  shared.EventPublisher
	serializer *EventSerializer
	config     config.OutboxConfig
	logger     *zap.Logger
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOutboxProcessor creates a new OutboxProcessor
func NewOutboxProcessor(
	repo shared.OutboxRepository,
	publisher shared.EventPublisher,
	serializer *EventSerializer,
	cfg config.OutboxConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	return &OutboxProcessor{
		repo:       repo,
		publisher:  publisher,
		serializer: serializer,
		config:     cfg,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the poll and cleanup loops
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(2)
	go p.loop(ctx, p.config.PollInterval, func(ctx context.Context) { p.ProcessOnce(ctx) })
	go p.loop(ctx, p.config.CleanupInterval, p.cleanup)

	p.logger.Info("Outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for the current batch, bounded by ctx
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.logger.Info("Outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) loop(ctx context.Context, interval time.Duration, tick func(context.Context)) {
	defer p.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// ProcessOnce claims one batch of due entries and delivers it. It returns the
// number of entries delivered successfully.
func (p *OutboxProcessor) ProcessOnce(ctx context.Context) int {
	entries, err := p.repo.ClaimDue(ctx, p.now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("Failed to claim outbox entries", zap.Error(err))
		return 0
	}
	sent := 0
	for _, entry := range entries {
		if p.deliver(ctx, entry) {
			sent++
		}
	}
	return sent
}

func (p *OutboxProcessor) deliver(ctx context.Context, entry *shared.OutboxEntry) bool {
	fields := []zap.Field{
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	}

	ev, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err == nil {
		err = p.publisher.Publish(ctx, ev)
	}
	if err != nil {
		entry.MarkFailed(err.Error(), p.now())
		if entry.Status == shared.OutboxStatusDead {
			p.logger.Warn("Outbox entry moved to dead letter",
				append(fields, zap.Int("retry_count", entry.RetryCount), zap.String("last_error", entry.LastError))...)
		} else {
			p.logger.Error("Failed to deliver event", append(fields, zap.Error(err))...)
		}
		if uerr := p.repo.Update(ctx, entry); uerr != nil {
			p.logger.Error("Failed to update outbox entry", append(fields, zap.Error(uerr))...)
		}
		return false
	}

	entry.MarkSent(p.now())
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("Failed to mark outbox entry sent", append(fields, zap.Error(err))...)
		return false
	}
	p.logger.Debug("Event delivered", fields...)
	return true
}

func (p *OutboxProcessor) cleanup(ctx context.Context) {
	cutoff := p.now().Add(-p.config.Retention)
	deleted, err := p.repo.DeleteSentBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("Failed to purge outbox", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("Purged delivered outbox entries", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
}

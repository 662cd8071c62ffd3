package event

import (
	"context"

	"github.com/storefront/backend/internal/domain/shared"
)

// OutboxRecorder writes domain events to the outbox. Called inside a unit of
// work, the entries commit or roll back together with the aggregate.
type OutboxRecorder struct {
	repo       shared.OutboxRepository
	serializer *EventSerializer
}

// NewOutboxRecorder creates a new OutboxRecorder
func NewOutboxRecorder(repo shared.OutboxRepository, serializer *EventSerializer) *OutboxRecorder {
	return &OutboxRecorder{repo: repo, serializer: serializer}
}

// Record serializes events and saves them as pending outbox entries
func (r *OutboxRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, ev := range events {
		payload, err := r.serializer.Serialize(ev)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(ev, payload))
	}
	return r.repo.Save(ctx, entries...)
}

// Ensure OutboxRecorder implements EventRecorder
var _ shared.EventRecorder = (*OutboxRecorder)(nil)

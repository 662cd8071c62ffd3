package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
)

// OutboxEntry is a domain event written in the same transaction as the
// aggregate change and delivered to the event bus afterwards.
type OutboxEntry struct {
	ID            uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOutboxEntry wraps a serialized event
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// MarkSent records successful delivery
func (e *OutboxEntry) MarkSent(now time.Time) {
	e.Status = OutboxStatusSent
	e.ProcessedAt = &now
	e.NextRetryAt = nil
	e.UpdatedAt = now
}

// MarkFailed records a failed delivery and schedules a retry with exponential
// backoff (1s, 2s, 4s, ...). Once MaxRetries is reached the entry is dead.
func (e *OutboxEntry) MarkFailed(errMsg string, now time.Time) {
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = now
	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}
	e.Status = OutboxStatusFailed
	next := now.Add(DefaultBaseBackoff << uint(e.RetryCount-1))
	e.NextRetryAt = &next
}

// ResetForRetry puts a dead entry back in the queue
func (e *OutboxEntry) ResetForRetry(now time.Time) error {
	if e.Status != OutboxStatusDead {
		return NewDomainError("INVALID_STATE", "Only dead outbox entries can be retried")
	}
	e.Status = OutboxStatusPending
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	e.UpdatedAt = now
	return nil
}

// EventRecorder stores events in the ambient transaction of ctx
type EventRecorder interface {
	Record(ctx context.Context, events ...DomainEvent) error
}

// OutboxRepository persists outbox entries
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// ClaimDue marks up to limit pending entries, and failed entries whose
	// retry time has passed, as processing and returns them
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	FindByStatus(ctx context.Context, status OutboxStatus, filter Filter) ([]*OutboxEntry, int64, error)
	// DeleteSentBefore purges delivered entries processed before t
	DeleteSentBefore(ctx context.Context, t time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}

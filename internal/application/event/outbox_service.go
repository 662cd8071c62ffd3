// Package event exposes outbox inspection and dead-letter recovery to staff
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultOutboxPageSize = 20
	maxOutboxPageSize     = 100
)

// OutboxService handles outbox event management operations
type OutboxService struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewOutboxService creates a new outbox service
func NewOutboxService(repo shared.OutboxRepository, logger *zap.Logger) *OutboxService {
	return &OutboxService{repo: repo, logger: logger}
}

// OutboxEntryDTO is the staff view of an outbox entry
type OutboxEntryDTO struct {
	ID            uuid.UUID  `json:"id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// OutboxQuery pages through entries of one status
type OutboxQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PROCESSING SENT FAILED DEAD"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// OutboxStatsDTO counts entries per status
type OutboxStatsDTO struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// List returns entries with the requested status, dead letters by default
func (s *OutboxService) List(ctx context.Context, q OutboxQuery) (*shared.Paginated[OutboxEntryDTO], error) {
	status := shared.OutboxStatusDead
	if q.Status != "" {
		status = shared.OutboxStatus(q.Status)
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = defaultOutboxPageSize
	}
	if pageSize > maxOutboxPageSize {
		pageSize = maxOutboxPageSize
	}
	filter := shared.PageFilter(q.Page, pageSize)
	filter.OrderBy = "created_at"
	filter.OrderDir = "desc"

	entries, total, err := s.repo.FindByStatus(ctx, status, filter)
	if err != nil {
		s.logger.Error("Failed to list outbox entries", zap.String("status", string(status)), zap.Error(err))
		return nil, err
	}
	items := make([]OutboxEntryDTO, len(entries))
	for i, entry := range entries {
		items[i] = toOutboxEntryDTO(entry)
	}
	page := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &page, nil
}

// Get returns one entry
func (s *OutboxService) Get(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// Retry puts one dead entry back in the delivery queue
func (s *OutboxService) Retry(ctx context.Context, id uuid.UUID) (*OutboxEntryDTO, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(shared.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		s.logger.Error("Failed to update outbox entry", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Dead letter entry reset for retry",
		zap.String("id", id.String()),
		zap.String("event_type", entry.EventType))
	dto := toOutboxEntryDTO(entry)
	return &dto, nil
}

// RetryAll requeues every dead entry and returns how many were reset
func (s *OutboxService) RetryAll(ctx context.Context) (int64, error) {
	var count int64
	// reset entries leave the DEAD status, so page one always holds the next batch
	filter := shared.PageFilter(1, maxOutboxPageSize)
	for {
		entries, _, err := s.repo.FindByStatus(ctx, shared.OutboxStatusDead, filter)
		if err != nil {
			return count, err
		}
		if len(entries) == 0 {
			break
		}
		reset := 0
		now := shared.Now()
		for _, entry := range entries {
			if err := entry.ResetForRetry(now); err != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				s.logger.Error("Failed to update outbox entry", zap.String("id", entry.ID.String()), zap.Error(err))
				continue
			}
			reset++
		}
		count += int64(reset)
		if reset == 0 || len(entries) < maxOutboxPageSize {
			break
		}
	}
	s.logger.Info("Retried dead letter entries", zap.Int64("count", count))
	return count, nil
}

// Stats counts entries per status
func (s *OutboxService) Stats(ctx context.Context) (*OutboxStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to get outbox stats", zap.Error(err))
		return nil, err
	}
	stats := &OutboxStatsDTO{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
	}
	stats.Total = stats.Pending + stats.Processing + stats.Sent + stats.Failed + stats.Dead
	return stats, nil
}

func toOutboxEntryDTO(e *shared.OutboxEntry) OutboxEntryDTO {
	return OutboxEntryDTO{
		ID:            e.ID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

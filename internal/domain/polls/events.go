package polls

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	AggregateTypeQuestion      = "Question"
	EventTypeQuestionPublished = "QuestionPublished"
)

// QuestionPublishedEvent is published when a question is created
type QuestionPublishedEvent struct {
	shared.BaseDomainEvent
	QuestionID uuid.UUID `json:"question_id"`
	CreatedBy  uuid.UUID `json:"created_by"`
}

// NewQuestionPublishedEvent creates a new QuestionPublishedEvent
func NewQuestionPublishedEvent(q *Question) *QuestionPublishedEvent {
	return &QuestionPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuestionPublished, AggregateTypeQuestion, q.ID),
		QuestionID:      q.ID,
		CreatedBy:       q.CreatedBy,
	}
}

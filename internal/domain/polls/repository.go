package polls

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Question filter keys
const (
	FilterCategoryID     = "category_id"
	FilterTagID          = "tag_id"
	FilterActive         = "active"
	FilterPublishedYear  = "published_year"
	FilterPublishedMonth = "published_month"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Create stores a category; a taken name is ErrAlreadyExists
	Create(ctx context.Context, category *Category) error
	// Delete removes the category and its questions
	Delete(ctx context.Context, id uuid.UUID) error
}

// PollTagRepository defines the interface for poll tag persistence
type PollTagRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PollTag, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PollTag, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Create(ctx context.Context, tag *PollTag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestionRepository defines the interface for question persistence
type QuestionRepository interface {
	// FindByID loads a question with its choices
	FindByID(ctx context.Context, id uuid.UUID) (*Question, error)
	// FindAll lists questions with their choices
	FindAll(ctx context.Context, filter shared.Filter) ([]Question, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save creates or updates the question and inserts new choices
	Save(ctx context.Context, question *Question) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteChoice(ctx context.Context, questionID, choiceID uuid.UUID) error
}

// VoteRepository defines the interface for ballots
type VoteRepository interface {
	// HasVoted reports whether the voter already picked any of the choices
	HasVoted(ctx context.Context, voter Voter, choiceIDs []uuid.UUID) (bool, error)
	// Cast stores the votes and increments each choice counter in one transaction.
	// A unique violation is ErrAlreadyExists.
	Cast(ctx context.Context, votes []Vote) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	FindByID(ctx context.Context, questionID, id uuid.UUID) (*Comment, error)
	FindByQuestion(ctx context.Context, questionID uuid.UUID, filter shared.Filter) ([]Comment, error)
	CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)
	Create(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, questionID, id uuid.UUID) error
}

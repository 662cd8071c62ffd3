package polls

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/polls"
)

// NameRequest creates a category or a poll tag
type NameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// NamedResponse is a category or a poll tag
type NamedResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionRequest creates or replaces a question. Choices are only read on create.
type QuestionRequest struct {
	QuestionText        string     `json:"question_text" binding:"required,max=255"`
	ExpiryDate          *time.Time `json:"expiry_date"`
	IsActive            *bool      `json:"is_active"`
	AllowMultipleChoice bool       `json:"allow_multiple_choice"`
	CategoryID          uuid.UUID  `json:"category_id" binding:"required"`
	TagID               uuid.UUID  `json:"tag_id" binding:"required"`
	Choices             []string   `json:"choices" binding:"omitempty,dive,required,max=200"`
}

func (r QuestionRequest) toInput() polls.QuestionInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return polls.QuestionInput{
		QuestionText:        r.QuestionText,
		ExpiryDate:          r.ExpiryDate,
		IsActive:            active,
		AllowMultipleChoice: r.AllowMultipleChoice,
		CategoryID:          r.CategoryID,
		TagID:               r.TagID,
	}
}

// ChoiceRequest adds a choice to a question
type ChoiceRequest struct {
	ChoiceText string `json:"choice_text" binding:"required,max=200"`
}

// VoteRequest is a ballot
type VoteRequest struct {
	ChoiceIDs []uuid.UUID `json:"choice_ids" binding:"required,min=1"`
}

// CommentRequest posts a comment
type CommentRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// QuestionListQuery holds the question list query string
type QuestionListQuery struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string     `form:"search"`
	CategoryID *uuid.UUID `form:"-"`
	TagID      *uuid.UUID `form:"-"`
	Active     *bool      `form:"active"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=published_date question_text expiry_date"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ChoiceResponse is one answer option
type ChoiceResponse struct {
	ID         uuid.UUID `json:"id"`
	ChoiceText string    `json:"choice_text"`
	Votes      int       `json:"votes"`
}

// QuestionResponse represents a question with its choices
type QuestionResponse struct {
	ID                  uuid.UUID        `json:"id"`
	QuestionText        string           `json:"question_text"`
	PublishedDate       time.Time        `json:"published_date"`
	ExpiryDate          *time.Time       `json:"expiry_date"`
	HasExpired          bool             `json:"has_expired"`
	CreatedBy           uuid.UUID        `json:"created_by"`
	IsActive            bool             `json:"is_active"`
	AllowMultipleChoice bool             `json:"allow_multiple_choice"`
	CategoryID          uuid.UUID        `json:"category_id"`
	TagID               uuid.UUID        `json:"tag_id"`
	Choices             []ChoiceResponse `json:"choices"`
}

// ChoiceResult is a choice with its share of the vote
type ChoiceResult struct {
	ID         uuid.UUID       `json:"id"`
	ChoiceText string          `json:"choice_text"`
	Votes      int             `json:"votes"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ResultsResponse summarises the votes of a question
type ResultsResponse struct {
	QuestionID   uuid.UUID      `json:"question_id"`
	QuestionText string         `json:"question_text"`
	TotalVotes   int            `json:"total_votes"`
	Choices      []ChoiceResult `json:"choices"`
}

// CommentResponse represents a comment
type CommentResponse struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	UserID     uuid.UUID `json:"user_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToQuestionResponse converts a domain question
func ToQuestionResponse(q *polls.Question, now time.Time) QuestionResponse {
	choices := make([]ChoiceResponse, len(q.Choices))
	for i := range q.Choices {
		choices[i] = ChoiceResponse{ID: q.Choices[i].ID, ChoiceText: q.Choices[i].ChoiceText, Votes: q.Choices[i].Votes}
	}
	return QuestionResponse{
		ID:                  q.ID,
		QuestionText:        q.QuestionText,
		PublishedDate:       q.PublishedDate,
		ExpiryDate:          q.ExpiryDate,
		HasExpired:          q.HasExpired(now),
		CreatedBy:           q.CreatedBy,
		IsActive:            q.IsActive,
		AllowMultipleChoice: q.AllowMultipleChoice,
		CategoryID:          q.CategoryID,
		TagID:               q.TagID,
		Choices:             choices,
	}
}

// ToResults computes vote shares rounded to two places
func ToResults(q *polls.Question) ResultsResponse {
	total := q.TotalVotes()
	out := ResultsResponse{
		QuestionID:   q.ID,
		QuestionText: q.QuestionText,
		TotalVotes:   total,
		Choices:      make([]ChoiceResult, len(q.Choices)),
	}
	for i := range q.Choices {
		c := &q.Choices[i]
		pct := decimal.Zero
		if total > 0 {
			pct = decimal.NewFromInt(int64(c.Votes) * 100).Div(decimal.NewFromInt(int64(total))).Round(2)
		}
		out.Choices[i] = ChoiceResult{ID: c.ID, ChoiceText: c.ChoiceText, Votes: c.Votes, Percentage: pct}
	}
	return out
}

func toCommentResponse(c *polls.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		QuestionID: c.QuestionID,
		UserID:     c.UserID,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}

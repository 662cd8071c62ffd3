package polls

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Question is a poll. It is the aggregate root for its choices.
type Question struct {
	shared.BaseAggregateRoot
	QuestionText        string
	PublishedDate       time.Time
	ExpiryDate          *time.Time
	CreatedBy           uuid.UUID
	IsActive            bool
	AllowMultipleChoice bool
	CategoryID          uuid.UUID
	TagID               uuid.UUID
	Choices             []Choice
}

// Choice is one answer option of a question
type Choice struct {
	shared.BaseEntity
	QuestionID uuid.UUID
	ChoiceText string
	Votes      int
}

// QuestionInput carries the writable question fields
type QuestionInput struct {
	QuestionText        string
	ExpiryDate          *time.Time
	IsActive            bool
	AllowMultipleChoice bool
	CategoryID          uuid.UUID
	TagID               uuid.UUID
}

// NewQuestion creates an active question owned by createdBy
func NewQuestion(createdBy uuid.UUID, in QuestionInput, choices []string) (*Question, error) {
	in.QuestionText = strings.TrimSpace(in.QuestionText)
	if err := in.validate(); err != nil {
		return nil, err
	}
	q := &Question{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CreatedBy:         createdBy,
		Choices:           make([]Choice, 0, len(choices)),
	}
	q.PublishedDate = q.CreatedAt
	q.apply(in)

	for _, text := range choices {
		if _, err := q.AddChoice(text); err != nil {
			return nil, err
		}
	}
	// AddChoice bumps the version; a fresh question starts at 1
	q.Version = 1
	q.UpdatedAt = q.CreatedAt

	q.AddDomainEvent(NewQuestionPublishedEvent(q))
	return q, nil
}

// Update replaces the writable fields
func (q *Question) Update(in QuestionInput) error {
	in.QuestionText = strings.TrimSpace(in.QuestionText)
	if err := in.validate(); err != nil {
		return err
	}
	q.apply(in)
	q.Touch()
	return nil
}

// AddChoice appends a new choice
func (q *Question) AddChoice(text string) (*Choice, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_CHOICE", "Choice text cannot be empty")
	}
	if utf8.RuneCountInString(text) > 200 {
		return nil, shared.NewDomainError("INVALID_CHOICE", "Choice text cannot exceed 200 characters")
	}
	q.Choices = append(q.Choices, Choice{
		BaseEntity: shared.NewBaseEntity(),
		QuestionID: q.ID,
		ChoiceText: text,
	})
	q.Touch()
	return &q.Choices[len(q.Choices)-1], nil
}

// HasExpired reports whether the expiry date has passed
func (q *Question) HasExpired(now time.Time) bool {
	return q.ExpiryDate != nil && now.After(*q.ExpiryDate)
}

// IsOwnedBy reports whether userID created the question
func (q *Question) IsOwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && q.CreatedBy == userID
}

// HasChoice reports whether choiceID belongs to the question
func (q *Question) HasChoice(choiceID uuid.UUID) bool {
	for i := range q.Choices {
		if q.Choices[i].ID == choiceID {
			return true
		}
	}
	return false
}

// ValidateBallot checks a ballot against the question's own rules.
// Duplicate detection needs stored votes and is left to the caller.
func (q *Question) ValidateBallot(choiceIDs []uuid.UUID, now time.Time) error {
	if !q.IsActive {
		return shared.NewDomainError("INVALID_STATE", "This question is not accepting votes")
	}
	if q.HasExpired(now) {
		return shared.NewDomainError("INVALID_STATE", "This question has expired")
	}
	if len(choiceIDs) == 0 {
		return shared.NewValidationError("At least one choice is required")
	}
	if !q.AllowMultipleChoice && len(choiceIDs) != 1 {
		return shared.NewValidationError("This question accepts exactly one choice")
	}
	seen := make(map[uuid.UUID]struct{}, len(choiceIDs))
	for _, id := range choiceIDs {
		if _, dup := seen[id]; dup {
			return shared.NewValidationError("A choice may appear only once per ballot")
		}
		seen[id] = struct{}{}
		if !q.HasChoice(id) {
			return shared.NewValidationError("Choice does not belong to this question")
		}
	}
	return nil
}

// TotalVotes sums the votes of all choices
func (q *Question) TotalVotes() int {
	total := 0
	for i := range q.Choices {
		total += q.Choices[i].Votes
	}
	return total
}

func (q *Question) apply(in QuestionInput) {
	q.QuestionText = in.QuestionText
	q.ExpiryDate = in.ExpiryDate
	q.IsActive = in.IsActive
	q.AllowMultipleChoice = in.AllowMultipleChoice
	q.CategoryID = in.CategoryID
	q.TagID = in.TagID
}

func (in QuestionInput) validate() error {
	if in.QuestionText == "" {
		return shared.NewDomainError("INVALID_QUESTION", "Question text cannot be empty")
	}
	if utf8.RuneCountInString(in.QuestionText) > 255 {
		return shared.NewDomainError("INVALID_QUESTION", "Question text cannot exceed 255 characters")
	}
	if in.CategoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Question must have a category")
	}
	if in.TagID == uuid.Nil {
		return shared.NewDomainError("INVALID_TAG", "Question must have a tag")
	}
	return nil
}

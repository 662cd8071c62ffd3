package polls

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxCommentLength bounds comment text
const MaxCommentLength = 2000

// Voter identifies who casts a ballot: a user, or an anonymous client by IP
type Voter struct {
	UserID    *uuid.UUID
	IPAddress string
}

// IsAnonymous reports whether the voter has no user id
func (v Voter) IsAnonymous() bool {
	return v.UserID == nil
}

// Validate checks that the voter is identifiable
func (v Voter) Validate() error {
	if v.UserID == nil && strings.TrimSpace(v.IPAddress) == "" {
		return shared.NewValidationError("Voter cannot be identified")
	}
	return nil
}

// Vote records one voter's pick of one choice
type Vote struct {
	shared.BaseEntity
	ChoiceID  uuid.UUID
	UserID    *uuid.UUID
	IPAddress *string
	VotedAt   time.Time
}

// NewVote creates a vote for a choice. User votes do not record the IP.
func NewVote(choiceID uuid.UUID, voter Voter) *Vote {
	v := &Vote{
		BaseEntity: shared.NewBaseEntity(),
		ChoiceID:   choiceID,
		UserID:     voter.UserID,
	}
	if voter.IsAnonymous() && voter.IPAddress != "" {
		ip := voter.IPAddress
		v.IPAddress = &ip
	}
	v.VotedAt = v.CreatedAt
	return v
}

// Comment is a remark left on a question
type Comment struct {
	shared.BaseEntity
	QuestionID uuid.UUID
	UserID     uuid.UUID
	Text       string
}

// NewComment creates a comment
func NewComment(questionID, userID uuid.UUID, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment text cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment text cannot exceed 2000 characters")
	}
	return &Comment{
		BaseEntity: shared.NewBaseEntity(),
		QuestionID: questionID,
		UserID:     userID,
		Text:       text,
	}, nil
}

// IsAuthoredBy reports whether userID wrote the comment
func (c *Comment) IsAuthoredBy(userID uuid.UUID) bool {
	return c.UserID == userID
}

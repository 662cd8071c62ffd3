package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/polls"
)

// PollCategoryModel is the persistence model for a poll Category.
type PollCategoryModel struct {
	BaseModel
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PollCategoryModel) TableName() string {
	return "poll_categories"
}

// ToDomain converts the persistence model to a domain Category.
func (m *PollCategoryModel) ToDomain() *polls.Category {
	return &polls.Category{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// PollCategoryModelFromDomain creates a new persistence model from a domain Category.
func PollCategoryModelFromDomain(c *polls.Category) *PollCategoryModel {
	m := &PollCategoryModel{Name: c.Name}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// PollTagModel is the persistence model for a PollTag.
type PollTagModel struct {
	BaseModel
	Name string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (PollTagModel) TableName() string {
	return "poll_tags"
}

// ToDomain converts the persistence model to a domain PollTag.
func (m *PollTagModel) ToDomain() *polls.PollTag {
	return &polls.PollTag{BaseEntity: m.BaseModel.ToDomain(), Name: m.Name}
}

// PollTagModelFromDomain creates a new persistence model from a domain PollTag.
func PollTagModelFromDomain(t *polls.PollTag) *PollTagModel {
	m := &PollTagModel{Name: t.Name}
	m.FromDomainBaseEntity(t.BaseEntity)
	return m
}

// QuestionModel is the persistence model for the Question aggregate.
type QuestionModel struct {
	AggregateModel
	QuestionText        string    `gorm:"type:varchar(255);not null"`
	PublishedDate       time.Time `gorm:"not null;index"`
	ExpiryDate          *time.Time
	CreatedBy           uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive            bool      `gorm:"not null;default:true"`
	AllowMultipleChoice bool      `gorm:"not null;default:false"`
	CategoryID          uuid.UUID `gorm:"type:uuid;not null;index"`
	TagID               uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (QuestionModel) TableName() string {
	return "questions"
}

// ToDomain converts the persistence model to a domain Question.
func (m *QuestionModel) ToDomain(choices []ChoiceModel) *polls.Question {
	q := &polls.Question{
		BaseAggregateRoot:   m.ToDomainAggregate(),
		QuestionText:        m.QuestionText,
		PublishedDate:       m.PublishedDate,
		ExpiryDate:          m.ExpiryDate,
		CreatedBy:           m.CreatedBy,
		IsActive:            m.IsActive,
		AllowMultipleChoice: m.AllowMultipleChoice,
		CategoryID:          m.CategoryID,
		TagID:               m.TagID,
		Choices:             make([]polls.Choice, 0, len(choices)),
	}
	for i := range choices {
		q.Choices = append(q.Choices, choices[i].ToDomain())
	}
	return q
}

// QuestionModelFromDomain creates a new persistence model from a domain Question.
func QuestionModelFromDomain(q *polls.Question) *QuestionModel {
	m := &QuestionModel{
		QuestionText:        q.QuestionText,
		PublishedDate:       q.PublishedDate,
		ExpiryDate:          q.ExpiryDate,
		CreatedBy:           q.CreatedBy,
		IsActive:            q.IsActive,
		AllowMultipleChoice: q.AllowMultipleChoice,
		CategoryID:          q.CategoryID,
		TagID:               q.TagID,
	}
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	return m
}

// ChoiceModel is the persistence model for a Choice.
type ChoiceModel struct {
	BaseModel
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index"`
	ChoiceText string    `gorm:"type:varchar(200);not null"`
	Votes      int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ChoiceModel) TableName() string {
	return "choices"
}

// ToDomain converts the persistence model to a domain Choice.
func (m *ChoiceModel) ToDomain() polls.Choice {
	return polls.Choice{
		BaseEntity: m.BaseModel.ToDomain(),
		QuestionID: m.QuestionID,
		ChoiceText: m.ChoiceText,
		Votes:      m.Votes,
	}
}

// ChoiceModelFromDomain creates a new persistence model from a domain Choice.
func ChoiceModelFromDomain(c *polls.Choice) *ChoiceModel {
	m := &ChoiceModel{QuestionID: c.QuestionID, ChoiceText: c.ChoiceText, Votes: c.Votes}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

// VoteModel is the persistence model for a Vote.
// User votes are unique per choice; anonymous votes are unique per IP and choice.
type VoteModel struct {
	BaseModel
	ChoiceID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_votes_user_choice,priority:2;uniqueIndex:idx_votes_ip_choice,priority:2"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_votes_user_choice,priority:1"`
	IPAddress *string    `gorm:"type:varchar(45);uniqueIndex:idx_votes_ip_choice,priority:1"`
	VotedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (VoteModel) TableName() string {
	return "votes"
}

// VoteModelFromDomain creates a new persistence model from a domain Vote.
func VoteModelFromDomain(v *polls.Vote) *VoteModel {
	m := &VoteModel{ChoiceID: v.ChoiceID, UserID: v.UserID, IPAddress: v.IPAddress, VotedAt: v.VotedAt}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}

// CommentModel is the persistence model for a Comment.
type CommentModel struct {
	BaseModel
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Text       string    `gorm:"type:varchar(2000);not null"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts the persistence model to a domain Comment.
func (m *CommentModel) ToDomain() *polls.Comment {
	return &polls.Comment{
		BaseEntity: m.BaseModel.ToDomain(),
		QuestionID: m.QuestionID,
		UserID:     m.UserID,
		Text:       m.Text,
	}
}

// CommentModelFromDomain creates a new persistence model from a domain Comment.
func CommentModelFromDomain(c *polls.Comment) *CommentModel {
	m := &CommentModel{QuestionID: c.QuestionID, UserID: c.UserID, Text: c.Text}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}

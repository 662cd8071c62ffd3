package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel extends BaseModel with the optimistic-locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// ToDomainAggregate converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
	}
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// All lists every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&UserModel{},
		&CollectionModel{},
		&ProductModel{},
		&PromotionModel{},
		&ProductPromotionModel{},
		&ReviewModel{},
		&TagModel{},
		&TaggedItemModel{},
		&ProductImageModel{},
		&CartModel{},
		&CartItemModel{},
		&CustomerModel{},
		&AddressModel{},
		&OrderModel{},
		&OrderItemModel{},
		&PollCategoryModel{},
		&PollTagModel{},
		&QuestionModel{},
		&ChoiceModel{},
		&VoteModel{},
		&CommentModel{},
		&OutboxEntryModel{},
	}
}

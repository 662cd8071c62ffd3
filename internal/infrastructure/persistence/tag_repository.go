package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTagRepository implements TagRepository using GORM
type GormTagRepository struct {
	db *gorm.DB
}

// NewGormTagRepository creates a new GormTagRepository
func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// FindByID finds a tag by its ID
func (r *GormTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Tag, error) {
	var model models.TagModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists tags ordered by label
func (r *GormTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Tag, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.TagModel{}), filter).Order("label ASC")

	var rows []models.TagModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return toTags(rows), nil
}

// Count counts tags matching the filter
func (r *GormTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.TagModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates a tag; a taken label is ErrAlreadyExists
func (r *GormTagRepository) Save(ctx context.Context, tag *catalog.Tag) error {
	if err := conn(ctx, r.db).Save(models.TagModelFromDomain(tag)).Error; err != nil {
		if IsDuplicate(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes the tag and every link to it
func (r *GormTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.TaggedItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TagModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// FindForObject lists the tags attached to one object
func (r *GormTagRepository) FindForObject(ctx context.Context, contentType string, objectID uuid.UUID) ([]catalog.Tag, error) {
	var rows []models.TagModel
	err := conn(ctx, r.db).
		Joins("JOIN tagged_items ON tagged_items.tag_id = tags.id").
		Where("tagged_items.content_type = ? AND tagged_items.object_id = ?", contentType, objectID).
		Order("tags.label ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toTags(rows), nil
}

type objectTagRow struct {
	models.TagModel
	ObjectID uuid.UUID
}

// FindForObjects lists the tags of many objects keyed by object id
func (r *GormTagRepository) FindForObjects(ctx context.Context, contentType string, objectIDs []uuid.UUID) (map[uuid.UUID][]catalog.Tag, error) {
	result := make(map[uuid.UUID][]catalog.Tag, len(objectIDs))
	if len(objectIDs) == 0 {
		return result, nil
	}
	var rows []objectTagRow
	err := conn(ctx, r.db).Model(&models.TagModel{}).
		Select("tags.*, tagged_items.object_id AS object_id").
		Joins("JOIN tagged_items ON tagged_items.tag_id = tags.id").
		Where("tagged_items.content_type = ? AND tagged_items.object_id IN ?", contentType, objectIDs).
		Order("tags.label ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		result[rows[i].ObjectID] = append(result[rows[i].ObjectID], *rows[i].TagModel.ToDomain())
	}
	return result, nil
}

// Attach links a tag to an object
func (r *GormTagRepository) Attach(ctx context.Context, item *catalog.TaggedItem) error {
	if err := conn(ctx, r.db).Create(models.TaggedItemModelFromDomain(item)).Error; err != nil {
		if IsDuplicate(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Detach removes a tag link
func (r *GormTagRepository) Detach(ctx context.Context, tagID uuid.UUID, contentType string, objectID uuid.UUID) error {
	result := conn(ctx, r.db).
		Where("tag_id = ? AND content_type = ? AND object_id = ?", tagID, contentType, objectID).
		Delete(&models.TaggedItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormTagRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(label) LIKE ? ESCAPE '\\'", prefixPattern(filter.Search))
	}
	if prefix, ok := filterString(filter, catalog.FilterLabelPrefix); ok {
		query = query.Where("LOWER(label) LIKE ? ESCAPE '\\'", prefixPattern(prefix))
	}
	return query
}

func toTags(rows []models.TagModel) []catalog.Tag {
	tags := make([]catalog.Tag, len(rows))
	for i := range rows {
		tags[i] = *rows[i].ToDomain()
	}
	return tags
}

// Ensure GormTagRepository implements TagRepository
var _ catalog.TagRepository = (*GormTagRepository)(nil)

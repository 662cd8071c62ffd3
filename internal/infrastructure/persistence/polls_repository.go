package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/polls"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements polls.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*polls.Category, error) {
	var model models.PollCategoryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists categories by name
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]polls.Category, error) {
	var rows []models.PollCategoryModel
	query := searchName(conn(ctx, r.db).Model(&models.PollCategoryModel{}), filter).Order("name ASC")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]polls.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := searchName(conn(ctx, r.db).Model(&models.PollCategoryModel{}), filter).Count(&count).Error
	return count, err
}

// Create stores a category
func (r *GormCategoryRepository) Create(ctx context.Context, category *polls.Category) error {
	if err := conn(ctx, r.db).Create(models.PollCategoryModelFromDomain(category)).Error; err != nil {
		if IsDuplicate(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a category and its questions
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := deleteQuestionsWhere(tx, "category_id = ?", id); err != nil {
			return err
		}
		return deleteByID(tx, &models.PollCategoryModel{}, id)
	})
}

// GormPollTagRepository implements polls.PollTagRepository using GORM
type GormPollTagRepository struct {
	db *gorm.DB
}

// NewGormPollTagRepository creates a new GormPollTagRepository
func NewGormPollTagRepository(db *gorm.DB) *GormPollTagRepository {
	return &GormPollTagRepository{db: db}
}

// FindByID finds a poll tag by ID
func (r *GormPollTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*polls.PollTag, error) {
	var model models.PollTagModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists poll tags by name
func (r *GormPollTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]polls.PollTag, error) {
	var rows []models.PollTagModel
	query := searchName(conn(ctx, r.db).Model(&models.PollTagModel{}), filter).Order("name ASC")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	tags := make([]polls.PollTag, len(rows))
	for i := range rows {
		tags[i] = *rows[i].ToDomain()
	}
	return tags, nil
}

// Count counts poll tags matching the filter
func (r *GormPollTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := searchName(conn(ctx, r.db).Model(&models.PollTagModel{}), filter).Count(&count).Error
	return count, err
}

// Create stores a poll tag
func (r *GormPollTagRepository) Create(ctx context.Context, tag *polls.PollTag) error {
	if err := conn(ctx, r.db).Create(models.PollTagModelFromDomain(tag)).Error; err != nil {
		if IsDuplicate(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Delete removes a poll tag and its questions
func (r *GormPollTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := deleteQuestionsWhere(tx, "tag_id = ?", id); err != nil {
			return err
		}
		return deleteByID(tx, &models.PollTagModel{}, id)
	})
}

// GormQuestionRepository implements polls.QuestionRepository using GORM
type GormQuestionRepository struct {
	db *gorm.DB
}

// NewGormQuestionRepository creates a new GormQuestionRepository
func NewGormQuestionRepository(db *gorm.DB) *GormQuestionRepository {
	return &GormQuestionRepository{db: db}
}

// FindByID loads a question with its choices
func (r *GormQuestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*polls.Question, error) {
	var model models.QuestionModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	questions, err := r.withChoices(ctx, []models.QuestionModel{model})
	if err != nil {
		return nil, err
	}
	return &questions[0], nil
}

// FindAll lists questions with their choices, newest first by default
func (r *GormQuestionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]polls.Question, error) {
	query := r.applyFilter(conn(ctx, r.db).Model(&models.QuestionModel{}), filter)
	query = orderBy(query, filter, QuestionSortFields, "published_date", "DESC", "id")

	var rows []models.QuestionModel
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withChoices(ctx, rows)
}

// Count counts questions matching the filter
func (r *GormQuestionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(conn(ctx, r.db).Model(&models.QuestionModel{}), filter).Count(&count).Error
	return count, err
}

// Save creates or updates the question and upserts its choice texts.
// Vote counters are never written here.
func (r *GormQuestionRepository) Save(ctx context.Context, q *polls.Question) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Save(models.QuestionModelFromDomain(q)).Error; err != nil {
			return err
		}
		for i := range q.Choices {
			choice := models.ChoiceModelFromDomain(&q.Choices[i])
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"choice_text", "updated_at"}),
			}).Create(choice).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a question with its choices, votes and comments
func (r *GormQuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.QuestionModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return deleteQuestionsWhere(tx, "id = ?", id)
	})
}

// DeleteChoice removes a choice of the question and its votes
func (r *GormQuestionRepository) DeleteChoice(ctx context.Context, questionID, choiceID uuid.UUID) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Where("question_id = ? AND id = ?", questionID, choiceID).Delete(&models.ChoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("choice_id = ?", choiceID).Delete(&models.VoteModel{}).Error
	})
}

func (r *GormQuestionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(question_text) LIKE ? ESCAPE '\\'", containsPattern(filter.Search))
	}
	if id, ok := filterUUID(filter, polls.FilterCategoryID); ok {
		query = query.Where("category_id = ?", id)
	}
	if id, ok := filterUUID(filter, polls.FilterTagID); ok {
		query = query.Where("tag_id = ?", id)
	}
	if active, ok := filterBool(filter, polls.FilterActive); ok {
		query = query.Where("is_active = ?", active)
	}

	year, hasYear := filterInt(filter, polls.FilterPublishedYear)
	month, hasMonth := filterInt(filter, polls.FilterPublishedMonth)
	switch {
	case hasYear && hasMonth:
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("published_date >= ? AND published_date < ?", from, from.AddDate(0, 1, 0))
	case hasYear:
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("published_date >= ? AND published_date < ?", from, from.AddDate(1, 0, 0))
	case hasMonth:
		if query.Dialector.Name() == "sqlite" {
			query = query.Where("CAST(strftime('%m', published_date) AS INTEGER) = ?", month)
		} else {
			query = query.Where("EXTRACT(MONTH FROM published_date) = ?", month)
		}
	}
	return query
}

func (r *GormQuestionRepository) withChoices(ctx context.Context, rows []models.QuestionModel) ([]polls.Question, error) {
	questions := make([]polls.Question, len(rows))
	if len(rows) == 0 {
		return questions, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var choices []models.ChoiceModel
	if err := conn(ctx, r.db).Where("question_id IN ?", ids).Order("created_at ASC").Order("id ASC").Find(&choices).Error; err != nil {
		return nil, err
	}
	byQuestion := make(map[uuid.UUID][]models.ChoiceModel, len(rows))
	for _, c := range choices {
		byQuestion[c.QuestionID] = append(byQuestion[c.QuestionID], c)
	}
	for i := range rows {
		questions[i] = *rows[i].ToDomain(byQuestion[rows[i].ID])
	}
	return questions, nil
}

// GormVoteRepository implements polls.VoteRepository using GORM
type GormVoteRepository struct {
	db *gorm.DB
}

// NewGormVoteRepository creates a new GormVoteRepository
func NewGormVoteRepository(db *gorm.DB) *GormVoteRepository {
	return &GormVoteRepository{db: db}
}

// HasVoted reports whether the voter already picked any of the choices
func (r *GormVoteRepository) HasVoted(ctx context.Context, voter polls.Voter, choiceIDs []uuid.UUID) (bool, error) {
	if len(choiceIDs) == 0 {
		return false, nil
	}
	query := conn(ctx, r.db).Model(&models.VoteModel{}).Where("choice_id IN ?", choiceIDs)
	if voter.IsAnonymous() {
		query = query.Where("user_id IS NULL AND ip_address = ?", voter.IPAddress)
	} else {
		query = query.Where("user_id = ?", *voter.UserID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Cast stores the votes and bumps each choice counter atomically
func (r *GormVoteRepository) Cast(ctx context.Context, votes []polls.Vote) error {
	return inTx(ctx, r.db, func(tx *gorm.DB) error {
		for i := range votes {
			if err := tx.Create(models.VoteModelFromDomain(&votes[i])).Error; err != nil {
				if IsDuplicate(err) {
					return shared.ErrAlreadyExists
				}
				return err
			}
			result := tx.Model(&models.ChoiceModel{}).
				Where("id = ?", votes[i].ChoiceID).
				UpdateColumn("votes", gorm.Expr("votes + ?", 1))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrNotFound
			}
		}
		return nil
	})
}

// GormCommentRepository implements polls.CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// FindByID finds a comment of the question
func (r *GormCommentRepository) FindByID(ctx context.Context, questionID, id uuid.UUID) (*polls.Comment, error) {
	var model models.CommentModel
	if err := conn(ctx, r.db).Where("question_id = ? AND id = ?", questionID, id).First(&model).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByQuestion lists the comments of a question, oldest first
func (r *GormCommentRepository) FindByQuestion(ctx context.Context, questionID uuid.UUID, filter shared.Filter) ([]polls.Comment, error) {
	var rows []models.CommentModel
	query := conn(ctx, r.db).Where("question_id = ?", questionID).Order("created_at ASC").Order("id ASC")
	if err := paginate(query, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	comments := make([]polls.Comment, len(rows))
	for i := range rows {
		comments[i] = *rows[i].ToDomain()
	}
	return comments, nil
}

// CountByQuestion counts the comments of a question
func (r *GormCommentRepository) CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.CommentModel{}).Where("question_id = ?", questionID).Count(&count).Error
	return count, err
}

// Create stores a comment
func (r *GormCommentRepository) Create(ctx context.Context, comment *polls.Comment) error {
	return conn(ctx, r.db).Create(models.CommentModelFromDomain(comment)).Error
}

// Delete removes a comment of the question
func (r *GormCommentRepository) Delete(ctx context.Context, questionID, id uuid.UUID) error {
	result := conn(ctx, r.db).Where("question_id = ? AND id = ?", questionID, id).Delete(&models.CommentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// deleteQuestionsWhere removes matching questions with their choices, votes and comments
func deleteQuestionsWhere(tx *gorm.DB, where string, args ...any) error {
	questionIDs := tx.Model(&models.QuestionModel{}).Select("id").Where(where, args...)
	choiceIDs := tx.Model(&models.ChoiceModel{}).Select("id").Where("question_id IN (?)", questionIDs)

	if err := tx.Where("choice_id IN (?)", choiceIDs).Delete(&models.VoteModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.ChoiceModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("question_id IN (?)", questionIDs).Delete(&models.CommentModel{}).Error; err != nil {
		return err
	}
	return tx.Where(where, args...).Delete(&models.QuestionModel{}).Error
}

func deleteByID(tx *gorm.DB, model any, id uuid.UUID) error {
	result := tx.Delete(model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func searchName(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", containsPattern(filter.Search))
	}
	return query
}

// Ensure the polls repositories implement their interfaces
var (
	_ polls.CategoryRepository = (*GormCategoryRepository)(nil)
	_ polls.PollTagRepository  = (*GormPollTagRepository)(nil)
	_ polls.QuestionRepository = (*GormQuestionRepository)(nil)
	_ polls.VoteRepository     = (*GormVoteRepository)(nil)
	_ polls.CommentRepository  = (*GormCommentRepository)(nil)
)

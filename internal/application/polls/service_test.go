package polls

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/polls"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*polls.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polls.Question), args.Error(1)
}

func (m *MockQuestionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]polls.Question, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]polls.Question), args.Error(1)
}

func (m *MockQuestionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) Save(ctx context.Context, q *polls.Question) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockQuestionRepository) DeleteChoice(ctx context.Context, questionID, choiceID uuid.UUID) error {
	return m.Called(ctx, questionID, choiceID).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*polls.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polls.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]polls.Category, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]polls.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, c *polls.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPollTagRepository struct {
	mock.Mock
}

func (m *MockPollTagRepository) FindByID(ctx context.Context, id uuid.UUID) (*polls.PollTag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polls.PollTag), args.Error(1)
}

func (m *MockPollTagRepository) FindAll(ctx context.Context, filter shared.Filter) ([]polls.PollTag, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]polls.PollTag), args.Error(1)
}

func (m *MockPollTagRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPollTagRepository) Create(ctx context.Context, t *polls.PollTag) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockPollTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) HasVoted(ctx context.Context, voter polls.Voter, choiceIDs []uuid.UUID) (bool, error) {
	args := m.Called(ctx, voter, choiceIDs)
	return args.Bool(0), args.Error(1)
}

func (m *MockVoteRepository) Cast(ctx context.Context, votes []polls.Vote) error {
	return m.Called(ctx, votes).Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) FindByID(ctx context.Context, questionID, id uuid.UUID) (*polls.Comment, error) {
	args := m.Called(ctx, questionID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*polls.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByQuestion(ctx context.Context, questionID uuid.UUID, filter shared.Filter) ([]polls.Comment, error) {
	args := m.Called(ctx, questionID, filter)
	return args.Get(0).([]polls.Comment), args.Error(1)
}

func (m *MockCommentRepository) CountByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) Create(ctx context.Context, c *polls.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, questionID, id uuid.UUID) error {
	return m.Called(ctx, questionID, id).Error(0)
}

type MockEventRecorder struct {
	mock.Mock
}

func (m *MockEventRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type pollsFixture struct {
	questions  *MockQuestionRepository
	categories *MockCategoryRepository
	tags       *MockPollTagRepository
	votes      *MockVoteRepository
	comments   *MockCommentRepository
	recorder   *MockEventRecorder
	service    *QuestionService
}

func newPollsFixture() *pollsFixture {
	f := &pollsFixture{
		questions:  new(MockQuestionRepository),
		categories: new(MockCategoryRepository),
		tags:       new(MockPollTagRepository),
		votes:      new(MockVoteRepository),
		comments:   new(MockCommentRepository),
		recorder:   new(MockEventRecorder),
	}
	f.service = NewQuestionService(fakeUnitOfWork{}, f.questions, f.categories, f.tags, f.votes, f.comments, f.recorder, zap.NewNop())
	return f
}

func newQuestion(t *testing.T, owner uuid.UUID, multiple bool, choices ...string) *polls.Question {
	t.Helper()
	q, err := polls.NewQuestion(owner, polls.QuestionInput{
		QuestionText:        "Favourite colour?",
		IsActive:            true,
		AllowMultipleChoice: multiple,
		CategoryID:          uuid.New(),
		TagID:               uuid.New(),
	}, choices)
	require.NoError(t, err)
	q.ClearDomainEvents()
	return q
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.Code
}

func TestQuestionService_Create(t *testing.T) {
	f := newPollsFixture()
	caller := identity.Principal{UserID: uuid.New()}
	category := &polls.Category{BaseEntity: shared.NewBaseEntity(), Name: "Life"}
	tag := &polls.PollTag{BaseEntity: shared.NewBaseEntity(), Name: "fun"}

	f.categories.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	f.tags.On("FindByID", mock.Anything, tag.ID).Return(tag, nil)
	f.questions.On("Save", mock.Anything, mock.AnythingOfType("*polls.Question")).Return(nil)
	f.recorder.On("Record", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == polls.EventTypeQuestionPublished
	})).Return(nil)

	resp, err := f.service.Create(context.Background(), caller, QuestionRequest{
		QuestionText: "What's up?",
		CategoryID:   category.ID,
		TagID:        tag.ID,
		Choices:      []string{"Not much", "The sky"},
	})
	require.NoError(t, err)
	assert.Equal(t, caller.UserID, resp.CreatedBy)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.AllowMultipleChoice)
	require.Len(t, resp.Choices, 2)
	assert.Equal(t, "Not much", resp.Choices[0].ChoiceText)
}

func TestQuestionService_Create_UnknownCategory(t *testing.T) {
	f := newPollsFixture()
	categoryID := uuid.New()
	f.categories.On("FindByID", mock.Anything, categoryID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(context.Background(), identity.Principal{UserID: uuid.New()}, QuestionRequest{
		QuestionText: "Q", CategoryID: categoryID, TagID: uuid.New(),
	})
	assert.Equal(t, "INVALID_CATEGORY", codeOf(t, err))
	f.questions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestQuestionService_Create_Anonymous(t *testing.T) {
	f := newPollsFixture()
	_, err := f.service.Create(context.Background(), identity.Principal{}, QuestionRequest{QuestionText: "Q"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestQuestionService_Delete_Permissions(t *testing.T) {
	owner := uuid.New()
	tests := []struct {
		name    string
		caller  identity.Principal
		wantErr error
	}{
		{name: "owner", caller: identity.Principal{UserID: owner}},
		{name: "poll manager", caller: identity.Principal{UserID: uuid.New(), Permissions: []string{identity.PermissionPollsManage}}},
		{name: "staff", caller: identity.Principal{UserID: uuid.New(), IsStaff: true}},
		{name: "stranger", caller: identity.Principal{UserID: uuid.New()}, wantErr: shared.ErrForbidden},
		{name: "anonymous", caller: identity.Principal{}, wantErr: shared.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPollsFixture()
			q := newQuestion(t, owner, false, "a")
			f.questions.On("FindByID", mock.Anything, q.ID).Return(q, nil)
			f.questions.On("Delete", mock.Anything, q.ID).Return(nil)

			err := f.service.Delete(context.Background(), tt.caller, q.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.questions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuestionService_Vote_SingleChoiceChecksWholeQuestion(t *testing.T) {
	f := newPollsFixture()
	q := newQuestion(t, uuid.New(), false, "red", "blue")
	caller := identity.Principal{UserID: uuid.New()}
	picked := q.Choices[1].ID

	f.questions.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	f.votes.On("HasVoted", mock.Anything, mock.MatchedBy(func(v polls.Voter) bool {
		return v.UserID != nil && *v.UserID == caller.UserID
	}), []uuid.UUID{q.Choices[0].ID, q.Choices[1].ID}).Return(false, nil)
	f.votes.On("Cast", mock.Anything, mock.MatchedBy(func(votes []polls.Vote) bool {
		return len(votes) == 1 && votes[0].ChoiceID == picked && votes[0].IPAddress == nil
	})).Return(nil)

	resp, err := f.service.Vote(context.Background(), caller, "10.0.0.1", q.ID, VoteRequest{ChoiceIDs: []uuid.UUID{picked}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalVotes)
	assert.Equal(t, 1, resp.Choices[1].Votes)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Choices[1].Percentage))
	assert.True(t, resp.Choices[0].Percentage.IsZero())
}

func TestQuestionService_Vote_AnonymousByIP(t *testing.T) {
	f := newPollsFixture()
	q := newQuestion(t, uuid.New(), true, "a", "b", "c")
	ballot := []uuid.UUID{q.Choices[0].ID, q.Choices[2].ID}

	f.questions.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	f.votes.On("HasVoted", mock.Anything, polls.Voter{IPAddress: "192.0.2.7"}, ballot).Return(false, nil)
	f.votes.On("Cast", mock.Anything, mock.MatchedBy(func(votes []polls.Vote) bool {
		return len(votes) == 2 && votes[0].IPAddress != nil && *votes[0].IPAddress == "192.0.2.7"
	})).Return(nil)

	resp, err := f.service.Vote(context.Background(), identity.Principal{}, "192.0.2.7", q.ID, VoteRequest{ChoiceIDs: ballot})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalVotes)
	assert.True(t, decimal.NewFromInt(50).Equal(resp.Choices[0].Percentage))
}

func TestQuestionService_Vote_Rejections(t *testing.T) {
	expired := time.Now().Add(-time.Hour)
	tests := []struct {
		name     string
		prepare  func(q *polls.Question)
		ballot   func(q *polls.Question) []uuid.UUID
		voted    bool
		castErr  error
		wantCode string
	}{
		{
			name:     "inactive question",
			prepare:  func(q *polls.Question) { q.IsActive = false },
			ballot:   func(q *polls.Question) []uuid.UUID { return []uuid.UUID{q.Choices[0].ID} },
			wantCode: "INVALID_STATE",
		},
		{
			name:     "expired question",
			prepare:  func(q *polls.Question) { q.ExpiryDate = &expired },
			ballot:   func(q *polls.Question) []uuid.UUID { return []uuid.UUID{q.Choices[0].ID} },
			wantCode: "INVALID_STATE",
		},
		{
			name:     "foreign choice",
			ballot:   func(q *polls.Question) []uuid.UUID { return []uuid.UUID{uuid.New()} },
			wantCode: "INVALID_INPUT",
		},
		{
			name:     "two picks on single choice",
			ballot:   func(q *polls.Question) []uuid.UUID { return []uuid.UUID{q.Choices[0].ID, q.Choices[1].ID} },
			wantCode: "INVALID_INPUT",
		},
		{
			name:     "already voted",
			ballot:   func(q *polls.Question) []uuid.UUID { return []uuid.UUID{q.Choices[0].ID} },
			voted:    true,
			wantCode: "ALREADY_EXISTS",
		},
		{
			name:     "concurrent duplicate",
			ballot:   func(q *polls.Question) []uuid.UUID { return []uuid.UUID{q.Choices[0].ID} },
			castErr:  shared.ErrAlreadyExists,
			wantCode: "ALREADY_EXISTS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPollsFixture()
			q := newQuestion(t, uuid.New(), false, "a", "b")
			if tt.prepare != nil {
				tt.prepare(q)
			}
			f.questions.On("FindByID", mock.Anything, q.ID).Return(q, nil)
			f.votes.On("HasVoted", mock.Anything, mock.Anything, mock.Anything).Return(tt.voted, nil)
			f.votes.On("Cast", mock.Anything, mock.Anything).Return(tt.castErr)

			_, err := f.service.Vote(context.Background(), identity.Principal{UserID: uuid.New()}, "", q.ID, VoteRequest{ChoiceIDs: tt.ballot(q)})
			assert.Equal(t, tt.wantCode, codeOf(t, err))
		})
	}
}

func TestQuestionService_Vote_UnidentifiableVoter(t *testing.T) {
	f := newPollsFixture()
	_, err := f.service.Vote(context.Background(), identity.Principal{}, "", uuid.New(), VoteRequest{ChoiceIDs: []uuid.UUID{uuid.New()}})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	f.questions.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestQuestionService_Results_RoundsShares(t *testing.T) {
	f := newPollsFixture()
	q := newQuestion(t, uuid.New(), false, "a", "b", "c")
	q.Choices[0].Votes = 1
	q.Choices[1].Votes = 1
	q.Choices[2].Votes = 1
	f.questions.On("FindByID", mock.Anything, q.ID).Return(q, nil)

	resp, err := f.service.Results(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.TotalVotes)
	assert.Equal(t, "33.33", resp.Choices[0].Percentage.StringFixed(2))
}

func TestQuestionService_DeleteComment(t *testing.T) {
	author := uuid.New()
	questionID := uuid.New()
	comment, err := polls.NewComment(questionID, author, "Nice")
	require.NoError(t, err)

	t.Run("author may delete", func(t *testing.T) {
		f := newPollsFixture()
		f.comments.On("FindByID", mock.Anything, questionID, comment.ID).Return(comment, nil)
		f.comments.On("Delete", mock.Anything, questionID, comment.ID).Return(nil)
		require.NoError(t, f.service.DeleteComment(context.Background(), identity.Principal{UserID: author}, questionID, comment.ID))
	})

	t.Run("others may not", func(t *testing.T) {
		f := newPollsFixture()
		f.comments.On("FindByID", mock.Anything, questionID, comment.ID).Return(comment, nil)
		err := f.service.DeleteComment(context.Background(), identity.Principal{UserID: uuid.New()}, questionID, comment.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		f.comments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestQuestionService_AddComment(t *testing.T) {
	f := newPollsFixture()
	q := newQuestion(t, uuid.New(), false, "a")
	caller := identity.Principal{UserID: uuid.New()}
	f.questions.On("FindByID", mock.Anything, q.ID).Return(q, nil)
	f.comments.On("Create", mock.Anything, mock.AnythingOfType("*polls.Comment")).Return(nil)

	resp, err := f.service.AddComment(context.Background(), caller, q.ID, CommentRequest{Text: "  hello  "})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)
	assert.Equal(t, caller.UserID, resp.UserID)

	_, err = f.service.AddComment(context.Background(), identity.Principal{}, q.ID, CommentRequest{Text: "x"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestQuestionService_List_Filters(t *testing.T) {
	f := newPollsFixture()
	categoryID := uuid.New()
	active := true
	match := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters[polls.FilterCategoryID] == categoryID &&
			filter.Filters[polls.FilterActive] == true &&
			filter.Search == "colour"
	})
	f.questions.On("FindAll", mock.Anything, match).Return([]polls.Question{*newQuestion(t, uuid.New(), false, "a")}, nil)
	f.questions.On("Count", mock.Anything, match).Return(int64(1), nil)

	page, err := f.service.List(context.Background(), QuestionListQuery{CategoryID: &categoryID, Active: &active, Search: "colour"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Favourite colour?", page.Items[0].QuestionText)
}

func TestTaxonomyService_CreateCategory(t *testing.T) {
	categories := new(MockCategoryRepository)
	svc := NewTaxonomyService(categories, new(MockPollTagRepository))
	categories.On("Create", mock.Anything, mock.AnythingOfType("*polls.Category")).Return(nil).Once()
	categories.On("Create", mock.Anything, mock.Anything).Return(shared.ErrAlreadyExists).Once()

	resp, err := svc.CreateCategory(context.Background(), NameRequest{Name: " Science "})
	require.NoError(t, err)
	assert.Equal(t, "Science", resp.Name)

	_, err = svc.CreateCategory(context.Background(), NameRequest{Name: "Science"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	_, err = svc.CreateCategory(context.Background(), NameRequest{Name: "   "})
	assert.Equal(t, "INVALID_NAME", codeOf(t, err))
}

package polls

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/polls"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyVoted is returned when the voter already voted on the choice or question
	ErrAlreadyVoted    = shared.NewDomainError(shared.ErrAlreadyExists.Code, "You have already voted on this question.")
	errUnknownCategory = shared.NewDomainError("INVALID_CATEGORY", "Category not found")
	errUnknownTag      = shared.NewDomainError("INVALID_TAG", "Tag not found")
)

// QuestionService handles questions, their choices, ballots and comments
type QuestionService struct {
	uow        shared.UnitOfWork
	questions  polls.QuestionRepository
	categories polls.CategoryRepository
	tags       polls.PollTagRepository
	votes      polls.VoteRepository
	comments   polls.CommentRepository
	recorder   shared.EventRecorder
	logger     *zap.Logger
}

// NewQuestionService creates a new QuestionService
func NewQuestionService(
	uow shared.UnitOfWork,
	questions polls.QuestionRepository,
	categories polls.CategoryRepository,
	tags polls.PollTagRepository,
	votes polls.VoteRepository,
	comments polls.CommentRepository,
	recorder shared.EventRecorder,
	logger *zap.Logger,
) *QuestionService {
	return &QuestionService{
		uow:        uow,
		questions:  questions,
		categories: categories,
		tags:       tags,
		votes:      votes,
		comments:   comments,
		recorder:   recorder,
		logger:     logger,
	}
}

// List returns a page of questions with their choices
func (s *QuestionService) List(ctx context.Context, q QuestionListQuery) (*shared.Paginated[QuestionResponse], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(q.Page, pageSize)
	filter.Search = q.Search
	filter.OrderBy = q.OrderBy
	filter.OrderDir = q.OrderDir
	if q.CategoryID != nil {
		filter = filter.With(polls.FilterCategoryID, *q.CategoryID)
	}
	if q.TagID != nil {
		filter = filter.With(polls.FilterTagID, *q.TagID)
	}
	if q.Active != nil {
		filter = filter.With(polls.FilterActive, *q.Active)
	}
	return s.page(ctx, filter, pageSize)
}

// ListFiltered returns a page of questions for a prepared filter
func (s *QuestionService) ListFiltered(ctx context.Context, filter shared.Filter) (*shared.Paginated[QuestionResponse], error) {
	return s.page(ctx, filter, filter.Limit)
}

func (s *QuestionService) page(ctx context.Context, filter shared.Filter, pageSize int) (*shared.Paginated[QuestionResponse], error) {
	rows, err := s.questions.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.questions.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := shared.Now()
	items := make([]QuestionResponse, len(rows))
	for i := range rows {
		items[i] = ToQuestionResponse(&rows[i], now)
	}
	result := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &result, nil
}

// Get returns a question with its choices
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*QuestionResponse, error) {
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToQuestionResponse(q, shared.Now())
	return &out, nil
}

// Create publishes a question owned by the caller
func (s *QuestionService) Create(ctx context.Context, caller identity.Principal, req QuestionRequest) (*QuestionResponse, error) {
	if !caller.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	in := req.toInput()
	if err := s.checkRefs(ctx, in.CategoryID, in.TagID); err != nil {
		return nil, err
	}
	q, err := polls.NewQuestion(caller.UserID, in, req.Choices)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.questions.Save(ctx, q); err != nil {
			return err
		}
		return s.recorder.Record(ctx, q.GetDomainEvents()...)
	})
	if err != nil {
		return nil, err
	}
	q.ClearDomainEvents()
	out := ToQuestionResponse(q, shared.Now())
	return &out, nil
}

// Update replaces a question's fields. Only the creator or a poll manager may edit.
func (s *QuestionService) Update(ctx context.Context, caller identity.Principal, id uuid.UUID, req QuestionRequest) (*QuestionResponse, error) {
	q, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	in := req.toInput()
	if err := s.checkRefs(ctx, in.CategoryID, in.TagID); err != nil {
		return nil, err
	}
	if err := q.Update(in); err != nil {
		return nil, err
	}
	if err := s.questions.Save(ctx, q); err != nil {
		return nil, err
	}
	out := ToQuestionResponse(q, shared.Now())
	return &out, nil
}

// Delete removes a question with its choices, votes and comments
func (s *QuestionService) Delete(ctx context.Context, caller identity.Principal, id uuid.UUID) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	return s.questions.Delete(ctx, id)
}

// AddChoice appends a choice to a question
func (s *QuestionService) AddChoice(ctx context.Context, caller identity.Principal, questionID uuid.UUID, req ChoiceRequest) (*ChoiceResponse, error) {
	q, err := s.owned(ctx, caller, questionID)
	if err != nil {
		return nil, err
	}
	c, err := q.AddChoice(req.ChoiceText)
	if err != nil {
		return nil, err
	}
	if err := s.questions.Save(ctx, q); err != nil {
		return nil, err
	}
	return &ChoiceResponse{ID: c.ID, ChoiceText: c.ChoiceText, Votes: c.Votes}, nil
}

// DeleteChoice removes a choice and its votes
func (s *QuestionService) DeleteChoice(ctx context.Context, caller identity.Principal, questionID, choiceID uuid.UUID) error {
	if _, err := s.owned(ctx, caller, questionID); err != nil {
		return err
	}
	return s.questions.DeleteChoice(ctx, questionID, choiceID)
}

// Vote casts a ballot. Logged-in callers vote as themselves; anonymous callers
// are identified by clientIP.
func (s *QuestionService) Vote(ctx context.Context, caller identity.Principal, clientIP string, questionID uuid.UUID, req VoteRequest) (resp *ResultsResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "polls.vote",
		attribute.String("question.id", questionID.String()),
		attribute.Int("ballot.size", len(req.ChoiceIDs)),
		attribute.Bool("voter.anonymous", !caller.IsAuthenticated()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	voter := polls.Voter{IPAddress: clientIP}
	if caller.IsAuthenticated() {
		userID := caller.UserID
		voter = polls.Voter{UserID: &userID}
	}
	if err := voter.Validate(); err != nil {
		return nil, err
	}

	var q *polls.Question
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		var err error
		q, err = s.questions.FindByID(ctx, questionID)
		if err != nil {
			return err
		}
		if err := q.ValidateBallot(req.ChoiceIDs, shared.Now()); err != nil {
			return err
		}

		scope := req.ChoiceIDs
		if !q.AllowMultipleChoice {
			scope = make([]uuid.UUID, len(q.Choices))
			for i := range q.Choices {
				scope[i] = q.Choices[i].ID
			}
		}
		voted, err := s.votes.HasVoted(ctx, voter, scope)
		if err != nil {
			return err
		}
		if voted {
			return ErrAlreadyVoted
		}

		ballot := make([]polls.Vote, len(req.ChoiceIDs))
		for i, id := range req.ChoiceIDs {
			ballot[i] = *polls.NewVote(id, voter)
		}
		if err := s.votes.Cast(ctx, ballot); err != nil {
			if errors.Is(err, shared.ErrAlreadyExists) {
				return ErrAlreadyVoted
			}
			return err
		}
		for i := range q.Choices {
			for _, id := range req.ChoiceIDs {
				if q.Choices[i].ID == id {
					q.Choices[i].Votes++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Ballot cast",
		zap.String("question_id", questionID.String()),
		zap.Int("choices", len(req.ChoiceIDs)),
		zap.Bool("anonymous", voter.IsAnonymous()))
	out := ToResults(q)
	return &out, nil
}

// Results returns the vote counts and shares of a question
func (s *QuestionService) Results(ctx context.Context, questionID uuid.UUID) (*ResultsResponse, error) {
	q, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	out := ToResults(q)
	return &out, nil
}

// Comments returns a page of a question's comments, oldest first
func (s *QuestionService) Comments(ctx context.Context, questionID uuid.UUID, page, pageSize int) (*shared.Paginated[CommentResponse], error) {
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(page, pageSize)
	rows, err := s.comments.FindByQuestion(ctx, questionID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.comments.CountByQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	items := make([]CommentResponse, len(rows))
	for i := range rows {
		items[i] = toCommentResponse(&rows[i])
	}
	result := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &result, nil
}

// AddComment posts a comment as the caller
func (s *QuestionService) AddComment(ctx context.Context, caller identity.Principal, questionID uuid.UUID, req CommentRequest) (*CommentResponse, error) {
	if !caller.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, err
	}
	c, err := polls.NewComment(questionID, caller.UserID, req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCommentResponse(c)
	return &out, nil
}

// DeleteComment removes a comment. Only its author or a poll manager may delete it.
func (s *QuestionService) DeleteComment(ctx context.Context, caller identity.Principal, questionID, commentID uuid.UUID) error {
	c, err := s.comments.FindByID(ctx, questionID, commentID)
	if err != nil {
		return err
	}
	if !c.IsAuthoredBy(caller.UserID) && !caller.Can(identity.PermissionPollsManage) {
		return shared.ErrForbidden
	}
	return s.comments.Delete(ctx, questionID, commentID)
}

// owned loads a question the caller may modify
func (s *QuestionService) owned(ctx context.Context, caller identity.Principal, id uuid.UUID) (*polls.Question, error) {
	if !caller.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	q, err := s.questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.IsOwnedBy(caller.UserID) && !caller.Can(identity.PermissionPollsManage) {
		return nil, shared.ErrForbidden
	}
	return q, nil
}

func (s *QuestionService) checkRefs(ctx context.Context, categoryID, tagID uuid.UUID) error {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errUnknownCategory
		}
		return err
	}
	if _, err := s.tags.FindByID(ctx, tagID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errUnknownTag
		}
		return err
	}
	return nil
}

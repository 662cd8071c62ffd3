package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	pollsapp "github.com/storefront/backend/internal/application/polls"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// PollsHandler serves questions, choices, votes and comments
type PollsHandler struct {
	BaseHandler
	questions *pollsapp.QuestionService
}

// NewPollsHandler creates a new PollsHandler
func NewPollsHandler(questions *pollsapp.QuestionService) *PollsHandler {
	return &PollsHandler{questions: questions}
}

// ListQuestions godoc
// @Summary      List poll questions
// @Tags         polls
// @Produce      json
// @Param        page        query int    false "Page number"
// @Param        page_size   query int    false "Page size"
// @Param        search      query string false "Question text contains"
// @Param        category_id query string false "Category filter" format(uuid)
// @Param        tag_id      query string false "Tag filter" format(uuid)
// @Param        active      query bool   false "Active filter"
// @Param        order_by    query string false "published_date, question_text or expiry_date"
// @Param        order_dir   query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]pollsapp.QuestionResponse}
// @Router       /polls/questions [get]
func (h *PollsHandler) ListQuestions(c *gin.Context) {
	var q pollsapp.QuestionListQuery
	if !h.BindQuery(c, &q) ||
		!h.QueryUUID(c, "category_id", &q.CategoryID) ||
		!h.QueryUUID(c, "tag_id", &q.TagID) {
		return
	}
	page, err := h.questions.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetQuestion godoc
// @Summary      Get a question with its choices
// @Tags         polls
// @Produce      json
// @Param        id path string true "Question ID" format(uuid)
// @Success      200 {object} dto.Response{data=pollsapp.QuestionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /polls/questions/{id} [get]
func (h *PollsHandler) GetQuestion(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	q, err := h.questions.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// CreateQuestion godoc
// @Summary      Create a question
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        request body pollsapp.QuestionRequest true "Question with optional inline choices"
// @Success      201 {object} dto.Response{data=pollsapp.QuestionResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /polls/questions [post]
func (h *PollsHandler) CreateQuestion(c *gin.Context) {
	var req pollsapp.QuestionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.questions.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Description  Allowed for the creator or holders of polls:manage
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Question ID" format(uuid)
// @Param        request body pollsapp.QuestionRequest true "Question"
// @Success      200 {object} dto.Response{data=pollsapp.QuestionResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /polls/questions/{id} [put]
func (h *PollsHandler) UpdateQuestion(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req pollsapp.QuestionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.questions.Update(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Tags         polls
// @Param        id path string true "Question ID" format(uuid)
// @Success      204
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /polls/questions/{id} [delete]
func (h *PollsHandler) DeleteQuestion(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.questions.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AddChoice godoc
// @Summary      Add a choice to a question
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Question ID" format(uuid)
// @Param        request body pollsapp.ChoiceRequest true "Choice"
// @Success      201 {object} dto.Response{data=pollsapp.ChoiceResponse}
// @Security     BearerAuth
// @Router       /polls/questions/{id}/choices [post]
func (h *PollsHandler) AddChoice(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req pollsapp.ChoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	choice, err := h.questions.AddChoice(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, choice)
}

// DeleteChoice godoc
// @Summary      Remove a choice from a question
// @Tags         polls
// @Param        id        path string true "Question ID" format(uuid)
// @Param        choice_id path string true "Choice ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /polls/questions/{id}/choices/{choice_id} [delete]
func (h *PollsHandler) DeleteChoice(c *gin.Context) {
	id, childID, ok := h.ids(c, "choice_id")
	if !ok {
		return
	}
	if err := h.questions.DeleteChoice(c.Request.Context(), middleware.GetPrincipal(c), id, childID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Vote godoc
// @Summary      Vote on a question
// @Description  Anonymous voters are identified by client IP
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Question ID" format(uuid)
// @Param        request body pollsapp.VoteRequest true "Choices"
// @Success      201 {object} dto.Response{data=pollsapp.ResultsResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /polls/questions/{id}/votes [post]
func (h *PollsHandler) Vote(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req pollsapp.VoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	results, err := h.questions.Vote(c.Request.Context(), middleware.GetPrincipal(c), c.ClientIP(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, results)
}

// Results godoc
// @Summary      Vote counts and percentages of a question
// @Tags         polls
// @Produce      json
// @Param        id path string true "Question ID" format(uuid)
// @Success      200 {object} dto.Response{data=pollsapp.ResultsResponse}
// @Router       /polls/questions/{id}/results [get]
func (h *PollsHandler) Results(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	results, err := h.questions.Results(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// Comments godoc
// @Summary      List the comments of a question
// @Tags         polls
// @Produce      json
// @Param        id        path  string true  "Question ID" format(uuid)
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]pollsapp.CommentResponse}
// @Router       /polls/questions/{id}/comments [get]
func (h *PollsHandler) Comments(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var q pageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.questions.Comments(c.Request.Context(), id, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// AddComment godoc
// @Summary      Comment on a question
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Question ID" format(uuid)
// @Param        request body pollsapp.CommentRequest true "Comment"
// @Success      201 {object} dto.Response{data=pollsapp.CommentResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /polls/questions/{id}/comments [post]
func (h *PollsHandler) AddComment(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req pollsapp.CommentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	comment, err := h.questions.AddComment(c.Request.Context(), middleware.GetPrincipal(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, comment)
}

// DeleteComment godoc
// @Summary      Delete a comment
// @Description  Allowed for the author or holders of polls:manage
// @Tags         polls
// @Param        id         path string true "Question ID" format(uuid)
// @Param        comment_id path string true "Comment ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /polls/questions/{id}/comments/{comment_id} [delete]
func (h *PollsHandler) DeleteComment(c *gin.Context) {
	id, childID, ok := h.ids(c, "comment_id")
	if !ok {
		return
	}
	if err := h.questions.DeleteComment(c.Request.Context(), middleware.GetPrincipal(c), id, childID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PollsHandler) ids(c *gin.Context, child string) (questionID, childID uuid.UUID, ok bool) {
	if questionID, ok = h.ParamUUID(c, "id"); !ok {
		return
	}
	childID, ok = h.ParamUUID(c, child)
	return
}

// TaxonomyHandler serves poll categories and poll tags
type TaxonomyHandler struct {
	BaseHandler
	taxonomy *pollsapp.TaxonomyService
}

// NewTaxonomyHandler creates a new TaxonomyHandler
func NewTaxonomyHandler(taxonomy *pollsapp.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomy: taxonomy}
}

// ListCategories godoc
// @Summary      List poll categories
// @Tags         polls
// @Produce      json
// @Param        search    query string false "Name contains"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]pollsapp.NamedResponse}
// @Router       /polls/categories [get]
func (h *TaxonomyHandler) ListCategories(c *gin.Context) {
	var q searchPageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.taxonomy.ListCategories(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetCategory godoc
// @Summary      Get a poll category
// @Tags         polls
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=pollsapp.NamedResponse}
// @Router       /polls/categories/{id} [get]
func (h *TaxonomyHandler) GetCategory(c *gin.Context) {
	h.get(c, h.taxonomy.GetCategory)
}

// CreateCategory godoc
// @Summary      Create a poll category
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        request body pollsapp.NameRequest true "Category"
// @Success      201 {object} dto.Response{data=pollsapp.NamedResponse}
// @Security     BearerAuth
// @Router       /polls/categories [post]
func (h *TaxonomyHandler) CreateCategory(c *gin.Context) {
	h.create(c, h.taxonomy.CreateCategory)
}

// DeleteCategory godoc
// @Summary      Delete a poll category and its questions
// @Tags         polls
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /polls/categories/{id} [delete]
func (h *TaxonomyHandler) DeleteCategory(c *gin.Context) {
	h.delete(c, h.taxonomy.DeleteCategory)
}

// ListTags godoc
// @Summary      List poll tags
// @Tags         polls
// @Produce      json
// @Param        search    query string false "Name contains"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]pollsapp.NamedResponse}
// @Router       /polls/tags [get]
func (h *TaxonomyHandler) ListTags(c *gin.Context) {
	var q searchPageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.taxonomy.ListTags(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// GetTag godoc
// @Summary      Get a poll tag
// @Tags         polls
// @Produce      json
// @Param        id path string true "Tag ID" format(uuid)
// @Success      200 {object} dto.Response{data=pollsapp.NamedResponse}
// @Router       /polls/tags/{id} [get]
func (h *TaxonomyHandler) GetTag(c *gin.Context) {
	h.get(c, h.taxonomy.GetTag)
}

// CreateTag godoc
// @Summary      Create a poll tag
// @Tags         polls
// @Accept       json
// @Produce      json
// @Param        request body pollsapp.NameRequest true "Tag"
// @Success      201 {object} dto.Response{data=pollsapp.NamedResponse}
// @Security     BearerAuth
// @Router       /polls/tags [post]
func (h *TaxonomyHandler) CreateTag(c *gin.Context) {
	h.create(c, h.taxonomy.CreateTag)
}

// DeleteTag godoc
// @Summary      Delete a poll tag and its questions
// @Tags         polls
// @Param        id path string true "Tag ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /polls/tags/{id} [delete]
func (h *TaxonomyHandler) DeleteTag(c *gin.Context) {
	h.delete(c, h.taxonomy.DeleteTag)
}

func (h *TaxonomyHandler) get(c *gin.Context, find func(ctx context.Context, id uuid.UUID) (*pollsapp.NamedResponse, error)) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	item, err := find(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

func (h *TaxonomyHandler) create(c *gin.Context, create func(ctx context.Context, req pollsapp.NameRequest) (*pollsapp.NamedResponse, error)) {
	var req pollsapp.NameRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

func (h *TaxonomyHandler) delete(c *gin.Context, remove func(ctx context.Context, id uuid.UUID) error) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

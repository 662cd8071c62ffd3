package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ReviewHandler serves the reviews nested under /products/:id
type ReviewHandler struct {
	BaseHandler
	reviews *catalogapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List godoc
// @Summary      List the reviews of a product
// @Tags         reviews
// @Produce      json
// @Param        id        path  string true  "Product ID" format(uuid)
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var q pageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.reviews.List(c.Request.Context(), productID, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @Summary      Get a review of a product
// @Tags         reviews
// @Produce      json
// @Param        id        path string true "Product ID" format(uuid)
// @Param        review_id path string true "Review ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews/{review_id} [get]
func (h *ReviewHandler) Get(c *gin.Context) {
	productID, id, ok := h.ids(c)
	if !ok {
		return
	}
	review, err := h.reviews.GetByID(c.Request.Context(), productID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Create godoc
// @Summary      Review a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Product ID" format(uuid)
// @Param        request body catalogapp.ReviewRequest true "Review"
// @Success      201 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	review, err := h.reviews.Create(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, review)
}

// Update godoc
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id        path string                    true "Product ID" format(uuid)
// @Param        review_id path string                    true "Review ID" format(uuid)
// @Param        request   body catalogapp.ReviewRequest true "Review"
// @Success      200 {object} dto.Response{data=catalogapp.ReviewResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews/{review_id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	productID, id, ok := h.ids(c)
	if !ok {
		return
	}
	var req catalogapp.ReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}
	review, err := h.reviews.Update(c.Request.Context(), productID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, review)
}

// Delete godoc
// @Summary      Delete a review
// @Tags         reviews
// @Param        id        path string true "Product ID" format(uuid)
// @Param        review_id path string true "Review ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/reviews/{review_id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, id, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), productID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ReviewHandler) ids(c *gin.Context) (productID, reviewID uuid.UUID, ok bool) {
	if productID, ok = h.ParamUUID(c, "id"); !ok {
		return
	}
	reviewID, ok = h.ParamUUID(c, "review_id")
	return
}

package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// PromotionHandler serves promotions
type PromotionHandler struct {
	BaseHandler
	promotions *catalogapp.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(promotions *catalogapp.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions}
}

// List godoc
// @Summary      List promotions
// @Tags         promotions
// @Produce      json
// @Param        page      query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.PromotionResponse}
// @Router       /promotions [get]
func (h *PromotionHandler) List(c *gin.Context) {
	var q pageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.promotions.List(c.Request.Context(), q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @Summary      Get a promotion
// @Tags         promotions
// @Produce      json
// @Param        id path string true "Promotion ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.PromotionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /promotions/{id} [get]
func (h *PromotionHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	promotion, err := h.promotions.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// Create godoc
// @Summary      Create a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.PromotionRequest true "Promotion"
// @Success      201 {object} dto.Response{data=catalogapp.PromotionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /promotions [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	var req catalogapp.PromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	promotion, err := h.promotions.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, promotion)
}

// Update godoc
// @Summary      Update a promotion
// @Tags         promotions
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Promotion ID" format(uuid)
// @Param        request body catalogapp.PromotionRequest true "Promotion"
// @Success      200 {object} dto.Response{data=catalogapp.PromotionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /promotions/{id} [put]
func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.PromotionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	promotion, err := h.promotions.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, promotion)
}

// Delete godoc
// @Summary      Delete a promotion
// @Tags         promotions
// @Param        id path string true "Promotion ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.promotions.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// TagHandler serves the tag vocabulary and the tags attached to products
type TagHandler struct {
	BaseHandler
	tags *catalogapp.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tags *catalogapp.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// List godoc
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Param        search    query string false "Label starts with"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.TagResponse}
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	var q searchPageQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.tags.List(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Create godoc
// @Summary      Create a tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.TagRequest true "Tag"
// @Success      201 {object} dto.Response{data=catalogapp.TagResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req catalogapp.TagRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tag, err := h.tags.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// Delete godoc
// @Summary      Delete a tag and its tagged items
// @Tags         tags
// @Param        id path string true "Tag ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.tags.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ProductTags godoc
// @Summary      List the tags of a product
// @Tags         tags
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]catalogapp.TagResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/tags [get]
func (h *TagHandler) ProductTags(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	tags, err := h.tags.ProductTags(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// Attach godoc
// @Summary      Tag a product
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Product ID" format(uuid)
// @Param        request body catalogapp.AttachTagRequest true "Tag"
// @Success      201 {object} dto.Response{data=catalogapp.TagResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/tags [post]
func (h *TagHandler) Attach(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AttachTagRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tag, err := h.tags.Attach(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// Detach godoc
// @Summary      Remove a tag from a product
// @Tags         tags
// @Param        id     path string true "Product ID" format(uuid)
// @Param        tag_id path string true "Tag ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /products/{id}/tags/{tag_id} [delete]
func (h *TagHandler) Detach(c *gin.Context) {
	productID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	tagID, ok := h.ParamUUID(c, "tag_id")
	if !ok {
		return
	}
	if err := h.tags.Detach(c.Request.Context(), productID, tagID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

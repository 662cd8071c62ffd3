package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// CollectionHandler serves product collections
type CollectionHandler struct {
	BaseHandler
	collections *catalogapp.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collections *catalogapp.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

// List godoc
// @Summary      List collections
// @Tags         collections
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Title contains"
// @Param        order_by  query string false "title, products_count or created_at"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]catalogapp.CollectionResponse}
// @Router       /collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	var q catalogapp.CollectionListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.collections.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @Summary      Get a collection with its product count
// @Tags         collections
// @Produce      json
// @Param        id path string true "Collection ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CollectionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	collection, err := h.collections.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Create godoc
// @Summary      Create a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CollectionRequest true "Collection"
// @Success      201 {object} dto.Response{data=catalogapp.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	var req catalogapp.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	collection, err := h.collections.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, collection)
}

// Update godoc
// @Summary      Update a collection
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Collection ID" format(uuid)
// @Param        request body catalogapp.CollectionRequest true "Collection"
// @Success      200 {object} dto.Response{data=catalogapp.CollectionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /collections/{id} [put]
func (h *CollectionHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.CollectionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	collection, err := h.collections.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, collection)
}

// Delete godoc
// @Summary      Delete a collection
// @Description  Refused with 405 while products belong to it
// @Tags         collections
// @Param        id path string true "Collection ID" format(uuid)
// @Success      204
// @Failure      405 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /collections/{id} [delete]
func (h *CollectionHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.collections.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

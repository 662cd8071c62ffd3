package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler serves anonymous carts. The cart id is the only credential.
type CartHandler struct {
	BaseHandler
	carts *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *cartapp.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

// Create godoc
// @Summary      Create an empty cart
// @Tags         carts
// @Produce      json
// @Success      201 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /carts [post]
func (h *CartHandler) Create(c *gin.Context) {
	cart, err := h.carts.Create(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cart)
}

// Get godoc
// @Summary      Get a cart with its items and total
// @Tags         carts
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id} [get]
func (h *CartHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Delete godoc
// @Summary      Delete a cart
// @Tags         carts
// @Param        id path string true "Cart ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id} [delete]
func (h *CartHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.carts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Items godoc
// @Summary      List the items of a cart
// @Tags         carts
// @Produce      json
// @Param        id path string true "Cart ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]cartapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id}/items [get]
func (h *CartHandler) Items(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.carts.Items(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Item godoc
// @Summary      Get one cart item
// @Tags         carts
// @Produce      json
// @Param        id      path string true "Cart ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=cartapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id}/items/{item_id} [get]
func (h *CartHandler) Item(c *gin.Context) {
	cartID, itemID, ok := h.ids(c)
	if !ok {
		return
	}
	item, err := h.carts.Item(c.Request.Context(), cartID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// AddItem godoc
// @Summary      Add a product to a cart
// @Description  Adding a product already in the cart increases its quantity
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id      path string                  true "Cart ID" format(uuid)
// @Param        request body cartapp.AddItemRequest true "Item"
// @Success      201 {object} dto.Response{data=cartapp.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id}/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	cartID, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req cartapp.AddItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.carts.AddItem(c.Request.Context(), cartID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// UpdateItem godoc
// @Summary      Change the quantity of a cart item
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Cart ID" format(uuid)
// @Param        item_id path string                     true "Item ID" format(uuid)
// @Param        request body cartapp.UpdateItemRequest true "Quantity"
// @Success      200 {object} dto.Response{data=cartapp.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id}/items/{item_id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	cartID, itemID, ok := h.ids(c)
	if !ok {
		return
	}
	var req cartapp.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.carts.UpdateItem(c.Request.Context(), cartID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// DeleteItem godoc
// @Summary      Remove an item from a cart
// @Tags         carts
// @Param        id      path string true "Cart ID" format(uuid)
// @Param        item_id path string true "Item ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /carts/{id}/items/{item_id} [delete]
func (h *CartHandler) DeleteItem(c *gin.Context) {
	cartID, itemID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.carts.DeleteItem(c.Request.Context(), cartID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *CartHandler) ids(c *gin.Context) (cartID, itemID uuid.UUID, ok bool) {
	if cartID, ok = h.ParamUUID(c, "id"); !ok {
		return
	}
	itemID, ok = h.ParamUUID(c, "item_id")
	return
}

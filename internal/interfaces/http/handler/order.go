package handler

import (
	"github.com/gin-gonic/gin"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves orders. Non-staff callers only ever see their own.
type OrderHandler struct {
	BaseHandler
	orders *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *orderapp.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        page           query int    false "Page number"
// @Param        page_size      query int    false "Page size"
// @Param        customer_id    query string false "Customer filter (staff only)" format(uuid)
// @Param        payment_status query string false "P, C or F"
// @Param        order_by       query string false "placed_at or payment_status"
// @Param        order_dir      query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]orderapp.OrderResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var q orderapp.ListQuery
	if !h.BindQuery(c, &q) || !h.QueryUUID(c, "customer_id", &q.CustomerID) {
		return
	}
	page, err := h.orders.List(c.Request.Context(), middleware.GetPrincipal(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	o, err := h.orders.Get(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Create godoc
// @Summary      Place an order
// @Description  With cart_id the cart is checked out for the caller and removed.
// @Description  Staff may instead send customer_id and items.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CreateOrderRequest true "Order"
// @Success      201 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.orders.Create(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// UpdatePaymentStatus godoc
// @Summary      Change the payment status of an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                          true "Order ID" format(uuid)
// @Param        request body orderapp.PaymentStatusRequest true "Payment status"
// @Success      200 {object} dto.Response{data=orderapp.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [patch]
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req orderapp.PaymentStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.orders.UpdatePaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Delete godoc
// @Summary      Delete an order
// @Description  Orders that still have items are protected
// @Tags         orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      405 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.orders.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

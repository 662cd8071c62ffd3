package handler

import (
	"github.com/gin-gonic/gin"
	customerapp "github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customers *customerapp.Service
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers *customerapp.Service) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// List godoc
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        page       query int    false "Page number"
// @Param        page_size  query int    false "Page size"
// @Param        search     query string false "Name or email contains"
// @Param        membership query string false "B, S or G"
// @Param        order_by   query string false "first_name, last_name, email, orders_count or created_at"
// @Param        order_dir  query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]customerapp.CustomerResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var q customerapp.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.customers.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	customer, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Create godoc
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.CustomerRequest true "Customer"
// @Success      201 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req customerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update godoc
// @Summary      Replace a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path string                       true "Customer ID" format(uuid)
// @Param        request body customerapp.CustomerRequest true "Customer"
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req customerapp.CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// ChangeMembership godoc
// @Summary      Change the membership tier of a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Customer ID" format(uuid)
// @Param        request body customerapp.MembershipRequest true "Membership"
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Security     BearerAuth
// @Router       /customers/{id}/membership [patch]
func (h *CustomerHandler) ChangeMembership(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req customerapp.MembershipRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customers.ChangeMembership(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// SetAddress godoc
// @Summary      Set the address of a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Customer ID" format(uuid)
// @Param        request body customerapp.AddressRequest true "Address"
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Security     BearerAuth
// @Router       /customers/{id}/address [put]
func (h *CustomerHandler) SetAddress(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req customerapp.AddressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customers.SetAddress(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @Summary      Delete a customer
// @Description  Customers with orders are protected
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      405 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// History godoc
// @Summary      Order history of a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=customerapp.HistoryResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/{id}/history [get]
func (h *CustomerHandler) History(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	history, err := h.customers.History(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// Me godoc
// @Summary      Get the caller's customer profile
// @Description  The profile is created on first access
// @Tags         customers
// @Produce      json
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/me [get]
func (h *CustomerHandler) Me(c *gin.Context) {
	customer, err := h.customers.Me(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// UpdateMe godoc
// @Summary      Update the caller's customer profile
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.ProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /customers/me [put]
func (h *CustomerHandler) UpdateMe(c *gin.Context) {
	var req customerapp.ProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customers.UpdateMe(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

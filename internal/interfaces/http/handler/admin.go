package handler

import (
	"github.com/gin-gonic/gin"
	adminapp "github.com/storefront/backend/internal/application/admin"
	customerapp "github.com/storefront/backend/internal/application/customer"
	pollsapp "github.com/storefront/backend/internal/application/polls"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// AdminHandler serves the back-office list views and their inline edits
type AdminHandler struct {
	BaseHandler
	admin *adminapp.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin *adminapp.Service) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Collections godoc
// @Summary      Admin collection list
// @Tags         admin
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        search    query string false "Title starts with"
// @Param        order_by  query string false "title or products_count"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]adminapp.CollectionRow}
// @Security     BearerAuth
// @Router       /admin/collections [get]
func (h *AdminHandler) Collections(c *gin.Context) {
	var q adminapp.CollectionQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.admin.Collections(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Products godoc
// @Summary      Admin product list
// @Tags         admin
// @Produce      json
// @Param        page          query int    false "Page number"
// @Param        search        query string false "Title starts with"
// @Param        collection_id query string false "Collection filter" format(uuid)
// @Param        order_by      query string false "title, unit_price or inventory"
// @Param        order_dir     query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]adminapp.ProductRow}
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *AdminHandler) Products(c *gin.Context) {
	var q adminapp.ProductQuery
	if !h.BindQuery(c, &q) || !h.QueryUUID(c, "collection_id", &q.CollectionID) {
		return
	}
	page, err := h.admin.Products(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// ChangePrice godoc
// @Summary      Edit a product price from the list
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Product ID" format(uuid)
// @Param        request body adminapp.PriceRequest true "Price"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id} [patch]
func (h *AdminHandler) ChangePrice(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req adminapp.PriceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.admin.ChangePrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Customers godoc
// @Summary      Admin customer list
// @Tags         admin
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        search    query string false "First or last name starts with"
// @Param        order_by  query string false "first_name, last_name or orders_count"
// @Param        order_dir query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]adminapp.CustomerRow}
// @Security     BearerAuth
// @Router       /admin/customers [get]
func (h *AdminHandler) Customers(c *gin.Context) {
	var q adminapp.CustomerQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.admin.Customers(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// ChangeMembership godoc
// @Summary      Edit a customer membership from the list
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id      path string                         true "Customer ID" format(uuid)
// @Param        request body customerapp.MembershipRequest true "Membership"
// @Success      200 {object} dto.Response{data=customerapp.CustomerResponse}
// @Security     BearerAuth
// @Router       /admin/customers/{id} [patch]
func (h *AdminHandler) ChangeMembership(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req customerapp.MembershipRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.admin.ChangeMembership(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Orders godoc
// @Summary      Admin order list
// @Tags         admin
// @Produce      json
// @Param        page        query int    false "Page number"
// @Param        customer_id query string false "Customer filter" format(uuid)
// @Success      200 {object} dto.Response{data=[]adminapp.OrderRow}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *AdminHandler) Orders(c *gin.Context) {
	var q adminapp.OrderQuery
	if !h.BindQuery(c, &q) || !h.QueryUUID(c, "customer_id", &q.CustomerID) {
		return
	}
	page, err := h.admin.Orders(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Questions godoc
// @Summary      Admin question list
// @Tags         admin
// @Produce      json
// @Param        page            query int    false "Page number"
// @Param        search          query string false "Question text contains"
// @Param        published_year  query int    false "Year"
// @Param        published_month query int    false "Month"
// @Success      200 {object} dto.Response{data=[]pollsapp.QuestionResponse}
// @Security     BearerAuth
// @Router       /admin/questions [get]
func (h *AdminHandler) Questions(c *gin.Context) {
	var q adminapp.QuestionQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.admin.Questions(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// CreateQuestion godoc
// @Summary      Create a question with inline choices
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body pollsapp.QuestionRequest true "Question"
// @Success      201 {object} dto.Response{data=pollsapp.QuestionResponse}
// @Security     BearerAuth
// @Router       /admin/questions [post]
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req pollsapp.QuestionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	q, err := h.admin.CreateQuestion(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

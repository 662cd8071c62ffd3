package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/storefront/backend/internal/application/report"
)

// ReportHandler serves the cached aggregation reports
type ReportHandler struct {
	BaseHandler
	reports *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *reportapp.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ProductSummary godoc
// @Summary      Count and price statistics of all products
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.ProductPriceSummary}
// @Security     BearerAuth
// @Router       /reports/products/summary [get]
func (h *ReportHandler) ProductSummary(c *gin.Context) {
	summary, err := h.reports.ProductSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// OrderItemSummary godoc
// @Summary      Quantity statistics of all order items
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=report.OrderItemSummary}
// @Security     BearerAuth
// @Router       /reports/order-items/summary [get]
func (h *ReportHandler) OrderItemSummary(c *gin.Context) {
	summary, err := h.reports.OrderItemSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Revenue godoc
// @Summary      Revenue per order
// @Tags         reports
// @Produce      json
// @Param        customer_id query string false "Customer filter" format(uuid)
// @Success      200 {object} dto.Response{data=report.Revenue}
// @Security     BearerAuth
// @Router       /reports/revenue [get]
func (h *ReportHandler) Revenue(c *gin.Context) {
	var q reportapp.RevenueQuery
	if !h.QueryUUID(c, "customer_id", &q.CustomerID) {
		return
	}
	revenue, err := h.reports.Revenue(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, revenue)
}

// TopCustomers godoc
// @Summary      Customers ranked by order count
// @Tags         reports
// @Produce      json
// @Param        limit query int false "Top N, default 10"
// @Success      200 {object} dto.Response{data=[]report.CustomerOrders}
// @Security     BearerAuth
// @Router       /reports/customers/orders [get]
func (h *ReportHandler) TopCustomers(c *gin.Context) {
	var q reportapp.TopCustomersQuery
	if !h.BindQuery(c, &q) {
		return
	}
	rows, err := h.reports.TopCustomers(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// DiscountedProducts godoc
// @Summary      Products with a 20% discounted price
// @Tags         reports
// @Produce      json
// @Param        collection_id query string false "Collection filter" format(uuid)
// @Success      200 {object} dto.Response{data=[]report.DiscountedProduct}
// @Security     BearerAuth
// @Router       /reports/products/discounted [get]
func (h *ReportHandler) DiscountedProducts(c *gin.Context) {
	var q reportapp.DiscountedQuery
	if !h.QueryUUID(c, "collection_id", &q.CollectionID) {
		return
	}
	rows, err := h.reports.DiscountedProducts(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

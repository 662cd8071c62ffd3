package admin

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListQuery is the paging and sorting shared by every back-office list
type ListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// CollectionQuery lists collections
type CollectionQuery struct {
	ListQuery
	OrderBy string `form:"order_by" binding:"omitempty,oneof=title products_count"`
}

// ProductQuery lists products
type ProductQuery struct {
	ListQuery
	CollectionID *uuid.UUID `form:"-"`
	OrderBy      string     `form:"order_by" binding:"omitempty,oneof=title unit_price inventory"`
}

// CustomerQuery lists customers
type CustomerQuery struct {
	ListQuery
	OrderBy string `form:"order_by" binding:"omitempty,oneof=first_name last_name orders_count"`
}

// OrderQuery lists orders
type OrderQuery struct {
	ListQuery
	CustomerID *uuid.UUID `form:"-"`
}

// QuestionQuery lists questions with the date hierarchy filters
type QuestionQuery struct {
	ListQuery
	PublishedYear  int `form:"published_year" binding:"omitempty,min=1970,max=9999"`
	PublishedMonth int `form:"published_month" binding:"omitempty,min=1,max=12"`
}

// PriceRequest is the editable price column
type PriceRequest struct {
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

// CollectionRow is one line of the collection list
type CollectionRow struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	ProductsCount int64     `json:"products_count"`
	ProductsURL   string    `json:"products_url"`
}

// ProductRow is one line of the product list
type ProductRow struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Inventory       int             `json:"inventory"`
	InventoryStatus string          `json:"inventory_status"`
	CollectionTitle string          `json:"collection_title"`
	Tags            []string        `json:"tags"`
}

// CustomerRow is one line of the customer list
type CustomerRow struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Membership  string    `json:"membership"`
	OrdersCount int64     `json:"orders_count"`
	OrdersURL   string    `json:"orders_url"`
}

// OrderRow is one line of the order list
type OrderRow struct {
	ID            uuid.UUID `json:"id"`
	PlacedAt      time.Time `json:"placed_at"`
	PaymentStatus string    `json:"payment_status"`
	Customer      string    `json:"customer"`
	Email         string    `json:"email"`
}

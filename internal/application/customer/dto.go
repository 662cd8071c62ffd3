package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

const dateLayout = "2006-01-02"

// ProfileRequest carries the fields a customer edits on their own profile
type ProfileRequest struct {
	FirstName string  `json:"first_name" binding:"required,max=255"`
	LastName  string  `json:"last_name" binding:"required,max=255"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	Phone     string  `json:"phone" binding:"max=255"`
	BirthDate *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
}

// CustomerRequest creates or replaces a customer. Membership defaults to bronze.
type CustomerRequest struct {
	ProfileRequest
	Membership string `json:"membership" binding:"omitempty,oneof=B S G"`
}

// AddressRequest sets the customer address
type AddressRequest struct {
	Street string `json:"street" binding:"required,max=255"`
	City   string `json:"city" binding:"required,max=255"`
}

// MembershipRequest changes the loyalty tier
type MembershipRequest struct {
	Membership string `json:"membership" binding:"required,oneof=B S G"`
}

// ListQuery holds the customer list query string
type ListQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search     string `form:"search"`
	Membership string `form:"membership" binding:"omitempty,oneof=B S G"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=first_name last_name email orders_count created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// AddressResponse is the postal address of a customer
type AddressResponse struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID        `json:"id"`
	FirstName       string           `json:"first_name"`
	LastName        string           `json:"last_name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	BirthDate       *string          `json:"birth_date"`
	Membership      string           `json:"membership"`
	MembershipLabel string           `json:"membership_label"`
	UserID          *uuid.UUID       `json:"user_id"`
	Address         *AddressResponse `json:"address"`
	OrdersCount     int64            `json:"orders_count"`
	CreatedAt       time.Time        `json:"created_at"`
}

// OrderSummary is one order in a customer's history
type OrderSummary struct {
	ID            uuid.UUID       `json:"id"`
	PlacedAt      time.Time       `json:"placed_at"`
	PaymentStatus string          `json:"payment_status"`
	ItemsCount    int             `json:"items_count"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// HistoryResponse is a customer with their orders, newest first
type HistoryResponse struct {
	Customer CustomerResponse `json:"customer"`
	Orders   []OrderSummary   `json:"orders"`
}

// ToCustomerResponse converts a domain customer
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Phone:           c.Phone,
		Membership:      string(c.Membership),
		MembershipLabel: membershipLabel(c.Membership),
		UserID:          c.UserID,
		OrdersCount:     c.OrdersCount,
		CreatedAt:       c.CreatedAt,
	}
	if c.BirthDate != nil {
		d := c.BirthDate.Format(dateLayout)
		resp.BirthDate = &d
	}
	if c.Address != nil {
		resp.Address = &AddressResponse{Street: c.Address.Street, City: c.Address.City}
	}
	return resp
}

func toOrderSummary(o *order.Order) OrderSummary {
	return OrderSummary{
		ID:            o.ID,
		PlacedAt:      o.PlacedAt,
		PaymentStatus: string(o.PaymentStatus),
		ItemsCount:    len(o.Items),
		TotalPrice:    o.TotalPrice(),
	}
}

func membershipLabel(m customer.Membership) string {
	switch m {
	case customer.MembershipBronze:
		return "Bronze"
	case customer.MembershipSilver:
		return "Silver"
	case customer.MembershipGold:
		return "Gold"
	}
	return string(m)
}

func (r ProfileRequest) toProfile() (customer.Profile, error) {
	p := customer.Profile{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
	}
	if r.BirthDate != nil && *r.BirthDate != "" {
		d, err := time.Parse(dateLayout, *r.BirthDate)
		if err != nil {
			return p, shared.NewValidationError("birth_date must be formatted as YYYY-MM-DD")
		}
		p.BirthDate = &d
	}
	return p, nil
}

package customer

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

const (
	AggregateTypeCustomer    = "Customer"
	EventTypeCustomerCreated = "CustomerCreated"
)

// CustomerCreatedEvent is published when a customer profile is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID),
		CustomerID:      c.ID,
		Email:           c.Email,
	}
}

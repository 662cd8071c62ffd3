package event

import (
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/polls"
	"github.com/storefront/backend/internal/domain/shared"
)

// TypeRegistrar is satisfied by the outbox event serializer
type TypeRegistrar interface {
	Register(eventType string, prototype shared.DomainEvent)
}

// RegisterEventTypes teaches r every event type the application records
func RegisterEventTypes(r TypeRegistrar) {
	r.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	r.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	r.Register(catalog.EventTypeProductPriceChanged, &catalog.ProductPriceChangedEvent{})
	r.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})
	r.Register(catalog.EventTypeCollectionCreated, &catalog.CollectionCreatedEvent{})
	r.Register(customer.EventTypeCustomerCreated, &customer.CustomerCreatedEvent{})
	r.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	r.Register(order.EventTypeOrderPaymentStatusChanged, &order.OrderPaymentStatusChangedEvent{})
	r.Register(polls.EventTypeQuestionPublished, &polls.QuestionPublishedEvent{})
	r.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
}

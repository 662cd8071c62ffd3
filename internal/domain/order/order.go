package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// PaymentStatus is the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "P"
	PaymentStatusComplete PaymentStatus = "C"
	PaymentStatusFailed   PaymentStatus = "F"
)

// MaxItemQuantity is the upper bound of a positive small integer
const MaxItemQuantity = 32767

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed:
		return true
	}
	return false
}

// Label returns the human readable status name
func (s PaymentStatus) Label() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusComplete:
		return "Complete"
	case PaymentStatusFailed:
		return "Failed"
	}
	return string(s)
}

var allowedTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusComplete, PaymentStatusFailed},
	PaymentStatusFailed:  {PaymentStatusPending},
}

// CanTransitionTo reports whether the status may move to next
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order is a placed purchase. It is the aggregate root for its items.
type Order struct {
	shared.BaseAggregateRoot
	PlacedAt      time.Time
	PaymentStatus PaymentStatus
	CustomerID    uuid.UUID
	Items         []OrderItem
}

// OrderItem is a product line with the unit price captured when the order was placed
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineInput describes one line of a new order
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewOrder places an order for a customer
func NewOrder(customerID uuid.UUID, lines []LineInput) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Order must belong to a customer")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentStatus:     PaymentStatusPending,
		CustomerID:        customerID,
		Items:             make([]OrderItem, 0, len(lines)),
	}
	o.PlacedAt = o.CreatedAt

	for _, line := range lines {
		if err := validateLine(line); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, OrderItem{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    o.ID,
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice.Round(2),
		})
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))
	return o, nil
}

// ChangePaymentStatus moves the order to a new payment status
func (o *Order) ChangePaymentStatus(next PaymentStatus) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Payment status must be one of P, C, F")
	}
	if next == o.PaymentStatus {
		return nil
	}
	if !o.PaymentStatus.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot change payment status from "+o.PaymentStatus.Label()+" to "+next.Label())
	}
	old := o.PaymentStatus
	o.PaymentStatus = next
	o.Touch()

	o.AddDomainEvent(NewOrderPaymentStatusChangedEvent(o, old))
	return nil
}

// CanDelete refuses deletion while the order still has items
func (o *Order) CanDelete() error {
	if len(o.Items) > 0 {
		return shared.NewProtectedError("Order cannot be deleted because it has order items")
	}
	return nil
}

// TotalPrice sums quantity times the captured unit price
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalPrice())
	}
	return total
}

// TotalPrice is quantity times unit price
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func validateLine(line LineInput) error {
	if line.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Order item must reference a product")
	}
	if line.Quantity < 1 || line.Quantity > MaxItemQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be between 1 and 32767")
	}
	if line.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return nil
}

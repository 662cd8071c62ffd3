// Package order implements checkout and order management use cases
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const defaultPageSize = 20

var (
	// ErrEmptyCart is returned when checkout finds no lines to order
	ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "The cart is empty or does not exist.")
	// ErrUnknownCustomer is returned when staff name a missing customer
	ErrUnknownCustomer = shared.NewDomainError("INVALID_CUSTOMER", "No customer with the given ID was found.")
)

// CustomerResolver returns the customer profile of a login user, creating it
// when absent
type CustomerResolver interface {
	EnsureForUser(ctx context.Context, userID uuid.UUID) (*customer.Customer, error)
}

// CustomerFinder is the read slice of the customer repository
type CustomerFinder interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*customer.Customer, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProductPricer loads products to price staff-created lines
type ProductPricer interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error)
}

// Service handles order operations
type Service struct {
	uow       shared.UnitOfWork
	orders    order.OrderRepository
	carts     cart.CartRepository
	products  ProductPricer
	customers CustomerFinder
	resolver  CustomerResolver
	recorder  shared.EventRecorder
	logger    *zap.Logger
}

// NewService creates a new order service
func NewService(
	uow shared.UnitOfWork,
	orders order.OrderRepository,
	carts cart.CartRepository,
	products ProductPricer,
	customers CustomerFinder,
	resolver CustomerResolver,
	recorder shared.EventRecorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		uow:       uow,
		orders:    orders,
		carts:     carts,
		products:  products,
		customers: customers,
		resolver:  resolver,
		recorder:  recorder,
		logger:    logger,
	}
}

// List returns a page of orders. Staff see every order; other callers see
// only the orders of their own customer profile.
func (s *Service) List(ctx context.Context, caller identity.Principal, q ListQuery) (*shared.Paginated[OrderResponse], error) {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	filter := shared.PageFilter(q.Page, pageSize)
	filter.OrderBy = q.OrderBy
	filter.OrderDir = q.OrderDir
	if q.PaymentStatus != "" {
		filter = filter.With(order.FilterPaymentStatus, q.PaymentStatus)
	}

	if caller.IsStaff {
		if q.CustomerID != nil {
			filter = filter.With(order.FilterCustomerID, *q.CustomerID)
		}
	} else {
		own, err := s.customers.FindByUserID(ctx, caller.UserID)
		if errors.Is(err, shared.ErrNotFound) {
			empty := shared.NewPaginated([]OrderResponse{}, 0, filter.Page(), pageSize)
			return &empty, nil
		}
		if err != nil {
			return nil, err
		}
		filter = filter.With(order.FilterCustomerID, own.ID)
	}

	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, filter.Page(), pageSize)
	return &page, nil
}

// Get returns one order. Orders of other customers look missing to non-staff callers.
func (s *Service) Get(ctx context.Context, caller identity.Principal, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		own, err := s.customers.FindByUserID(ctx, caller.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrNotFound
			}
			return nil, err
		}
		if own.ID != o.CustomerID {
			return nil, shared.ErrNotFound
		}
	}
	out := ToOrderResponse(o)
	return &out, nil
}

// Create places an order, either by checking out a cart or, for staff, from
// explicit lines
func (s *Service) Create(ctx context.Context, caller identity.Principal, req CreateOrderRequest) (*OrderResponse, error) {
	if !caller.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}
	if req.IsCheckout() {
		return s.Checkout(ctx, caller, *req.CartID)
	}
	if !caller.IsStaff {
		return nil, shared.NewValidationError("cart_id is required")
	}
	if req.CustomerID == nil || len(req.Items) == 0 {
		return nil, shared.NewValidationError("customer_id and items are required")
	}
	return s.createForCustomer(ctx, *req.CustomerID, req.Items)
}

// Checkout converts the cart into an order for the caller in one transaction.
// Unit prices are captured from the products at this moment and the cart is
// removed afterwards.
func (s *Service) Checkout(ctx context.Context, caller identity.Principal, cartID uuid.UUID) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.checkout",
		attribute.String("cart.id", cartID.String()),
		attribute.String("user.id", caller.UserID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	var placed *order.Order
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		buyer, err := s.resolver.EnsureForUser(ctx, caller.UserID)
		if err != nil {
			return err
		}
		c, err := s.carts.FindByID(ctx, cartID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return ErrEmptyCart
		}

		lines := make([]order.LineInput, len(c.Items))
		for i := range c.Items {
			lines[i] = order.LineInput{
				ProductID: c.Items[i].ProductID,
				Quantity:  c.Items[i].Quantity,
				UnitPrice: c.Items[i].Product.UnitPrice,
			}
		}
		o, err := order.NewOrder(buyer.ID, lines)
		if err != nil {
			return err
		}
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}
		if err := s.carts.Delete(ctx, cartID); err != nil {
			return fmt.Errorf("failed to delete cart after checkout: %w", err)
		}
		if err := s.recorder.Record(ctx, o.GetDomainEvents()...); err != nil {
			return err
		}
		o.ClearDomainEvents()
		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("customer_id", placed.CustomerID.String()),
		zap.Int("items", len(placed.Items)),
		zap.String("total", placed.TotalPrice().StringFixed(2)))
	out := ToOrderResponse(placed)
	return &out, nil
}

func (s *Service) createForCustomer(ctx context.Context, customerID uuid.UUID, req []LineRequest) (*OrderResponse, error) {
	exists, err := s.customers.ExistsByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownCustomer
	}

	ids := make([]uuid.UUID, 0, len(req))
	seen := make(map[uuid.UUID]bool, len(req))
	for _, line := range req {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			ids = append(ids, line.ProductID)
		}
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	prices := make(map[uuid.UUID]catalog.Product, len(products))
	for _, p := range products {
		prices[p.ID] = p
	}

	lines := make([]order.LineInput, len(req))
	for i, line := range req {
		p, ok := prices[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found: "+line.ProductID.String())
		}
		lines[i] = order.LineInput{ProductID: p.ID, Quantity: line.Quantity, UnitPrice: p.UnitPrice}
	}
	o, err := order.NewOrder(customerID, lines)
	if err != nil {
		return nil, err
	}
	if err := s.uow.Do(ctx, func(ctx context.Context) error {
		if err := s.orders.Create(ctx, o); err != nil {
			return err
		}
		return s.recorder.Record(ctx, o.GetDomainEvents()...)
	}); err != nil {
		return nil, err
	}
	o.ClearDomainEvents()
	out := ToOrderResponse(o)
	return &out, nil
}

// UpdatePaymentStatus moves an order to a new payment status
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req PaymentStatusRequest) (resp *OrderResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.update_payment_status",
		attribute.String("order.id", id.String()),
		attribute.String("order.payment_status", req.PaymentStatus),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	var updated *order.Order
	err = s.uow.Do(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.ChangePaymentStatus(order.PaymentStatus(req.PaymentStatus)); err != nil {
			return err
		}
		events := o.GetDomainEvents()
		if len(events) == 0 {
			updated = o
			return nil
		}
		if err := s.orders.UpdatePaymentStatus(ctx, o); err != nil {
			return err
		}
		if err := s.recorder.Record(ctx, events...); err != nil {
			return err
		}
		o.ClearDomainEvents()
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := ToOrderResponse(updated)
	return &out, nil
}

// Delete removes an order without items
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(ctx context.Context) error {
		o, err := s.orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := o.CanDelete(); err != nil {
			return err
		}
		return s.orders.Delete(ctx, id)
	})
}

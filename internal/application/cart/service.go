// Package cart implements the anonymous shopping cart use cases
package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrUnknownProduct is returned when a line references a missing product
var ErrUnknownProduct = shared.NewDomainError("INVALID_PRODUCT", "No product with the given ID was found.")

// ProductChecker is the slice of the product repository the cart needs
type ProductChecker interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service handles cart operations
type Service struct {
	carts    cart.CartRepository
	products ProductChecker
	logger   *zap.Logger
}

// NewService creates a new cart service
func NewService(carts cart.CartRepository, products ProductChecker, logger *zap.Logger) *Service {
	return &Service{carts: carts, products: products, logger: logger}
}

// Create opens an empty cart
func (s *Service) Create(ctx context.Context) (*CartResponse, error) {
	c := cart.NewCart()
	if err := s.carts.Create(ctx, c); err != nil {
		return nil, err
	}
	out := ToCartResponse(c)
	return &out, nil
}

// Get returns a cart with its lines
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*CartResponse, error) {
	c, err := s.carts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToCartResponse(c)
	return &out, nil
}

// Delete removes a cart and its lines
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ensureCart(ctx, id); err != nil {
		return err
	}
	return s.carts.Delete(ctx, id)
}

// Items lists the lines of a cart
func (s *Service) Items(ctx context.Context, cartID uuid.UUID) ([]ItemResponse, error) {
	if err := s.ensureCart(ctx, cartID); err != nil {
		return nil, err
	}
	items, err := s.carts.FindItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out, nil
}

// Item returns one line of a cart
func (s *Service) Item(ctx context.Context, cartID, itemID uuid.UUID) (*ItemResponse, error) {
	item, err := s.carts.FindItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	out := ToItemResponse(item)
	return &out, nil
}

// AddItem merges quantity into the line for the product or creates a new
// line. The merge is a single upsert so concurrent adds never lose an increment.
func (s *Service) AddItem(ctx context.Context, cartID uuid.UUID, req AddItemRequest) (resp *ItemResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "cart.item.add",
		attribute.String("cart.id", cartID.String()),
		attribute.String("product.id", req.ProductID.String()),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	if err := s.ensureCart(ctx, cartID); err != nil {
		return nil, err
	}
	exists, err := s.products.ExistsByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownProduct
	}

	item, err := cart.NewCartItem(cartID, req.ProductID, req.Quantity)
	if err != nil {
		return nil, err
	}
	stored, err := s.carts.MergeItem(ctx, item)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Cart line merged",
		zap.String("cart_id", cartID.String()),
		zap.String("item_id", stored.ID.String()),
		zap.Int("quantity", stored.Quantity))
	out := ToItemResponse(stored)
	return &out, nil
}

// UpdateItem sets the quantity of a line
func (s *Service) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, req UpdateItemRequest) (*ItemResponse, error) {
	item, err := s.carts.FindItem(ctx, cartID, itemID)
	if err != nil {
		return nil, err
	}
	if err := item.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	out := ToItemResponse(item)
	return &out, nil
}

// DeleteItem removes a line from a cart
func (s *Service) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return s.carts.DeleteItem(ctx, cartID, itemID)
}

func (s *Service) ensureCart(ctx context.Context, id uuid.UUID) error {
	exists, err := s.carts.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return shared.ErrNotFound
	}
	return nil
}

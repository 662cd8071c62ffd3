package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Create(ctx context.Context, c *cart.Cart) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCartRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) FindItems(ctx context.Context, cartID uuid.UUID) ([]cart.CartItem, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).([]cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, cartID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) MergeItem(ctx context.Context, item *cart.CartItem) (*cart.CartItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) UpdateItem(ctx context.Context, item *cart.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return m.Called(ctx, cartID, itemID).Error(0)
}

type MockProductChecker struct {
	mock.Mock
}

func (m *MockProductChecker) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestService_Create(t *testing.T) {
	carts := new(MockCartRepository)
	svc := NewService(carts, new(MockProductChecker), zap.NewNop())
	carts.On("Create", mock.Anything, mock.AnythingOfType("*cart.Cart")).Return(nil)

	resp, err := svc.Create(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Empty(t, resp.Items)
	assert.True(t, resp.TotalPrice.IsZero())
}

func TestService_AddItem_MergesIntoExistingLine(t *testing.T) {
	carts := new(MockCartRepository)
	products := new(MockProductChecker)
	svc := NewService(carts, products, zap.NewNop())
	cartID, productID := uuid.New(), uuid.New()

	carts.On("ExistsByID", mock.Anything, cartID).Return(true, nil)
	products.On("ExistsByID", mock.Anything, productID).Return(true, nil)
	merged := &cart.CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   5,
		Product:    cart.ProductSummary{ID: productID, Title: "Mug", UnitPrice: decimal.RequireFromString("4.50")},
	}
	carts.On("MergeItem", mock.Anything, mock.MatchedBy(func(item *cart.CartItem) bool {
		return item.CartID == cartID && item.ProductID == productID && item.Quantity == 2
	})).Return(merged, nil)

	resp, err := svc.AddItem(context.Background(), cartID, AddItemRequest{ProductID: productID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, merged.ID, resp.ID)
	assert.Equal(t, 5, resp.Quantity)
	assert.True(t, decimal.RequireFromString("22.50").Equal(resp.TotalPrice))
}

func TestService_AddItem_UnknownProduct(t *testing.T) {
	carts := new(MockCartRepository)
	products := new(MockProductChecker)
	svc := NewService(carts, products, zap.NewNop())
	cartID, productID := uuid.New(), uuid.New()

	carts.On("ExistsByID", mock.Anything, cartID).Return(true, nil)
	products.On("ExistsByID", mock.Anything, productID).Return(false, nil)

	_, err := svc.AddItem(context.Background(), cartID, AddItemRequest{ProductID: productID, Quantity: 1})
	require.ErrorIs(t, err, ErrUnknownProduct)
	assert.Equal(t, "No product with the given ID was found.", err.Error())
	carts.AssertNotCalled(t, "MergeItem", mock.Anything, mock.Anything)
}

func TestService_AddItem_UnknownCart(t *testing.T) {
	carts := new(MockCartRepository)
	svc := NewService(carts, new(MockProductChecker), zap.NewNop())
	cartID := uuid.New()
	carts.On("ExistsByID", mock.Anything, cartID).Return(false, nil)

	_, err := svc.AddItem(context.Background(), cartID, AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_UpdateItem(t *testing.T) {
	carts := new(MockCartRepository)
	svc := NewService(carts, new(MockProductChecker), zap.NewNop())
	cartID := uuid.New()
	item, err := cart.NewCartItem(cartID, uuid.New(), 1)
	require.NoError(t, err)

	carts.On("FindItem", mock.Anything, cartID, item.ID).Return(item, nil)
	carts.On("UpdateItem", mock.Anything, item).Return(nil)

	resp, err := svc.UpdateItem(context.Background(), cartID, item.ID, UpdateItemRequest{Quantity: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Quantity)

	_, err = svc.UpdateItem(context.Background(), cartID, item.ID, UpdateItemRequest{Quantity: 0})
	assert.ErrorIs(t, err, shared.NewDomainError("INVALID_QUANTITY", ""))
}

func TestService_Item_OtherCart(t *testing.T) {
	carts := new(MockCartRepository)
	svc := NewService(carts, new(MockProductChecker), zap.NewNop())
	cartID, itemID := uuid.New(), uuid.New()
	carts.On("FindItem", mock.Anything, cartID, itemID).Return(nil, shared.ErrNotFound)

	_, err := svc.Item(context.Background(), cartID, itemID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

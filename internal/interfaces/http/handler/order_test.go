package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, app *testApp, price string, inventory int) *catalogapp.ProductResponse {
	t.Helper()
	ctx := context.Background()
	col, err := app.collections.Create(ctx, catalogapp.CollectionRequest{Title: "Beverages"})
	require.NoError(t, err)
	p, err := app.products.Create(ctx, catalogapp.CreateProductRequest{
		Title:        "Cold brew",
		UnitPrice:    decimal.RequireFromString(price),
		Inventory:    inventory,
		CollectionID: col.ID,
	})
	require.NoError(t, err)
	return p
}

func TestCheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	product := seedCatalog(t, app, "4.50", 20)
	token, _ := app.signUp(t, "henry")

	w := app.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cart cartapp.CartResponse
	decodeData(t, w, &cart)
	cartPath := "/api/v1/carts/" + cart.ID.String()

	add := map[string]any{"product_id": product.ID, "quantity": 2}
	w = app.do(t, http.MethodPost, cartPath+"/items", "", add)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first cartapp.ItemResponse
	decodeData(t, w, &first)

	// the same product again merges into the existing line
	w = app.do(t, http.MethodPost, cartPath+"/items", "", add)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var merged cartapp.ItemResponse
	decodeData(t, w, &merged)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 4, merged.Quantity)

	w = app.do(t, http.MethodGet, cartPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &cart)
	require.Len(t, cart.Items, 1)
	assert.True(t, decimal.RequireFromString("18").Equal(cart.TotalPrice), cart.TotalPrice.String())

	w = app.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{"cart_id": cart.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var placed orderapp.OrderResponse
	decodeData(t, w, &placed)
	assert.Equal(t, "P", placed.PaymentStatus)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 4, placed.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("4.50").Equal(placed.Items[0].UnitPrice))

	t.Run("cart is removed", func(t *testing.T) {
		w := app.do(t, http.MethodGet, cartPath, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("customer profile was created", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/v1/customers/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var me customerapp.CustomerResponse
		decodeData(t, w, &me)
		assert.Equal(t, placed.CustomerID, me.ID)
	})

	t.Run("owner lists the order", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/v1/orders", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var orders []orderapp.OrderResponse
		decodeData(t, w, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, placed.ID, orders[0].ID)
	})

	t.Run("other customers cannot see it", func(t *testing.T) {
		other, _ := app.signUp(t, "irene")
		w := app.do(t, http.MethodGet, "/api/v1/orders/"+placed.ID.String(), other, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = app.do(t, http.MethodGet, "/api/v1/orders", other, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var orders []orderapp.OrderResponse
		decodeData(t, w, &orders)
		assert.Empty(t, orders)
	})
}

func TestCheckout_EmptyCart(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signUp(t, "jack")

	w := app.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	var cart cartapp.CartResponse
	decodeData(t, w, &cart)

	w = app.do(t, http.MethodPost, "/api/v1/orders", token, map[string]any{"cart_id": cart.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeEmptyCart, decodeError(t, w).Code)
}

func TestOrders_RequireAuth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/orders", "", map[string]any{"cart_id": uuid.New()})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartItem_UnknownProduct(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodPost, "/api/v1/carts", "", nil)
	var cart cartapp.CartResponse
	decodeData(t, w, &cart)

	w = app.do(t, http.MethodPost, "/api/v1/carts/"+cart.ID.String()+"/items", "",
		map[string]any{"product_id": uuid.New(), "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart_MalformedIDIsNotFound(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/carts/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
}

//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAPI(app *storefront, caller identity.Principal) *gin.Engine {
	middleware.SetupValidator()
	engine := gin.New()
	api := engine.Group("/api/v1", testutil.AuthenticateAs(caller))

	products := handler.NewProductHandler(app.products)
	api.GET("/products", products.List)
	api.POST("/products", middleware.RequirePermission(identity.PermissionCatalogWrite), products.Create)

	carts := handler.NewCartHandler(app.carts)
	api.POST("/carts", carts.Create)
	api.POST("/carts/:id/items", carts.AddItem)

	orders := handler.NewOrderHandler(app.orders)
	api.POST("/orders", middleware.RequireAuth(), orders.Create)
	api.GET("/orders/:id", middleware.RequireAuth(), orders.Get)
	return engine
}

func TestStorefrontAPI_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	app := newStorefront(tdb)

	user, err := identity.NewUser("grace", "grace@example.com", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, app.users.Save(ctx, user))

	coll, err := app.collections.Create(ctx, catalogapp.CollectionRequest{Title: "Bakery"})
	require.NoError(t, err)

	staff := newAPI(app, testutil.Staff(testutil.NewTestUUID("staff"), identity.PermissionCatalogWrite))
	shopper := newAPI(app, testutil.Customer(user.ID))

	t.Run("catalog writes need the permission", func(t *testing.T) {
		w := testutil.Do(t, shopper, http.MethodPost, "/api/v1/products", map[string]any{
			"title": "Rye", "unit_price": "3.00", "collection_id": coll.ID,
		})
		testutil.AssertError(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
	})

	w := testutil.Do(t, staff, http.MethodPost, "/api/v1/products", map[string]any{
		"title": "Sourdough", "unit_price": "4.20", "inventory": 15, "collection_id": coll.ID,
	})
	product := testutil.DataAs[catalogapp.ProductResponse](t, w, http.StatusCreated)
	assert.Equal(t, "sourdough", product.Slug)

	w = testutil.Do(t, shopper, http.MethodPost, "/api/v1/carts", nil)
	cart := testutil.DataAs[cartapp.CartResponse](t, w, http.StatusCreated)

	t.Run("empty cart cannot be ordered", func(t *testing.T) {
		w := testutil.Do(t, shopper, http.MethodPost, "/api/v1/orders", map[string]any{"cart_id": cart.ID})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeEmptyCart)
	})

	w = testutil.Do(t, shopper, http.MethodPost, "/api/v1/carts/"+cart.ID.String()+"/items",
		map[string]any{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.Do(t, shopper, http.MethodPost, "/api/v1/orders", map[string]any{"cart_id": cart.ID})
	placed := testutil.DataAs[orderapp.OrderResponse](t, w, http.StatusCreated)
	assert.True(t, decimal.RequireFromString("8.40").Equal(placed.TotalPrice))

	w = testutil.Do(t, shopper, http.MethodGet, "/api/v1/orders/"+placed.ID.String(), nil)
	got := testutil.DataAs[orderapp.OrderResponse](t, w, http.StatusOK)
	assert.Equal(t, placed.ID, got.ID)

	t.Run("malformed order id is not found", func(t *testing.T) {
		w := testutil.Do(t, shopper, http.MethodGet, "/api/v1/orders/not-a-uuid", nil)
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}

func TestOutboxDelivery_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	app := newStorefront(tdb)

	user, err := identity.NewUser("linus", "linus@example.com", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, app.users.Save(ctx, user))
	coll, err := app.collections.Create(ctx, catalogapp.CollectionRequest{Title: "Dairy"})
	require.NoError(t, err)
	milk, err := app.products.Create(ctx, catalogapp.CreateProductRequest{
		Title: "Milk", UnitPrice: decimal.RequireFromString("1.20"), CollectionID: coll.ID,
	})
	require.NoError(t, err)
	cart, err := app.carts.Create(ctx)
	require.NoError(t, err)
	_, err = app.carts.AddItem(ctx, cart.ID, cartapp.AddItemRequest{ProductID: milk.ID, Quantity: 1})
	require.NoError(t, err)
	placed, err := app.orders.Checkout(ctx, testutil.Customer(user.ID), cart.ID)
	require.NoError(t, err)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	recorder := testutil.NewRecordingHandler(order.EventTypeOrderPlaced)
	bus.Subscribe(recorder)
	require.NoError(t, bus.Start(ctx))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	processor := event.NewOutboxProcessor(app.outbox, bus, app.serializer, config.OutboxConfig{
		PollInterval:    20 * time.Millisecond,
		BatchSize:       10,
		Retention:       time.Hour,
		CleanupInterval: time.Hour,
	}, zap.NewNop())
	require.NoError(t, processor.Start(ctx))
	t.Cleanup(func() { _ = processor.Stop(context.Background()) })

	require.True(t, testutil.WaitForEvents(t, recorder, 1, 5*time.Second))
	ev := recorder.Handled()[0]
	assert.Equal(t, order.EventTypeOrderPlaced, ev.EventType())
	assert.Equal(t, placed.ID, ev.AggregateID())

	assert.Eventually(t, func() bool {
		counts, err := app.outbox.CountByStatus(ctx)
		return err == nil && counts[shared.OutboxStatusPending] == 0 && counts[shared.OutboxStatusSent] > 0
	}, 5*time.Second, 20*time.Millisecond)
}

//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	appevent "github.com/storefront/backend/internal/application/event"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type storefront struct {
	collections *catalogapp.CollectionService
	products    *catalogapp.ProductService
	carts       *cartapp.Service
	customers   *customerapp.Service
	orders      *orderapp.Service
	users       *persistence.GormUserRepository
	outbox      *persistence.GormOutboxRepository
	serializer  *event.EventSerializer
}

func newStorefront(tdb *TestDB) *storefront {
	log := zap.NewNop()
	db := tdb.Database
	serializer := event.NewEventSerializer()
	appevent.RegisterEventTypes(serializer)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)
	recorder := event.NewOutboxRecorder(outboxRepo, serializer)

	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	customers := customerapp.NewService(db, customerRepo, userRepo, orderRepo, recorder, log)
	return &storefront{
		collections: catalogapp.NewCollectionService(db, collectionRepo, productRepo, recorder, log),
		products: catalogapp.NewProductService(db, productRepo, collectionRepo,
			persistence.NewGormPromotionRepository(db.DB), recorder),
		carts:     cartapp.NewService(cartRepo, productRepo, log),
		customers: customers,
		orders:    orderapp.NewService(db, orderRepo, cartRepo, productRepo, customerRepo, customers, recorder, log),
		users:      userRepo,
		outbox:     outboxRepo,
		serializer: serializer,
	}
}

func TestCheckoutFlow_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	app := newStorefront(tdb)

	user, err := identity.NewUser("ada", "ada@example.com", "correct-horse-battery")
	require.NoError(t, err)
	require.NoError(t, user.SetName("Ada", "Lovelace"))
	require.NoError(t, app.users.Save(ctx, user))
	caller := identity.Principal{UserID: user.ID, Username: user.Username}

	coll, err := app.collections.Create(ctx, catalogapp.CollectionRequest{Title: "Grocery"})
	require.NoError(t, err)
	tea, err := app.products.Create(ctx, catalogapp.CreateProductRequest{
		Title:        "Green Tea",
		UnitPrice:    decimal.RequireFromString("7.50"),
		Inventory:    10,
		CollectionID: coll.ID,
	})
	require.NoError(t, err)

	cart, err := app.carts.Create(ctx)
	require.NoError(t, err)
	_, err = app.carts.AddItem(ctx, cart.ID, cartapp.AddItemRequest{ProductID: tea.ID, Quantity: 2})
	require.NoError(t, err)
	// Adding the same product again merges into one line.
	_, err = app.carts.AddItem(ctx, cart.ID, cartapp.AddItemRequest{ProductID: tea.ID, Quantity: 1})
	require.NoError(t, err)

	placed, err := app.orders.Create(ctx, caller, orderapp.CreateOrderRequest{CartID: &cart.ID})
	require.NoError(t, err)
	require.Len(t, placed.Items, 1)
	assert.Equal(t, 3, placed.Items[0].Quantity)
	assert.Equal(t, string(order.PaymentStatusPending), placed.PaymentStatus)
	assert.True(t, decimal.RequireFromString("22.50").Equal(placed.TotalPrice))

	t.Run("cart is consumed", func(t *testing.T) {
		_, err := app.carts.Get(ctx, cart.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = app.orders.Create(ctx, caller, orderapp.CreateOrderRequest{CartID: &cart.ID})
		assert.ErrorIs(t, err, orderapp.ErrEmptyCart)
	})

	t.Run("customer profile created from the user", func(t *testing.T) {
		me, err := app.customers.EnsureForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, placed.CustomerID, me.ID)
		assert.Equal(t, "Ada", me.FirstName)
	})

	t.Run("caller sees only their orders", func(t *testing.T) {
		page, err := app.orders.List(ctx, caller, orderapp.ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)

		stranger := identity.Principal{UserID: user.ID}
		stranger.UserID[0] ^= 0xff
		_, err = app.orders.Get(ctx, stranger, placed.ID)
		assert.Error(t, err)
	})

	t.Run("events are written to the outbox", func(t *testing.T) {
		var types []string
		require.NoError(t, tdb.DB.Table("outbox_events").Pluck("event_type", &types).Error)
		assert.Contains(t, types, order.EventTypeOrderPlaced)
	})
}

//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	collection, err := catalog.NewCollection("Grocery", nil)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCollectionRepository(tdb.DB).Save(ctx, collection))

	promo, err := catalog.NewPromotion("Spring", 0.2, time.Now().Add(-time.Hour), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormPromotionRepository(tdb.DB).Save(ctx, promo))

	repo := persistence.NewGormProductRepository(tdb.DB)
	product, err := catalog.NewProduct(catalog.ProductInput{
		Title:        "Green Tea",
		UnitPrice:    decimal.RequireFromString("7.50"),
		Inventory:    40,
		CollectionID: collection.ID,
	})
	require.NoError(t, err)
	product.PromotionIDs = []uuid.UUID{promo.ID}
	require.NoError(t, repo.Save(ctx, product))

	t.Run("find loads promotions", func(t *testing.T) {
		found, err := repo.FindByID(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Green Tea", found.Title)
		assert.Equal(t, "green-tea", found.Slug)
		assert.True(t, decimal.RequireFromString("7.50").Equal(found.UnitPrice))
		assert.Equal(t, []uuid.UUID{promo.ID}, found.PromotionIDs)
	})

	t.Run("count and exists", func(t *testing.T) {
		n, err := repo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		ok, err := repo.ExistsByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete removes promotion links", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, product.ID))
		assert.Zero(t, tdb.Count("product_promotions"))
	})
}

func TestReportRepository_Postgres(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()

	collection, err := catalog.NewCollection("Cleaning", nil)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormCollectionRepository(tdb.DB).Save(ctx, collection))

	products := persistence.NewGormProductRepository(tdb.DB)
	var ids []uuid.UUID
	for _, p := range []struct {
		title string
		price string
	}{{"Soap", "2.00"}, {"Sponge", "4.00"}} {
		product, err := catalog.NewProduct(catalog.ProductInput{
			Title:        p.title,
			UnitPrice:    decimal.RequireFromString(p.price),
			CollectionID: collection.ID,
		})
		require.NoError(t, err)
		require.NoError(t, products.Save(ctx, product))
		ids = append(ids, product.ID)
	}

	customers := persistence.NewGormCustomerRepository(tdb.DB)
	orders := persistence.NewGormOrderRepository(tdb.DB)
	newCustomer := func(first, email string, orderCount int) uuid.UUID {
		c, err := customer.NewCustomer(customer.Profile{FirstName: first, LastName: "Test", Email: email})
		require.NoError(t, err)
		require.NoError(t, customers.Save(ctx, c))
		for i := 0; i < orderCount; i++ {
			o, err := order.NewOrder(c.ID, []order.LineInput{
				{ProductID: ids[0], Quantity: 2, UnitPrice: decimal.RequireFromString("2.00")},
				{ProductID: ids[1], Quantity: 1, UnitPrice: decimal.RequireFromString("4.00")},
			})
			require.NoError(t, err)
			require.NoError(t, orders.Create(ctx, o))
		}
		return c.ID
	}
	busy := newCustomer("Ada", "ada@example.com", 2)
	newCustomer("Grace", "grace@example.com", 1)

	repo := persistence.NewGormReportRepository(tdb.DB)

	summary, err := repo.ProductPriceSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.True(t, decimal.NewFromInt(2).Equal(summary.MinPrice))
	assert.True(t, decimal.NewFromInt(3).Equal(summary.AvgPrice))

	items, err := repo.OrderItemSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), items.Count)
	assert.Equal(t, int64(9), items.SumQuantity)

	revenue, err := repo.Revenue(ctx, &busy)
	require.NoError(t, err)
	assert.Len(t, revenue.Orders, 2)
	assert.True(t, decimal.NewFromInt(16).Equal(revenue.TotalRevenue))

	top, err := repo.TopCustomers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, busy, top[0].CustomerID)
	assert.Equal(t, int64(2), top[0].OrdersCount)
}

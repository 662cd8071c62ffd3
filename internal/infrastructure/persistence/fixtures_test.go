package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestCollection(t *testing.T, title string) *catalog.Collection {
	t.Helper()
	c, err := catalog.NewCollection(title, nil)
	require.NoError(t, err)
	return c
}

func seedCollection(t *testing.T, db *gorm.DB, title string) *catalog.Collection {
	t.Helper()
	c := newTestCollection(t, title)
	require.NoError(t, NewGormCollectionRepository(db).Save(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, collectionID uuid.UUID, title, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(catalog.ProductInput{
		Title:        title,
		UnitPrice:    decimal.RequireFromString(price),
		Inventory:    5,
		CollectionID: collectionID,
	})
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), p))
	return p
}

func seedCustomer(t *testing.T, db *gorm.DB, first, last, email string) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(customer.Profile{FirstName: first, LastName: last, Email: email})
	require.NoError(t, err)
	require.NoError(t, NewGormCustomerRepository(db).Save(context.Background(), c))
	return c
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, lines ...order.LineInput) *order.Order {
	t.Helper()
	o, err := order.NewOrder(customerID, lines)
	require.NoError(t, err)
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), o))
	return o
}

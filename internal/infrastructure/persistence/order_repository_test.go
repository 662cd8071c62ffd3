package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormOrderRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := NewGormOrderRepository(db.DB)

	col := seedCollection(t, db.DB, "Kitchen")
	kettle := seedProduct(t, db.DB, col.ID, "Kettle", "25.00")
	mug := seedProduct(t, db.DB, col.ID, "Mug", "4.00")
	ann := seedCustomer(t, db.DB, "Ann", "Lee", "ann@example.com")
	bob := seedCustomer(t, db.DB, "Bob", "Ray", "bob@example.com")

	first := seedOrder(t, db.DB, ann.ID,
		order.LineInput{ProductID: kettle.ID, Quantity: 1, UnitPrice: kettle.UnitPrice},
		order.LineInput{ProductID: mug.ID, Quantity: 4, UnitPrice: mug.UnitPrice})
	seedOrder(t, db.DB, bob.ID, order.LineInput{ProductID: mug.ID, Quantity: 2, UnitPrice: mug.UnitPrice})

	t.Run("find loads items and totals", func(t *testing.T) {
		found, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 2)
		assert.Equal(t, order.PaymentStatusPending, found.PaymentStatus)
		assert.Equal(t, "41", found.TotalPrice().String())
	})

	t.Run("filters by customer", func(t *testing.T) {
		filter := shared.DefaultFilter().With(order.FilterCustomerID, bob.ID)
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Len(t, orders[0].Items, 1)

		count, err := repo.CountByCustomer(ctx, ann.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("payment status update is version guarded", func(t *testing.T) {
		loaded, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		stale, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)

		require.NoError(t, loaded.ChangePaymentStatus(order.PaymentStatusComplete))
		require.NoError(t, repo.UpdatePaymentStatus(ctx, loaded))

		require.NoError(t, stale.ChangePaymentStatus(order.PaymentStatusFailed))
		assert.ErrorIs(t, repo.UpdatePaymentStatus(ctx, stale), shared.ErrConcurrencyConflict)

		filter := shared.DefaultFilter().With(order.FilterPaymentStatus, order.PaymentStatusComplete)
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, first.ID, orders[0].ID)
	})

	t.Run("delete is protected while items exist", func(t *testing.T) {
		err := repo.Delete(ctx, first.ID)
		assert.ErrorIs(t, err, shared.ErrProtected)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), shared.ErrNotFound)
	})
}

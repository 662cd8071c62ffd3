package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormCustomerRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := NewGormCustomerRepository(db.DB)

	zed := seedCustomer(t, db.DB, "Zed", "Adams", "zed@example.com")
	amy := seedCustomer(t, db.DB, "Amy", "Brown", "amy@example.com")
	col := seedCollection(t, db.DB, "Tools")
	p := seedProduct(t, db.DB, col.ID, "Hammer", "12.00")
	seedOrder(t, db.DB, zed.ID, order.LineInput{ProductID: p.ID, Quantity: 1, UnitPrice: p.UnitPrice})

	t.Run("default ordering is first then last name", func(t *testing.T) {
		list, err := repo.FindAll(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, amy.ID, list[0].ID)
		assert.Equal(t, int64(1), list[1].OrdersCount)
	})

	t.Run("search covers names and email", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "ZED@"
		list, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, zed.ID, list[0].ID)

		count, err := repo.Count(ctx, shared.DefaultFilter().With(customer.FilterNamePrefix, "br"))
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("address is upserted and loaded", func(t *testing.T) {
		require.NoError(t, amy.SetAddress("1 Main St", "Springfield"))
		require.NoError(t, repo.Save(ctx, amy))
		require.NoError(t, amy.SetAddress("2 Side St", "Shelbyville"))
		require.NoError(t, repo.Save(ctx, amy))

		found, err := repo.FindByID(ctx, amy.ID)
		require.NoError(t, err)
		require.NotNil(t, found.Address)
		assert.Equal(t, "Shelbyville", found.Address.City)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "AMY@example.com", uuid.Nil)
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.ExistsByEmail(ctx, "amy@example.com", amy.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		dup, err := customer.NewCustomer(customer.Profile{FirstName: "A", LastName: "B", Email: "amy@example.com"})
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("find by user id", func(t *testing.T) {
		userID := uuid.New()
		linked, err := customer.NewCustomerForUser(userID, customer.Profile{FirstName: "Lin", LastName: "Ked", Email: "lin@example.com"})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, linked))

		found, err := repo.FindByUserID(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, linked.ID, found.ID)

		_, err = repo.FindByUserID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete is protected by orders and cascades the address", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, zed.ID), shared.ErrProtected)

		require.NoError(t, repo.Delete(ctx, amy.ID))
		var addresses int64
		require.NoError(t, db.DB.Table("addresses").Where("customer_id = ?", amy.ID).Count(&addresses).Error)
		assert.Zero(t, addresses)
	})
}

func TestGormCustomerRepository_FindByEmailAndLink(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := NewGormCustomerRepository(db.DB)

	seeded := seedCustomer(t, db.DB, "Ada", "Lovelace", "ada@example.com")

	found, err := repo.FindByEmail(ctx, "ADA@Example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, found.ID)
	assert.Nil(t, found.UserID)

	userID := uuid.New()
	require.NoError(t, found.LinkUser(userID))
	require.NoError(t, repo.Save(ctx, found))

	linked, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, linked.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	repo := NewGormUserRepository(db.DB)

	u, err := identity.NewUser("Alice", "Alice@Example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, u.GrantPermissions([]string{identity.PermissionCatalogWrite, identity.PermissionReportsRead}))
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByUsername(ctx, " ALICE ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.ElementsMatch(t, []string{identity.PermissionCatalogWrite, identity.PermissionReportsRead}, found.Permissions)
	assert.True(t, found.VerifyPassword("s3cret-pass"))

	exists, err := repo.ExistsByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = repo.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	twin, err := identity.NewUser("alice", "other@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, twin), shared.ErrAlreadyExists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

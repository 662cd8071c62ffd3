package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollection(t *testing.T) {
	t.Run("creates collection", func(t *testing.T) {
		featured := uuid.New()
		c, err := NewCollection("Beverages", &featured)
		require.NoError(t, err)
		assert.Equal(t, "Beverages", c.Title)
		assert.Equal(t, &featured, c.FeaturedProductID)
		require.Len(t, c.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeCollectionCreated, c.GetDomainEvents()[0].EventType())
	})

	t.Run("fails with empty title", func(t *testing.T) {
		_, err := NewCollection("", nil)
		assert.Error(t, err)
	})

	t.Run("fails with long title", func(t *testing.T) {
		_, err := NewCollection(strings.Repeat("x", 256), nil)
		assert.Error(t, err)
	})
}

func TestCollection_CanDelete(t *testing.T) {
	c, err := NewCollection("Snacks", nil)
	require.NoError(t, err)
	assert.NoError(t, c.CanDelete())

	c.ProductsCount = 3
	err = c.CanDelete()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrProtected))
	assert.Equal(t, "Collection cannot be deleted because it has an association with products", err.Error())
}

func TestCollection_ClearFeaturedProduct(t *testing.T) {
	featured := uuid.New()
	c, err := NewCollection("Snacks", &featured)
	require.NoError(t, err)

	c.ClearFeaturedProduct()
	assert.Nil(t, c.FeaturedProductID)
	assert.Equal(t, 2, c.GetVersion())
}

package customer

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() Profile {
	return Profile{FirstName: " Ada ", LastName: "Lovelace", Email: " Ada@Example.com "}
}

func TestNewCustomer(t *testing.T) {
	t.Run("normalizes and defaults to bronze", func(t *testing.T) {
		c, err := NewCustomer(validProfile())
		require.NoError(t, err)
		assert.Equal(t, "Ada", c.FirstName)
		assert.Equal(t, "ada@example.com", c.Email)
		assert.Equal(t, MembershipBronze, c.Membership)
		assert.Nil(t, c.UserID)
		assert.Equal(t, "Ada Lovelace", c.FullName())
		require.Len(t, c.GetDomainEvents(), 1)
	})

	t.Run("links user", func(t *testing.T) {
		userID := uuid.New()
		c, err := NewCustomerForUser(userID, validProfile())
		require.NoError(t, err)
		require.NotNil(t, c.UserID)
		assert.Equal(t, userID, *c.UserID)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		p := validProfile()
		p.Email = "not-an-email"
		_, err := NewCustomer(p)
		assert.Error(t, err)
	})

	t.Run("rejects missing names", func(t *testing.T) {
		p := validProfile()
		p.LastName = " "
		_, err := NewCustomer(p)
		assert.Error(t, err)
	})

	t.Run("rejects future birth date", func(t *testing.T) {
		p := validProfile()
		future := time.Now().AddDate(1, 0, 0)
		p.BirthDate = &future
		_, err := NewCustomer(p)
		assert.Error(t, err)
	})
}

func TestCustomer_ChangeMembership(t *testing.T) {
	c, err := NewCustomer(validProfile())
	require.NoError(t, err)

	require.NoError(t, c.ChangeMembership(MembershipGold))
	assert.Equal(t, MembershipGold, c.Membership)
	assert.Error(t, c.ChangeMembership("X"))
	assert.Equal(t, MembershipGold, c.Membership)
}

func TestCustomer_SetAddress(t *testing.T) {
	c, err := NewCustomer(validProfile())
	require.NoError(t, err)

	require.NoError(t, c.SetAddress(" 1 Main St ", "Springfield"))
	require.NotNil(t, c.Address)
	assert.Equal(t, c.ID, c.Address.CustomerID)
	assert.Equal(t, "1 Main St", c.Address.Street)

	assert.Error(t, c.SetAddress("", "Springfield"))
}

func TestCustomer_CanDelete(t *testing.T) {
	c, err := NewCustomer(validProfile())
	require.NoError(t, err)
	assert.NoError(t, c.CanDelete())

	c.OrdersCount = 1
	assert.True(t, errors.Is(c.CanDelete(), shared.ErrProtected))
}

func TestCustomer_LinkUser(t *testing.T) {
	c, err := NewCustomer(validProfile())
	require.NoError(t, err)

	userID := uuid.New()
	require.NoError(t, c.LinkUser(userID))
	require.NotNil(t, c.UserID)
	assert.Equal(t, userID, *c.UserID)

	assert.NoError(t, c.LinkUser(userID), "relinking the same user is a no-op")

	err = c.LinkUser(uuid.New())
	assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
	assert.Equal(t, userID, *c.UserID)
}

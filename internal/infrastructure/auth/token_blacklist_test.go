package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlacklist(t *testing.T) *CacheTokenBlacklist {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	return NewCacheTokenBlacklist(c)
}

func TestCacheTokenBlacklist_Revoke(t *testing.T) {
	b := newTestBlacklist(t)
	ctx := context.Background()

	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = b.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCacheTokenBlacklist_RevokeExpiredIsNoop(t *testing.T) {
	b := newTestBlacklist(t)
	ctx := context.Background()

	require.NoError(t, b.Revoke(ctx, "jti-1", 0))
	revoked, err := b.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCacheTokenBlacklist_RevokeUser(t *testing.T) {
	b := newTestBlacklist(t)
	ctx := context.Background()
	now := time.Now()
	b.now = func() time.Time { return now }

	revoked, err := b.IsUserRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err = b.IsUserRevoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked, "older tokens are rejected")

	revoked, err = b.IsUserRevoked(ctx, "user-1", now.Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued afterwards stay valid")

	revoked, err = b.IsUserRevoked(ctx, "user-2", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)
}

type failingCache struct{ cache.Cache }

var errBackend = errors.New("backend down")

func (failingCache) Exists(context.Context, string) (bool, error) { return false, errBackend }
func (failingCache) Get(context.Context, string) ([]byte, error)  { return nil, errBackend }

func TestCacheTokenBlacklist_BackendErrors(t *testing.T) {
	b := NewCacheTokenBlacklist(failingCache{})
	ctx := context.Background()

	_, err := b.IsRevoked(ctx, "jti")
	assert.ErrorIs(t, err, errBackend)

	_, err = b.IsUserRevoked(ctx, "user", time.Now())
	assert.ErrorIs(t, err, errBackend)
}

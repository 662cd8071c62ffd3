package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	got[0] = 'x'
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), again, "returned slices are copies")
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	c.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	c.cleanup()
	assert.Zero(t, c.Len())
}

func TestMemoryCache_SetNX(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	ok, err := c.SetNX(ctx, "lock", []byte("1"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "lock", []byte("2"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	for _, k := range []string{"report:a", "report:b", "product:1"} {
		require.NoError(t, c.Set(ctx, k, []byte("x"), 0))
	}
	require.NoError(t, c.DeletePrefix(ctx, "report:"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "product:1"))
	assert.Zero(t, c.Len())
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestRemember(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (map[string]int, error) {
		calls++
		return map[string]int{"count": 3}, nil
	}

	v, err := Remember(ctx, c, "summary", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 3, v["count"])

	v, err = Remember(ctx, c, "summary", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 3, v["count"])
	assert.Equal(t, 1, calls)

	v, err = Remember[map[string]int](ctx, nil, "summary", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 3, v["count"])
}

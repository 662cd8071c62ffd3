package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPromotion(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	t.Run("creates promotion", func(t *testing.T) {
		p, err := NewPromotion("Winter sale", 15, start, end)
		require.NoError(t, err)
		assert.Equal(t, 15.0, p.Discount)
		assert.True(t, p.IsActive(start))
		assert.True(t, p.IsActive(end))
		assert.False(t, p.IsActive(end.Add(time.Second)))
	})

	t.Run("rejects discount out of range", func(t *testing.T) {
		_, err := NewPromotion("Bad", 0, start, end)
		assert.Error(t, err)
		_, err = NewPromotion("Bad", 100.5, start, end)
		assert.Error(t, err)
	})

	t.Run("rejects inverted period", func(t *testing.T) {
		_, err := NewPromotion("Bad", 10, end, start)
		assert.Error(t, err)
	})
}

func TestNewReview(t *testing.T) {
	r, err := NewReview(uuid.New(), "Ana", "Great coffee")
	require.NoError(t, err)
	assert.Equal(t, 0, r.Date.Hour())

	_, err = NewReview(uuid.Nil, "Ana", "Great coffee")
	assert.Error(t, err)
	_, err = NewReview(uuid.New(), "", "Great coffee")
	assert.Error(t, err)
	_, err = NewReview(uuid.New(), "Ana", "")
	assert.Error(t, err)
}

func TestNewTag(t *testing.T) {
	tag, err := NewTag("  organic ")
	require.NoError(t, err)
	assert.Equal(t, "organic", tag.Label)

	_, err = NewTag("   ")
	assert.Error(t, err)

	item, err := NewTaggedItem(tag.ID, ContentTypeProduct, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "product", item.ContentType)

	_, err = NewTaggedItem(tag.ID, "", uuid.New())
	assert.Error(t, err)
}

func TestNewProductImage(t *testing.T) {
	pid := uuid.New()

	img, err := NewProductImage(pid, "../../photo.PNG", "image/png; charset=binary", 1024, 2048)
	require.NoError(t, err)
	assert.Equal(t, "photo.PNG", img.FileName)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "products/"+pid.String()+"/"+img.ID.String()+".png", img.StorageKey)

	_, err = NewProductImage(pid, "a.pdf", "application/pdf", 10, 0)
	assert.Error(t, err)
	_, err = NewProductImage(pid, "a.jpg", "image/jpeg", 0, 0)
	assert.Error(t, err)
	_, err = NewProductImage(pid, "a.jpg", "image/jpeg", 4096, 2048)
	assert.Error(t, err)
}

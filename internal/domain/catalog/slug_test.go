package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bread Ww Cluster", "bread-ww-cluster"},
		{"  Crème brûlée!  ", "creme-brulee"},
		{"Wine - Sherry Dry Sack, William", "wine-sherry-dry-sack-william"},
		{"100% Juice", "100-juice"},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("bread-ww-cluster"))
	assert.True(t, IsValidSlug("abc123"))
	assert.False(t, IsValidSlug("Bread"))
	assert.False(t, IsValidSlug("double--hyphen"))
	assert.False(t, IsValidSlug("-leading"))
	assert.False(t, IsValidSlug(""))
}

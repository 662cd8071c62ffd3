package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		in, def, want string
	}{
		{"asc", "DESC", "ASC"},
		{" DESC ", "ASC", "DESC"},
		{"", "ASC", "ASC"},
		{"; DROP TABLE products", "DESC", "DESC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortOrder(tt.in, tt.def), tt.in)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "products.unit_price", ValidateSortField("unit_price", ProductSortFields, "products.title"))
	assert.Equal(t, "products.title", ValidateSortField("", ProductSortFields, "products.title"))
	assert.Equal(t, "products.title", ValidateSortField("password_hash", ProductSortFields, "products.title"))
	assert.Equal(t, "orders_count", ValidateSortField("orders_count", CustomerSortFields, "customers.first_name"))
}

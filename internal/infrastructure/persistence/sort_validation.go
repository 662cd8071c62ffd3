package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns defaultDir when the input is empty or invalid.
func ValidateSortOrder(orderDir, defaultDir string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return defaultDir
}

// ValidateSortField validates the sort field against a whitelist.
// The whitelist maps API names to SQL expressions; defaultField is returned as is.
func ValidateSortField(sortField string, allowedFields map[string]string, defaultField string) string {
	if column, ok := allowedFields[strings.TrimSpace(sortField)]; ok {
		return column
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]string{
	"title":       "products.title",
	"unit_price":  "products.unit_price",
	"last_update": "products.last_update",
	"inventory":   "products.inventory",
}

// CollectionSortFields contains allowed sort fields for collections
var CollectionSortFields = map[string]string{
	"title":          "collections.title",
	"products_count": "products_count",
	"created_at":     "collections.created_at",
}

// PromotionSortFields contains allowed sort fields for promotions
var PromotionSortFields = map[string]string{
	"start_date": "start_date",
	"end_date":   "end_date",
	"discount":   "discount",
}

// CustomerSortFields contains allowed sort fields for customers
var CustomerSortFields = map[string]string{
	"first_name":   "customers.first_name",
	"last_name":    "customers.last_name",
	"email":        "customers.email",
	"orders_count": "orders_count",
	"created_at":   "customers.created_at",
}

// OrderSortFields contains allowed sort fields for orders
var OrderSortFields = map[string]string{
	"placed_at":      "orders.placed_at",
	"payment_status": "orders.payment_status",
}

// QuestionSortFields contains allowed sort fields for questions
var QuestionSortFields = map[string]string{
	"published_date": "published_date",
	"question_text":  "question_text",
	"expiry_date":    "expiry_date",
}

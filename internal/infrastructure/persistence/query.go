package persistence

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// paginate applies offset and limit from the filter
func paginate(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	return query
}

// orderBy applies a whitelisted ORDER BY with a stable id tiebreaker
func orderBy(query *gorm.DB, filter shared.Filter, allowed map[string]string, defaultField, defaultDir, idColumn string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir, defaultDir)
	return query.Order(field + " " + dir).Order(idColumn + " ASC")
}

// containsPattern builds a case-insensitive LIKE pattern that matches anywhere.
// LOWER(...) LIKE is used instead of ILIKE so the same SQL runs on SQLite.
func containsPattern(s string) string {
	return "%" + escapeLike(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// prefixPattern builds a case-insensitive LIKE pattern that matches at the start
func prefixPattern(s string) string {
	return escapeLike(strings.ToLower(strings.TrimSpace(s))) + "%"
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func filterUUID(filter shared.Filter, key string) (uuid.UUID, bool) {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case *uuid.UUID:
		if v != nil {
			return *v, *v != uuid.Nil
		}
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

func filterDecimal(filter shared.Filter, key string) (decimal.Decimal, bool) {
	switch v := filter.Filters[key].(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v != nil {
			return *v, true
		}
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	return decimal.Zero, false
}

func filterString(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key].(string)
	return v, ok && v != ""
}

func filterBool(filter shared.Filter, key string) (bool, bool) {
	switch v := filter.Filters[key].(type) {
	case bool:
		return v, true
	case *bool:
		if v != nil {
			return *v, true
		}
	}
	return false, false
}

func filterInt(filter shared.Filter, key string) (int, bool) {
	switch v := filter.Filters[key].(type) {
	case int:
		return v, v != 0
	case *int:
		if v != nil {
			return *v, *v != 0
		}
	}
	return 0, false
}

// mapNotFound converts gorm.ErrRecordNotFound to shared.ErrNotFound
func mapNotFound(err error) error {
	if err == gorm.ErrRecordNotFound {
		return shared.ErrNotFound
	}
	return err
}

package csvimport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Product file columns. Tags and promotions hold "|" separated lists.
const (
	ColumnCollection  = "collection"
	ColumnTitle       = "title"
	ColumnDescription = "description"
	ColumnUnitPrice   = "unit_price"
	ColumnInventory   = "inventory"
	ColumnTags        = "tags"
	ColumnPromotions  = "promotions"

	listSeparator = "|"
)

// ProductRow is a validated product line
type ProductRow struct {
	Line        int
	Collection  string
	Title       string
	Description string
	UnitPrice   decimal.Decimal
	Inventory   int
	Tags        []string
	Promotions  []string
}

// ReadProducts parses a product export. Every invalid row is reported
// together in a RowErrors; no rows are returned in that case.
func ReadProducts(r io.Reader, opts ...ParserOption) ([]ProductRow, error) {
	p, err := NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if missing := p.Missing(ColumnCollection, ColumnTitle, ColumnUnitPrice); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrMissingHeader, strings.Join(missing, ", "))
	}

	var (
		rows []ProductRow
		errs RowErrors
		seen = make(map[string]int)
	)
	for {
		row, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if re, ok := err.(RowError); ok {
				if !errs.add(re) {
					break
				}
				continue
			}
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}

		product, rowErrs := parseProduct(row)
		if len(rowErrs) == 0 {
			key := strings.ToLower(product.Collection + "\x00" + product.Title)
			if first, dup := seen[key]; dup {
				rowErrs = append(rowErrs, RowError{Line: row.Line, Column: ColumnTitle,
					Message: fmt.Sprintf("duplicate of line %d", first)})
			} else {
				seen[key] = row.Line
			}
		}
		if len(rowErrs) > 0 {
			full := false
			for _, re := range rowErrs {
				if !errs.add(re) {
					full = true
					break
				}
			}
			if full {
				break
			}
			continue
		}
		rows = append(rows, product)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return rows, nil
}

func parseProduct(row *Row) (ProductRow, []RowError) {
	var errs []RowError
	fail := func(column, msg string) {
		errs = append(errs, RowError{Line: row.Line, Column: column, Message: msg})
	}

	out := ProductRow{
		Line:        row.Line,
		Collection:  row.Get(ColumnCollection),
		Title:       row.Get(ColumnTitle),
		Description: row.Get(ColumnDescription),
		Tags:        splitList(row.Get(ColumnTags)),
		Promotions:  splitList(row.Get(ColumnPromotions)),
	}
	if out.Collection == "" {
		fail(ColumnCollection, "is required")
	}
	if out.Title == "" {
		fail(ColumnTitle, "is required")
	} else if len(out.Title) > 255 {
		fail(ColumnTitle, "must be at most 255 characters")
	}

	price, err := decimal.NewFromString(row.Get(ColumnUnitPrice))
	switch {
	case err != nil:
		fail(ColumnUnitPrice, "must be a decimal number")
	case price.LessThan(decimal.NewFromInt(1)):
		fail(ColumnUnitPrice, "must be at least 1")
	case price.Exponent() < -2:
		fail(ColumnUnitPrice, "must have at most 2 decimal places")
	default:
		out.UnitPrice = price
	}

	if raw := row.Get(ColumnInventory); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fail(ColumnInventory, "must be a non-negative integer")
		}
		out.Inventory = n
	}
	return out, errs
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, listSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

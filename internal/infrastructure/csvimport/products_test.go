package csvimport

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts(t *testing.T) {
	input := "collection,title,unit_price,inventory,tags,promotions,description\n" +
		"Grocery,Green Tea,7.50,40,organic| bestseller,spring,Loose leaf\n" +
		"\n" +
		"Cleaning,Dish Soap,4,,,,\n"

	rows, err := ReadProducts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	tea := rows[0]
	assert.Equal(t, 2, tea.Line)
	assert.Equal(t, "Grocery", tea.Collection)
	assert.True(t, decimal.RequireFromString("7.5").Equal(tea.UnitPrice))
	assert.Equal(t, 40, tea.Inventory)
	assert.Equal(t, []string{"organic", "bestseller"}, tea.Tags)
	assert.Equal(t, []string{"spring"}, tea.Promotions)
	assert.Equal(t, "Loose leaf", tea.Description)

	soap := rows[1]
	assert.Equal(t, 0, soap.Inventory)
	assert.Nil(t, soap.Tags)
}

func TestReadProducts_MissingColumns(t *testing.T) {
	_, err := ReadProducts(strings.NewReader("title,inventory\nTea,1\n"))
	require.ErrorIs(t, err, ErrMissingHeader)
	assert.Contains(t, err.Error(), "collection, unit_price")
}

func TestReadProducts_CollectsRowErrors(t *testing.T) {
	input := "collection,title,unit_price,inventory\n" +
		"Grocery,Tea,0.50,1\n" +
		"Grocery,,abc,-2\n" +
		"Grocery,Coffee,3.999,1\n" +
		"Grocery,Cocoa,3,1\n" +
		"grocery,COCOA,3,1\n"

	rows, err := ReadProducts(strings.NewReader(input))
	assert.Nil(t, rows)

	var rowErrs RowErrors
	require.ErrorAs(t, err, &rowErrs)
	require.Len(t, rowErrs, 6)
	assert.Equal(t, RowError{Line: 2, Column: ColumnUnitPrice, Message: "must be at least 1"}, rowErrs[0])
	assert.Equal(t, ColumnTitle, rowErrs[1].Column)
	assert.Equal(t, ColumnUnitPrice, rowErrs[2].Column)
	assert.Equal(t, ColumnInventory, rowErrs[3].Column)
	assert.Equal(t, "must have at most 2 decimal places", rowErrs[4].Message)
	assert.Equal(t, RowError{Line: 6, Column: ColumnTitle, Message: "duplicate of line 5"}, rowErrs[5])
	assert.Contains(t, err.Error(), "6 invalid rows")
}

func TestRowErrors_Limit(t *testing.T) {
	var b strings.Builder
	b.WriteString("collection,title,unit_price\n")
	for i := 0; i < maxRowErrors+10; i++ {
		b.WriteString("Grocery,Tea,free\n")
	}
	_, err := ReadProducts(strings.NewReader(b.String()))

	var rowErrs RowErrors
	require.ErrorAs(t, err, &rowErrs)
	assert.Len(t, rowErrs, maxRowErrors)
}

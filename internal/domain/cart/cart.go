package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// MaxQuantity bounds a single cart line
const MaxQuantity = 32767

// Cart is an anonymous shopping cart. Its id is the only key a client holds.
type Cart struct {
	shared.BaseEntity
	Items []CartItem
}

// CartItem is a product line inside a cart
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	// Product is a read-side summary loaded alongside the item
	Product ProductSummary
}

// ProductSummary is the slice of a product shown inside a cart
type ProductSummary struct {
	ID        uuid.UUID
	Title     string
	UnitPrice decimal.Decimal
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		Items:      []CartItem{},
	}
}

// NewCartItem creates a new cart line
func NewCartItem(cartID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     cartID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// AddItem merges quantity into the line holding productID, or appends a new line.
// It returns the resulting line.
func (c *Cart) AddItem(productID uuid.UUID, quantity int) (*CartItem, error) {
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if err := ValidateQuantity(c.Items[i].Quantity + quantity); err != nil {
				return nil, err
			}
			c.Items[i].Quantity += quantity
			c.Items[i].UpdatedAt = shared.Now()
			return &c.Items[i], nil
		}
	}
	item, err := NewCartItem(c.ID, productID, quantity)
	if err != nil {
		return nil, err
	}
	c.Items = append(c.Items, *item)
	return &c.Items[len(c.Items)-1], nil
}

// FindItem returns the line with the given id
func (c *Cart) FindItem(itemID uuid.UUID) (*CartItem, error) {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalPrice sums the line totals
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].TotalPrice())
	}
	return total
}

// SetQuantity replaces the line quantity
func (i *CartItem) SetQuantity(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	i.Quantity = quantity
	i.UpdatedAt = shared.Now()
	return nil
}

// TotalPrice is quantity times the product's current unit price
func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.Product.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ValidateQuantity checks a line quantity
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if quantity > MaxQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot exceed 32767")
	}
	return nil
}

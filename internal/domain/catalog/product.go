package catalog

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Pricing constants
var (
	// TaxRate is applied on top of the unit price for price_with_tax
	TaxRate = decimal.NewFromFloat(1.1)
	// MinUnitPrice is the smallest allowed unit price
	MinUnitPrice = decimal.NewFromInt(1)
	// MaxUnitPrice is the exclusive upper bound of decimal(6,2)
	MaxUnitPrice = decimal.NewFromInt(10000)
	// LowInventoryThreshold marks products whose stock is running out
	LowInventoryThreshold = 10
)

// InventoryStatus is the stock indicator shown in the back-office
type InventoryStatus string

const (
	InventoryStatusLow InventoryStatus = "Low"
	InventoryStatusOK  InventoryStatus = "OK"
)

// Product is a sellable item. It is the aggregate root for product pricing and stock.
type Product struct {
	shared.BaseAggregateRoot
	Title        string
	Slug         string
	Description  *string
	UnitPrice    decimal.Decimal
	Inventory    int
	LastUpdate   time.Time
	CollectionID uuid.UUID
	PromotionIDs []uuid.UUID
}

// ProductInput carries the writable product fields
type ProductInput struct {
	Title        string
	Slug         string
	Description  *string
	UnitPrice    decimal.Decimal
	Inventory    int
	CollectionID uuid.UUID
}

// NewProduct creates a new product
func NewProduct(in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PromotionIDs:      []uuid.UUID{},
	}
	product.apply(in)
	product.LastUpdate = product.UpdatedAt

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update replaces all writable fields
func (p *Product) Update(in ProductInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	oldPrice := p.UnitPrice

	p.apply(in)
	p.touch()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	if !oldPrice.Equal(p.UnitPrice) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}
	return nil
}

// ChangePrice updates only the unit price
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if err := validateUnitPrice(price); err != nil {
		return err
	}
	if price.Equal(p.UnitPrice) {
		return nil
	}
	oldPrice := p.UnitPrice
	p.UnitPrice = price.Round(2)
	p.touch()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	return nil
}

// AdjustInventory sets the stock level
func (p *Product) AdjustInventory(inventory int) error {
	if inventory < 0 {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory cannot be negative")
	}
	p.Inventory = inventory
	p.touch()
	return nil
}

// SetPromotions replaces the promotion set, dropping duplicates
func (p *Product) SetPromotions(ids []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	p.PromotionIDs = make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		p.PromotionIDs = append(p.PromotionIDs, id)
	}
	p.touch()
}

// PriceWithTax returns the unit price with tax applied, rounded to cents
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.UnitPrice.Mul(TaxRate).Round(2)
}

// DiscountedPrice returns the unit price reduced by the given percentage
func (p *Product) DiscountedPrice(percent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(100).Sub(percent).Div(decimal.NewFromInt(100))
	return p.UnitPrice.Mul(factor).Round(2)
}

// InventoryStatus reports Low when stock is under the threshold
func (p *Product) InventoryStatus() InventoryStatus {
	if p.Inventory < LowInventoryThreshold {
		return InventoryStatusLow
	}
	return InventoryStatusOK
}

func (p *Product) apply(in ProductInput) {
	p.Title = in.Title
	p.Slug = in.Slug
	if p.Slug == "" {
		p.Slug = Slugify(in.Title)
	}
	p.Description = in.Description
	p.UnitPrice = in.UnitPrice.Round(2)
	p.Inventory = in.Inventory
	p.CollectionID = in.CollectionID
}

func (p *Product) touch() {
	p.Touch()
	p.LastUpdate = p.UpdatedAt
}

func (in ProductInput) validate() error {
	if in.Title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot be empty")
	}
	if utf8.RuneCountInString(in.Title) > 255 {
		return shared.NewDomainError("INVALID_TITLE", "Product title cannot exceed 255 characters")
	}
	if utf8.RuneCountInString(in.Slug) > 255 {
		return shared.NewDomainError("INVALID_SLUG", "Product slug cannot exceed 255 characters")
	}
	if in.Slug != "" && !IsValidSlug(in.Slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug may only contain lowercase letters, numbers and hyphens")
	}
	if err := validateUnitPrice(in.UnitPrice); err != nil {
		return err
	}
	if in.Inventory < 0 {
		return shared.NewDomainError("INVALID_INVENTORY", "Inventory cannot be negative")
	}
	if in.CollectionID == uuid.Nil {
		return shared.NewDomainError("INVALID_COLLECTION", "Product must belong to a collection")
	}
	return nil
}

func validateUnitPrice(price decimal.Decimal) error {
	if price.LessThan(MinUnitPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be at least 1")
	}
	if price.GreaterThanOrEqual(MaxUnitPrice) {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be less than 10000")
	}
	return nil
}

// Package admin implements the back-office list views and inline edits
package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	pollsapp "github.com/storefront/backend/internal/application/polls"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/customer"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/polls"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 10
	// lowInventory is the stock level below which a product is flagged
	lowInventory = 10

	productsURL = "/api/v1/admin/products?collection_id="
	ordersURL   = "/api/v1/admin/orders?customer_id="
)

// PriceChanger edits a product price
type PriceChanger interface {
	ChangePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*catalogapp.ProductResponse, error)
}

// MembershipChanger edits a customer's loyalty tier
type MembershipChanger interface {
	ChangeMembership(ctx context.Context, id uuid.UUID, req customerapp.MembershipRequest) (*customerapp.CustomerResponse, error)
}

// QuestionDesk lists and creates poll questions
type QuestionDesk interface {
	ListFiltered(ctx context.Context, filter shared.Filter) (*shared.Paginated[pollsapp.QuestionResponse], error)
	Create(ctx context.Context, caller identity.Principal, req pollsapp.QuestionRequest) (*pollsapp.QuestionResponse, error)
}

// Service backs the admin console
type Service struct {
	collections catalog.CollectionRepository
	products    catalog.ProductRepository
	tags        catalog.TagRepository
	customers   customer.CustomerRepository
	orders      order.OrderRepository
	prices      PriceChanger
	memberships MembershipChanger
	questions   QuestionDesk
	logger      *zap.Logger
}

// Deps groups the collaborators of Service
type Deps struct {
	Collections catalog.CollectionRepository
	Products    catalog.ProductRepository
	Tags        catalog.TagRepository
	Customers   customer.CustomerRepository
	Orders      order.OrderRepository
	Prices      PriceChanger
	Memberships MembershipChanger
	Questions   QuestionDesk
}

// NewService creates the admin service
func NewService(d Deps, logger *zap.Logger) *Service {
	return &Service{
		collections: d.Collections,
		products:    d.Products,
		tags:        d.Tags,
		customers:   d.Customers,
		orders:      d.Orders,
		prices:      d.Prices,
		memberships: d.Memberships,
		questions:   d.Questions,
		logger:      logger,
	}
}

func (q ListQuery) filter(orderBy, defaultOrder string) shared.Filter {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	f := shared.PageFilter(q.Page, pageSize)
	f.OrderBy = orderBy
	if f.OrderBy == "" {
		f.OrderBy = defaultOrder
	}
	f.OrderDir = q.OrderDir
	if f.OrderDir == "" {
		f.OrderDir = "asc"
	}
	return f
}

// Collections lists collections with their product counts
func (s *Service) Collections(ctx context.Context, q CollectionQuery) (*shared.Paginated[CollectionRow], error) {
	filter := q.filter(q.OrderBy, "title")
	filter.Search = q.Search
	rows, err := s.collections.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.collections.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CollectionRow, len(rows))
	for i, c := range rows {
		items[i] = CollectionRow{
			ID:            c.ID,
			Title:         c.Title,
			ProductsCount: c.ProductsCount,
			ProductsURL:   productsURL + c.ID.String(),
		}
	}
	page := shared.NewPaginated(items, total, filter.Page(), filter.Limit)
	return &page, nil
}

// Products lists products with stock status, collection and tags
func (s *Service) Products(ctx context.Context, q ProductQuery) (*shared.Paginated[ProductRow], error) {
	filter := q.filter(q.OrderBy, "title")
	if q.Search != "" {
		filter = filter.With(catalog.FilterTitlePrefix, q.Search)
	}
	if q.CollectionID != nil {
		filter = filter.With(catalog.FilterCollectionID, *q.CollectionID)
	}
	rows, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	tagsByProduct, err := s.tags.FindForObjects(ctx, catalog.ContentTypeProduct, ids)
	if err != nil {
		return nil, err
	}
	titles := make(map[uuid.UUID]string)
	items := make([]ProductRow, len(rows))
	for i := range rows {
		p := &rows[i]
		title, ok := titles[p.CollectionID]
		if !ok {
			title, err = s.collectionTitle(ctx, p.CollectionID)
			if err != nil {
				return nil, err
			}
			titles[p.CollectionID] = title
		}
		labels := make([]string, 0, len(tagsByProduct[p.ID]))
		for _, t := range tagsByProduct[p.ID] {
			labels = append(labels, t.Label)
		}
		items[i] = ProductRow{
			ID:              p.ID,
			Title:           p.Title,
			UnitPrice:       p.UnitPrice,
			Inventory:       p.Inventory,
			InventoryStatus: InventoryStatus(p.Inventory),
			CollectionTitle: title,
			Tags:            labels,
		}
	}
	page := shared.NewPaginated(items, total, filter.Page(), filter.Limit)
	return &page, nil
}

// InventoryStatus labels a stock level
func InventoryStatus(inventory int) string {
	if inventory < lowInventory {
		return "Low"
	}
	return "OK"
}

func (s *Service) collectionTitle(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.collections.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return c.Title, nil
}

// ChangePrice is the editable price column
func (s *Service) ChangePrice(ctx context.Context, id uuid.UUID, req PriceRequest) (*catalogapp.ProductResponse, error) {
	resp, err := s.prices.ChangePrice(ctx, id, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Product price changed from admin",
		zap.String("product_id", id.String()),
		zap.String("unit_price", req.UnitPrice.String()))
	return resp, nil
}

// Customers lists customers with their order counts
func (s *Service) Customers(ctx context.Context, q CustomerQuery) (*shared.Paginated[CustomerRow], error) {
	filter := q.filter(q.OrderBy, "first_name")
	if q.Search != "" {
		filter = filter.With(customer.FilterNamePrefix, q.Search)
	}
	rows, err := s.customers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerRow, len(rows))
	for i, c := range rows {
		items[i] = CustomerRow{
			ID:          c.ID,
			FirstName:   c.FirstName,
			LastName:    c.LastName,
			Membership:  string(c.Membership),
			OrdersCount: c.OrdersCount,
			OrdersURL:   ordersURL + c.ID.String(),
		}
	}
	page := shared.NewPaginated(items, total, filter.Page(), filter.Limit)
	return &page, nil
}

// ChangeMembership is the editable membership column
func (s *Service) ChangeMembership(ctx context.Context, id uuid.UUID, req customerapp.MembershipRequest) (*customerapp.CustomerResponse, error) {
	return s.memberships.ChangeMembership(ctx, id, req)
}

// Orders lists orders with the customer's name and email
func (s *Service) Orders(ctx context.Context, q OrderQuery) (*shared.Paginated[OrderRow], error) {
	filter := q.filter("placed_at", "placed_at")
	if q.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	if q.CustomerID != nil {
		filter = filter.With(order.FilterCustomerID, *q.CustomerID)
	}
	rows, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	buyers := make(map[uuid.UUID]*customer.Customer)
	items := make([]OrderRow, len(rows))
	for i, o := range rows {
		c, ok := buyers[o.CustomerID]
		if !ok {
			c, err = s.customers.FindByID(ctx, o.CustomerID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			buyers[o.CustomerID] = c
		}
		row := OrderRow{ID: o.ID, PlacedAt: o.PlacedAt, PaymentStatus: string(o.PaymentStatus)}
		if c != nil {
			row.Customer = c.FullName()
			row.Email = c.Email
		}
		items[i] = row
	}
	page := shared.NewPaginated(items, total, filter.Page(), filter.Limit)
	return &page, nil
}

// Questions lists questions, optionally narrowed to a publication year and month
func (s *Service) Questions(ctx context.Context, q QuestionQuery) (*shared.Paginated[pollsapp.QuestionResponse], error) {
	filter := q.filter("published_date", "published_date")
	if q.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	filter.Search = q.Search
	if q.PublishedYear > 0 {
		filter = filter.With(polls.FilterPublishedYear, q.PublishedYear)
	}
	if q.PublishedMonth > 0 {
		filter = filter.With(polls.FilterPublishedMonth, q.PublishedMonth)
	}
	return s.questions.ListFiltered(ctx, filter)
}

// CreateQuestion creates a question with its inline choices
func (s *Service) CreateQuestion(ctx context.Context, caller identity.Principal, req pollsapp.QuestionRequest) (*pollsapp.QuestionResponse, error) {
	return s.questions.Create(ctx, caller, req)
}

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	pollsapp "github.com/storefront/backend/internal/application/polls"
	"github.com/storefront/backend/internal/infrastructure/csvimport"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Fixtures is the YAML document loaded by the seeder. Products refer to
// promotions by key and to tags by label.
type Fixtures struct {
	Promotions  []PromotionFixture  `yaml:"promotions"`
	Tags        []string            `yaml:"tags"`
	Collections []CollectionFixture `yaml:"collections"`
	Customers   []CustomerFixture   `yaml:"customers"`
	Polls       PollsFixture        `yaml:"polls"`
}

type PromotionFixture struct {
	Key         string    `yaml:"key"`
	Description string    `yaml:"description"`
	Discount    float64   `yaml:"discount"`
	StartDate   time.Time `yaml:"start_date"`
	EndDate     time.Time `yaml:"end_date"`
}

type CollectionFixture struct {
	Title    string           `yaml:"title"`
	Products []ProductFixture `yaml:"products"`
}

type ProductFixture struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	UnitPrice   decimal.Decimal `yaml:"unit_price"`
	Inventory   int             `yaml:"inventory"`
	Promotions  []string        `yaml:"promotions"`
	Tags        []string        `yaml:"tags"`
}

type CustomerFixture struct {
	FirstName  string          `yaml:"first_name"`
	LastName   string          `yaml:"last_name"`
	Email      string          `yaml:"email"`
	Phone      string          `yaml:"phone"`
	BirthDate  string          `yaml:"birth_date"`
	Membership string          `yaml:"membership"`
	Address    *AddressFixture `yaml:"address"`
}

type AddressFixture struct {
	Street string `yaml:"street"`
	City   string `yaml:"city"`
}

type PollsFixture struct {
	Categories []string `yaml:"categories"`
	Tags       []string `yaml:"tags"`
}

// ParseFixtures decodes a fixture document, rejecting unknown keys
func ParseFixtures(r io.Reader) (*Fixtures, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixtures
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}
	return &f, nil
}

// AddProducts merges rows from a product CSV export. Rows join the
// collection with the same title, which is appended when f lacks it.
func (f *Fixtures) AddProducts(rows []csvimport.ProductRow) {
	index := make(map[string]int, len(f.Collections))
	for i, c := range f.Collections {
		index[c.Title] = i
	}
	for _, r := range rows {
		i, ok := index[r.Collection]
		if !ok {
			f.Collections = append(f.Collections, CollectionFixture{Title: r.Collection})
			i = len(f.Collections) - 1
			index[r.Collection] = i
		}
		f.Collections[i].Products = append(f.Collections[i].Products, ProductFixture{
			Title:       r.Title,
			Description: r.Description,
			UnitPrice:   r.UnitPrice,
			Inventory:   r.Inventory,
			Promotions:  r.Promotions,
			Tags:        r.Tags,
		})
	}
}

// Summary counts the rows a seeding run created
type Summary struct {
	Promotions     int
	Tags           int
	Collections    int
	Products       int
	Customers      int
	PollCategories int
	PollTags       int
}

// Seeder writes fixtures through the application services so every
// business rule and domain event applies as it would over HTTP
type Seeder struct {
	Collections *catalogapp.CollectionService
	Products    *catalogapp.ProductService
	Promotions  *catalogapp.PromotionService
	Tags        *catalogapp.TagService
	Customers   *customerapp.Service
	Taxonomy    *pollsapp.TaxonomyService
	Logger      *zap.Logger
}

// Seed loads f in dependency order: promotions and tags first, then
// collections with their products, customers and poll taxonomy.
func (s *Seeder) Seed(ctx context.Context, f *Fixtures) (*Summary, error) {
	sum := &Summary{}

	promotions := make(map[string]uuid.UUID, len(f.Promotions))
	for _, p := range f.Promotions {
		resp, err := s.Promotions.Create(ctx, catalogapp.PromotionRequest{
			Description: p.Description,
			Discount:    p.Discount,
			StartDate:   p.StartDate,
			EndDate:     p.EndDate,
		})
		if err != nil {
			return sum, fmt.Errorf("promotion %q: %w", p.Key, err)
		}
		promotions[p.Key] = resp.ID
		sum.Promotions++
	}

	tags := make(map[string]uuid.UUID, len(f.Tags))
	for _, label := range f.Tags {
		resp, err := s.Tags.Create(ctx, catalogapp.TagRequest{Label: label})
		if err != nil {
			return sum, fmt.Errorf("tag %q: %w", label, err)
		}
		tags[label] = resp.ID
		sum.Tags++
	}

	for _, c := range f.Collections {
		coll, err := s.Collections.Create(ctx, catalogapp.CollectionRequest{Title: c.Title})
		if err != nil {
			return sum, fmt.Errorf("collection %q: %w", c.Title, err)
		}
		sum.Collections++

		for _, p := range c.Products {
			if err := s.seedProduct(ctx, coll.ID, p, promotions, tags); err != nil {
				return sum, err
			}
			sum.Products++
		}
	}

	for _, c := range f.Customers {
		if err := s.seedCustomer(ctx, c); err != nil {
			return sum, err
		}
		sum.Customers++
	}

	for _, name := range f.Polls.Categories {
		if _, err := s.Taxonomy.CreateCategory(ctx, pollsapp.NameRequest{Name: name}); err != nil {
			return sum, fmt.Errorf("poll category %q: %w", name, err)
		}
		sum.PollCategories++
	}
	for _, name := range f.Polls.Tags {
		if _, err := s.Taxonomy.CreateTag(ctx, pollsapp.NameRequest{Name: name}); err != nil {
			return sum, fmt.Errorf("poll tag %q: %w", name, err)
		}
		sum.PollTags++
	}
	return sum, nil
}

func (s *Seeder) seedProduct(ctx context.Context, collectionID uuid.UUID, p ProductFixture, promotions, tags map[string]uuid.UUID) error {
	req := catalogapp.CreateProductRequest{
		Title:        p.Title,
		UnitPrice:    p.UnitPrice,
		Inventory:    p.Inventory,
		CollectionID: collectionID,
	}
	if p.Description != "" {
		req.Description = &p.Description
	}
	for _, key := range p.Promotions {
		id, ok := promotions[key]
		if !ok {
			return fmt.Errorf("product %q: unknown promotion %q", p.Title, key)
		}
		req.PromotionIDs = append(req.PromotionIDs, id)
	}

	product, err := s.Products.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("product %q: %w", p.Title, err)
	}
	for _, label := range p.Tags {
		id, ok := tags[label]
		if !ok {
			return fmt.Errorf("product %q: unknown tag %q", p.Title, label)
		}
		if _, err := s.Tags.Attach(ctx, product.ID, catalogapp.AttachTagRequest{TagID: id}); err != nil {
			return fmt.Errorf("product %q: tag %q: %w", p.Title, label, err)
		}
	}
	s.Logger.Debug("Seeded product", zap.String("title", p.Title), zap.String("slug", product.Slug))
	return nil
}

func (s *Seeder) seedCustomer(ctx context.Context, c CustomerFixture) error {
	req := customerapp.CustomerRequest{
		ProfileRequest: customerapp.ProfileRequest{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
		},
		Membership: c.Membership,
	}
	if c.BirthDate != "" {
		req.BirthDate = &c.BirthDate
	}
	customer, err := s.Customers.Create(ctx, req)
	if err != nil {
		return fmt.Errorf("customer %q: %w", c.Email, err)
	}
	if c.Address != nil {
		if _, err := s.Customers.SetAddress(ctx, customer.ID, customerapp.AddressRequest{
			Street: c.Address.Street,
			City:   c.Address.City,
		}); err != nil {
			return fmt.Errorf("customer %q: address: %w", c.Email, err)
		}
	}
	return nil
}

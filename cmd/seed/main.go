// Command seed loads YAML fixtures into the storefront database through the
// application services.
//
//	seed --file fixtures/demo.yaml
//	seed --file fixtures/demo.yaml --products-csv export.csv
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	appevent "github.com/storefront/backend/internal/application/event"
	pollsapp "github.com/storefront/backend/internal/application/polls"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/csvimport"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Options are the seed command line flags
type Options struct {
	File        string `short:"f" long:"file" default:"fixtures/demo.yaml" description:"Fixture file"`
	ProductsCSV string `long:"products-csv" description:"Extra products from a CSV export (collection,title,unit_price,...)"`
	LogLevel    string `long:"log-level" default:"info" description:"Log level"`
	DryRun      bool   `long:"dry-run" description:"Parse and validate the fixtures without writing"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: opts.LogLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), opts, log); err != nil {
		log.Error("Seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts Options, log *zap.Logger) error {
	f, err := os.Open(opts.File)
	if err != nil {
		return fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	fixtures, err := ParseFixtures(f)
	if err != nil {
		return err
	}
	if opts.ProductsCSV != "" {
		if err := loadProductsCSV(opts.ProductsCSV, fixtures); err != nil {
			return err
		}
	}
	if opts.DryRun {
		log.Info("Fixtures are valid",
			zap.Int("collections", len(fixtures.Collections)),
			zap.Int("customers", len(fixtures.Customers)))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := persistence.NewDatabase(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(opts.LogLevel), cfg.Database.SlowQueryThresh))
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	summary, err := newSeeder(db, log).Seed(ctx, fixtures)
	if summary != nil {
		log.Info("Seeded",
			zap.Int("promotions", summary.Promotions),
			zap.Int("tags", summary.Tags),
			zap.Int("collections", summary.Collections),
			zap.Int("products", summary.Products),
			zap.Int("customers", summary.Customers),
			zap.Int("poll_categories", summary.PollCategories),
			zap.Int("poll_tags", summary.PollTags))
	}
	return err
}

func loadProductsCSV(path string, fixtures *Fixtures) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open products CSV: %w", err)
	}
	defer f.Close()

	rows, err := csvimport.ReadProducts(f)
	if err != nil {
		return fmt.Errorf("products CSV %s: %w", path, err)
	}
	fixtures.AddProducts(rows)
	return nil
}

// newSeeder wires the services the seeder writes through. Domain events go
// to the outbox like any other write.
func newSeeder(db *persistence.Database, log *zap.Logger) *Seeder {
	serializer := event.NewEventSerializer()
	appevent.RegisterEventTypes(serializer)
	recorder := event.NewOutboxRecorder(persistence.NewGormOutboxRepository(db.DB), serializer)

	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	pollTagRepo := persistence.NewGormPollTagRepository(db.DB)

	return &Seeder{
		Collections: catalogapp.NewCollectionService(db, collectionRepo, productRepo, recorder, log),
		Products: catalogapp.NewProductService(db, productRepo, collectionRepo, promotionRepo, recorder,
			catalogapp.WithProductLogger(log)),
		Promotions: catalogapp.NewPromotionService(promotionRepo),
		Tags:       catalogapp.NewTagService(persistence.NewGormTagRepository(db.DB), productRepo),
		Customers: customerapp.NewService(db, persistence.NewGormCustomerRepository(db.DB),
			persistence.NewGormUserRepository(db.DB), persistence.NewGormOrderRepository(db.DB), recorder, log),
		Taxonomy: pollsapp.NewTaxonomyService(categoryRepo, pollTagRepo),
		Logger:   log,
	}
}

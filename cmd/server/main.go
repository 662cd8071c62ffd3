package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	adminapp "github.com/storefront/backend/internal/application/admin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	appevent "github.com/storefront/backend/internal/application/event"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	pollsapp "github.com/storefront/backend/internal/application/polls"
	reportapp "github.com/storefront/backend/internal/application/report"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Storefront backend: catalog, carts, orders, customers, polls and the admin console.

//	@contact.name	API Support
//	@contact.url	https://github.com/storefront/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const appVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if providers.Logs.Enabled() {
		log = logger.Tee(log, providers.Logs.Core(logger.ParseLevel(cfg.Log.Level)))
	}

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Database.SlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if providers.Tracer.Enabled() && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.InstrumentGORM(db.DB, providers.Tracer.Provider()); err != nil {
			log.Fatal("Failed to instrument database", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	cacheStore, err := cache.New(ctx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer func() { _ = cacheStore.Close() }()

	objects, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	promotionRepo := persistence.NewGormPromotionRepository(db.DB)
	reviewRepo := persistence.NewGormReviewRepository(db.DB)
	tagRepo := persistence.NewGormTagRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	pollTagRepo := persistence.NewGormPollTagRepository(db.DB)
	questionRepo := persistence.NewGormQuestionRepository(db.DB)
	voteRepo := persistence.NewGormVoteRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)

	// Events are written to the outbox inside each unit of work
	serializer := event.NewEventSerializer()
	appevent.RegisterEventTypes(serializer)
	recorder := event.NewOutboxRecorder(outboxRepo, serializer)

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewCacheTokenBlacklist(cacheStore)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, recorder,
		identityapp.AuthServiceConfig{RefreshTokenTTL: cfg.JWT.RefreshTokenExpiration}, log)
	userService := identityapp.NewUserService(userRepo, log)
	if err := userService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal("Failed to bootstrap admin user", zap.Error(err))
	}

	// Catalog
	productService := catalogapp.NewProductService(db, productRepo, collectionRepo, promotionRepo, recorder,
		catalogapp.WithProductCache(cacheStore, cfg.Cache.ProductTTL),
		catalogapp.WithProductImages(imageRepo, objects),
		catalogapp.WithProductLogger(log))
	collectionService := catalogapp.NewCollectionService(db, collectionRepo, productRepo, recorder, log)
	promotionService := catalogapp.NewPromotionService(promotionRepo)
	reviewService := catalogapp.NewReviewService(reviewRepo, productRepo)
	tagService := catalogapp.NewTagService(tagRepo, productRepo)
	imageService := catalogapp.NewImageService(imageRepo, productRepo, objects, cfg.Storage.MaxUploadSize, log)

	// Shopping
	cartService := cartapp.NewService(cartRepo, productRepo, log)
	customerService := customerapp.NewService(db, customerRepo, userRepo, orderRepo, recorder, log)
	orderService := orderapp.NewService(db, orderRepo, cartRepo, productRepo, customerRepo, customerService, recorder, log)

	// Polls
	questionService := pollsapp.NewQuestionService(db, questionRepo, categoryRepo, pollTagRepo, voteRepo, commentRepo, recorder, log)
	taxonomyService := pollsapp.NewTaxonomyService(categoryRepo, pollTagRepo)

	// Back office
	adminService := adminapp.NewService(adminapp.Deps{
		Collections: collectionRepo,
		Products:    productRepo,
		Tags:        tagRepo,
		Customers:   customerRepo,
		Orders:      orderRepo,
		Prices:      productService,
		Memberships: customerService,
		Questions:   questionService,
	}, log)
	reportService := reportapp.NewService(reportRepo, cacheStore, cfg.Cache.ReportTTL, log)
	outboxService := appevent.NewOutboxService(outboxRepo, log)

	// Event bus fed by the outbox processor
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewIdempotentHandler("report-invalidation",
		reportapp.NewInvalidationHandler(reportService, log), cacheStore, log))
	if eventMetrics, err := telemetry.NewEventMetrics(providers.Meter.Meter("storefront/events")); err != nil {
		log.Warn("Event metrics disabled", zap.Error(err))
	} else {
		eventBus.Subscribe(eventMetrics)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, cfg.Outbox, log)
	if err := outboxProcessor.Start(ctx); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}

	// Background report warming
	var (
		jobScheduler *scheduler.Scheduler
		warmTrigger  *scheduler.PeriodicTrigger
	)
	if cfg.Scheduler.Enabled {
		jobScheduler = scheduler.New(scheduler.Config{
			Workers:       cfg.Scheduler.Workers,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, log)
		if err := jobScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start job scheduler", zap.Error(err))
		}
		warmTrigger = scheduler.NewPeriodicTrigger(cfg.Scheduler.WarmInterval, jobScheduler, log,
			reportService.WarmTasks()...)
		if err := warmTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start report warmer", zap.Error(err))
		}
	}

	// HTTP
	middleware.SetupValidator()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	var httpMetrics *telemetry.HTTPMetrics
	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
		if httpMetrics, err = telemetry.NewHTTPMetrics(providers.Meter.Meter("storefront/http")); err != nil {
			log.Warn("HTTP metrics disabled", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        providers.Tracer.Enabled(),
		TracerProvider: providers.Tracer.Provider(),
	})...)
	engine.Use(middleware.Metrics(httpMetrics))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
	}

	var redisPinger handler.Pinger
	if cfg.Redis.Enabled {
		redisPinger = cacheStore
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, appVersion, db, redisPinger)
	engine.GET("/health", systemHandler.Health)
	registerSwagger(engine, cfg.HTTP)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(
			middleware.OptionalJWT(middleware.JWTConfig{
				JWTService: jwtService,
				Blacklist:  blacklist,
				Logger:     log,
			}),
			middleware.Profiling(providers.Profiler.Running()),
		),
	)
	registerRoutes(r, &handlers{
		auth:       handler.NewAuthHandler(authService, userService),
		products:   handler.NewProductHandler(productService),
		collection: handler.NewCollectionHandler(collectionService),
		promotions: handler.NewPromotionHandler(promotionService),
		reviews:    handler.NewReviewHandler(reviewService),
		tags:       handler.NewTagHandler(tagService),
		images:     handler.NewImageHandler(imageService),
		carts:      handler.NewCartHandler(cartService),
		orders:     handler.NewOrderHandler(orderService),
		customers:  handler.NewCustomerHandler(customerService),
		polls:      handler.NewPollsHandler(questionService),
		taxonomy:   handler.NewTaxonomyHandler(taxonomyService),
		admin:      handler.NewAdminHandler(adminService),
		reports:    handler.NewReportHandler(reportService),
		outbox:     handler.NewOutboxHandler(outboxService),
		system:     systemHandler,
	})
	r.Setup()
	log.Info("Routes registered", zap.Int("count", len(r.Routes())))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if warmTrigger != nil {
		if err := warmTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping report warmer", zap.Error(err))
		}
		if err := jobScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping job scheduler", zap.Error(err))
		}
	}
	if err := outboxProcessor.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping outbox processor", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

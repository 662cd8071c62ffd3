package main

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"

	_ "github.com/storefront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type handlers struct {
	auth       *handler.AuthHandler
	products   *handler.ProductHandler
	collection *handler.CollectionHandler
	promotions *handler.PromotionHandler
	reviews    *handler.ReviewHandler
	tags       *handler.TagHandler
	images     *handler.ImageHandler
	carts      *handler.CartHandler
	orders     *handler.OrderHandler
	customers  *handler.CustomerHandler
	polls      *handler.PollsHandler
	taxonomy   *handler.TaxonomyHandler
	admin      *handler.AdminHandler
	reports    *handler.ReportHandler
	outbox     *handler.OutboxHandler
	system     *handler.SystemHandler
}

func registerRoutes(r *router.Router, h *handlers) {
	authed := middleware.RequireAuth()
	catalogWrite := middleware.RequirePermission(identity.PermissionCatalogWrite)

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", h.auth.Register)
	authRoutes.POST("/login", h.auth.Login)
	authRoutes.POST("/refresh", h.auth.RefreshToken)
	authRoutes.POST("/logout", authed, h.auth.Logout)
	authRoutes.GET("/me", authed, h.auth.GetCurrentUser)
	authRoutes.PUT("/password", authed, h.auth.ChangePassword)

	userRoutes := router.NewDomainGroup("users", "/users").Use(middleware.RequireStaff())
	userRoutes.GET("/:id", h.auth.GetUser)
	userRoutes.PUT("/:id/permissions", h.auth.UpdatePermissions)

	// Catalog
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("", h.products.List)
	productRoutes.POST("", catalogWrite, h.products.Create)
	productRoutes.GET("/:id", h.products.Get)
	productRoutes.PUT("/:id", catalogWrite, h.products.Update)
	productRoutes.PATCH("/:id", catalogWrite, h.products.Patch)
	productRoutes.DELETE("/:id", catalogWrite, h.products.Delete)
	productRoutes.PUT("/:id/promotions", catalogWrite, h.products.SetPromotions)

	productRoutes.GET("/:id/reviews", h.reviews.List)
	productRoutes.POST("/:id/reviews", h.reviews.Create)
	productRoutes.GET("/:id/reviews/:review_id", h.reviews.Get)
	productRoutes.PUT("/:id/reviews/:review_id", h.reviews.Update)
	productRoutes.DELETE("/:id/reviews/:review_id", h.reviews.Delete)

	productRoutes.GET("/:id/tags", h.tags.ProductTags)
	productRoutes.POST("/:id/tags", catalogWrite, h.tags.Attach)
	productRoutes.DELETE("/:id/tags/:tag_id", catalogWrite, h.tags.Detach)

	productRoutes.GET("/:id/images", h.images.List)
	productRoutes.POST("/:id/images", catalogWrite, h.images.Upload)
	productRoutes.DELETE("/:id/images/:image_id", catalogWrite, h.images.Delete)

	collectionRoutes := router.NewDomainGroup("collections", "/collections")
	collectionRoutes.GET("", h.collection.List)
	collectionRoutes.POST("", catalogWrite, h.collection.Create)
	collectionRoutes.GET("/:id", h.collection.Get)
	collectionRoutes.PUT("/:id", catalogWrite, h.collection.Update)
	collectionRoutes.DELETE("/:id", catalogWrite, h.collection.Delete)

	promotionRoutes := router.NewDomainGroup("promotions", "/promotions")
	promotionRoutes.GET("", h.promotions.List)
	promotionRoutes.POST("", catalogWrite, h.promotions.Create)
	promotionRoutes.GET("/:id", h.promotions.Get)
	promotionRoutes.PUT("/:id", catalogWrite, h.promotions.Update)
	promotionRoutes.DELETE("/:id", catalogWrite, h.promotions.Delete)

	tagRoutes := router.NewDomainGroup("tags", "/tags")
	tagRoutes.GET("", h.tags.List)
	tagRoutes.POST("", catalogWrite, h.tags.Create)
	tagRoutes.DELETE("/:id", catalogWrite, h.tags.Delete)

	// Shopping
	cartRoutes := router.NewDomainGroup("carts", "/carts")
	cartRoutes.POST("", h.carts.Create)
	cartRoutes.GET("/:id", h.carts.Get)
	cartRoutes.DELETE("/:id", h.carts.Delete)
	cartRoutes.GET("/:id/items", h.carts.Items)
	cartRoutes.POST("/:id/items", h.carts.AddItem)
	cartRoutes.GET("/:id/items/:item_id", h.carts.Item)
	cartRoutes.PATCH("/:id/items/:item_id", h.carts.UpdateItem)
	cartRoutes.DELETE("/:id/items/:item_id", h.carts.DeleteItem)

	ordersManage := middleware.RequirePermission(identity.PermissionOrdersManage)
	orderRoutes := router.NewDomainGroup("orders", "/orders").Use(authed)
	orderRoutes.GET("", h.orders.List)
	orderRoutes.POST("", h.orders.Create)
	orderRoutes.GET("/:id", h.orders.Get)
	orderRoutes.PATCH("/:id", ordersManage, h.orders.UpdatePaymentStatus)
	orderRoutes.DELETE("/:id", ordersManage, h.orders.Delete)

	customersWrite := middleware.RequirePermission(identity.PermissionCustomersWrite)
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.GET("", h.customers.List)
	customerRoutes.POST("", customersWrite, h.customers.Create)
	customerRoutes.GET("/me", authed, h.customers.Me)
	customerRoutes.PUT("/me", authed, h.customers.UpdateMe)
	customerRoutes.GET("/:id", h.customers.Get)
	customerRoutes.PUT("/:id", customersWrite, h.customers.Update)
	customerRoutes.DELETE("/:id", customersWrite, h.customers.Delete)
	customerRoutes.PATCH("/:id/membership", customersWrite, h.customers.ChangeMembership)
	customerRoutes.PUT("/:id/address", customersWrite, h.customers.SetAddress)
	customerRoutes.GET("/:id/history",
		middleware.RequirePermission(identity.PermissionCustomersViewHistory), h.customers.History)

	// Polls; creator-or-manager rules are checked by the service
	pollsManage := middleware.RequirePermission(identity.PermissionPollsManage)
	pollRoutes := router.NewDomainGroup("polls", "/polls")
	pollRoutes.GET("/categories", h.taxonomy.ListCategories)
	pollRoutes.POST("/categories", pollsManage, h.taxonomy.CreateCategory)
	pollRoutes.GET("/categories/:id", h.taxonomy.GetCategory)
	pollRoutes.DELETE("/categories/:id", pollsManage, h.taxonomy.DeleteCategory)
	pollRoutes.GET("/tags", h.taxonomy.ListTags)
	pollRoutes.POST("/tags", pollsManage, h.taxonomy.CreateTag)
	pollRoutes.GET("/tags/:id", h.taxonomy.GetTag)
	pollRoutes.DELETE("/tags/:id", pollsManage, h.taxonomy.DeleteTag)

	questions := pollRoutes.Group("questions", "/questions")
	questions.GET("", h.polls.ListQuestions)
	questions.POST("", authed, h.polls.CreateQuestion)
	questions.GET("/:id", h.polls.GetQuestion)
	questions.PUT("/:id", authed, h.polls.UpdateQuestion)
	questions.DELETE("/:id", authed, h.polls.DeleteQuestion)
	questions.POST("/:id/choices", authed, h.polls.AddChoice)
	questions.DELETE("/:id/choices/:choice_id", authed, h.polls.DeleteChoice)
	questions.POST("/:id/votes", h.polls.Vote)
	questions.GET("/:id/results", h.polls.Results)
	questions.GET("/:id/comments", h.polls.Comments)
	questions.POST("/:id/comments", authed, h.polls.AddComment)
	questions.DELETE("/:id/comments/:comment_id", authed, h.polls.DeleteComment)

	// Back office
	adminRoutes := router.NewDomainGroup("admin", "/admin").
		Use(middleware.RequirePermission(identity.PermissionAdminAccess))
	adminRoutes.GET("/collections", h.admin.Collections)
	adminRoutes.GET("/products", h.admin.Products)
	adminRoutes.PATCH("/products/:id", h.admin.ChangePrice)
	adminRoutes.GET("/customers", h.admin.Customers)
	adminRoutes.PATCH("/customers/:id", h.admin.ChangeMembership)
	adminRoutes.GET("/orders", h.admin.Orders)
	adminRoutes.GET("/questions", h.admin.Questions)
	adminRoutes.POST("/questions", h.admin.CreateQuestion)

	reportRoutes := router.NewDomainGroup("reports", "/reports").
		Use(middleware.RequirePermission(identity.PermissionReportsRead))
	reportRoutes.GET("/products/summary", h.reports.ProductSummary)
	reportRoutes.GET("/products/discounted", h.reports.DiscountedProducts)
	reportRoutes.GET("/order-items/summary", h.reports.OrderItemSummary)
	reportRoutes.GET("/revenue", h.reports.Revenue)
	reportRoutes.GET("/customers/orders", h.reports.TopCustomers)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.system.GetSystemInfo)
	systemRoutes.GET("/ping", h.system.Ping)
	outbox := systemRoutes.Group("outbox", "/outbox").Use(middleware.RequireStaff())
	outbox.GET("", h.outbox.List)
	outbox.GET("/stats", h.outbox.GetStats)
	outbox.POST("/dead/retry-all", h.outbox.RetryAllDeadEntries)
	outbox.GET("/:id", h.outbox.GetEntry)
	outbox.POST("/:id/retry", h.outbox.RetryDeadEntry)

	r.Register(
		authRoutes,
		userRoutes,
		productRoutes,
		collectionRoutes,
		promotionRoutes,
		tagRoutes,
		cartRoutes,
		orderRoutes,
		customerRoutes,
		pollRoutes,
		adminRoutes,
		reportRoutes,
		systemRoutes,
	)
}

// registerSwagger serves the API docs behind the allow list
func registerSwagger(engine *gin.Engine, cfg config.HTTPConfig) {
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.SwaggerEnabled,
			AllowedIPs: cfg.SwaggerAllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
}

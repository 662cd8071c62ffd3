package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customerapp "github.com/storefront/backend/internal/application/customer"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testApp wires the real services over an in-memory SQLite database
type testApp struct {
	engine      *gin.Engine
	db          *persistence.Database
	products    *catalogapp.ProductService
	collections *catalogapp.CollectionService
	users       *identityapp.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        ":memory:",
		AutoMigrate: true,
	}, gormlogger.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zap.NewNop()
	recorder := event.NewOutboxRecorder(persistence.NewGormOutboxRepository(db.DB), event.NewEventSerializer())
	userRepo := persistence.NewGormUserRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-bytes",
		RefreshSecret:          "handler-test-refresh-secret-32-bytes!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewCacheTokenBlacklist(cache.NewMemoryCache())

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, recorder,
		identityapp.AuthServiceConfig{RefreshTokenTTL: time.Hour}, log)
	userService := identityapp.NewUserService(userRepo, log)
	products := catalogapp.NewProductService(db, productRepo, collectionRepo,
		persistence.NewGormPromotionRepository(db.DB), recorder)
	collections := catalogapp.NewCollectionService(db, collectionRepo, productRepo, recorder, log)
	customers := customerapp.NewService(db, customerRepo, userRepo, orderRepo, recorder, log)
	orders := orderapp.NewService(db, orderRepo, cartRepo, productRepo, customerRepo, customers, recorder, log)
	carts := cartapp.NewService(cartRepo, productRepo, log)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	api := engine.Group("/api/v1")
	api.Use(middleware.OptionalJWT(middleware.JWTConfig{JWTService: jwtService, Blacklist: blacklist}))

	authH := NewAuthHandler(authService, userService)
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login)
	api.POST("/auth/refresh", authH.RefreshToken)
	api.POST("/auth/logout", middleware.RequireAuth(), authH.Logout)
	api.GET("/auth/me", middleware.RequireAuth(), authH.GetCurrentUser)
	api.PUT("/auth/password", middleware.RequireAuth(), authH.ChangePassword)

	productH := NewProductHandler(products)
	api.GET("/products", productH.List)
	api.GET("/products/:id", productH.Get)
	api.POST("/products", middleware.RequirePermission(identity.PermissionCatalogWrite), productH.Create)

	cartH := NewCartHandler(carts)
	api.POST("/carts", cartH.Create)
	api.GET("/carts/:id", cartH.Get)
	api.POST("/carts/:id/items", cartH.AddItem)
	api.PATCH("/carts/:id/items/:item_id", cartH.UpdateItem)

	customerH := NewCustomerHandler(customers)
	api.GET("/customers/me", middleware.RequireAuth(), customerH.Me)

	orderH := NewOrderHandler(orders)
	api.GET("/orders", middleware.RequireAuth(), orderH.List)
	api.GET("/orders/:id", middleware.RequireAuth(), orderH.Get)
	api.POST("/orders", middleware.RequireAuth(), orderH.Create)

	return &testApp{
		engine:      engine,
		db:          db,
		products:    products,
		collections: collections,
		users:       userService,
	}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in a user, returning the access token and user id
func (a *testApp) signUp(t *testing.T, username string) (string, string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "correct-horse-1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var user identityapp.UserInfo
	decodeData(t, w, &user)
	return a.login(t, username, "correct-horse-1").Token.AccessToken, user.ID.String()
}

func (a *testApp) login(t *testing.T, username, password string) LoginResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp LoginResponse
	decodeData(t, w, &resp)
	return resp
}

// decodeData unmarshals the data field of a success envelope into dst
func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

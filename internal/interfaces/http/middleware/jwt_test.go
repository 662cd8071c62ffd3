package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "storefront-test",
		MaxRefreshCount:        5,
	})
}

func issueTokens(t *testing.T, svc *auth.JWTService, subject auth.TokenSubject) *auth.TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	return pair
}

type jwtFixture struct {
	svc       *auth.JWTService
	blacklist *auth.CacheTokenBlacklist
	router    *gin.Engine
	seen      *identity.Principal
}

func newJWTFixture(t *testing.T, guards ...gin.HandlerFunc) *jwtFixture {
	t.Helper()
	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	f := &jwtFixture{svc: newTestJWTService(), blacklist: auth.NewCacheTokenBlacklist(c)}

	f.router = gin.New()
	f.router.Use(RequestID(), OptionalJWT(JWTConfig{JWTService: f.svc, Blacklist: f.blacklist}))
	handlers := append(guards, func(c *gin.Context) {
		p := GetPrincipal(c)
		f.seen = &p
		c.JSON(http.StatusOK, dto.NewSuccessResponse(nil))
	})
	f.router.GET("/resource", handlers...)
	return f
}

func (f *jwtFixture) get(authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authHeader != "" {
		req.Header.Set(AuthHeaderKey, authHeader)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestOptionalJWT_AnonymousPassesThrough(t *testing.T) {
	f := newJWTFixture(t)

	w := f.get("")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.seen)
	assert.False(t, f.seen.IsAuthenticated())
}

func TestOptionalJWT_ValidTokenSetsPrincipal(t *testing.T) {
	f := newJWTFixture(t)
	subject := auth.TokenSubject{
		UserID:      uuid.New(),
		Username:    "alice",
		Permissions: []string{identity.PermissionCatalogWrite},
	}
	pair := issueTokens(t, f.svc, subject)

	w := f.get(BearerPrefix + pair.AccessToken)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, f.seen)
	assert.Equal(t, subject.UserID, f.seen.UserID)
	assert.Equal(t, "alice", f.seen.Username)
	assert.True(t, f.seen.Can(identity.PermissionCatalogWrite))
	assert.False(t, f.seen.Can(identity.PermissionOrdersManage))
}

func TestOptionalJWT_RejectsBadTokens(t *testing.T) {
	f := newJWTFixture(t)
	pair := issueTokens(t, f.svc, auth.TokenSubject{UserID: uuid.New(), Username: "bob"})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"garbage", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"wrong scheme", "Basic dXNlcjpwYXNz", dto.ErrCodeTokenInvalid},
		{"empty bearer", BearerPrefix, dto.ErrCodeTokenInvalid},
		{"refresh token used as access", BearerPrefix + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.get(tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestOptionalJWT_RevokedToken(t *testing.T) {
	f := newJWTFixture(t)
	pair := issueTokens(t, f.svc, auth.TokenSubject{UserID: uuid.New(), Username: "carol"})
	claims, err := f.svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, f.get(BearerPrefix+pair.AccessToken).Code)
	require.NoError(t, f.blacklist.Revoke(context.Background(), claims.ID, time.Minute))

	w := f.get(BearerPrefix + pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestOptionalJWT_UserWideRevocation(t *testing.T) {
	f := newJWTFixture(t)
	userID := uuid.New()
	pair := issueTokens(t, f.svc, auth.TokenSubject{UserID: userID, Username: "dave"})

	require.NoError(t, f.blacklist.RevokeUser(context.Background(), userID.String(), time.Hour))

	assert.Equal(t, http.StatusUnauthorized, f.get(BearerPrefix+pair.AccessToken).Code)
}

func TestRequireAuth(t *testing.T) {
	f := newJWTFixture(t, RequireAuth())

	w := f.get("")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))

	pair := issueTokens(t, f.svc, auth.TokenSubject{UserID: uuid.New(), Username: "erin"})
	assert.Equal(t, http.StatusOK, f.get(BearerPrefix+pair.AccessToken).Code)
}

func TestGetClaims(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetClaims(c))
	assert.Equal(t, uuid.Nil, GetUserID(c))

	claims := &auth.Claims{UserID: uuid.NewString()}
	c.Set(JWTClaimsKey, claims)
	assert.Same(t, claims, GetClaims(c))
}

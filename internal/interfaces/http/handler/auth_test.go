package handler

import (
	"net/http"
	"testing"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	app := newTestApp(t)
	token, userID := app.signUp(t, "alice")

	w := app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var me identityapp.UserInfo
	decodeData(t, w, &me)
	assert.Equal(t, userID, me.ID.String())
	assert.Equal(t, "alice", me.Username)
	assert.False(t, me.IsStaff)
	assert.NotNil(t, me.LastLoginAt)
}

func TestAuthHandler_Register(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "bob")

	t.Run("duplicate username", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "bob",
			"email":    "other@example.com",
			"password": "correct-horse-1",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeError(t, w).Code)
	})

	t.Run("short password", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"username": "carol",
			"email":    "carol@example.com",
			"password": "short",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		errInfo := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, errInfo.Code)
		require.NotEmpty(t, errInfo.Details)
		assert.Equal(t, "password", errInfo.Details[0].Field)
	})
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "dave")

	w := app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "dave",
		"password": "not-the-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", decodeError(t, w).Message)
}

func TestAuthHandler_LogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signUp(t, "erin")

	w := app.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errInfo := decodeError(t, w)
	assert.Equal(t, dto.ErrCodeTokenInvalid, errInfo.Code)
	assert.Equal(t, "Token has been revoked", errInfo.Message)
}

func TestAuthHandler_RefreshIsSingleUse(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "frank")
	pair := app.login(t, "frank", "correct-horse-1")

	body := map[string]string{"refresh_token": pair.Token.RefreshToken}
	w := app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refreshed LoginResponse
	decodeData(t, w, &refreshed)
	assert.NotEmpty(t, refreshed.Token.AccessToken)
	assert.NotEqual(t, pair.Token.RefreshToken, refreshed.Token.RefreshToken)

	w = app.do(t, http.MethodPost, "/api/v1/auth/refresh", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.signUp(t, "grace")

	w := app.do(t, http.MethodPut, "/api/v1/auth/password", token, map[string]string{
		"old_password": "correct-horse-1",
		"new_password": "battery-staple-2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	app.login(t, "grace", "battery-staple-2")
	w = app.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "grace",
		"password": "correct-horse-1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeError(t, w).Code)

	w = app.do(t, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeTokenInvalid, decodeError(t, w).Code)
}

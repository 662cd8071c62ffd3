package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID_Deterministic(t *testing.T) {
	assert.Equal(t, NewTestUUID("a"), NewTestUUID("a"))
	assert.NotEqual(t, NewTestUUID("a"), NewTestUUID("b"))
}

func TestNewMockDB(t *testing.T) {
	db := NewMockDB(t)
	db.Mock.ExpectExec("DELETE FROM carts").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, db.DB.Exec("DELETE FROM carts").Error)
	db.ExpectationsWereMet(t)
}

func TestAuthenticateAs(t *testing.T) {
	p := Staff(NewTestUUID("staff"), "catalog.write")
	engine := gin.New()
	engine.GET("/whoami", AuthenticateAs(p), func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(middleware.GetPrincipal(c)))
	})
	engine.GET("/denied", func(c *gin.Context) {
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden, "no"))
	})

	got := DataAs[map[string]any](t, Do(t, engine, http.MethodGet, "/whoami", nil), http.StatusOK)
	assert.Equal(t, true, got["IsStaff"])

	AssertError(t, Do(t, engine, http.MethodGet, "/denied", nil, "X-Request-ID", "r1"), http.StatusForbidden, dto.ErrCodeForbidden)
}

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("OrderPlaced")
	assert.Equal(t, []string{"OrderPlaced"}, h.EventTypes())

	require.NoError(t, h.Handle(context.Background(), NewTestEvent("OrderPlaced")))
	h.SetError(errors.New("boom"))
	assert.Error(t, h.Handle(context.Background(), NewTestEvent("OrderPlaced")))

	assert.True(t, WaitForEvents(t, h, 2, time.Second))
	assert.Equal(t, "OrderPlaced", h.Handled()[0].EventType())
}

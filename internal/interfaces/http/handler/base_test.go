package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Set(middleware.RequestIDKey, "req-123")
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_SuccessCreated(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext("/")
	h.Success(c, map[string]string{"key": "value"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)

	c, w = newTestContext("/")
	h.Created(c, map[string]string{"id": "123"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandler_NoContent(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.DELETE("/x", h.NoContent)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestPaged(t *testing.T) {
	t.Run("meta", func(t *testing.T) {
		c, w := newTestContext("/")
		page := shared.NewPaginated([]string{"a", "b"}, 12, 2, 5)
		Paged(c, &page)

		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(12), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 5, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("nil items render as empty list", func(t *testing.T) {
		c, w := newTestContext("/")
		page := shared.NewPaginated[string](nil, 0, 1, 10)
		Paged(c, &page)
		assert.Contains(t, w.Body.String(), `"data":[]`)
	})
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"protected", shared.NewProtectedError("Cannot delete"), http.StatusMethodNotAllowed, dto.ErrCodeProtected},
		{"field validation", shared.NewDomainError("INVALID_PRICE", "bad"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"empty cart", shared.NewDomainError("EMPTY_CART", "empty"), http.StatusBadRequest, dto.ErrCodeEmptyCart},
		{"wrapped domain error", errors.Join(errors.New("ctx"), shared.ErrAlreadyExists), http.StatusConflict, dto.ErrCodeAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext("/")
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-123", resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_HidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := &BaseHandler{}
	c, w := newTestContext("/")
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), zap.New(core)))

	h.HandleError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection refused")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Unhandled error", logs.All()[0].Message)
}

func TestBaseHandler_ParamUUID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	c, _ := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.ParamUUID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newTestContext("/")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	_, ok = h.ParamUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBaseHandler_QueryUUID(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	var dst *uuid.UUID
	c, _ := newTestContext("/?customer_id=" + id.String())
	require.True(t, h.QueryUUID(c, "customer_id", &dst))
	require.NotNil(t, dst)
	assert.Equal(t, id, *dst)

	dst = nil
	c, _ = newTestContext("/")
	assert.True(t, h.QueryUUID(c, "customer_id", &dst))
	assert.Nil(t, dst)

	c, w := newTestContext("/?customer_id=abc")
	assert.False(t, h.QueryUUID(c, "customer_id", &dst))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "customer_id", resp.Error.Details[0].Field)
}

func TestBaseHandler_BindQuery(t *testing.T) {
	h := &BaseHandler{}

	var q pageQuery
	c, _ := newTestContext("/?page=2&page_size=50")
	require.True(t, h.BindQuery(c, &q))
	assert.Equal(t, 2, q.Page)
	assert.Equal(t, 50, q.PageSize)

	c, w := newTestContext("/?page_size=500")
	assert.False(t, h.BindQuery(c, &q))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartItemInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/items", func(c *gin.Context) {
		var in cartItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(in))
	})
	return r
}

func postItems(r http.Handler, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestHandleValidationError_FieldErrors(t *testing.T) {
	w, resp := postItems(bindRouter(), `{"product_id":"nope","quantity":0}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.RequestID)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "product_id must be a valid UUID", fields["product_id"])
	assert.Equal(t, "quantity is required", fields["quantity"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w, resp := postItems(bindRouter(), `{"product_id":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestHandleValidationError_ValidBodyPasses(t *testing.T) {
	w, resp := postItems(bindRouter(), `{"product_id":"8f1c2b8e-4d1a-4c55-9a0e-7d6b0c1e2f3a","quantity":2}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
}

func TestValidationMessage(t *testing.T) {
	type sample struct {
		Title      string   `validate:"min=3"`
		Slug       string   `validate:"max=4"`
		Membership string   `validate:"oneof=B S G"`
		Email      string   `validate:"email"`
		Inventory  int      `validate:"gte=0"`
		Price      float64  `validate:"gt=1"`
		Tags       []string `validate:"min=1"`
	}
	v := validator.New()
	err := v.Struct(sample{Title: "ab", Slug: "too-long", Membership: "X", Email: "x", Inventory: -1, Price: 0.5})
	require.Error(t, err)

	got := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		got[e.Field()] = validationMessage(e)
	}
	assert.Equal(t, "Title must be at least 3 characters", got["Title"])
	assert.Equal(t, "Slug must be at most 4 characters", got["Slug"])
	assert.Equal(t, "Membership must be one of: B S G", got["Membership"])
	assert.Equal(t, "Email must be a valid email address", got["Email"])
	assert.Equal(t, "Inventory must be at least 0", got["Inventory"])
	assert.Equal(t, "Price must be greater than 1", got["Price"])
	assert.Equal(t, "Tags must contain at least 1 items", got["Tags"])
}

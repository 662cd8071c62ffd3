package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func tracedRouter(t *testing.T, jwt gin.HandlerFunc) (*gin.Engine, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	r := gin.New()
	r.Use(RequestID())
	r.Use(Tracing(TracingConfig{ServiceName: "storefront-test", Enabled: true, TracerProvider: tp})...)
	if jwt != nil {
		r.Use(jwt)
	}
	r.GET("/api/v1/products/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	return r, rec
}

func spanAttrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	r, rec := tracedRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/products/:id")
	assert.Equal(t, "req-123", spanAttrs(spans[0])["request_id"].AsString())
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_RecordsUserAndClientErrors(t *testing.T) {
	svc := newTestJWTService()
	r, rec := tracedRouter(t, OptionalJWT(JWTConfig{JWTService: svc}))
	userID := uuid.New()
	pair := issueTokens(t, svc, auth.TokenSubject{UserID: userID, Username: "tracer"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/missing", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	r.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, userID.String(), spanAttrs(spans[0])["user_id"].AsString())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_Disabled(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	r := gin.New()
	r.Use(Tracing(TracingConfig{Enabled: false, TracerProvider: tp})...)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.Ended())
}

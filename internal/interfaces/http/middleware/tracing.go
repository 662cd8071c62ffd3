// Package middleware provides the gin middleware chain of the storefront API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength caps the request id copied into span attributes
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// Tracing returns otelgin followed by an annotator. Spans are named after the
// matched route and, once the rest of the chain has run, carry the request id
// and the caller's user id. Client errors are marked on the span; otelgin
// already marks 5xx. Register with r.Use(Tracing(cfg)...).
func Tracing(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return gin.HandlersChain{func(c *gin.Context) { c.Next() }}
	}
	var opts []otelgin.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return gin.HandlersChain{
		otelgin.Middleware(cfg.ServiceName, opts...),
		func(c *gin.Context) {
			c.Next()
			span := trace.SpanFromContext(c.Request.Context())
			if span.IsRecording() {
				annotateSpan(c, span)
			}
		},
	}
}

func annotateSpan(c *gin.Context, span trace.Span) {
	if id := GetRequestID(c); id != "" {
		if len(id) > MaxRequestIDLength {
			id = id[:MaxRequestIDLength]
		}
		span.SetAttributes(attribute.String("request_id", id))
	}
	if p := GetPrincipal(c); p.IsAuthenticated() {
		span.SetAttributes(attribute.String("user_id", p.UserID.String()))
	}
	if status := c.Writer.Status(); status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

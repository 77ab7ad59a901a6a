package tracing

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
)

// HTTPMiddleware creates Gin middleware that wraps each request in a span.
//
// Handler spans started from the request context become children of the
// request span, so every workflow operation correlates back to the HTTP
// call that triggered it.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.FullPath()
		if name == "" {
			name = c.Request.URL.Path
		}

		span, ctx := tracer.StartSpan(c.Request.Context(), "http "+name,
			attr.String("http.method", c.Request.Method),
			attr.String("http.path", c.Request.URL.Path),
			attr.String("http.host", c.Request.Host),
		)

		// Expose trace identifiers to the client for correlation
		c.Header("X-Trace-ID", span.TraceID.String())
		c.Header("X-Span-ID", span.SpanID.String())

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attr.String("http.status", strconv.Itoa(status)))

		if len(c.Errors) > 0 {
			span.RecordError(c.Errors.Last())
		} else if status >= 500 {
			span.RecordError(fmt.Errorf("http %d", status))
		}

		span.End()
	}
}

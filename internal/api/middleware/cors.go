package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	AllowOrigins  []string
	AllowMethods  []string
	AllowHeaders  []string
	ExposeHeaders []string
	MaxAge        time.Duration
}

// DefaultCORSConfig lets a locally served dashboard reach the debug API.
// The trace headers are exposed so browser clients can correlate their
// requests with the span stream.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"}, // Configure specific origins in production
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Accept",
			"Origin",
			"Cache-Control",
		},
		ExposeHeaders: []string{"X-Trace-ID", "X-Span-ID"},
		MaxAge:        12 * time.Hour,
	}
}

// CORS creates a CORS middleware with the provided configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  cfg.AllowOrigins,
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: cfg.ExposeHeaders,
		MaxAge:        cfg.MaxAge,
	})
}

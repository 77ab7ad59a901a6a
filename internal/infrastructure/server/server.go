package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/api/http"
	"github.com/Ibrahim-Lokman/otel-poc/internal/api/middleware"
	"github.com/Ibrahim-Lokman/otel-poc/internal/api/ws"
	"github.com/Ibrahim-Lokman/otel-poc/internal/domain/session"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/config"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/logging"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/reporting"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/resilience"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/tracing"
	"github.com/Ibrahim-Lokman/otel-poc/internal/workflow"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	tracker   *session.Tracker
	tracer    *tracing.Tracer
	hub       *ws.Hub
	flows     *workflow.Flows
	reporter  *reporting.Reporter
	collector *monitoring.Collector
	logger    *logging.Logger
	config    *config.Config
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger, _ = logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: false,
			OutputPaths: []string{"stdout"},
		})
		if logger == nil {
			logger = logging.NewDefault()
		}
	}

	logger.Info("Initializing storefront telemetry server",
		zap.String("port", cfg.Server.Port),
		zap.String("service", cfg.Telemetry.ServiceName),
	)

	// Initialize metrics first (needed by other components)
	collector := monitoring.NewCollector()
	logger.Info("Metrics collector initialized")

	// Spans fan out to the log and to connected stream clients
	hub := ws.NewHub(logger)
	tracer := tracing.New(cfg.Telemetry.ServiceName, logger.Logger,
		tracing.WithBufferSize(cfg.Telemetry.SpanBufferSize),
		tracing.WithExporter(tracing.NewMultiExporter(
			tracing.NewLogExporter(logger.Logger),
			hub,
		)),
	)
	logger.Info("Span tracing initialized",
		zap.Int("buffer_size", cfg.Telemetry.SpanBufferSize),
	)

	// Initialize session tracker
	tracker := session.New(cfg.Session.InactivityTimeout, tracer, logger).
		WithMetrics(collector)
	logger.Info("Session tracking initialized",
		zap.Duration("inactivity_timeout", cfg.Session.InactivityTimeout),
	)

	// Load the product catalog
	catalog, err := workflow.LoadCatalog()
	if err != nil {
		tracer.Close()
		hub.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Product catalog loaded", zap.Int("products", catalog.Len()))

	// Simulated gateway latency and failures
	sim := workflow.NewSimulator(
		time.Duration(cfg.Simulation.MinLatencyMs)*time.Millisecond,
		time.Duration(cfg.Simulation.MaxLatencyMs)*time.Millisecond,
		cfg.Simulation.FailureRate,
		uint64(time.Now().UnixNano()),
	)

	// Payment gateway breaker, with state changes surfaced in the log
	breaker := resilience.New("payment-gateway", resilience.Settings{
		MaxFailures:    5,
		Timeout:        30 * time.Second,
		HalfOpenProbes: 1,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	flows := workflow.NewFlows(catalog, tracker, tracer, collector, logger).
		WithSimulator(sim).
		WithBreaker(breaker)

	// Scheduled analytics reporting
	var reporter *reporting.Reporter
	if cfg.Reporting.Enabled {
		reporter, err = reporting.New(cfg.Reporting.Schedule, tracker, collector, logger)
		if err != nil {
			tracker.Close()
			tracer.Close()
			hub.Close()
			return nil, err
		}
		reporter.Start()
		logger.Info("Analytics reporting scheduled",
			zap.String("schedule", cfg.Reporting.Schedule),
		)
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(collector))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := http.NewHandlers(tracker, flows, catalog, collector, hub, logger)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Session analytics
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/current", handlers.CurrentSession)
	router.GET("/sessions/analytics", handlers.SessionAnalytics)

	// Storefront endpoints driving the instrumented workflows
	shop := router.Group("/shop")
	{
		shop.POST("/login", handlers.Login)
		shop.POST("/logout", handlers.Logout)
		shop.GET("/products", handlers.ListProducts)
		shop.POST("/products/:id/view", handlers.ViewProduct)
		shop.GET("/cart", handlers.GetCart)
		shop.POST("/cart/add", handlers.AddToCart)
		shop.POST("/cart/update", handlers.UpdateCartItem)
		shop.POST("/cart/remove", handlers.RemoveFromCart)
		shop.POST("/checkout", handlers.InitiateCheckout)
		shop.POST("/checkout/pay", handlers.ProcessPayment)
	}

	// WebSocket span stream
	router.GET("/stream", hub.HandleConnection)

	// Metrics endpoints
	router.GET("/metrics", gin.WrapH(collector.Handler()))
	router.GET("/metrics/json", handlers.MetricsJSON)
	router.GET("/metrics/dashboard", handlers.MetricsDashboard)

	logger.Info("Server initialized successfully")

	return &Server{
		router:    router,
		tracker:   tracker,
		tracer:    tracer,
		hub:       hub,
		flows:     flows,
		reporter:  reporter,
		collector: collector,
		logger:    logger,
		config:    cfg,
	}, nil
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	if s.reporter != nil {
		s.reporter.Stop()
		s.logger.Info("Stopped analytics reporting")
	}

	// Finalizes the active session before the tracer drains
	s.tracker.Close()

	// Flushes buffered spans to the exporters
	s.tracer.Close()

	// Disconnects stream clients
	s.hub.Close()

	// Sync logger before exit
	s.logger.Sync()

	return nil
}

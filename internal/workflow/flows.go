package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/domain/session"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/logging"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/resilience"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/tracing"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
)

// Errors returned to the API surface.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownProduct     = errors.New("unknown product")
	ErrNotInCart          = errors.New("product not in cart")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrPaymentDeclined    = errors.New("payment declined")
)

// Flows implements the storefront's business operations. Every operation
// instruments itself the same way: a span around its own logic, a response
// time sample, a session action, and the counters the derived rates are
// built from. The engine never does this on the operation's behalf.
type Flows struct {
	catalog *Catalog
	tracker *session.Tracker
	tracer  *tracing.Tracer
	metrics *monitoring.Collector
	logger  *logging.Logger
	sim     *Simulator
	breaker *resilience.Breaker

	mu   sync.Mutex
	cart map[string]int // product id -> quantity
}

// NewFlows wires the storefront operations to the telemetry engine. All
// arguments are required except logger, which defaults to a no-op.
func NewFlows(catalog *Catalog, tracker *session.Tracker, tracer *tracing.Tracer, metrics *monitoring.Collector, logger *logging.Logger) *Flows {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Flows{
		catalog: catalog,
		tracker: tracker,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.Named("workflow"),
		sim:     NewSimulator(0, 0, 0, 1),
		breaker: resilience.New("payment-gateway", resilience.Settings{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		cart: make(map[string]int),
	}
}

// WithSimulator overrides the latency/failure simulator.
func (f *Flows) WithSimulator(s *Simulator) *Flows {
	if s != nil {
		f.sim = s
	}
	return f
}

// WithBreaker overrides the payment gateway circuit breaker.
func (f *Flows) WithBreaker(b *resilience.Breaker) *Flows {
	if b != nil {
		f.breaker = b
	}
	return f
}

// Breaker exposes the payment breaker for the health surface.
func (f *Flows) Breaker() *resilience.Breaker {
	return f.breaker
}

// Login authenticates the demo user and opens a fresh session, superseding
// any session already active. Any non-empty pair passes except the
// password "fail", which exists to exercise the failure path.
func (f *Flows) Login(ctx context.Context, username, password string) (*session.Session, error) {
	span, ctx := f.tracer.StartSpan(ctx, "login", attr.String("user.name", username))
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.sim.Sleep()

	if username == "" || password == "" || password == "fail" {
		span.RecordError(ErrInvalidCredentials)
		f.metrics.IncrementCounter(monitoring.CounterLoginsFailed)
		f.logger.Warn("login failed", zap.String("user_name", username))
		return nil, ErrInvalidCredentials
	}

	userID := "user_" + strings.ToLower(strings.ReplaceAll(username, " ", "_"))
	sess := f.tracker.StartSession(ctx, userID, username)
	f.resetCart()

	span.SetAttributes(
		attr.String("session.id", sess.ID.String()),
		attr.String("user.id", userID))
	span.AddEvent("session_started")

	f.tracker.TrackAction(ctx, "login_success", attr.String("method", "password"))
	f.metrics.IncrementCounter(monitoring.CounterLoginsSucceeded)
	return sess, nil
}

// Logout records the logout action and closes the session. Without an
// active session both are silent no-ops.
func (f *Flows) Logout(ctx context.Context) {
	span, ctx := f.tracer.StartSpan(ctx, "logout")
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.tracker.TrackAction(ctx, "logout")
	f.tracker.EndCurrentSession(ctx)
	f.resetCart()
}

// BrowseProducts lists the whole catalog.
func (f *Flows) BrowseProducts(ctx context.Context) []Product {
	span, ctx := f.tracer.StartSpan(ctx, "browse_products")
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.sim.Sleep()

	products := f.catalog.Products()
	span.SetAttributes(attr.Int("products.count", int64(len(products))))
	f.tracker.TrackAction(ctx, "products_browsed", attr.Int("count", int64(len(products))))
	return products
}

// ViewProduct fetches one product detail and counts the view, which is
// the denominator of the conversion rate.
func (f *Flows) ViewProduct(ctx context.Context, productID string) (Product, error) {
	span, ctx := f.tracer.StartSpan(ctx, "view_product", attr.String("product.id", productID))
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.sim.Sleep()

	product, ok := f.catalog.Get(productID)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
		span.RecordError(err)
		return Product{}, err
	}

	span.SetAttributes(
		attr.String("product.name", product.Name),
		attr.String("product.category", product.Category))
	f.metrics.IncrementCounter(monitoring.CounterProductsViewed)
	f.tracker.TrackAction(ctx, "product_view",
		attr.String("product.id", product.ID),
		attr.String("product.name", product.Name),
		attr.Float("price", float64(product.PriceCents)/100))
	return product, nil
}

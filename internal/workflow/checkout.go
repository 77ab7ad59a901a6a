package workflow

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/id"
)

// OrderConfirmation is returned on successful payment.
type OrderConfirmation struct {
	OrderID       id.OrderID `json:"order_id"`
	TransactionID string     `json:"transaction_id"`
	TotalCents    int64      `json:"total_cents"`
	Items         int        `json:"items"`
}

// InitiateCheckout opens checkout for the current cart and returns its
// total. Checkout can be initiated repeatedly for the same cart, which is
// exactly what lets the abandonment rate go negative.
func (f *Flows) InitiateCheckout(ctx context.Context) (int64, error) {
	span, ctx := f.tracer.StartSpan(ctx, "initiate_checkout")
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.mu.Lock()
	size := f.cartSizeLocked()
	total := f.cartTotalLocked()
	f.mu.Unlock()

	if size == 0 {
		span.RecordError(ErrEmptyCart)
		return 0, ErrEmptyCart
	}

	f.sim.Sleep()

	span.SetAttributes(
		attr.Int("cart.size", int64(size)),
		attr.Int("cart.total_cents", total))
	span.AddEvent("cart_validated")
	f.metrics.IncrementCounter(monitoring.CounterCheckoutInitiated)
	f.tracker.TrackAction(ctx, "checkout_initiated",
		attr.Int("cart.size", int64(size)),
		attr.Int("cart.total_cents", total))
	return total, nil
}

// ProcessPayment charges the simulated gateway for the current cart. The
// charge runs through the circuit breaker so a flapping gateway fails
// fast instead of stalling every checkout. On success the cart is emptied
// and the order counted.
func (f *Flows) ProcessPayment(ctx context.Context) (*OrderConfirmation, error) {
	span, ctx := f.tracer.StartSpan(ctx, "process_payment")
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.mu.Lock()
	size := f.cartSizeLocked()
	total := f.cartTotalLocked()
	f.mu.Unlock()

	if size == 0 {
		span.RecordError(ErrEmptyCart)
		return nil, ErrEmptyCart
	}

	span.SetAttributes(
		attr.Int("order.total_cents", total),
		attr.Int("order.items", int64(size)))
	span.AddEvent("payment_attempt", attr.Int("amount_cents", total))

	txnID := uuid.NewString()
	err := f.breaker.Execute(func() error {
		return f.chargeGateway(ctx, txnID, total)
	})
	if err != nil {
		span.RecordError(err)
		f.metrics.IncrementCounter(monitoring.CounterPaymentsFailed)
		f.tracker.TrackAction(ctx, "payment_failed", attr.String("error", err.Error()))
		f.logger.Warn("payment failed",
			zap.String("transaction_id", txnID),
			zap.Error(err))
		return nil, err
	}

	order := &OrderConfirmation{
		OrderID:       id.NewOrderID(),
		TransactionID: txnID,
		TotalCents:    total,
		Items:         size,
	}
	f.resetCart()

	span.SetAttributes(attr.String("order.id", order.OrderID.String()))
	span.AddEvent("payment_captured", attr.String("transaction.id", txnID))
	f.metrics.IncrementCounter(monitoring.CounterPaymentsSucceeded)
	f.metrics.IncrementCounter(monitoring.CounterOrdersCompleted)
	f.tracker.TrackAction(ctx, "order_completed",
		attr.String("order.id", order.OrderID.String()),
		attr.Int("order.total_cents", total))
	f.logger.Info("order completed",
		zap.String("order_id", order.OrderID.String()),
		zap.Int64("total_cents", total),
		zap.Int("items", size))
	return order, nil
}

// chargeGateway stands in for a real payment call. It burns simulated
// latency inside a child span and fails at the configured rate.
func (f *Flows) chargeGateway(ctx context.Context, txnID string, amountCents int64) error {
	span, _ := f.tracer.StartSpan(ctx, "charge_card",
		attr.String("transaction.id", txnID),
		attr.Int("amount_cents", amountCents))
	defer span.End()

	f.sim.Sleep()

	if f.sim.Fails() {
		span.RecordError(ErrPaymentDeclined)
		return ErrPaymentDeclined
	}
	return nil
}

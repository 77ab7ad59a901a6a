package workflow

import (
	"context"
	"fmt"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
)

// CartItem pairs a catalog product with its quantity in the cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// AddToCart puts quantity units of a product in the cart.
func (f *Flows) AddToCart(ctx context.Context, productID string, quantity int) error {
	span, ctx := f.tracer.StartSpan(ctx, "add_to_cart",
		attr.String("product.id", productID),
		attr.Int("quantity", int64(quantity)))
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	if quantity <= 0 {
		err := fmt.Errorf("%w, got %d", ErrInvalidQuantity, quantity)
		span.RecordError(err)
		return err
	}
	product, ok := f.catalog.Get(productID)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
		span.RecordError(err)
		return err
	}

	f.sim.Sleep()

	f.mu.Lock()
	f.cart[productID] += quantity
	size := f.cartSizeLocked()
	f.mu.Unlock()

	f.metrics.IncrementCounter(monitoring.CounterCartUpdated)
	f.metrics.SetGauge(monitoring.GaugeCartSize, float64(size))
	span.SetAttributes(attr.Int("cart.size", int64(size)))
	f.tracker.TrackAction(ctx, "cart_add",
		attr.String("product.id", product.ID),
		attr.Int("quantity", int64(quantity)),
		attr.Int("cart.size", int64(size)))
	return nil
}

// UpdateCartItem overwrites a cart line's quantity. Zero removes the line.
func (f *Flows) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	span, ctx := f.tracer.StartSpan(ctx, "update_cart_item",
		attr.String("product.id", productID),
		attr.Int("quantity", int64(quantity)))
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	if quantity < 0 {
		err := fmt.Errorf("%w, got %d", ErrInvalidQuantity, quantity)
		span.RecordError(err)
		return err
	}

	f.mu.Lock()
	if _, in := f.cart[productID]; !in {
		f.mu.Unlock()
		err := fmt.Errorf("%w: %s", ErrNotInCart, productID)
		span.RecordError(err)
		return err
	}
	if quantity == 0 {
		delete(f.cart, productID)
	} else {
		f.cart[productID] = quantity
	}
	size := f.cartSizeLocked()
	f.mu.Unlock()

	f.metrics.IncrementCounter(monitoring.CounterCartUpdated)
	f.metrics.SetGauge(monitoring.GaugeCartSize, float64(size))
	span.SetAttributes(attr.Int("cart.size", int64(size)))
	f.tracker.TrackAction(ctx, "cart_update",
		attr.String("product.id", productID),
		attr.Int("quantity", int64(quantity)),
		attr.Int("cart.size", int64(size)))
	return nil
}

// RemoveFromCart drops a product from the cart entirely.
func (f *Flows) RemoveFromCart(ctx context.Context, productID string) error {
	span, ctx := f.tracer.StartSpan(ctx, "remove_from_cart",
		attr.String("product.id", productID))
	defer span.End()
	timer := monitoring.NewTimer(f.metrics)
	defer timer.Stop()

	f.mu.Lock()
	if _, in := f.cart[productID]; !in {
		f.mu.Unlock()
		err := fmt.Errorf("%w: %s", ErrNotInCart, productID)
		span.RecordError(err)
		return err
	}
	delete(f.cart, productID)
	size := f.cartSizeLocked()
	f.mu.Unlock()

	f.metrics.IncrementCounter(monitoring.CounterCartUpdated)
	f.metrics.SetGauge(monitoring.GaugeCartSize, float64(size))
	span.SetAttributes(attr.Int("cart.size", int64(size)))
	f.tracker.TrackAction(ctx, "cart_remove",
		attr.String("product.id", productID),
		attr.Int("cart.size", int64(size)))
	return nil
}

// Cart returns the current cart lines in catalog order.
func (f *Flows) Cart() []CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]CartItem, 0, len(f.cart))
	for _, p := range f.catalog.Products() {
		if qty, in := f.cart[p.ID]; in {
			items = append(items, CartItem{Product: p, Quantity: qty})
		}
	}
	return items
}

// CartSize returns the total number of units in the cart.
func (f *Flows) CartSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartSizeLocked()
}

// CartTotalCents returns the cart's total price.
func (f *Flows) CartTotalCents() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cartTotalLocked()
}

// resetCart empties the cart and zeroes the gauge.
func (f *Flows) resetCart() {
	f.mu.Lock()
	f.cart = make(map[string]int)
	f.mu.Unlock()
	f.metrics.SetGauge(monitoring.GaugeCartSize, 0)
}

// cartSizeLocked sums quantities. Caller holds f.mu.
func (f *Flows) cartSizeLocked() int {
	total := 0
	for _, qty := range f.cart {
		total += qty
	}
	return total
}

// cartTotalLocked prices the cart against the catalog. Caller holds f.mu.
func (f *Flows) cartTotalLocked() int64 {
	var total int64
	for productID, qty := range f.cart {
		if p, ok := f.catalog.Get(productID); ok {
			total += p.PriceCents * int64(qty)
		}
	}
	return total
}

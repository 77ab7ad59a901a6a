// Package workflow implements the demo storefront operations that drive
// the telemetry engine.
//
// The flows are deliberately thin: login, catalog browsing, cart edits,
// checkout, and payment. What matters is their instrumentation discipline.
// Each operation wraps its own logic in a span, records its duration as a
// response time sample, tracks a session action, and increments the
// counters that conversion and abandonment rates derive from. Those calls
// live here, at the call site, not inside the engine.
//
// External effects are simulated. Latency comes from a seedable uniform
// band, payment failures from a configured probability, and the gateway
// charge runs through a circuit breaker exactly as a real one would.
//
// Components:
//   - Flows: Login/Logout, BrowseProducts/ViewProduct, cart operations,
//     InitiateCheckout/ProcessPayment
//   - Catalog: Embedded YAML product list
//   - Simulator: Seeded latency and failure injection
package workflow

package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the business instruments. The zero value is not usable; use
// NewMetrics, which falls back to no-op instruments on registration errors.
type Metrics struct {
	ordersCreated    metric.Int64Counter
	paymentsCreated  metric.Int64Counter
	statusChanges    metric.Int64Counter
	checkoutFailures metric.Int64Counter
	checkoutDuration metric.Float64Histogram
}

func NewMetrics() *Metrics {
	meter := otel.Meter("storefront")
	m := &Metrics{}
	m.ordersCreated, _ = meter.Int64Counter("storefront_orders_created",
		metric.WithDescription("Orders persisted"))
	m.paymentsCreated, _ = meter.Int64Counter("storefront_payments_created",
		metric.WithDescription("Payment records persisted, by method"))
	m.statusChanges, _ = meter.Int64Counter("storefront_status_changes",
		metric.WithDescription("Admin status transitions, by entity and target status"))
	m.checkoutFailures, _ = meter.Int64Counter("storefront_checkout_failures",
		metric.WithDescription("Checkouts rejected or rolled back, by error kind"))
	m.checkoutDuration, _ = meter.Float64Histogram("storefront_checkout_duration",
		metric.WithDescription("Checkout latency"),
		metric.WithUnit("s"))
	return m
}

func (m *Metrics) OrderCreated(ctx context.Context, source string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

func (m *Metrics) PaymentCreated(ctx context.Context, method string) {
	if m == nil || m.paymentsCreated == nil {
		return
	}
	m.paymentsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

func (m *Metrics) StatusChanged(ctx context.Context, entity, status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("status", status),
	))
}

func (m *Metrics) CheckoutFinished(ctx context.Context, started time.Time, errKind string) {
	if m == nil {
		return
	}
	if m.checkoutDuration != nil {
		m.checkoutDuration.Record(ctx, time.Since(started).Seconds())
	}
	if errKind != "" && m.checkoutFailures != nil {
		m.checkoutFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", errKind)))
	}
}

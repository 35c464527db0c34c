// Package telemetry records business metrics for the storefront engine on
// the OpenTelemetry metric API. The host wires the MeterProvider; with the
// default no-op global provider every recording is free.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is passed to a constructor
var ErrMeterNil = errors.New("meter cannot be nil")

// Counter is a helper for creating and recording counter metrics.
// Counters represent monotonically increasing values.
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Add increments the counter by the given value with optional attributes.
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1 with optional attributes.
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// FloatCounter is a helper for monotonically increasing float values, used
// for monetary sums.
type FloatCounter struct {
	counter metric.Float64Counter
}

// NewFloatCounter creates a new FloatCounter metric.
func NewFloatCounter(meter metric.Meter, name, description, unit string) (*FloatCounter, error) {
	c, err := meter.Float64Counter(
		name,
		metric.WithDescription(description),
		metric.WithUnit(unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &FloatCounter{counter: c}, nil
}

// Add increments the counter by the given value with optional attributes.
func (c *FloatCounter) Add(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// StorefrontMetrics tracks cart activity and order assembly.
type StorefrontMetrics struct {
	cartMutationTotal  *Counter
	cartRejectionTotal *Counter
	orderTotal         *Counter
	orderAmountTotal   *FloatCounter
}

// NewStorefrontMetrics creates metrics on the given meter. A nil meter
// falls back to the global provider's meter, which is a no-op unless the
// host installed a real one.
func NewStorefrontMetrics(meter metric.Meter) (*StorefrontMetrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter("storefront")
	}

	mutations, err := NewCounter(meter,
		"storefront.cart.mutations.total",
		"Total cart mutations by operation",
		"{mutation}")
	if err != nil {
		return nil, err
	}
	rejections, err := NewCounter(meter,
		"storefront.cart.rejections.total",
		"Total rejected cart mutations by reason",
		"{rejection}")
	if err != nil {
		return nil, err
	}
	orders, err := NewCounter(meter,
		"storefront.orders.assembled.total",
		"Total successfully assembled orders",
		"{order}")
	if err != nil {
		return nil, err
	}
	amounts, err := NewFloatCounter(meter,
		"storefront.orders.amount.total",
		"Total grand-total amount of assembled orders",
		"{amount}")
	if err != nil {
		return nil, err
	}

	return &StorefrontMetrics{
		cartMutationTotal:  mutations,
		cartRejectionTotal: rejections,
		orderTotal:         orders,
		orderAmountTotal:   amounts,
	}, nil
}

// RecordCartMutation counts one applied cart mutation
func (m *StorefrontMetrics) RecordCartMutation(ctx context.Context, operation string, segment string) {
	m.cartMutationTotal.Inc(ctx,
		attribute.String("operation", operation),
		attribute.String("segment", segment),
	)
}

// RecordCartRejection counts one rejected cart mutation
func (m *StorefrontMetrics) RecordCartRejection(ctx context.Context, operation string, reason string) {
	m.cartRejectionTotal.Inc(ctx,
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	)
}

// RecordOrderAssembled counts one assembled order and its grand total
func (m *StorefrontMetrics) RecordOrderAssembled(ctx context.Context, segment string, grandTotal float64, currency string) {
	attrs := []attribute.KeyValue{
		attribute.String("segment", segment),
		attribute.String("currency", currency),
	}
	m.orderTotal.Inc(ctx, attrs...)
	m.orderAmountTotal.Add(ctx, grandTotal, attrs...)
}

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrOutcome = attribute.Key("outcome")
	AttrAction  = attribute.Key("action")
	AttrStatus  = attribute.Key("status")
)

// OrderMetrics counts order lifecycle activity. A nil *OrderMetrics is valid
// and records nothing, so services can run without metrics wired.
type OrderMetrics struct {
	checkouts            *Counter
	transitions          *Counter
	compensationFailures *Counter
	restoredUnits        *Counter
}

// NewOrderMetrics registers the order counters on meter.
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	checkouts, err := NewCounter(meter, "checkouts_total", "Checkout attempts by outcome", "{checkout}")
	if err != nil {
		return nil, err
	}
	transitions, err := NewCounter(meter, "purchase_transitions_total", "Purchase status transitions", "{transition}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "compensation_failures_total", "Inventory restores that failed during cancellation", "{item}")
	if err != nil {
		return nil, err
	}
	restored, err := NewCounter(meter, "inventory_restored_units_total", "Units returned to stock by cancellations", "{unit}")
	if err != nil {
		return nil, err
	}
	return &OrderMetrics{
		checkouts:            checkouts,
		transitions:          transitions,
		compensationFailures: failures,
		restoredUnits:        restored,
	}, nil
}

// RecordCheckout counts a checkout attempt. outcome is "placed" or an error code.
func (m *OrderMetrics) RecordCheckout(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.checkouts.Inc(ctx, AttrOutcome.String(outcome))
}

// RecordTransition counts an applied transition
func (m *OrderMetrics) RecordTransition(ctx context.Context, action, status string) {
	if m == nil {
		return
	}
	m.transitions.Inc(ctx, AttrAction.String(action), AttrStatus.String(status))
}

// RecordRestore counts units returned to stock
func (m *OrderMetrics) RecordRestore(ctx context.Context, units int64) {
	if m == nil || units <= 0 {
		return
	}
	m.restoredUnits.Add(ctx, units)
}

// RecordCompensationFailure counts a line item whose restore failed
func (m *OrderMetrics) RecordCompensationFailure(ctx context.Context) {
	if m == nil {
		return
	}
	m.compensationFailures.Inc(ctx)
}

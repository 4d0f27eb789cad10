package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// BusinessMetrics holds Prometheus metrics for store-level observability.
// A nil *BusinessMetrics is valid and records nothing.
type BusinessMetrics struct {
	// Kit builder
	KitOperations *prometheus.CounterVec
	KitRejections *prometheus.CounterVec
	KitsFinalized prometheus.Counter
	KitValue      prometheus.Histogram

	// Cart
	CartLinesAdded *prometheus.CounterVec
	CartCleared    prometheus.Counter

	// Orders
	OrdersSubmitted prometheus.Counter
	OrderValue      prometheus.Histogram
	HandoffFailures *prometheus.CounterVec

	// Admin
	AdminLogins      prometheus.Counter
	AdminLoginFailed prometheus.Counter
}

// NewBusinessMetrics creates the business metrics and registers them with reg.
// A nil reg uses the default registerer.
func NewBusinessMetrics(namespace string, reg prometheus.Registerer) *BusinessMetrics {
	if namespace == "" {
		namespace = "festa"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	subsystem := "business"
	moneyBuckets := []float64{10, 25, 50, 100, 200, 400, 800}

	return &BusinessMetrics{
		// =======================================================================
		// Kit Builder
		// =======================================================================
		KitOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "kit_operations_total",
				Help:      "Total accepted kit builder operations",
			},
			[]string{"operation"}, // operation: container, add_item, update_item, remove_item, wrapper, filler, ribbon
		),
		KitRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "kit_rejections_total",
				Help:      "Total kit builder operations rejected by the validator",
			},
			[]string{"reason"}, // reason: capacity, height, invalid_selection, not_in_kit, other
		),
		KitsFinalized: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "kits_finalized_total",
				Help:      "Total custom kits added to a cart",
			},
		),
		KitValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "kit_value_brl",
				Help:      "Total price of finalized kits",
				Buckets:   moneyBuckets,
			},
		),

		// =======================================================================
		// Cart
		// =======================================================================
		CartLinesAdded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_lines_added_total",
				Help:      "Total lines added to carts",
			},
			[]string{"kind"}, // kind: product, kit, ribbon, balloon
		),
		CartCleared: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_cleared_total",
				Help:      "Total carts emptied by the shopper",
			},
		),

		// =======================================================================
		// Orders
		// =======================================================================
		OrdersSubmitted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_submitted_total",
				Help:      "Total orders handed off to the store",
			},
		),
		OrderValue: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_brl",
				Help:      "Total price of submitted orders",
				Buckets:   moneyBuckets,
			},
		),
		HandoffFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "handoff_failures_total",
				Help:      "Total failures after an order was saved",
			},
			[]string{"stage"}, // stage: publish, ribbon_stock, cart_clear
		),

		// =======================================================================
		// Admin
		// =======================================================================
		AdminLogins: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "admin_logins_total",
				Help:      "Total successful admin logins",
			},
		),
		AdminLoginFailed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "admin_login_failed_total",
				Help:      "Total rejected admin login attempts",
			},
		),
	}
}

func (m *BusinessMetrics) KitOperation(op string) {
	if m == nil {
		return
	}
	m.KitOperations.WithLabelValues(op).Inc()
}

func (m *BusinessMetrics) KitRejected(reason string) {
	if m == nil {
		return
	}
	m.KitRejections.WithLabelValues(reason).Inc()
}

func (m *BusinessMetrics) KitFinalized(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.KitsFinalized.Inc()
	m.KitValue.Observe(total.InexactFloat64())
}

func (m *BusinessMetrics) CartLineAdded(kind string) {
	if m == nil {
		return
	}
	m.CartLinesAdded.WithLabelValues(kind).Inc()
}

func (m *BusinessMetrics) CartEmptied() {
	if m == nil {
		return
	}
	m.CartCleared.Inc()
}

func (m *BusinessMetrics) OrderSubmitted(total decimal.Decimal) {
	if m == nil {
		return
	}
	m.OrdersSubmitted.Inc()
	m.OrderValue.Observe(total.InexactFloat64())
}

func (m *BusinessMetrics) HandoffFailed(stage string) {
	if m == nil {
		return
	}
	m.HandoffFailures.WithLabelValues(stage).Inc()
}

// AdminLogin records a login attempt outcome.
func (m *BusinessMetrics) AdminLogin(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.AdminLogins.Inc()
		return
	}
	m.AdminLoginFailed.Inc()
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records storefront activity counters.
type CatalogMetrics struct {
	snapshotLoads     *prometheus.CounterVec
	checkoutsComposed prometheus.Counter
	cartOps           *prometheus.CounterVec
	sseClients        prometheus.Gauge
	outboxPublish     *prometheus.CounterVec
	outboxLatency     prometheus.Histogram
}

// NewCatalogMetrics registers the storefront metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	snapshotLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_snapshot_loads_total",
		Help: "Catalog snapshot loads by resulting state.",
	}, []string{"state"})
	checkoutsComposed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkouts_composed_total",
		Help: "WhatsApp checkout handoffs composed.",
	})
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	sseClients := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_sse_clients",
		Help: "Currently connected catalog change stream clients.",
	})
	outboxPublish := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_total",
		Help: "Outbox rows published by outcome.",
	}, []string{"outcome"})
	outboxLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_publish_latency_seconds",
		Help:    "Time from outbox row creation to publish.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(snapshotLoads, checkoutsComposed, cartOps, sseClients, outboxPublish, outboxLatency)
	return &CatalogMetrics{
		snapshotLoads:     snapshotLoads,
		checkoutsComposed: checkoutsComposed,
		cartOps:           cartOps,
		sseClients:        sseClients,
		outboxPublish:     outboxPublish,
		outboxLatency:     outboxLatency,
	}
}

// IncSnapshotLoad counts a catalog snapshot load with its resulting state.
func (m *CatalogMetrics) IncSnapshotLoad(state string) {
	if m == nil || m.snapshotLoads == nil {
		return
	}
	if state == "" {
		state = "unknown"
	}
	m.snapshotLoads.WithLabelValues(state).Inc()
}

// IncCheckoutComposed counts a completed checkout handoff.
func (m *CatalogMetrics) IncCheckoutComposed() {
	if m == nil || m.checkoutsComposed == nil {
		return
	}
	m.checkoutsComposed.Inc()
}

// IncCartOp counts a cart mutation.
func (m *CatalogMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.cartOps.WithLabelValues(op).Inc()
}

// SSEClientConnected adjusts the live client gauge.
func (m *CatalogMetrics) SSEClientConnected() {
	if m == nil || m.sseClients == nil {
		return
	}
	m.sseClients.Inc()
}

// SSEClientDisconnected adjusts the live client gauge.
func (m *CatalogMetrics) SSEClientDisconnected() {
	if m == nil || m.sseClients == nil {
		return
	}
	m.sseClients.Dec()
}

// ObserveOutboxPublish records an outbox publish attempt outcome and latency.
func (m *CatalogMetrics) ObserveOutboxPublish(outcome string, age time.Duration) {
	if m == nil || m.outboxPublish == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.outboxPublish.WithLabelValues(outcome).Inc()
	if age > 0 && m.outboxLatency != nil {
		m.outboxLatency.Observe(age.Seconds())
	}
}

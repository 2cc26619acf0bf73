// Package metrics holds the Prometheus collectors of the split service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "splitvault"

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations  *prometheus.CounterVec
	transferred *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Split operations by name and outcome (ok or the refusal reason).",
		}, []string{"operation", "outcome"}),
		transferred: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_amount_total",
			Help:      "Value moved by settlement step and asset, in base units.",
		}, []string{"kind", "asset"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
	}
	reg.MustRegister(m.operations, m.transferred, m.rpcDuration)
	return m
}

// ObserveOperation counts one finished operation.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveTransfer adds a moved amount.
func (m *Metrics) ObserveTransfer(kind, asset string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.transferred.WithLabelValues(kind, asset).Add(amount.InexactFloat64())
}

// ObserveRPC records the latency of one RPC.
func (m *Metrics) ObserveRPC(procedure, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcDuration.WithLabelValues(procedure, code).Observe(seconds)
}

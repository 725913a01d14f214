package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for replay.
type Metrics struct {
	opDuration   *prometheus.HistogramVec
	opsTotal     *prometheus.CounterVec
	totalValue   prometheus.Gauge
	lpSupply     prometheus.Gauge
	rebalancing  prometheus.Gauge
	storeRetries prometheus.Counter
}

// NewMetrics creates and registers the replay metrics. A nil registerer
// yields metrics that are tracked but never exported.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lstpool_operation_duration_seconds",
			Help:    "Time taken to apply one pool operation.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		opsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lstpool_operations_total",
			Help: "Pool operations replayed, labeled by operation and result.",
		}, []string{"operation", "result"}),
		totalValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lstpool_total_value",
			Help: "Cached total pool value in common units.",
		}),
		lpSupply: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lstpool_lp_supply",
			Help: "Outstanding LP token supply.",
		}),
		rebalancing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lstpool_rebalancing",
			Help: "1 while a rebalance is active.",
		}),
		storeRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lstpool_store_retries_total",
			Help: "Storage writes retried after a failure.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.opDuration, m.opsTotal, m.totalValue, m.lpSupply, m.rebalancing, m.storeRetries)
	}
	return m
}

// ObserveOperation records one applied or rejected operation.
func (m *Metrics) ObserveOperation(op string, err error, took time.Duration) {
	result := "applied"
	if err != nil {
		result = "rejected"
	}
	m.opsTotal.WithLabelValues(op, result).Inc()
	m.opDuration.WithLabelValues(op).Observe(took.Seconds())
}

// SetPool records the pool aggregates after a batch.
func (m *Metrics) SetPool(totalValue, lpSupply uint64, rebalancing bool) {
	m.totalValue.Set(float64(totalValue))
	m.lpSupply.Set(float64(lpSupply))
	if rebalancing {
		m.rebalancing.Set(1)
	} else {
		m.rebalancing.Set(0)
	}
}

// StoreRetried counts a retried storage write.
func (m *Metrics) StoreRetried() {
	m.storeRetries.Inc()
}

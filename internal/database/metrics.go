package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records statement counts and latencies per operation.
type Metrics struct {
	statements *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates statement metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		statements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shop_db_statements_total",
				Help: "Total number of database statements issued.",
			},
			[]string{"op", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shop_db_statement_duration_seconds",
				Help:    "Latency of database statements.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	for _, c := range []prometheus.Collector{m.statements, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.statements.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

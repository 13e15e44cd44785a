package observability

import (
	"time"

	"github.com/boddenberg/story-chat-client/internal/domain"
	"github.com/boddenberg/story-chat-client/internal/port"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

var operations = []string{domain.OpChat, domain.OpHealth, domain.OpCleanup}

// Metrics holds the Prometheus metrics for backend calls.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	callDuration *prometheus.HistogramVec
	callsTotal   *prometheus.CounterVec
}

var _ port.CallMetrics = (*Metrics)(nil)

// NewMetrics creates a dedicated Prometheus registry and registers all
// client metrics in it. A private registry lets tests build as many as
// they like without "duplicate collector" panics.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		callDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storychat_backend_call_duration_seconds",
				Help:    "Duration of backend calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		callsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storychat_backend_calls_total",
				Help: "Total backend calls by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
	}
}

// RecordCall records the duration and outcome of one backend call.
func (m *Metrics) RecordCall(operation string, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.callDuration.WithLabelValues(operation).Observe(d.Seconds())
	m.callsTotal.WithLabelValues(operation, status).Inc()
}

// Snapshot returns cumulative call counters for GET /v1/metrics/client.
func (m *Metrics) Snapshot() *domain.ClientMetrics {
	var total, failed float64
	byOp := make(map[string]int64, len(operations))

	for _, op := range operations {
		ok := getCounterValue(m.callsTotal, op, "success")
		bad := getCounterValue(m.callsTotal, op, "error")
		total += ok + bad
		failed += bad
		byOp[op] = int64(bad)
	}

	errorRate := float64(0)
	if total > 0 {
		errorRate = failed / total
	}

	return &domain.ClientMetrics{
		TotalCalls:  int64(total),
		FailedCalls: int64(failed),
		ErrorRate:   errorRate,
		ByOperation: byOp,
		Period:      "all_time",
	}
}

// getCounterValue extracts the current value from a CounterVec for the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

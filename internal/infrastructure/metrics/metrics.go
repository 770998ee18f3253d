package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/portledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Import metrics
	ImportBatches     *prometheus.CounterVec
	ImportRows        *prometheus.CounterVec
	ImportAborts      *prometheus.CounterVec
	ImportDuration    *prometheus.HistogramVec
	PortfoliosCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Import metrics
		ImportBatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portledger_import_batches_total",
				Help: "Total number of import batches by type and outcome",
			},
			[]string{"batch_type", "outcome"},
		),
		ImportRows: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portledger_import_rows_total",
				Help: "Total number of transactions committed by imports",
			},
			[]string{"batch_type"},
		),
		ImportAborts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portledger_import_aborts_total",
				Help: "Total number of aborted imports by reason",
			},
			[]string{"batch_type", "reason"},
		),
		ImportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portledger_import_duration_seconds",
				Help:    "Duration of committed imports",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"batch_type"},
		),
		PortfoliosCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "portledger_portfolios_created_total",
			Help: "Total number of portfolios created by imports",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "portledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}

// ObserveCommitted records a committed import batch.
func (m *Metrics) ObserveCommitted(batchType domain.BatchType, rows int64, created int, duration time.Duration) {
	m.ImportBatches.WithLabelValues(string(batchType), "committed").Inc()
	m.ImportRows.WithLabelValues(string(batchType)).Add(float64(rows))
	m.ImportDuration.WithLabelValues(string(batchType)).Observe(duration.Seconds())
	m.PortfoliosCreated.Add(float64(created))
}

// ObserveAborted records an import that left the ledger untouched.
func (m *Metrics) ObserveAborted(batchType domain.BatchType, reason string) {
	m.ImportBatches.WithLabelValues(string(batchType), "aborted").Inc()
	m.ImportAborts.WithLabelValues(string(batchType), reason).Inc()
}

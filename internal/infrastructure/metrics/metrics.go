package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Trust ledger metrics
	TrustEntries           *prometheus.CounterVec
	TrustAmount            *prometheus.HistogramVec
	TrustDuration          prometheus.Histogram
	TrustInsufficientFunds prometheus.Counter
	TrustErrors            *prometheus.CounterVec
	TrustReconciliations   *prometheus.CounterVec

	// Payroll metrics
	PayrollCalculations prometheus.Counter
	PayrollProcessed    prometheus.Counter
	PayrollNetPay       prometheus.Histogram

	// Database metrics
	DBConnections prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates and registers all metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TrustEntries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexledger_trust_entries_total",
				Help: "Total trust entries recorded by type",
			},
			[]string{"type"},
		),
		TrustAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexledger_trust_amount",
				Help:    "Trust entry amounts",
				Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"type"},
		),
		TrustDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexledger_trust_duration_seconds",
			Help:    "Duration of trust write transactions",
			Buckets: prometheus.DefBuckets,
		}),
		TrustInsufficientFunds: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexledger_trust_insufficient_funds_total",
			Help: "Withdrawals rejected for insufficient trust funds",
		}),
		TrustErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexledger_trust_errors_total",
				Help: "Total trust write errors by type",
			},
			[]string{"error_type"},
		),
		TrustReconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexledger_trust_reconciliations_total",
				Help: "Trust reconciliations by outcome",
			},
			[]string{"result"},
		),

		PayrollCalculations: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexledger_payroll_calculations_total",
			Help: "Total payroll calculations, including previews",
		}),
		PayrollProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexledger_payroll_processed_total",
			Help: "Total payroll records created",
		}),
		PayrollNetPay: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexledger_payroll_net_pay",
			Help:    "Net pay per processed record",
			Buckets: []float64{500, 1000, 2000, 5000, 10000, 25000},
		}),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lexledger_db_connections",
			Help: "Current number of acquired database connections",
		}),

		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexledger_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexledger_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexledger_idempotent_replays_total",
			Help: "Responses served from the idempotency store",
		}),
	}
}

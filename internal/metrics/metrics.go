package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "safetrade"

type Metrics struct {
	Registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business
	TransactionsCreated    prometheus.Counter
	TransactionTransitions *prometheus.CounterVec
	TransactionAmount      prometheus.Histogram
	DisputesOpened         prometheus.Counter
	DisputesClosed         *prometheus.CounterVec
	EventsPublished        *prometheus.CounterVec

	// Database
	DBConnectionsInUse prometheus.Gauge
	DBConnectionsIdle  prometheus.Gauge
	DBWaitCount        prometheus.Gauge
}

// NewMetrics registers every collector on a fresh registry, together with the
// go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),

		TransactionsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_created_total",
				Help:      "Total number of escrow transactions created",
			},
		),
		TransactionTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_transitions_total",
				Help:      "Accepted transaction status transitions",
			},
			[]string{"from", "to"},
		),
		TransactionAmount: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_amount",
				Help:      "Amount of created transactions",
				Buckets:   []float64{1e5, 1e6, 5e6, 2e7, 5e7, 1e8, 5e8, 1e9},
			},
		),
		DisputesOpened: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "disputes_opened_total",
				Help:      "Total number of disputes opened",
			},
		),
		DisputesClosed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "disputes_closed_total",
				Help:      "Disputes resolved or rejected by an admin",
			},
			[]string{"outcome"},
		),
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Domain events handed to the broker",
			},
			[]string{"event_type", "result"},
		),

		DBConnectionsInUse: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_in_use",
				Help:      "Number of database connections currently in use",
			},
		),
		DBConnectionsIdle: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_connections_idle",
				Help:      "Number of idle database connections",
			},
		),
		DBWaitCount: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "db_wait_count",
				Help:      "Total number of connections waited for",
			},
		),
	}
}

// Recording methods accept a nil receiver so services can run without metrics in tests.

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransactionCreated(amount float64) {
	if m == nil {
		return
	}
	m.TransactionsCreated.Inc()
	m.TransactionAmount.Observe(amount)
}

func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.TransactionTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) RecordDisputeOpened() {
	if m == nil {
		return
	}
	m.DisputesOpened.Inc()
}

func (m *Metrics) RecordDisputeClosed(outcome string) {
	if m == nil {
		return
	}
	m.DisputesClosed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}

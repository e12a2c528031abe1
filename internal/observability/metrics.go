// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Engine metrics
	PnlComputations   prometheus.Counter
	AnalyticsRuns     *prometheus.CounterVec
	AnalyticsDuration prometheus.Histogram
	TradesAggregated  prometheus.Counter
	ReportsGenerated  prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_journal"
	}

	return &Metrics{
		PnlComputations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pnl",
			Name:      "computations_total",
			Help:      "Total number of per-trade FIFO PnL computations",
		}),
		AnalyticsRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "runs_total",
			Help:      "Total number of analytics aggregation runs by status",
		}, []string{"status"}),
		AnalyticsDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "duration_seconds",
			Help:      "Analytics aggregation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		TradesAggregated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "trades_aggregated_total",
			Help:      "Total number of trades folded into analytics reports",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPnlComputed increments the PnL computations counter.
func RecordPnlComputed() {
	DefaultMetrics.PnlComputations.Inc()
}

// RecordAnalyticsRun records one aggregation run.
func RecordAnalyticsRun(status string, durationSeconds float64, trades int) {
	DefaultMetrics.AnalyticsRuns.WithLabelValues(status).Inc()
	DefaultMetrics.AnalyticsDuration.Observe(durationSeconds)
	DefaultMetrics.TradesAggregated.Add(float64(trades))
}

// RecordReportGenerated increments the reports generated counter.
func RecordReportGenerated() {
	DefaultMetrics.ReportsGenerated.Inc()
}

// RecordDBQuery records database query metrics. Meant to be deferred with a
// pointer to the named error return:
//
//	defer observability.RecordDBQuery("trade_insert", time.Now(), &err)
func RecordDBQuery(operation string, start time.Time, err *error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil && *err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

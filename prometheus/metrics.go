package prometheus

import (
	"time"

	"kavalife-erp/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Record operation metrics, labelled by entity (vir, grn, qaqc, ...)
	// and operation (create, verify, list, ...)
	RecordOperationsCounter prometheus.CounterVec

	// Workflow rejection metrics, labelled by rule (vir_not_completed,
	// qaqc_exists, already_verified)
	WorkflowRejectionsCounter prometheus.CounterVec

	// Bootstrap reference-data metrics
	ReferenceFetchCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	// Use metric prefix from configuration
	prefix := cfg.Metrics.Prefix

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	RecordOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_record_operations_total",
			Help: "Total number of record operations by entity",
		},
		[]string{"entity", "operation"},
	)

	WorkflowRejectionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_workflow_rejections_total",
			Help: "Total number of operations rejected by workflow rules",
		},
		[]string{"rule"},
	)

	ReferenceFetchCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_reference_fetch_total",
			Help: "Total number of reference-data list fetches",
		},
		[]string{"entity"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOperation increments the counter for an entity operation
func RecordOperation(entity, operation string) {
	RecordOperationsCounter.WithLabelValues(entity, operation).Inc()
}

// RecordWorkflowRejection increments the counter for a workflow rule rejection
func RecordWorkflowRejection(rule string) {
	WorkflowRejectionsCounter.WithLabelValues(rule).Inc()
}

// RecordReferenceFetch increments the counter for a reference-data fetch
func RecordReferenceFetch(entity string) {
	ReferenceFetchCounter.WithLabelValues(entity).Inc()
}

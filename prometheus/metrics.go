package prometheus

import (
	"time"

	"procurement-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// Sheet gateway metrics
	GatewayOperationDuration prometheus.HistogramVec
	GatewayErrorsCounter     prometheus.CounterVec

	// Workflow metrics
	WorkflowOperationsCounter prometheus.CounterVec
	StagePendingGauge         prometheus.GaugeVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Authentication metrics
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

	// Sheet gateway metrics
	GatewayOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_gateway_operation_duration_seconds",
			Help:    "Duration of sheet gateway operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "sheet"},
	)

	GatewayErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_gateway_errors_total",
			Help: "Total number of sheet gateway failures",
		},
		[]string{"operation", "kind"},
	)

	// Workflow metrics
	WorkflowOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_workflow_operations_total",
			Help: "Total number of workflow operations",
		},
		[]string{"pipeline", "operation"},
	)

	StagePendingGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_stage_pending_records",
			Help: "Records currently pending per pipeline stage",
		},
		[]string{"pipeline", "stage"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// TrackGatewayOperation returns a function that records the duration of a gateway operation
func TrackGatewayOperation(operation, sheet string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		GatewayOperationDuration.WithLabelValues(operation, sheet).Observe(duration)
	}
}

// RecordWorkflowOperation increments the counter for workflow operations
func RecordWorkflowOperation(pipeline, operation string) {
	WorkflowOperationsCounter.WithLabelValues(pipeline, operation).Inc()
}

// RecordGatewayError increments the counter for gateway failures
func RecordGatewayError(operation, kind string) {
	GatewayErrorsCounter.WithLabelValues(operation, kind).Inc()
}

// UpdateStagePending updates the pending-records gauge for a pipeline stage
func UpdateStagePending(pipeline, stage string, count float64) {
	StagePendingGauge.WithLabelValues(pipeline, stage).Set(count)
}

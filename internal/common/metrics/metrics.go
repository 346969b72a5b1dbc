// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_api_requests_total",
			Help: "Total number of remote API calls by resource, method and outcome",
		},
		[]string{"resource", "method", "outcome"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "admin_api_request_duration_seconds",
			Help: "Duration of remote API calls in seconds",
		},
		[]string{"resource", "method"},
	)

	StoreOperationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_store_operation_failures_total",
			Help: "Total number of failed store operations",
		},
		[]string{"slice", "operation", "error_code"},
	)

	StoreOperationsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "admin_store_operations_active",
			Help: "Number of in-flight store operations per slice",
		},
		[]string{"slice"},
	)

	ChatFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_chat_frames_total",
			Help: "Total number of chat frames by direction and type",
		},
		[]string{"direction", "type"},
	)
)

// Outcome labels for APIRequests.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeTransport = "transport_error"
	OutcomeDecode    = "decode_error"
)

package observer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var metricsEnabled = true

// Labels for HTTP request metrics
var (
	httpRequestLabels = []string{"method", "route", "status"}

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdr_service_http_requests_total",
			Help: "Total number of HTTP requests handled, labeled by method, route and status code.",
		},
		httpRequestLabels,
	)
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdr_service_http_request_duration_seconds",
			Help:    "Histogram of HTTP request handling durations.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		httpRequestLabels,
	)
)

// Labels for database operations
var (
	dbOperationLabels = []string{"operation", "entity", "user_id", "status"}

	DatabaseOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdr_service_db_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		dbOperationLabels,
	)
)

// Labels for completion API calls
var (
	completionLabels = []string{"agent", "operation", "status"}

	CompletionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdr_service_completion_calls_total",
			Help: "Total number of chat-completion API calls, labeled by agent, operation and outcome.",
		},
		completionLabels,
	)
	CompletionCallDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdr_service_completion_call_duration_seconds",
			Help:    "Histogram of chat-completion API call durations.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
		},
		completionLabels,
	)
)

// Agent action worker pool metrics
var (
	actionLabels       = []string{"agent", "action_type"}
	actionStatusLabels = []string{"agent", "action_type", "status"}

	agentActionsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdr_service_agent_actions_submitted_total",
			Help: "Total number of agent actions submitted to the worker pool.",
		},
		actionLabels,
	)
	agentActionsProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sdr_service_agent_actions_processed_total",
			Help: "Total number of agent actions processed, labeled by final status.",
		},
		actionStatusLabels,
	)
	agentActionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sdr_service_agent_action_duration_seconds",
			Help:    "Histogram of end-to-end agent action durations.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		actionLabels,
	)
	actionQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sdr_service_agent_action_queue_length",
		Help: "Approximate number of tasks waiting in the agent action worker pool queue.",
	})
)

// InitMetrics toggles metric collection. Metrics are auto-registered via
// promauto; this only flips the collection flag.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
}

// sanitizeLabel ensures a label value is valid or returns a default value.
func sanitizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

// IncHTTPRequest increments the request counter and observes duration.
func IncHTTPRequest(method, route, status string, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	HTTPRequestsTotal.WithLabelValues(method, sanitizeLabel(route), status).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(method, sanitizeLabel(route), status).Observe(duration.Seconds())
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity, userID string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, sanitizeLabel(userID), status).Observe(duration.Seconds())
}

// ObserveCompletionCall records one chat-completion API call.
func ObserveCompletionCall(agent, operation string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	CompletionCallsTotal.WithLabelValues(sanitizeLabel(agent), operation, status).Inc()
	CompletionCallDurationSeconds.WithLabelValues(sanitizeLabel(agent), operation, status).Observe(duration.Seconds())
}

// IncAgentActionSubmitted increments the counter for submitted agent actions.
func IncAgentActionSubmitted(agent, actionType string) {
	if !metricsEnabled {
		return
	}
	agentActionsSubmittedTotal.WithLabelValues(sanitizeLabel(agent), actionType).Inc()
}

// IncAgentActionProcessed increments the counter for processed agent actions by status.
func IncAgentActionProcessed(agent, actionType, status string) {
	if !metricsEnabled {
		return
	}
	agentActionsProcessedTotal.WithLabelValues(sanitizeLabel(agent), actionType, status).Inc()
}

// ObserveAgentActionDuration records the end-to-end duration of an agent action.
func ObserveAgentActionDuration(agent, actionType string, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	agentActionDurationSeconds.WithLabelValues(sanitizeLabel(agent), actionType).Observe(duration.Seconds())
}

// SetActionQueueLength sets the current agent action queue length.
func SetActionQueueLength(length int) {
	if !metricsEnabled {
		return
	}
	actionQueueLength.Set(float64(length))
}

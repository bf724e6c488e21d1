package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AgentInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sara_agent_invocations_total",
			Help: "Total number of agent runner invocations",
		},
		[]string{"agent", "status"},
	)

	AgentInvocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sara_agent_invocation_duration_seconds",
			Help:    "Agent runner round-trip duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"agent"},
	)

	MissionsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sara_missions_published_total",
			Help: "Downstream mission publish attempts by outcome",
		},
		[]string{"outcome"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sara_http_requests_total",
			Help: "HTTP requests by path and status code",
		},
		[]string{"path", "code"},
	)
)

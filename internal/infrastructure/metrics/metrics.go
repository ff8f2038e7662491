package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Gateway metrics - using explicit registration
var (
	// MCP request counter by protocol method and HTTP status
	RequestsTotal *prometheus.CounterVec

	// Tool call counters and latency
	ToolCallsTotal   *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec

	// Backing store watch events applied to the cache
	WatchEventsTotal *prometheus.CounterVec

	// Broadcast messages dropped because a subscriber lagged
	BroadcastDropsTotal prometheus.Counter
)

func init() {
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dynmcp",
			Subsystem: "mcp",
			Name:      "requests_total",
			Help:      "Total number of MCP requests",
		},
		[]string{"method", "status"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dynmcp",
			Subsystem: "mcp",
			Name:      "tool_calls_total",
			Help:      "Total outbound tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	ToolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dynmcp",
			Subsystem: "mcp",
			Name:      "tool_call_duration_seconds",
			Help:      "Outbound tool call duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	WatchEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dynmcp",
			Subsystem: "xds",
			Name:      "watch_events_total",
			Help:      "Backing store watch events by prefix and event type",
		},
		[]string{"prefix", "event"},
	)

	BroadcastDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dynmcp",
			Subsystem: "sse",
			Name:      "broadcast_drops_total",
			Help:      "Broadcast messages dropped due to subscriber lag",
		},
	)

	prometheus.MustRegister(
		RequestsTotal,
		ToolCallsTotal,
		ToolCallDuration,
		WatchEventsTotal,
		BroadcastDropsTotal,
	)
}

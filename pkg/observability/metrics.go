// Package observability provides Prometheus metrics for the MCP client and
// the gateway simulator. Metrics register on the default registry at init;
// binaries expose them via promhttp.
package observability

import "github.com/prometheus/client_golang/prometheus"

// ProbeBuckets covers plain HTTP health probes, 10ms to 30s.
var ProbeBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30}

// SessionBuckets covers whole-session lifetimes. Scenarios that poll remote
// jobs can legitimately run for minutes.
var SessionBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 15, 60, 180, 600}

var (
	// SessionsTotal counts completed Run invocations by routing category
	// and outcome (ok, scenario_error, connect_error).
	SessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpclient_sessions_total",
			Help: "Completed client sessions",
		},
		[]string{"category", "status"},
	)

	// SessionDuration records the lifetime of each session in seconds.
	SessionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcpclient_session_duration_seconds",
			Help:    "Session duration",
			Buckets: SessionBuckets,
		},
		[]string{"category"},
	)

	// ActiveSessions tracks the number of currently open sessions.
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mcpclient_sessions_active",
			Help: "Open client sessions",
		},
	)

	// HealthProbesTotal counts health probes by status class ("2xx", "5xx",
	// or "error" for transport failures).
	HealthProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpclient_health_probes_total",
			Help: "Health probes",
		},
		[]string{"status"},
	)

	// HealthProbeDuration records health probe latency in seconds.
	HealthProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mcpclient_health_probe_duration_seconds",
			Help:    "Health probe latency",
			Buckets: ProbeBuckets,
		},
	)

	// GatewayToolExecutionsTotal counts tool executions served by the
	// gateway simulator, by tool name and outcome.
	GatewayToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpclient_gateway_tool_executions_total",
			Help: "Gateway tool executions",
		},
		[]string{"tool", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsTotal,
		SessionDuration,
		ActiveSessions,
		HealthProbesTotal,
		HealthProbeDuration,
		GatewayToolExecutionsTotal,
	)
}

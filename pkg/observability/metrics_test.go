package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry and become visible once observed.
func TestMetricsRegistered(t *testing.T) {
	expected := map[string]bool{
		"mcpclient_sessions_total":                false,
		"mcpclient_session_duration_seconds":      false,
		"mcpclient_sessions_active":               false,
		"mcpclient_health_probes_total":           false,
		"mcpclient_health_probe_duration_seconds": false,
		"mcpclient_gateway_tool_executions_total": false,
	}

	// Counters and histograms only appear after the first observation.
	SessionsTotal.WithLabelValues("default", "ok").Inc()
	SessionDuration.WithLabelValues("default").Observe(0.1)
	HealthProbesTotal.WithLabelValues("2xx").Inc()
	HealthProbeDuration.Observe(0.01)
	GatewayToolExecutionsTotal.WithLabelValues("ping", "ok").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// TestSessionCounterIncrements verifies counter arithmetic through the
// client_model protos.
func TestSessionCounterIncrements(t *testing.T) {
	before := counterValue(t, SessionsTotal, "job_management", "ok")
	SessionsTotal.WithLabelValues("job_management", "ok").Inc()
	after := counterValue(t, SessionsTotal, "job_management", "ok")

	if after-before != 1 {
		t.Errorf("expected counter delta 1, got %f", after-before)
	}
}

// TestActiveSessionsGauge verifies the gauge moves both ways.
func TestActiveSessionsGauge(t *testing.T) {
	base := gaugeValue(t, ActiveSessions)

	ActiveSessions.Inc()
	if v := gaugeValue(t, ActiveSessions); v != base+1 {
		t.Errorf("expected gauge %f after Inc, got %f", base+1, v)
	}

	ActiveSessions.Dec()
	if v := gaugeValue(t, ActiveSessions); v != base {
		t.Errorf("expected gauge %f after Dec, got %f", base, v)
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

// gaugeValue reads the current value of a Gauge.
func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("writing gauge metric: %v", err)
	}
	return m.GetGauge().GetValue()
}

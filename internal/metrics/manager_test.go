package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RegistersCollectors(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterPlanWrites.WithLabelValues("create").Inc()
	m.CounterPlanWrites.WithLabelValues("create").Inc()
	m.CounterRateLimitedRequests.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}

	writes, ok := byName["gymflow_test_server_workout_plan_writes"]
	require.True(t, ok)
	require.Len(t, writes.GetMetric(), 1)
	assert.Equal(t, 2.0, writes.GetMetric()[0].GetCounter().GetValue())

	limited, ok := byName["gymflow_test_server_rate_limited_requests"]
	require.True(t, ok)
	assert.Equal(t, 1.0, limited.GetMetric()[0].GetCounter().GetValue())
}

func TestNewTestManager_Independent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewTestManager()
		NewTestManager()
	})
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	m := NewManager("gymflow", "server", reg)
	m.CounterPlanWrites.WithLabelValues("create").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["gymflow_server_workout_plan_writes"])
}

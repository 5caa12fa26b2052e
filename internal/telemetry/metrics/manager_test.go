package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterAPICalls.WithLabelValues("POST", "201").Inc()
	m.CounterAPICalls.WithLabelValues("POST", "201").Inc()
	m.CounterStaleAutosaves.Inc()
	m.HistAPICallDuration.WithLabelValues("POST").Observe(0.02)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CounterAPICalls.WithLabelValues("POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CounterStaleAutosaves))

	families, err := reg.Gather()
	require.NoError(t, err)

	var histogram *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "liftlog_test_api_call_duration_seconds" {
			histogram = f
		}
	}
	require.NotNil(t, histogram)
	require.Len(t, histogram.GetMetric(), 1)
	assert.Equal(t, uint64(1), histogram.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestSetupPrometheus(t *testing.T) {
	reg := SetupPrometheus()
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

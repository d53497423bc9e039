package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	io_prometheus_client "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &io_prometheus_client.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	h, ok := o.(prometheus.Histogram)
	require.True(t, ok)
	m := &io_prometheus_client.Metric{}
	require.NoError(t, h.Write(m))
	return m.GetHistogram().GetSampleCount()
}

func TestRecordHTTPRequest(t *testing.T) {
	before := counterValue(t, HTTPRequestsTotal.WithLabelValues("POST", "/api/summaries", "200"))

	RecordHTTPRequest("POST", "/api/summaries", "200", 1500*time.Millisecond, 512)

	after := counterValue(t, HTTPRequestsTotal.WithLabelValues("POST", "/api/summaries", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordPipelineOutcome(t *testing.T) {
	for _, outcome := range []string{"success", "network", "extraction", "model_inference"} {
		t.Run(outcome, func(t *testing.T) {
			before := counterValue(t, PipelineRunsTotal.WithLabelValues(outcome))
			RecordPipelineOutcome(outcome)
			assert.Equal(t, before+1, counterValue(t, PipelineRunsTotal.WithLabelValues(outcome)))
		})
	}
}

func TestRecordModelLoad(t *testing.T) {
	okBefore := counterValue(t, ModelLoadsTotal.WithLabelValues("test-load", "success"))
	failBefore := counterValue(t, ModelLoadsTotal.WithLabelValues("test-load", "failure"))
	histBefore := histogramCount(t, ModelLoadDuration.WithLabelValues("test-load"))

	RecordModelLoad("test-load", 2*time.Second, nil)
	RecordModelLoad("test-load", time.Second, errors.New("boom"))

	assert.Equal(t, okBefore+1, counterValue(t, ModelLoadsTotal.WithLabelValues("test-load", "success")))
	assert.Equal(t, failBefore+1, counterValue(t, ModelLoadsTotal.WithLabelValues("test-load", "failure")))
	assert.Equal(t, histBefore+1, histogramCount(t, ModelLoadDuration.WithLabelValues("test-load")),
		"failed loads must not be observed as load durations")
}

func TestRecordModelRequest(t *testing.T) {
	histBefore := histogramCount(t, SummaryLength.WithLabelValues("test-req"))
	failBefore := counterValue(t, ModelRequestsTotal.WithLabelValues("test-req", "failure"))

	RecordModelRequest("test-req", 2*time.Second, 320, nil)
	RecordModelRequest("test-req", time.Second, 0, errors.New("rejected"))

	assert.Equal(t, histBefore+1, histogramCount(t, SummaryLength.WithLabelValues("test-req")))
	assert.Equal(t, failBefore+1, counterValue(t, ModelRequestsTotal.WithLabelValues("test-req", "failure")))
}

func TestSummarizeInProgress(t *testing.T) {
	SummarizeInProgress.Set(0)
	SummarizeInProgress.Inc()
	SummarizeInProgress.Inc()
	SummarizeInProgress.Dec()

	m := &io_prometheus_client.Metric{}
	require.NoError(t, SummarizeInProgress.Write(m))
	assert.Equal(t, float64(1), m.GetGauge().GetValue())
}

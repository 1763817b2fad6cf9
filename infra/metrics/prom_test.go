package metrics

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/cpm/core/metrics"
)

func TestPromSink_RecordScheduleRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	require.NoError(t, err)

	runs := []coremetrics.ScheduleRun{
		{Style: "p6", Outcome: "ok", Activities: 12, Duration: 3 * time.Millisecond},
		{Style: "p6", Outcome: "ok", Activities: 7, Duration: time.Millisecond},
		{Style: "msproject", Outcome: "cycle", Activities: 4},
	}
	for _, r := range runs {
		require.NoError(t, sink.RecordScheduleRun(r))
	}

	expected := `
# HELP cpm_schedule_runs_total Total number of scheduling runs
# TYPE cpm_schedule_runs_total counter
cpm_schedule_runs_total{outcome="cycle",style="msproject"} 1
cpm_schedule_runs_total{outcome="ok",style="p6"} 2
`
	if err := testutil.CollectAndCompare(sink.runs, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	assert.Equal(t, 7.0, testutil.ToFloat64(sink.activities.WithLabelValues("p6")))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.duration))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(PromConfig{}, reg)
	require.NoError(t, err)

	require.NoError(t, first.RecordScheduleRun(coremetrics.ScheduleRun{Style: "p6", Outcome: "ok"}))
	require.NoError(t, second.RecordScheduleRun(coremetrics.ScheduleRun{Style: "p6", Outcome: "ok"}))
	assert.Equal(t, 2.0, testutil.ToFloat64(first.runs.WithLabelValues("p6", "ok")))
}

func TestPromSink_FlushPushesToGateway(t *testing.T) {
	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		body = buf.String()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(PromConfig{PushgatewayURL: srv.URL, Job: "nightly"}, reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordScheduleRun(coremetrics.ScheduleRun{Style: "p6", Outcome: "ok"}))
	require.NoError(t, sink.Flush(context.Background()))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/nightly", path)
	assert.NotEmpty(t, body)
}

func TestPromSink_FlushWithoutGateway(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(PromConfig{}, prometheus.NewRegistry())
	require.NoError(t, err)
	if err := coremetrics.Flush(context.Background(), sink); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/cpm/core/metrics"
)

// PromConfig configures a PromSink. An empty PushgatewayURL disables Flush.
type PromConfig struct {
	PushgatewayURL string `json:"pushgateway_url"`
	Job            string `json:"job"`
}

// PromSink records scheduling runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	activities *prometheus.GaugeVec

	gatherer prometheus.Gatherer
	cfg      PromConfig
}

// NewPromSink registers scheduling metrics on the default Prometheus registerer.
func NewPromSink(cfg PromConfig) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Metrics are
// pushed from the registerer itself when it is also a Gatherer.
func NewPromSinkWithRegistry(cfg PromConfig, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if cfg.Job == "" {
		cfg.Job = "cpm"
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cpm_schedule_runs_total",
		Help: "Total number of scheduling runs",
	}, []string{"style", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cpm_schedule_duration_seconds",
		Help:    "Wall-clock time spent scheduling a network",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"style"})
	activities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cpm_schedule_activities",
		Help: "Number of activities in the last scheduled network",
	}, []string{"style"})

	if err := register(reg, runs, &runs); err != nil {
		return nil, err
	}
	if err := register(reg, duration, &duration); err != nil {
		return nil, err
	}
	if err := register(reg, activities, &activities); err != nil {
		return nil, err
	}

	g, ok := reg.(prometheus.Gatherer)
	if !ok {
		g = prometheus.DefaultGatherer
	}
	return &PromSink{runs: runs, duration: duration, activities: activities, gatherer: g, cfg: cfg}, nil
}

// register adds c to reg, or points dst at the collector already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C, dst *C) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			*dst = existing
			return nil
		}
	}
	return err
}

// RecordScheduleRun increments the run counter and observes its duration.
func (s *PromSink) RecordScheduleRun(run coremetrics.ScheduleRun) error {
	s.runs.WithLabelValues(run.Style, run.Outcome).Inc()
	s.duration.WithLabelValues(run.Style).Observe(run.Duration.Seconds())
	if run.Outcome == "ok" {
		s.activities.WithLabelValues(run.Style).Set(float64(run.Activities))
	}
	return nil
}

// Flush pushes every gathered metric to the configured Pushgateway.
func (s *PromSink) Flush(ctx context.Context) error {
	if s.cfg.PushgatewayURL == "" {
		return nil
	}
	return push.New(s.cfg.PushgatewayURL, s.cfg.Job).Gatherer(s.gatherer).PushContext(ctx)
}

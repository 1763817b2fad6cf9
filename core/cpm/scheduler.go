package cpm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/cpm/core/logger"
	"github.com/kilianp07/cpm/core/metrics"
	"github.com/kilianp07/cpm/core/model"
)

// Scheduler runs the forward and backward passes over a network.
// It keeps no state between calls and may be shared by goroutines
// scheduling different networks.
type Scheduler struct {
	style   Style
	log     logger.Logger
	metrics metrics.MetricsSink
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for pass and run messages.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics records every run on sink.
func WithMetrics(sink metrics.MetricsSink) Option {
	return func(s *Scheduler) {
		if sink != nil {
			s.metrics = sink
		}
	}
}

// New returns a Scheduler reproducing the given tool style.
func New(style Style, opts ...Option) *Scheduler {
	s := &Scheduler{style: style, log: nopLogger{}, metrics: metrics.NopSink{}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Style reports the tool behaviour of s.
func (s *Scheduler) Style() Style { return s.style }

// Result summarises a successful run.
type Result struct {
	RunID         string
	ProjectStart  time.Time
	ProjectFinish time.Time
	// Order is the topological order the passes used.
	Order []*model.Activity
}

// Schedule computes early and late dates for every schedulable activity in
// net. A zero start falls back to the project start date. On error no
// activity is modified.
func (s *Scheduler) Schedule(ctx context.Context, net *model.Network, start time.Time) (Result, error) {
	began := time.Now()
	id := uuid.NewString()
	res, err := s.schedule(ctx, net, start)
	res.RunID = id

	run := metrics.ScheduleRun{
		RunID:         id,
		Style:         s.style.String(),
		Outcome:       Outcome(err),
		Activities:    len(net.Activities),
		Relations:     len(net.Relations),
		Duration:      time.Since(began),
		ProjectStart:  res.ProjectStart,
		ProjectFinish: res.ProjectFinish,
		Time:          began,
	}
	if mErr := s.metrics.RecordScheduleRun(run); mErr != nil {
		s.log.Errorf("metrics error: %v", mErr)
	}
	if err != nil {
		s.log.Warnf("schedule run %s failed: %v", id, err)
		return Result{RunID: id}, err
	}
	s.log.Infow("schedule complete", map[string]any{
		"run_id":         id,
		"style":          run.Style,
		"activities":     len(res.Order),
		"project_start":  res.ProjectStart,
		"project_finish": res.ProjectFinish,
		"elapsed_ms":     run.Duration.Milliseconds(),
	})
	return res, nil
}

func (s *Scheduler) schedule(ctx context.Context, net *model.Network, start time.Time) (Result, error) {
	order, err := Sort(net)
	if err != nil {
		return Result{}, err
	}
	if start.IsZero() {
		start = net.Properties.StartDate
	}
	r, err := s.newRun(net, order, start)
	if err != nil {
		return Result{}, err
	}
	if len(order) == 0 {
		return Result{ProjectStart: r.projectStart, ProjectFinish: r.projectStart, Order: order}, nil
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"forward", r.forwardPass},
		{"finish", r.deriveProjectFinish},
		{"backward", r.backwardPass},
		{"alap", r.alapPass},
	}
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := st.fn(); err != nil {
			return Result{}, err
		}
		s.log.Debugf("%s pass done for %d activities", st.name, len(order))
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.commit()
	return Result{ProjectStart: r.projectStart, ProjectFinish: r.projectFinish, Order: order}, nil
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

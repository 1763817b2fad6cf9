package metrics

import (
	"context"
	"time"
)

// ScheduleRun describes one call to the scheduling engine.
type ScheduleRun struct {
	RunID      string
	Style      string
	Outcome    string
	Activities int
	Relations  int
	Duration   time.Duration
	// ProjectStart and ProjectFinish are zero when the run failed.
	ProjectStart  time.Time
	ProjectFinish time.Time
	Time          time.Time
}

// MetricsSink records scheduling runs for observability purposes.
type MetricsSink interface {
	RecordScheduleRun(run ScheduleRun) error
}

// Flusher is implemented by sinks that buffer or push on demand, such as a
// Prometheus sink backed by a Pushgateway.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Closer releases sink resources.
type Closer interface {
	Close() error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordScheduleRun(ScheduleRun) error { return nil }

// Flush pushes buffered data if s supports it.
func Flush(ctx context.Context, s MetricsSink) error {
	if f, ok := s.(Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}

// Close releases s if it holds resources.
func Close(s MetricsSink) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}

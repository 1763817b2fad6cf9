package metrics

// Package metrics defines the MetricsSink interface used to record
// scheduling runs. Concrete sinks (Prometheus, InfluxDB) live in infra/metrics
// and register themselves in the sink registry; NewMetricsSink returns a
// MultiSink automatically when multiple sinks are configured.

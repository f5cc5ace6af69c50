// Package metrics records the outcome of a version check run as Prometheus gauges.
//
// A run is a short-lived batch job, so the gauges are pushed to a Pushgateway at the end
// of the run instead of being scraped.
//
// Key components:
//   - Metrics: Holds the run gauges on its own registry.
//   - NewMetric: Creates a data point from a run report.
//   - Push: Sends the gauges to a Pushgateway.
//
// Usage example:
//
//	m := metrics.New()
//	m.Record(metrics.NewMetric(report), time.Since(start))
//	if err := m.Push(ctx, "http://pushgateway:9091", "tagwatch"); err != nil {
//	    logrus.WithError(err).Warn("Failed to push metrics")
//	}
package metrics

package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// Errors for metric handling.
var (
	// errFailedRegister indicates a collector could not be registered.
	errFailedRegister = errors.New("failed to register metric")
	// errFailedPush indicates the Pushgateway rejected or did not receive the metrics.
	errFailedPush = errors.New("failed to push metrics")
)

// Metric holds data points from a version check run.
type Metric struct {
	Checked int // Number of services checked.
	Stale   int // Number of services with a newer version.
	Fresh   int // Number of services already up to date.
	Failed  int // Number of services whose version could not be resolved.
}

// Metrics holds the run gauges.
type Metrics struct {
	gatherer prometheus.Gatherer // Source of pushed metrics.
	checked  prometheus.Gauge    // Gauge for checked services.
	stale    prometheus.Gauge    // Gauge for stale services.
	fresh    prometheus.Gauge    // Gauge for fresh services.
	failed   prometheus.Gauge    // Gauge for failed services.
	duration prometheus.Gauge    // Gauge for run duration.
	lastRun  prometheus.Gauge    // Gauge for run completion time.
}

// New creates a Metrics handler on a dedicated registry.
//
// Returns:
//   - *Metrics: Metrics handler.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	metrics, err := NewWithRegistry(registry, registry)
	if err != nil {
		// A fresh registry cannot hold conflicting collectors.
		panic(err)
	}

	return metrics
}

// NewWithRegistry creates a Metrics handler with a custom Prometheus registry.
//
// Parameters:
//   - registerer: Registry the collectors are added to.
//   - gatherer: Registry the pushed metrics are read from.
//
// Returns:
//   - *Metrics: Metrics handler.
//   - error: Non-nil if a collector is already registered.
func NewWithRegistry(registerer prometheus.Registerer, gatherer prometheus.Gatherer) (*Metrics, error) {
	metrics := &Metrics{
		gatherer: gatherer,
		checked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagwatch_services_checked",
			Help: "Number of services checked during the last run",
		}),
		stale: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagwatch_services_stale",
			Help: "Number of services whose declared version differs from the latest tag during the last run",
		}),
		fresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagwatch_services_fresh",
			Help: "Number of services already on the latest tag during the last run",
		}),
		failed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagwatch_services_failed",
			Help: "Number of services whose latest tag could not be resolved during the last run",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagwatch_run_duration_seconds",
			Help: "Duration of the last run in seconds",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tagwatch_last_run_timestamp_seconds",
			Help: "Unix time at which the last run completed",
		}),
	}

	collectors := []prometheus.Collector{
		metrics.checked,
		metrics.stale,
		metrics.fresh,
		metrics.failed,
		metrics.duration,
		metrics.lastRun,
	}
	for _, collector := range collectors {
		if err := registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedRegister, err)
		}
	}

	return metrics, nil
}

// NewMetric creates a Metric from a run report.
//
// Parameters:
//   - report: Run report, may be nil.
//
// Returns:
//   - *Metric: New metric instance.
func NewMetric(report types.Report) *Metric {
	if report == nil {
		return &Metric{}
	}

	return &Metric{
		Checked: len(report.All()),
		Stale:   len(report.Stale()),
		Fresh:   len(report.Fresh()),
		Failed:  len(report.Failed()),
	}
}

// Record sets the gauges from a run.
//
// Parameters:
//   - metric: Run data point.
//   - duration: Run duration.
func (m *Metrics) Record(metric *Metric, duration time.Duration) {
	m.checked.Set(float64(metric.Checked))
	m.stale.Set(float64(metric.Stale))
	m.fresh.Set(float64(metric.Fresh))
	m.failed.Set(float64(metric.Failed))
	m.duration.Set(duration.Seconds())
	m.lastRun.SetToCurrentTime()

	logrus.WithFields(logrus.Fields{
		"checked":  metric.Checked,
		"stale":    metric.Stale,
		"fresh":    metric.Fresh,
		"failed":   metric.Failed,
		"duration": duration,
	}).Debug("Recorded run metrics")
}

// Push sends the gauges to a Pushgateway, replacing the previous values for job.
//
// Parameters:
//   - ctx: Context for request lifecycle control.
//   - url: Pushgateway base URL.
//   - job: Job label.
//
// Returns:
//   - error: Non-nil if the push fails.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	clog := logrus.WithFields(logrus.Fields{
		"url": url,
		"job": job,
	})

	err := push.New(url, job).Gatherer(m.gatherer).PushContext(ctx)
	if err != nil {
		clog.WithError(err).Debug("Pushgateway rejected metrics")

		return fmt.Errorf("%w: %w", errFailedPush, err)
	}

	clog.Debug("Pushed run metrics")

	return nil
}

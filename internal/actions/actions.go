package actions

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/internal/util"
	"github.com/nicholas-fedor/tagwatch/pkg/metrics"
	"github.com/nicholas-fedor/tagwatch/pkg/notifications"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// RunCheckWithNotifications performs a version check and summarizes it.
//
// Parameters:
//   - ctx: Context passed to registry fetches.
//   - params: Manifest and strategy.
//   - fetcher: Registry tag source.
//   - reporter: Report sink.
//   - notifier: Notification sink.
//
// Returns:
//   - *metrics.Metric: Counts of the run, zero when the manifest could not be read.
//   - time.Duration: Run duration.
//   - error: Wrapped compose.ErrManifestParse if the manifest could not be read.
func RunCheckWithNotifications(
	ctx context.Context,
	params CheckParams,
	fetcher types.TagFetcher,
	reporter types.Reporter,
	notifier types.Notifier,
) (*metrics.Metric, time.Duration, error) {
	start := time.Now()

	if notifier == nil {
		logrus.Warn("Notifier is nil, skipping notifications")
	}

	result, err := Check(ctx, params, fetcher, reporter, notifier)
	duration := time.Since(start)

	if err != nil {
		return &metrics.Metric{}, duration, err
	}

	staleNames := make([]string, 0, len(result.Stale()))
	for _, r := range result.Stale() {
		staleNames = append(staleNames, r.Service())
	}

	failedNames := make([]string, 0, len(result.Failed()))
	for _, r := range result.Failed() {
		failedNames = append(failedNames, r.Service())
	}

	metricResults := metrics.NewMetric(result)
	notifications.LocalLog.WithFields(logrus.Fields{
		"checked":      metricResults.Checked,
		"stale":        metricResults.Stale,
		"fresh":        metricResults.Fresh,
		"failed":       metricResults.Failed,
		"stale_names":  staleNames,
		"failed_names": failedNames,
		"duration":     util.FormatDuration(duration),
	}).Info("Version check completed")

	return metricResults, duration, nil
}

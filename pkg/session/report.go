package session

import (
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// report implements the Report interface for run results.
type report struct {
	all    []types.VerdictReport // Every verdict, manifest order.
	stale  []types.VerdictReport // Update needed.
	fresh  []types.VerdictReport // Up to date.
	failed []types.VerdictReport // Resolution failed.
}

// All returns every verdict in manifest order.
func (r *report) All() []types.VerdictReport {
	return r.all
}

// Stale returns verdicts needing an update.
func (r *report) Stale() []types.VerdictReport {
	return r.stale
}

// Fresh returns verdicts already up to date.
func (r *report) Fresh() []types.VerdictReport {
	return r.fresh
}

// Failed returns verdicts whose resolution failed.
func (r *report) Failed() []types.VerdictReport {
	return r.failed
}

// NewReport creates a report from progress data.
//
// Parameters:
//   - progress: Verdicts to categorize.
//
// Returns:
//   - types.Report: Categorized report preserving manifest order within each class.
func NewReport(progress Progress) types.Report {
	report := &report{
		all:    make([]types.VerdictReport, 0, len(progress)),
		stale:  make([]types.VerdictReport, 0),
		fresh:  make([]types.VerdictReport, 0),
		failed: make([]types.VerdictReport, 0),
	}

	for _, verdict := range progress {
		report.all = append(report.all, verdict)

		switch verdict.Class() {
		case types.FailedClass:
			report.failed = append(report.failed, verdict)
		case types.StaleClass:
			report.stale = append(report.stale, verdict)
		case types.FreshClass:
			report.fresh = append(report.fresh, verdict)
		}
	}

	return report
}

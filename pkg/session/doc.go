// Package session holds the update decisions made during a tagwatch run.
// It turns a version resolution into a per-service verdict and groups verdicts into a run report.
//
// Key components:
//   - Decide: Pure decision function comparing the declared version to the resolution.
//   - Verdict: Per-service decision record implementing types.VerdictReport.
//   - Progress: Ordered verdicts collected during a run.
//   - Report: Verdicts grouped by class (stale, fresh, failed).
//
// Usage example:
//
//	progress := session.Progress{}
//	progress.Add(session.Decide("web", "nginx:1.25.0", "1.25.0", resolution))
//	report := progress.Report()
//	stale := report.Stale()
//
// The package uses logrus for logging session events.
package session

// Package actions provides the version check run of tagwatch.
// It reads the manifest, resolves each service's latest version and hands the verdicts to
// the reporter and notifier.
//
// Key components:
//   - Check: Processes every service of a manifest in order.
//   - CheckService: Decides the verdict of a single service.
//   - RunCheckWithNotifications: Runs Check and logs the run summary.
//   - ExitManifestError: Exit code for an unreadable manifest.
//
// Usage example:
//
//	metric, duration, err := actions.RunCheckWithNotifications(ctx, params, fetcher, reporter, notifier)
//	if err != nil {
//	    os.Exit(actions.ExitManifestError)
//	}
//
// The package integrates with compose, registry, version, session and notifications,
// using logrus for logging operations and errors.
package actions

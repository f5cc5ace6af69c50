// Package types defines core interfaces and structs for tagwatch.
// It provides abstractions for registry tag fetching, version resolutions, verdict reporting and notifications.
//
// Key components:
//   - TagFetcher: Interface for listing the tags published for a repository.
//   - TagSet: Unordered collection of tag names returned by a registry.
//   - Resolution: Outcome of applying a version strategy to a TagSet.
//   - VerdictReport: Interface for the per-service update decision.
//   - Report: Interface for the results of a whole run.
//   - Reporter: Interface for the append-only report file.
//   - Notifier: Interface for notification services.
//   - RegistryCredentials: Struct for registry authentication.
//
// Usage example:
//
//	tags, err := fetcher.FetchTags(ctx, "library/nginx")
//	resolution := version.Resolve(tags, version.SemVer)
//	verdict := session.Decide("web", "nginx:1.25.0", "1.25.0", resolution)
//	notifier.Notify(verdict)
//
// The package is shared by the registry, version, session, report and notifications packages.
package types

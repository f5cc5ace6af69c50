// Package registry selects and wraps the tag fetcher used to list image tags.
//
// Key components:
//   - hub: Docker Hub tags API client (the default).
//   - oci: OCI distribution API client backed by go-containerregistry.
//   - auth: Docker Hub login and bearer headers.
//   - helpers: Image reference parsing and registry address utilities.
//
// Usage example:
//
//	fetcher, err := registry.NewFetcher(registry.Options{API: registry.APIHub})
//	if err != nil {
//	    logrus.WithError(err).Fatal("Failed to configure registry")
//	}
//	tags, err := fetcher.FetchTags(ctx, "library/nginx")
//
// Every fetch failure is wrapped in ErrFetchFailed so callers can classify it as a registry error.
package registry

package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/registry/helpers"
	"github.com/nicholas-fedor/tagwatch/pkg/registry/hub"
	"github.com/nicholas-fedor/tagwatch/pkg/registry/oci"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// API identifies the registry protocol used to list tags.
type API string

// Supported registry APIs.
const (
	APIHub API = "hub"
	APIOCI API = "oci"
)

// Errors for registry operations.
var (
	// ErrFetchFailed wraps any failure to obtain the tag set of a repository.
	ErrFetchFailed = errors.New("failed to fetch tags")
	// ErrUnknownAPI indicates an unsupported registry API name.
	ErrUnknownAPI = errors.New("unknown registry API")
)

// Options configures the tag fetcher.
type Options struct {
	API         API                        // Registry protocol, hub when empty.
	URL         string                     // Hub base URL or OCI default registry host.
	Timeout     time.Duration              // Bound for one repository fetch.
	MaxPages    int                        // Hub pages to read per repository.
	Credentials *types.RegistryCredentials // Optional credentials.
	Insecure    bool                       // Allow plain HTTP for the OCI API.
}

// ParseAPI converts a flag value to an API.
func ParseAPI(raw string) (API, error) {
	switch api := API(strings.ToLower(strings.TrimSpace(raw))); api {
	case "", APIHub:
		return APIHub, nil
	case APIOCI:
		return APIOCI, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAPI, raw)
	}
}

// NewFetcher builds the tag fetcher described by opts.
//
// Parameters:
//   - opts: Fetcher options.
//
// Returns:
//   - types.TagFetcher: Fetcher wrapping errors in ErrFetchFailed.
//   - error: Non-nil if the API is unknown.
func NewFetcher(opts Options) (types.TagFetcher, error) {
	api, err := ParseAPI(string(opts.API))
	if err != nil {
		return nil, err
	}

	var inner types.TagFetcher

	switch api {
	case APIOCI:
		inner = oci.NewClient(opts.URL, opts.Insecure, opts.Timeout, opts.Credentials)
	default:
		inner = hub.NewClient(opts.URL, opts.Timeout, opts.MaxPages, opts.Credentials)
	}

	logrus.WithFields(logrus.Fields{
		"api":       api,
		"url":       opts.URL,
		"timeout":   opts.Timeout,
		"max_pages": opts.MaxPages,
	}).Debug("Configured tag fetcher")

	return &fetcher{api: api, inner: inner}, nil
}

// fetcher decorates a TagFetcher with logging and error classification.
type fetcher struct {
	api   API
	inner types.TagFetcher
}

// FetchTags delegates to the configured client.
func (f *fetcher) FetchTags(ctx context.Context, repository string) (types.TagSet, error) {
	if f.api == APIHub && !helpers.IsDefaultRegistry(repository) {
		logrus.WithField("repository", repository).
			Warn("Repository is not hosted on Docker Hub, use --registry-api oci to query its registry")
	}

	start := time.Now()

	tags, err := f.inner.FetchTags(ctx, repository)

	fields := logrus.Fields{
		"api":        f.api,
		"repository": repository,
		"duration":   time.Since(start),
	}

	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Tag fetch failed")

		return nil, fmt.Errorf("%w for %s: %w", ErrFetchFailed, repository, err)
	}

	logrus.WithFields(fields).WithField("count", len(tags)).Debug("Tag fetch completed")

	return tags, nil
}

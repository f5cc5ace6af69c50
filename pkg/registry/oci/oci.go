// Package oci lists repository tags through the OCI distribution API (GET /v2/<name>/tags/list).
//
// Registry authentication, token challenges and pagination are handled by go-containerregistry.
// Credentials come from the docker config keychain unless explicit ones are configured.
package oci

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/internal/meta"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// DefaultTimeout bounds a single tag listing.
const DefaultTimeout = 10 * time.Second

// Errors for tag listing.
var (
	// errFailedParseRepository indicates the repository name is not a valid reference.
	errFailedParseRepository = errors.New("failed to parse repository name")
	// errFailedListTags indicates the registry request failed.
	errFailedListTags = errors.New("failed to list tags")
)

// Client fetches tags from an OCI distribution registry.
type Client struct {
	Registry    string                     // Registry host for names without one; Docker Hub when empty.
	Insecure    bool                       // Allow plain HTTP.
	Timeout     time.Duration              // Bound for one listing.
	Credentials *types.RegistryCredentials // Optional basic credentials.
	Keychain    authn.Keychain             // Keychain used when Credentials is empty.
}

// NewClient returns a client reading credentials from the default docker keychain.
func NewClient(registry string, insecure bool, timeout time.Duration, credentials *types.RegistryCredentials) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		Registry:    registry,
		Insecure:    insecure,
		Timeout:     timeout,
		Credentials: credentials,
		Keychain:    authn.DefaultKeychain,
	}
}

// FetchTags lists the tags of repository.
//
// Parameters:
//   - ctx: Context for request lifecycle control.
//   - repository: Repository name (e.g. "nginx", "ghcr.io/acme/app").
//
// Returns:
//   - types.TagSet: Tag names, empty when the repository has none.
//   - error: Non-nil if the name is invalid or the registry request fails.
func (c *Client) FetchTags(ctx context.Context, repository string) (types.TagSet, error) {
	fields := logrus.Fields{
		"repository": repository,
		"registry":   c.Registry,
	}

	repo, err := name.NewRepository(repository, c.nameOptions()...)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to parse repository name")

		return nil, fmt.Errorf("%w: %w", errFailedParseRepository, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	logrus.WithFields(fields).WithField("name", repo.Name()).Debug("Listing tags")

	tags, err := remote.List(repo, c.remoteOptions(ctx)...)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to list tags")

		return nil, fmt.Errorf("%w: %w", errFailedListTags, err)
	}

	logrus.WithFields(fields).WithField("count", len(tags)).Debug("Fetched repository tags")

	if tags == nil {
		return types.TagSet{}, nil
	}

	return types.TagSet(tags), nil
}

// nameOptions builds the reference parsing options.
func (c *Client) nameOptions() []name.Option {
	opts := []name.Option{}

	if c.Registry != "" {
		opts = append(opts, name.WithDefaultRegistry(c.Registry))
	}

	if c.Insecure {
		opts = append(opts, name.Insecure)
	}

	return opts
}

// remoteOptions builds the request options, choosing explicit credentials over the keychain.
func (c *Client) remoteOptions(ctx context.Context) []remote.Option {
	opts := []remote.Option{
		remote.WithContext(ctx),
		remote.WithUserAgent(meta.UserAgent),
	}

	switch {
	case !c.Credentials.IsEmpty():
		opts = append(opts, remote.WithAuth(&authn.Basic{
			Username: c.Credentials.Username,
			Password: c.Credentials.Password,
		}))
	case c.Keychain != nil:
		opts = append(opts, remote.WithAuthFromKeychain(c.Keychain))
	default:
		opts = append(opts, remote.WithAuth(authn.Anonymous))
	}

	return opts
}

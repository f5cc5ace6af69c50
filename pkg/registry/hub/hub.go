// Package hub lists repository tags through the Docker Hub API.
//
// Tags are read from GET {base}/v2/repositories/{namespace}/{name}/tags/?page_size=N.
// Official images are looked up under the "library" namespace. By default only the first
// page is read; more pages are followed through the "next" link up to a configured limit.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/internal/meta"
	"github.com/nicholas-fedor/tagwatch/pkg/registry/auth"
	"github.com/nicholas-fedor/tagwatch/pkg/registry/helpers"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// Defaults for the Docker Hub API client.
const (
	DefaultBaseURL  = "https://hub.docker.com"
	DefaultPageSize = 100
	DefaultMaxPages = 1
	DefaultTimeout  = 10 * time.Second
)

// maxErrorBody bounds how much of a failed response body is quoted in errors.
const maxErrorBody = 512

// Errors for tag listing.
var (
	// errFailedBuildURL indicates the tags URL could not be constructed.
	errFailedBuildURL = errors.New("failed to build tags URL")
	// errFailedCreateRequest indicates a failure to construct the HTTP request.
	errFailedCreateRequest = errors.New("failed to create request")
	// errFailedExecuteRequest indicates a failure to execute the HTTP request.
	errFailedExecuteRequest = errors.New("failed to execute request")
	// errUnexpectedStatus indicates a non-success HTTP status.
	errUnexpectedStatus = errors.New("registry responded with unexpected status")
	// errMalformedResponse indicates the body could not be decoded.
	errMalformedResponse = errors.New("registry returned a malformed tag list")
	// errFailedLogin indicates the configured credentials could not be exchanged for a token.
	errFailedLogin = errors.New("failed to log in to registry")
)

// tagsResponse is one page of the Docker Hub tag listing.
type tagsResponse struct {
	Next    string `json:"next"`
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// Client fetches tags from the Docker Hub API.
type Client struct {
	BaseURL     string                     // API base URL.
	HTTPClient  *http.Client               // Transport; http.DefaultClient when nil.
	Timeout     time.Duration              // Bound for the whole fetch, pagination included.
	PageSize    int                        // Tags per page.
	MaxPages    int                        // Pages to read at most.
	Credentials *types.RegistryCredentials // Optional login.
	token       string                     // Cached login token.
}

// NewClient returns a client with defaults applied to zero-valued settings.
func NewClient(baseURL string, timeout time.Duration, maxPages int, credentials *types.RegistryCredentials) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	return &Client{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  &http.Client{},
		Timeout:     timeout,
		PageSize:    DefaultPageSize,
		MaxPages:    maxPages,
		Credentials: credentials,
	}
}

// FetchTags lists the tags of repository.
//
// Parameters:
//   - ctx: Context for request lifecycle control.
//   - repository: Repository name as declared (e.g. "nginx", "bitnami/redis").
//
// Returns:
//   - types.TagSet: Tag names, empty when the repository has none.
//   - error: Non-nil on network failure, non-success status or malformed payload.
func (c *Client) FetchTags(ctx context.Context, repository string) (types.TagSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	fields := logrus.Fields{
		"repository": repository,
		"registry":   c.BaseURL,
	}

	pageURL, err := c.tagsURL(repository)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to build tags URL")

		return nil, err
	}

	authHeader, err := c.authorization(ctx)
	if err != nil {
		return nil, err
	}

	tags := types.TagSet{}

	for page := 1; pageURL != "" && page <= c.MaxPages; page++ {
		response, err := c.fetchPage(ctx, pageURL, authHeader)
		if err != nil {
			logrus.WithError(err).WithFields(fields).WithField("page", page).Debug("Failed to fetch tag page")

			return nil, err
		}

		for _, result := range response.Results {
			tags = append(tags, result.Name)
		}

		logrus.WithFields(fields).WithFields(logrus.Fields{
			"page":  page,
			"count": len(response.Results),
			"next":  response.Next,
		}).Debug("Fetched tag page")

		pageURL = response.Next
	}

	logrus.WithFields(fields).WithField("count", len(tags)).Debug("Fetched repository tags")

	return tags, nil
}

// tagsURL builds the first page URL for repository.
func (c *Client) tagsURL(repository string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errFailedBuildURL, err)
	}

	if base.Host == "" {
		return "", fmt.Errorf("%w: base URL has no host: %s", errFailedBuildURL, c.BaseURL)
	}

	path := helpers.HubRepositoryPath(repository)
	base.Path = strings.TrimRight(base.Path, "/") + "/v2/repositories/" + path + "/tags/"

	query := base.Query()
	query.Set("page_size", strconv.Itoa(c.PageSize))
	base.RawQuery = query.Encode()

	return base.String(), nil
}

// authorization returns the Authorization header value, logging in once if credentials are set.
func (c *Client) authorization(ctx context.Context) (string, error) {
	if c.Credentials.IsEmpty() {
		return "", nil
	}

	if c.token == "" {
		token, err := auth.GetHubToken(ctx, c.httpClient(), c.BaseURL, c.Credentials)
		if err != nil {
			return "", fmt.Errorf("%w: %w", errFailedLogin, err)
		}

		c.token = token
	}

	return auth.GetBearerHeader(c.token), nil
}

// fetchPage requests and decodes a single page.
func (c *Client) fetchPage(ctx context.Context, pageURL string, authHeader string) (*tagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedCreateRequest, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", meta.UserAgent)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedExecuteRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return nil, fmt.Errorf(
			"%w: %s: %s",
			errUnexpectedStatus,
			resp.Status,
			strings.TrimSpace(string(snippet)),
		)
	}

	response := &tagsResponse{}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return nil, fmt.Errorf("%w: %w", errMalformedResponse, err)
	}

	return response, nil
}

// httpClient returns the configured client or the default one.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}

	return c.HTTPClient
}

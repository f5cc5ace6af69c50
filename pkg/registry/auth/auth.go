// Package auth provides functionality for authenticating with container registries.
// It handles Docker Hub logins that exchange credentials for a bearer token.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/internal/meta"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// LoginPath is the Docker Hub API path that exchanges credentials for a token.
const LoginPath = "/v2/users/login"

// maxErrorBody bounds how much of a failed response body is quoted in errors.
const maxErrorBody = 512

// Static errors for registry authentication failures.
var (
	errNoCredentials        = errors.New("no credentials available")
	errFailedCreateRequest  = errors.New("failed to create login request")
	errFailedExecuteRequest = errors.New("failed to execute login request")
	errLoginRejected        = errors.New("registry rejected login")
	errInvalidTokenResponse = errors.New("registry returned an invalid token response")
)

// loginRequest is the JSON body sent to the login endpoint.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the JSON body returned by the login endpoint.
type TokenResponse struct {
	Token string `json:"token"`
}

// GetHubToken logs in to the Docker Hub API at baseURL and returns the issued token.
//
// Parameters:
//   - ctx: Context for request lifecycle control.
//   - client: HTTP client used for the request.
//   - baseURL: API base URL (e.g. "https://hub.docker.com").
//   - credentials: Username and password or personal access token.
//
// Returns:
//   - string: Token to present as a bearer credential.
//   - error: Non-nil if credentials are missing, the login fails, or the response is malformed.
func GetHubToken(
	ctx context.Context,
	client *http.Client,
	baseURL string,
	credentials *types.RegistryCredentials,
) (string, error) {
	if credentials.IsEmpty() {
		return "", errNoCredentials
	}

	loginURL := strings.TrimRight(baseURL, "/") + LoginPath
	fields := logrus.Fields{
		"url":      loginURL,
		"username": credentials.Username,
	}

	body, err := json.Marshal(loginRequest{
		Username: credentials.Username,
		Password: credentials.Password,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", errFailedCreateRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to create login request")

		return "", fmt.Errorf("%w: %w", errFailedCreateRequest, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", meta.UserAgent)

	res, err := client.Do(req)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to execute login request")

		return "", fmt.Errorf("%w: %w", errFailedExecuteRequest, err)
	}
	defer res.Body.Close()

	logrus.WithFields(fields).WithField("status", res.Status).Debug("Got response to login request")

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))

		return "", fmt.Errorf("%w: status %q: %s", errLoginRejected, res.Status, strings.TrimSpace(string(snippet)))
	}

	tokenResponse := &TokenResponse{}
	if err := json.NewDecoder(res.Body).Decode(tokenResponse); err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidTokenResponse, err)
	}

	if tokenResponse.Token == "" {
		return "", fmt.Errorf("%w: empty token", errInvalidTokenResponse)
	}

	// Log token only in trace mode to avoid leaking credentials
	if logrus.GetLevel() == logrus.TraceLevel {
		logrus.WithFields(fields).WithField("token", tokenResponse.Token).Trace("Retrieved registry token")
	}

	return tokenResponse.Token, nil
}

// GetBearerHeader formats a token as an Authorization header value.
func GetBearerHeader(token string) string {
	return "Bearer " + token
}

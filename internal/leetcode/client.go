// Package leetcode fetches public profiles from the LeetCode GraphQL API and
// classifies each attempt into a profile.Outcome.
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/roasbeef/pushclash/internal/profile"
)

const (
	// DefaultEndpoint is the public LeetCode GraphQL endpoint.
	DefaultEndpoint = "https://leetcode.com/graphql"

	// DefaultTimeout bounds a single upstream request.
	DefaultTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Config holds configuration for the LeetCode client.
type Config struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string

	// Timeout bounds each HTTP attempt.
	Timeout time.Duration

	// RetryMax is the number of retries after the first attempt. Zero
	// means exactly one request per fetch.
	RetryMax int

	// UserAgent is sent with every request when non-empty.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Endpoint:  DefaultEndpoint,
		Timeout:   DefaultTimeout,
		RetryMax:  0,
		UserAgent: "pushclash/1.0",
	}
}

// Client talks to the LeetCode GraphQL API.
type Client struct {
	cfg  Config
	http *retryablehttp.Client
	log  *slog.Logger
}

// NewClient creates a new LeetCode client.
func NewClient(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	log = log.With("component", "leetcode")

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.Logger = log

	// Hand the final response back instead of a synthetic "giving up"
	// error so the status code shows up in the failure cause.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		cfg:  cfg,
		http: rc,
		log:  log,
	}
}

// Fetch issues one profile query for username and classifies the result. It
// never returns an error: transport problems become profile.UpstreamFailure.
func (c *Client) Fetch(ctx context.Context, username string) profile.Outcome {
	resp, err := c.query(ctx, username)
	if err != nil {
		c.log.Warn("LeetCode request failed",
			"username", username, "error", err,
		)

		return profile.UpstreamFailure{Username: username, Cause: err}
	}

	outcome := classify(username, resp)
	c.log.Debug("LeetCode profile fetched",
		"username", username, "outcome", outcome.Kind(),
	)

	return outcome
}

// classify turns a decoded response into an outcome. The order of the checks
// matters: a missing envelope is our failure, an error list or a null user
// means the user does not exist.
func classify(username string, resp *graphQLResponse) profile.Outcome {
	switch {
	case resp == nil || resp.Data == nil:
		return profile.UpstreamFailure{
			Username: username,
			Cause:    ErrMissingData,
		}

	case len(resp.Errors) > 0 || resp.Data.MatchedUser == nil:
		return profile.NotFound{Username: username}

	default:
		return profile.Success{
			Profile: normalize(resp.Data.MatchedUser),
		}
	}
}

// query performs the HTTP round trip and decodes the envelope.
func (c *Client) query(ctx context.Context,
	username string) (*graphQLResponse, error) {

	body, err := json.Marshal(graphQLRequest{
		Query:     fullProfileQuery,
		Variables: map[string]any{"username": username},
	})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}

		return nil, fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)

		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	var out graphQLResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &out, nil
}

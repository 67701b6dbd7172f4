package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/roasbeef/pushclash/internal/build"
	"github.com/roasbeef/pushclash/internal/roast"
	"github.com/roasbeef/pushclash/internal/web"
)

const (
	// defaultServerURL is the default address of roastd.
	defaultServerURL = "http://localhost:3000"

	// requestTimeout bounds a full non-streaming roast request.
	requestTimeout = 2 * time.Minute
)

// ErrServer is wrapped by every error response from roastd.
var ErrServer = errors.New("server error")

// Client talks to a roastd instance over HTTP and websocket.
type Client struct {
	base *url.URL
	http *retryablehttp.Client
}

// NewClient creates a client for the roastd instance at serverURL.
func NewClient(serverURL string) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be "+
			"http or https", serverURL)
	}

	hc := retryablehttp.NewClient()
	hc.Logger = nil
	hc.RetryMax = 2
	hc.HTTPClient.Timeout = requestTimeout

	// Only connection failures are retried.
	hc.CheckRetry = func(ctx context.Context, resp *http.Response,
		err error) (bool, error) {

		if err == nil {
			return false, nil
		}

		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	return &Client{base: base, http: hc}, nil
}

// Roast requests a complete roast.
func (c *Client) Roast(ctx context.Context,
	username string) (*roast.Response, error) {

	body, err := json.Marshal(web.RoastRequest{Username: username})
	if err != nil {
		return nil, err
	}

	var resp roast.Response
	err = c.do(ctx, http.MethodPost, "/api/leetcode-roast", body, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// Health fetches the daemon health report.
func (c *Client) Health(ctx context.Context) (*web.HealthResponse, error) {
	var resp web.HealthResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

// StreamRoast opens the roast stream and calls onMsg for every server
// message until a done or error message arrives.
func (c *Client) StreamRoast(ctx context.Context, username string,
	onMsg func(web.StreamMessage)) error {

	wsURL := *c.base
	wsURL.Scheme = "ws"
	if c.base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	wsURL.Path += "/api/leetcode-roast/stream"

	header := http.Header{}
	header.Set("User-Agent", build.UserAgent("cli"))

	conn, _, err := websocket.DefaultDialer.DialContext(
		ctx, wsURL.String(), header,
	)
	if err != nil {
		return fmt.Errorf("dial stream: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	err = conn.WriteJSON(web.RoastRequest{Username: username})
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}

	for {
		var msg web.StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read stream: %w", err)
		}

		onMsg(msg)

		switch msg.Type {
		case web.StreamMsgDone:
			return nil

		case web.StreamMsgError:
			return fmt.Errorf("%w: %s", ErrServer, msg.Error)
		}
	}
}

// do sends one request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte,
	out any) error {

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx, method, c.base.String()+path, reader,
	)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", build.UserAgent("cli"))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr web.APIError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil &&
			apiErr.Error != "" {

			return fmt.Errorf("%w: %s (%d)", ErrServer, apiErr.Error,
				resp.StatusCode)
		}

		return fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

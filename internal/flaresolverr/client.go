// Package flaresolverr provides a client for a local FlareSolverr instance.
//
// FlareSolverr sits between issuefeed and the target site: it solves
// interstitial anti-bot challenges in a headless browser and hands back the
// final rendered page body. Its solving behavior is an external collaborator;
// this client only speaks its request/response protocol.
package flaresolverr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// The HTTP timeout runs a little past the solver's own budget so a slow solve
// surfaces as the solver's timeout message rather than a dropped connection.
const timeoutGrace = 10 * time.Second

// FetchError wraps any failure to obtain page content through the solver:
// endpoint unreachable, non-success HTTP status, undecodable response, or the
// solver reporting a failed solve.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client issues solve-and-fetch requests against a FlareSolverr endpoint.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient HTTPClient
}

// NewClient creates a client for the given solver endpoint. timeout is the
// challenge-solving budget passed to the solver per request.
func NewClient(endpoint string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		endpoint: endpoint,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout + timeoutGrace,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type solveRequest struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url"`
	MaxTimeout int64  `json:"maxTimeout"`
}

type solveResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Solution struct {
		URL      string `json:"url"`
		Status   int    `json:"status"`
		Response string `json:"response"`
	} `json:"solution"`
}

// Fetch resolves any challenge on targetURL and returns the rendered page
// body. All failure modes are reported as a *FetchError; the caller does not
// retry.
func (c *Client) Fetch(ctx context.Context, targetURL string) (string, error) {
	payload, err := json.Marshal(solveRequest{
		Cmd:        "request.get",
		URL:        targetURL,
		MaxTimeout: c.timeout.Milliseconds(),
	})
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: fmt.Errorf("solver request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: targetURL, Err: fmt.Errorf("failed to read solver response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: targetURL, Err: fmt.Errorf("solver returned HTTP %d", resp.StatusCode)}
	}

	var solved solveResponse
	if err := json.Unmarshal(body, &solved); err != nil {
		return "", &FetchError{URL: targetURL, Err: fmt.Errorf("failed to parse solver response: %w", err)}
	}

	if solved.Status != "ok" {
		return "", &FetchError{URL: targetURL, Err: fmt.Errorf("solver status %q: %s", solved.Status, solved.Message)}
	}

	return solved.Solution.Response, nil
}

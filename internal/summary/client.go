// Package summary fetches the pre-aggregated spending summary from the expense server.
package summary

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
)

const (
	// DefaultDays is the window used when the caller passes no positive value.
	DefaultDays = 30

	summaryPath = "/api/summary"
	maxBodySize = 1 << 20 // 1 MB
	userAgent   = "spendview/1.0"
)

var (
	// ErrUnauthorized indicates the server rejected the session cookie.
	ErrUnauthorized = errors.New("summary: unauthorized (session expired or missing)")
	// ErrNoServer indicates no server URL was configured.
	ErrNoServer = errors.New("summary: no server URL configured")
)

// Client fetches summaries from a single expense server.
type Client struct {
	baseURL string
	cookie  string
	http    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithSessionCookie sends the given raw cookie ("session=...") on every request.
func WithSessionCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = strings.TrimSpace(cookie)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoServer
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("summary: invalid server URL: %w", err)
	}

	c := &Client{
		baseURL: baseURL,
		http: &http.Client{
			// A login-protected server answers with a redirect to its login page.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch returns the summary for the trailing window of days.
// There is no retry and no client-side timeout; cancel ctx to abandon the request.
func (c *Client) Fetch(ctx context.Context, days int) (Response, error) {
	if days <= 0 {
		days = DefaultDays
	}

	body, err := c.get(ctx, summaryPath+"?days="+strconv.Itoa(days))
	if err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return Response{}, fmt.Errorf("summary: parsing response: %w", err)
	}
	return resp, nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("summary: creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summary: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden,
		http.StatusFound, http.StatusSeeOther, http.StatusTemporaryRedirect:
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("summary: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("summary: reading response: %w", err)
	}
	return body, nil
}

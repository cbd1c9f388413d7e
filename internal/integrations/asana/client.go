// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-12
// Last Modified: 2026-10-18

// Package asana is a small client for the parts of the Asana REST API used to
// track pull requests: workspace discovery, user directory lookup, and task
// create/list/update.
package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Asana REST API root.
const DefaultBaseURL = "https://app.asana.com/api/1.0"

// Client wraps the Asana REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (used by tests and proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the underlying transport client. The bearer token is
// still injected on top of it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetry overrides the retry policy.
func WithRetry(cfg RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l.With().Str("component", "asana").Logger()
	}
}

// NewClient creates a new Asana client authenticated with a personal access token.
// If token is empty, requests are sent without credentials.
func NewClient(ctx context.Context, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		retry:      DefaultRetryConfig(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		c.httpClient = oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.httpClient), ts)
	}

	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) endpoint(path string, q url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doJSON sends a request under the client's retry policy. Use it only for
// calls that are safe to repeat.
func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, body any, out any) error {
	return c.send(ctx, c.retry, method, path, q, body, out)
}

// doOnce sends exactly one request regardless of the retry policy.
func (c *Client) doOnce(ctx context.Context, method, path string, q url.Values, body any, out any) error {
	return c.send(ctx, NoRetry(), method, path, q, body, out)
}

// send wraps body in Asana's {"data": ...} envelope when non-nil and decodes
// the response into out. Non-success statuses return *APIError.
func (c *Client) send(ctx context.Context, retry RetryConfig, method, path string, q url.Values, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(map[string]any{"data": body})
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	u := c.endpoint(path, q)
	operation := method + " " + path

	_, err := withRetry(ctx, retry, operation, func() (struct{}, error) {
		var r io.Reader
		if payload != nil {
			r = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, r)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return struct{}{}, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := newAPIError(resp.StatusCode, resp.Status, respBody)
			c.log.Debug().Str("op", operation).Int("status", resp.StatusCode).Msg("asana request failed")
			return struct{}{}, apiErr
		}

		if out == nil {
			return struct{}{}, nil
		}
		if len(bytes.TrimSpace(respBody)) == 0 {
			return struct{}{}, fmt.Errorf("empty response body for %s", operation)
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return struct{}{}, fmt.Errorf("failed to decode response: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

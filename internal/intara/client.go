// Package intara provides the HTTP client and credential handling for the
// Janes Intara graph API.
package intara

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Client executes requests against the Intara graph API.
type Client struct {
	baseURL    string
	apiKey     string
	tokens     *TokenCache
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Intara API client.
func NewClient(baseURL, apiKey string, tokens *TokenCache, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: slog.Default(),
	}
}

// WithLogger sets a custom logger for the client.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	c.logger = logger
	return c
}

// Fetch executes an upstream request and returns the raw response body.
// Non-2xx responses produce an *APIError carrying the upstream status and
// body; no retry is attempted.
func (c *Client) Fetch(ctx context.Context, req *Request) ([]byte, error) {
	fetchURL, err := c.buildURL(req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	c.logger.DebugContext(ctx, "executing intara request",
		slog.String("url", fetchURL),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	if token := c.tokens.Token(ctx); token != "" {
		httpReq.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "intara API request failed",
			slog.String("error", err.Error()),
			slog.String("url", fetchURL),
		)
		return nil, fmt.Errorf("intara API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read intara response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.ErrorContext(ctx, "intara API returned non-2xx status",
			slog.Int("status_code", resp.StatusCode),
			slog.String("response_body", string(body)),
		)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.DebugContext(ctx, "intara request completed",
		slog.Int("status_code", resp.StatusCode),
		slog.Int("body_bytes", len(body)),
	)

	return body, nil
}

// buildURL joins the base URL, the request path and its encoded query.
func (c *Client) buildURL(req *Request) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}

	base.Path = path.Join(base.Path, req.Path)
	base.RawQuery = req.Query.Encode()

	return base.String(), nil
}

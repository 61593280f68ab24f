// Package api talks to the leaderboard HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aurumfx/lbadmin/internal/model"
)

// RequestIDHeader carries a per-request id so server logs can be correlated
// with client logs.
const RequestIDHeader = "X-Request-ID"

// TokenProvider supplies the bearer token for authenticated requests.
type TokenProvider interface {
	Token() (string, error)
}

// StaticToken is a TokenProvider that always returns the same token.
type StaticToken string

// Token implements TokenProvider.
func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

// Client handles HTTP requests to the leaderboard API.
type Client struct {
	BaseURL    string
	Tokens     TokenProvider // nil sends no Authorization header
	HTTPClient *http.Client
	Limiter    *rate.Limiter // nil disables throttling
	Logger     zerolog.Logger
}

// NewClient creates a new API client with the given base URL and token source.
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Tokens:  tokens,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Logger: zerolog.Nop(),
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.HTTPClient.Timeout = d
	return c
}

// WithRateLimit throttles the client to rps requests per second. Zero disables it.
func (c *Client) WithRateLimit(rps int) *Client {
	if rps <= 0 {
		c.Limiter = nil
		return c
	}
	c.Limiter = rate.NewLimiter(rate.Limit(rps), rps)
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.Logger = log
	return c
}

// Get performs a GET request to the specified path.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with payload encoded as JSON.
func (c *Client) Post(ctx context.Context, path string, payload any) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPost, path, payload)
}

// Put performs a PUT request with payload encoded as JSON.
func (c *Client) Put(ctx context.Context, path string, payload any) (*http.Response, error) {
	return c.doJSON(ctx, http.MethodPut, path, payload)
}

// Delete performs a DELETE request to the specified path.
func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &model.ValidationError{Field: "request body", Reason: err.Error()}
	}
	return c.do(ctx, method, path, body)
}

// do performs a single HTTP request with auth and request-id headers.
// Failures to reach the server are returned as *model.TransportError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	op := method + " " + path

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, &model.TransportError{Op: op, Err: err}
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.Tokens != nil {
		token, err := c.Tokens.Token()
		if err != nil {
			return nil, &model.AuthorizationError{Message: err.Error()}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Debug().
			Str("method", method).
			Str("path", path).
			Str("request_id", requestID).
			Err(err).
			Msg("request failed")
		return nil, &model.TransportError{Op: op, Err: err}
	}

	c.Logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request")

	return resp, nil
}

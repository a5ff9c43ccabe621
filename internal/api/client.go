// Package api provides the HTTP client for the job-posting extraction backend
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the extraction backend. It never retries; every call is
// one request.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new backend client. A zero timeout means requests
// are only bounded by their context.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "api").Logger(),
	}
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// WithRequestID tags ctx so the request carries an X-Request-ID header
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Config fetches the server-side provider defaults
func (c *Client) Config(ctx context.Context) (*ServerConfig, error) {
	var cfg ServerConfig
	if _, err := c.do(ctx, "load config", http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Models lists the models available to the local provider
func (c *Client) Models(ctx context.Context) ([]Model, error) {
	var resp modelsResponse
	status, err := c.do(ctx, "list models", http.MethodPost, "/api/ollama/models", struct{}{}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Op: "list models", StatusCode: status, Message: resp.Error}
	}
	if resp.Models == nil {
		resp.Models = []Model{}
	}
	return resp.Models, nil
}

// PreviewURL asks the backend to fetch and summarize a job posting URL
func (c *Client) PreviewURL(ctx context.Context, rawURL string) (*URLPreview, error) {
	var resp previewResponse
	status, err := c.do(ctx, "preview url", http.MethodPost, "/api/url-preview", previewRequest{URL: rawURL}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Op: "preview url", StatusCode: status, Message: resp.Error}
	}
	return &resp.URLPreview, nil
}

// Extract submits a job posting for structured extraction
func (c *Client) Extract(ctx context.Context, req ExtractRequest) (*ExtractResult, error) {
	var resp extractResponse
	status, err := c.do(ctx, "extract", http.MethodPost, "/api/extract", req, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Op: "extract", StatusCode: status, Message: resp.Error}
	}
	return &resp.ExtractResult, nil
}

// Health checks that the backend is up
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if _, err := c.do(ctx, "health check", http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// do performs one JSON request. The body of a 2xx response is decoded into
// out; failure bodies are searched for the backend's error text.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (int, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return 0, &NetworkError{Op: op, Err: fmt.Errorf("invalid base URL: %w", err)}
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return 0, &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("op", op).Str("request_id", requestID(ctx)).Msg("request failed")
		return 0, &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &NetworkError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	c.logger.Debug().
		Str("op", op).
		Str("request_id", requestID(ctx)).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &failure)
		return resp.StatusCode, &BackendError{Op: op, StatusCode: resp.StatusCode, Message: failure.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return resp.StatusCode, nil
}

// Package zerodb provides driven adapters backed by the ZeroDB HTTP
// API: a RowStore over the NoSQL execute bridge and an EmbeddingStore
// over the embeddings endpoints. Both share one authenticated,
// rate-limited client.
package zerodb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/AINative-Studio/ocean-backend-sub001/internal/core/domain"
)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.ainative.studio"
	DefaultModel     = "BAAI/bge-base-en-v1.5"
	DefaultNamespace = "ocean_blocks"
	DefaultTimeout   = 30 * time.Second

	// DefaultRequestsPerSecond throttles outbound calls; the public
	// API tolerates short bursts.
	DefaultRequestsPerSecond = 10
	DefaultBurst             = 20
)

// modelDimensions maps known embedding models to their vector size.
var modelDimensions = map[string]int{
	"BAAI/bge-base-en-v1.5":  768,
	"BAAI/bge-small-en-v1.5": 384,
	"BAAI/bge-large-en-v1.5": 1024,
}

// Config holds the connection settings for ZeroDB.
type Config struct {
	// BaseURL is the API base URL (default: https://api.ainative.studio).
	BaseURL string

	// ProjectID is the ZeroDB project (required).
	ProjectID string

	// APIKey is the bearer token (required).
	APIKey string

	// Model is the embedding model (default: BAAI/bge-base-en-v1.5).
	Model string

	// Namespace is the vector namespace health checks probe
	// (default: ocean_blocks).
	Namespace string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond overrides the default outbound rate.
	RequestsPerSecond float64
}

// Client is the shared HTTP client for both ZeroDB adapters. Auth is a
// static bearer token; a token bucket throttles outbound requests.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	baseURL   string
	projectID string
	model     string
	namespace string
}

// NewClient validates the config and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("zerodb: project id is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("zerodb: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey})
	httpClient := oauth2.NewClient(context.Background(), source)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), DefaultBurst),
		baseURL:   cfg.BaseURL,
		projectID: cfg.ProjectID,
		model:     cfg.Model,
		namespace: cfg.Namespace,
	}, nil
}

// post sends a JSON request and decodes the JSON response into out.
// Transport failures and 5xx responses map to
// domain.ErrDependencyUnavailable so callers can apply their
// degradation policy.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrDependencyUnavailable, resp.StatusCode, truncate(respBody))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, truncate(respBody))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("zerodb: status %d: %s", resp.StatusCode, truncate(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// delete sends a DELETE request.
func (c *Client) delete(ctx context.Context, path string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", domain.ErrDependencyUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent:
		return fmt.Errorf("zerodb: status %d", resp.StatusCode)
	}
	return nil
}

// retryable reports whether an error is worth retrying on a read path.
func retryable(err error) bool {
	return errors.Is(err, domain.ErrDependencyUnavailable)
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

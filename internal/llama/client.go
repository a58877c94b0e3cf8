// Package llama fetches the public DefiLlama yields dataset.
package llama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"yieldRadar/internal/model"
)

// DefaultBaseURL is the public yields API root.
const DefaultBaseURL = "https://yields.llama.fi"

const defaultTimeout = 30 * time.Second

// Client fetches pool snapshots over HTTP. A failed fetch is terminal
// for that attempt: there is no retry or backoff, recovery is the
// caller's manual reload path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the given API root. An empty baseURL
// selects the public endpoint; a zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type poolsResponse struct {
	Data []model.Pool `json:"data"`
}

// FetchPools retrieves the full pool list. A response without a data
// field decodes to an empty list, which is a valid result, not an
// error.
func (c *Client) FetchPools(ctx context.Context) ([]model.Pool, error) {
	url := c.baseURL + "/pools"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// Always hit the origin; stale yield data defeats the point.
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch pools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch pools: unexpected status %d from %s", resp.StatusCode, url)
	}

	var parsed poolsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode pools response: %w", err)
	}

	c.logger.Info("pools fetched",
		zap.String("url", url),
		zap.Int("count", len(parsed.Data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if parsed.Data == nil {
		return []model.Pool{}, nil
	}
	return parsed.Data, nil
}

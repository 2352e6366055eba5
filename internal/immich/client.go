// Package immich is a minimal client for the Immich server API: a readiness
// ping and an asset lookup by original filename.
package immich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/boydthomson/android-immich-clear/config"
	"github.com/boydthomson/android-immich-clear/internal/models"
)

const requestTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(cfg *config.Config) (*Client, error) {
	if cfg.ImmichURL == "" {
		return nil, fmt.Errorf("IMMICH_URL is not configured")
	}
	if cfg.ImmichAPIKey == "" {
		return nil, fmt.Errorf("IMMICH_API_KEY is not configured")
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.ImmichURL, "/"),
		apiKey:     cfg.ImmichAPIKey,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// Ping verifies the server is reachable before any device file is touched.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/server/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to build ping request: %w", err)
	}
	c.applyHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("immich server unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("immich server returned status %d", resp.StatusCode)
	}
	return nil
}

type searchRequest struct {
	OriginalFileName string `json:"originalFileName"`
}

type searchResponse struct {
	Assets struct {
		Total int `json:"total"`
	} `json:"assets"`
}

// IsSynced reports whether the catalog knows at least one asset whose
// original filename equals name. Matching is exact and by filename only.
// Transport failures and unparsable responses come back as
// SyncStatusQueryFailed with the cause; callers treat that the same as not
// synced and keep the file.
func (c *Client) IsSynced(ctx context.Context, name string) (models.SyncStatus, error) {
	body, err := json.Marshal(searchRequest{OriginalFileName: name})
	if err != nil {
		return models.SyncStatusQueryFailed, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/search/metadata", bytes.NewReader(body))
	if err != nil {
		return models.SyncStatusQueryFailed, fmt.Errorf("failed to build search request: %w", err)
	}
	c.applyHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.SyncStatusQueryFailed, fmt.Errorf("search for %s failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.SyncStatusQueryFailed, fmt.Errorf("search for %s returned status %d", name, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.SyncStatusQueryFailed, fmt.Errorf("failed to decode search response for %s: %w", name, err)
	}

	if parsed.Assets.Total > 0 {
		return models.SyncStatusSynced, nil
	}
	return models.SyncStatusNotSynced, nil
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
}

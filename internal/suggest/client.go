package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	appLog "campusplan/internal/log"
	"campusplan/internal/schedule"
)

// GenerateRequest is the pass-through preference payload for the remote
// suggestion generator. The engine does not interpret these fields.
type GenerateRequest struct {
	FreeTimeBlocks          []schedule.FreeBlock `json:"free_time_blocks"`
	ActivityDurationMinutes int                  `json:"activity_duration_minutes"`
	ActivityType            string               `json:"activity_type"`
}

// generateResponse mirrors the generator's top-level response shape.
// Individual suggestions stay raw maps; Normalize owns their decoding.
type generateResponse struct {
	Suggestions []map[string]any `json:"suggestions"`
}

// Client is a thin HTTP client for the suggestion-generation service. The
// generation algorithm itself is a black box; this client only ships
// preferences out and raw suggestion payloads back.
type Client struct {
	baseURL string
	http    *http.Client

	// last holds the previous successful response, returned as a
	// fallback when the service is unreachable. In-memory only.
	mu   sync.Mutex
	last []map[string]any
}

// NewClient creates a generator client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Generate posts the preference payload and returns the raw suggestion
// objects. A network failure falls back to the previous successful
// response when one exists; a non-2xx status is always an error.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) ([]map[string]any, error) {
	if c.baseURL == "" {
		return nil, errors.New("generator URL is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/api/generate-suggestions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	appLog.Info("generator request", "blocks", len(req.FreeTimeBlocks), "activity", req.ActivityType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if cached := c.cached(); cached != nil {
			appLog.Error("generator unreachable, using previous response", err)
			return cached, nil
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("generator returned %s", resp.Status)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last = decoded.Suggestions
	c.mu.Unlock()

	appLog.Info("generator response", "suggestions", len(decoded.Suggestions))
	return decoded.Suggestions, nil
}

func (c *Client) cached() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

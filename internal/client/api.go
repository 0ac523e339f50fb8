// Package client implements the rendering-client runtime: server API
// access, the offline-tolerant sync engine with its local snapshot
// cache, content/ticker rotation, heartbeats, and the event socket.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tvpackets "github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/model"
)

const (
	// heartbeats exist only as a fast liveness signal; keep them short
	heartbeatTimeout = 5 * time.Second
	fetchTimeout     = 30 * time.Second
)

// APIClient talks to the TV-facing API. Every request carries the
// player client tag so the server classifies heartbeats correctly.
type APIClient struct {
	baseURL  string
	liveness *http.Client
	fetch    *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		liveness: &http.Client{Timeout: heartbeatTimeout},
		fetch:    &http.Client{Timeout: fetchTimeout},
	}
}

func (c *APIClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Argus-Client", "player")

	resp, err := c.fetch.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *APIClient) GetScreen(ctx context.Context, screenID string) (tvpackets.ScreenResponse, error) {
	var out tvpackets.ScreenResponse
	err := c.getJSON(ctx, "/api/tv/screens/"+screenID, &out)
	return out, err
}

func (c *APIClient) GetContent(ctx context.Context, screenID string) ([]model.Content, error) {
	var out []model.Content
	err := c.getJSON(ctx, "/api/tv/screens/"+screenID+"/content", &out)
	return out, err
}

func (c *APIClient) GetRSS(ctx context.Context, screenID string) ([]model.RSSItem, error) {
	var out []model.RSSItem
	err := c.getJSON(ctx, "/api/tv/screens/"+screenID+"/rss-content", &out)
	return out, err
}

func (c *APIClient) GetMessages(ctx context.Context, screenID string) ([]model.Message, error) {
	var out []model.Message
	err := c.getJSON(ctx, "/api/tv/screens/"+screenID+"/messages", &out)
	return out, err
}

// Heartbeat sends a viewer liveness ping with an explicit kind tag.
func (c *APIClient) Heartbeat(ctx context.Context, screenID string) (tvpackets.HeartbeatResponse, error) {
	var out tvpackets.HeartbeatResponse

	body := strings.NewReader(`{"kind":"viewer"}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/tv/screens/"+screenID+"/heartbeat", body)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Argus-Client", "player")

	resp, err := c.liveness.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("heartbeat: unexpected status %d", resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&out)
	return out, err
}

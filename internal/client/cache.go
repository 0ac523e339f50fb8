package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tvpackets "github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/model"
)

// Snapshot is the last-known-good state for one screen, persisted on
// the client's filesystem. Missing fields decode to nil and are treated
// as "resource absent", so snapshots written by older players stay
// readable.
type Snapshot struct {
	Screen     *tvpackets.ScreenResponse `json:"screen,omitempty"`
	Content    []model.Content           `json:"content,omitempty"`
	RSSItems   []model.RSSItem           `json:"rss_items,omitempty"`
	Messages   []model.Message           `json:"messages,omitempty"`
	LastSyncAt time.Time                 `json:"last_sync_at"`
}

// Cache stores one snapshot per screen id. Owned by a single player
// process; never shared.
type Cache struct {
	mu   sync.Mutex
	path string
}

func NewCache(dir, screenID string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{path: filepath.Join(dir, "screen-"+screenID+".json")}, nil
}

// Load returns the cached snapshot, or nil when none has been written
// yet. A corrupt file is reported as an error; callers degrade to "no
// cache available".
func (c *Cache) Load() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode cache snapshot: %w", err)
	}
	return &snap, nil
}

func (c *Cache) Save(snap *Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o644)
}

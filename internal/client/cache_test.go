package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tvpackets "github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/model"
)

func TestCacheMissingFileIsNotAnError(t *testing.T) {
	cache, err := NewCache(t.TempDir(), "s1")
	require.NoError(t, err)

	snap, err := cache.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir(), "s1")
	require.NoError(t, err)

	in := &Snapshot{
		Screen:  &tvpackets.ScreenResponse{ID: "s1", Name: "Lobby"},
		Content: []model.Content{{ID: 1, ScreenID: "s1", Name: "promo", Type: "image", URL: "http://x/promo.png", Duration: 10}},
		Messages: []model.Message{
			{ID: 1, ScreenID: "s1", Body: "welcome"},
		},
		LastSyncAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Save(in))

	out, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Lobby", out.Screen.Name)
	assert.Len(t, out.Content, 1)
	assert.Len(t, out.Messages, 1)
	assert.Nil(t, out.RSSItems, "absent resource stays absent")
	assert.True(t, out.LastSyncAt.Equal(in.LastSyncAt))
}

// Snapshots written by older players lack newer fields; they must still
// decode, with the missing resources treated as absent.
func TestCacheForwardReadable(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, "s1")
	require.NoError(t, err)

	legacy := []byte(`{"content":[{"id":1,"screen_id":"s1","name":"promo","type":"image","url":"http://x"}]}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "screen-s1.json"), legacy, 0o644))

	snap, err := cache.Load()
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Content, 1)
	assert.Nil(t, snap.Screen)
	assert.Nil(t, snap.Messages)
	assert.True(t, snap.LastSyncAt.IsZero())
}

func TestCacheCorruptFileDegrades(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, "s1")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "screen-s1.json"), []byte("{nope"), 0o644))

	snap, err := cache.Load()
	assert.Error(t, err)
	assert.Nil(t, snap)
}

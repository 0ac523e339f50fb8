package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	tvEndpoints "github.com/Brightline-Tech/argus/internal/http/api/tv/endpoints"
	"github.com/Brightline-Tech/argus/internal/hub"
	"github.com/Brightline-Tech/argus/internal/presence"
)

// TestPresenceTimeline walks a screen through the full presence life
// cycle with explicit clocks: a heartbeat at t0, the online window, the
// degraded window, going offline, and instant recovery on the next
// heartbeat.
func TestPresenceTimeline(t *testing.T) {
	store := db.NewMemStore()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := store.RecordViewerHeartbeat("lobby", t0)
	require.NoError(t, err)

	at := func(offset time.Duration) presence.State {
		screen, err := store.GetScreenByID("lobby")
		require.NoError(t, err)
		return presence.Classify(screen.LastSeen, t0.Add(offset))
	}

	assert.Equal(t, presence.StateOnline, at(10*time.Second))
	assert.Equal(t, presence.StateDegraded, at(30*time.Second))
	assert.Equal(t, presence.StateDegraded, at(119*time.Second))
	assert.Equal(t, presence.StateOffline, at(120*time.Second))
	assert.Equal(t, presence.StateOffline, at(150*time.Second))

	// the next heartbeat restores online immediately, with no dwell in
	// the intermediate states
	_, err = store.RecordViewerHeartbeat("lobby", t0.Add(151*time.Second))
	require.NoError(t, err)
	assert.Equal(t, presence.StateOnline, at(151*time.Second+500*time.Millisecond))
}

// TestPresenceNeverSeen covers screens created lazily by a catalog
// fetch: no heartbeat ever, so offline at any probe time.
func TestPresenceNeverSeen(t *testing.T) {
	store := db.NewMemStore()

	_, _, err := store.EnsureScreen("fresh")
	require.NoError(t, err)

	screen, err := store.GetScreenByID("fresh")
	require.NoError(t, err)
	require.Nil(t, screen.LastSeen)
	assert.Equal(t, presence.StateOffline, presence.Classify(screen.LastSeen, time.Now()))
}

// TestHeartbeatOverHTTP drives the same timeline through the real TV
// endpoints instead of store calls.
func TestHeartbeatOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := db.NewMemStore()
	router := gin.New()
	api.MountGroup(router, api.GroupConfig{Prefix: "/api/tv"}, tvEndpoints.ScreenModule(store, hub.New()))

	beat := func() map[string]any {
		req := httptest.NewRequest(http.MethodPost, "/api/tv/screens/lobby/heartbeat", strings.NewReader(`{"kind":"viewer"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp
	}

	first := beat()
	assert.Equal(t, true, first["created"])

	second := beat()
	assert.Equal(t, false, second["created"])
	assert.Equal(t, true, second["updated"])

	screen, err := store.GetScreenByID("lobby")
	require.NoError(t, err)
	require.NotNil(t, screen.LastSeen)
	assert.Equal(t, presence.StateOnline, presence.Classify(screen.LastSeen, time.Now()))
}

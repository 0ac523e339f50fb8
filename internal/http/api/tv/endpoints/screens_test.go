package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/hub"
)

func newTestRouter(store db.Store, events *hub.Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/tv"}, ScreenModule(store, events))
	return r
}

func doHeartbeat(t *testing.T, r *gin.Engine, screenID, body string, header map[string]string) (int, packets.HeartbeatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/tv/screens/"+screenID+"/heartbeat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp packets.HeartbeatResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w.Code, resp
}

func TestViewerHeartbeatCreatesThenUpdates(t *testing.T) {
	store := db.NewMemStore()
	r := newTestRouter(store, hub.New())

	code, first := doHeartbeat(t, r, "s1", `{"kind":"viewer"}`, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, first.Created)
	assert.False(t, first.Updated)
	require.NotNil(t, first.LastSeen)

	code, second := doHeartbeat(t, r, "s1", `{"kind":"viewer"}`, nil)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, second.Created, "second heartbeat must reuse the existing row")
	assert.True(t, second.Updated)
	require.NotNil(t, second.LastSeen)
	assert.False(t, second.LastSeen.Before(*first.LastSeen))

	screens, err := store.ListScreens()
	require.NoError(t, err)
	assert.Len(t, screens, 1)
}

func TestOperatorHeartbeatLeavesPresenceUntouched(t *testing.T) {
	store := db.NewMemStore()
	r := newTestRouter(store, hub.New())

	_, seed := doHeartbeat(t, r, "s1", `{"kind":"viewer"}`, nil)
	require.NotNil(t, seed.LastSeen)

	// explicit operator kind, then a panel-tagged heartbeat with no kind
	for i := 0; i < 3; i++ {
		code, resp := doHeartbeat(t, r, "s1", `{"kind":"operator"}`, nil)
		require.Equal(t, http.StatusOK, code)
		assert.False(t, resp.Created)
		assert.False(t, resp.Updated)
		assert.Nil(t, resp.LastSeen)
	}
	code, resp := doHeartbeat(t, r, "s1", "", map[string]string{ViewerClientHeader: "panel"})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Updated)

	screen, err := store.GetScreenByID("s1")
	require.NoError(t, err)
	require.NotNil(t, screen.LastSeen)
	assert.True(t, screen.LastSeen.Equal(*seed.LastSeen), "operator heartbeats must not move last_seen")
}

func TestOperatorHeartbeatNeverCreatesScreen(t *testing.T) {
	store := db.NewMemStore()
	r := newTestRouter(store, hub.New())

	code, _ := doHeartbeat(t, r, "ghost", `{"kind":"operator"}`, nil)
	require.Equal(t, http.StatusOK, code)

	_, err := store.GetScreenByID("ghost")
	assert.Error(t, err)
}

func TestAmbiguousHeartbeatDefaultsToViewer(t *testing.T) {
	store := db.NewMemStore()
	r := newTestRouter(store, hub.New())

	// no kind, no client header, no admin referrer
	code, resp := doHeartbeat(t, r, "s1", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Created)

	// admin-panel referrer without an explicit kind counts as operator
	code, resp = doHeartbeat(t, r, "s1", "", map[string]string{"Referer": "http://panel.example/admin/screens"})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, resp.Updated)

	// an explicit kind always wins over the heuristics
	code, resp = doHeartbeat(t, r, "s1", `{"kind":"viewer"}`, map[string]string{ViewerClientHeader: "panel"})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Updated)
}

func TestGetScreenLazilyCreates(t *testing.T) {
	store := db.NewMemStore()
	r := newTestRouter(store, hub.New())

	req := httptest.NewRequest(http.MethodGet, "/api/tv/screens/fresh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp packets.ScreenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fresh", resp.ID)

	screen, err := store.GetScreenByID("fresh")
	require.NoError(t, err)
	assert.Nil(t, screen.LastSeen, "lazy creation must not imply presence")
}

func TestViewerHeartbeatPublishesPresence(t *testing.T) {
	store := db.NewMemStore()
	events := hub.New()
	r := newTestRouter(store, events)

	sub := events.Register(false)
	events.JoinScreen(sub, "s1")
	defer events.Unregister(sub)

	code, _ := doHeartbeat(t, r, "s1", `{"kind":"viewer"}`, nil)
	require.Equal(t, http.StatusOK, code)

	select {
	case payload := <-sub.Events():
		var ev hub.Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, hub.EventPresenceChanged, ev.Type)
		assert.Equal(t, "s1", ev.ScreenID)
		assert.NotNil(t, ev.LastSeen)
	default:
		t.Fatal("expected a presence event on the screen's room")
	}
}

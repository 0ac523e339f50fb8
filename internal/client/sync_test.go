package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightline-Tech/argus/internal/hub"
	"github.com/Brightline-Tech/argus/internal/model"
)

// stubServer serves the TV-facing read endpoints for one screen and
// counts hits per resource, so tests can assert which fetches an
// engine action actually triggered.
type stubServer struct {
	mu      sync.Mutex
	hits    map[string]int
	failing bool

	screen   map[string]any
	content  []model.Content
	rss      []model.RSSItem
	messages []model.Message

	srv *httptest.Server
}

func newStubServer() *stubServer {
	s := &stubServer{
		hits:   make(map[string]int),
		screen: map[string]any{"id": "s1", "name": "Lobby"},
		content: []model.Content{
			{ID: 1, ScreenID: "s1", Name: "promo", Type: "image", URL: "http://x/a.png", Duration: 10, Position: 0},
			{ID: 2, ScreenID: "s1", Name: "menu", Type: "image", URL: "http://x/b.png", Duration: 10, Position: 1},
		},
		messages: []model.Message{{ID: 1, ScreenID: "s1", Body: "welcome", Position: 0}},
	}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

func (s *stubServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resource := "screen"
	switch {
	case strings.HasSuffix(r.URL.Path, "/content"):
		resource = "content"
	case strings.HasSuffix(r.URL.Path, "/rss-content"):
		resource = "rss"
	case strings.HasSuffix(r.URL.Path, "/messages"):
		resource = "messages"
	}
	s.hits[resource]++

	if s.failing {
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	var body any
	switch resource {
	case "screen":
		body = s.screen
	case "content":
		body = s.content
	case "rss":
		body = s.rss
	case "messages":
		body = s.messages
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *stubServer) hitCount(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[resource]
}

func (s *stubServer) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

func newTestEngine(t *testing.T, srv *stubServer) *Engine {
	t.Helper()
	cache, err := NewCache(t.TempDir(), "s1")
	require.NoError(t, err)
	return NewEngine(
		NewAPIClient(srv.srv.URL),
		cache,
		NewRotator(0, nil),
		NewRotator(0, nil),
		SyncConfig{ScreenID: "s1"},
	)
}

func TestSyncAllPopulatesSnapshot(t *testing.T) {
	srv := newStubServer()
	defer srv.srv.Close()

	e := newTestEngine(t, srv)
	defer e.Stop()

	e.SyncAll(context.Background())

	snap := e.Snapshot()
	require.NotNil(t, snap.Screen)
	assert.Equal(t, "Lobby", snap.Screen.Name)
	assert.Len(t, snap.Content, 2)
	assert.Len(t, snap.Messages, 1)
	assert.Equal(t, 2, e.contentRot.Count())
}

func TestFetchFailureServesCachedState(t *testing.T) {
	srv := newStubServer()
	defer srv.srv.Close()

	e := newTestEngine(t, srv)
	defer e.Stop()

	e.SyncAll(context.Background())
	before := e.Snapshot()

	srv.setFailing(true)
	e.SyncAll(context.Background())

	after := e.Snapshot()
	assert.Equal(t, before.Content, after.Content, "failed fetch must not clear cached content")
	assert.Equal(t, before.Messages, after.Messages)
	require.NotNil(t, after.Screen)
	assert.Equal(t, before.Screen.Name, after.Screen.Name)
}

func TestUnchangedFetchLeavesRotationAlone(t *testing.T) {
	srv := newStubServer()
	defer srv.srv.Close()

	e := newTestEngine(t, srv)
	defer e.Stop()

	e.SyncAll(context.Background())
	baseline := e.contentRot.Resets()

	// identical payload again: reconciliation is a no-op
	e.SyncContent(context.Background())
	assert.Equal(t, baseline, e.contentRot.Resets())

	// a changed payload resets the rotation from the top
	srv.mu.Lock()
	srv.content = append(srv.content, model.Content{ID: 3, ScreenID: "s1", Name: "new", Type: "image", URL: "http://x/c.png", Duration: 10, Position: 2})
	srv.mu.Unlock()

	e.SyncContent(context.Background())
	assert.Equal(t, baseline+1, e.contentRot.Resets())
	assert.Equal(t, 0, e.contentRot.Index())
}

func TestHandleEventFetchesOnlyTheAffectedResource(t *testing.T) {
	srv := newStubServer()
	defer srv.srv.Close()

	e := newTestEngine(t, srv)
	defer e.Stop()

	e.SyncAll(context.Background())
	contentBefore := srv.hitCount("content")
	rssBefore := srv.hitCount("rss")
	messagesBefore := srv.hitCount("messages")

	e.HandleEvent(context.Background(), hub.ContentChanged("s1"))

	assert.Equal(t, contentBefore+1, srv.hitCount("content"))
	assert.Equal(t, rssBefore, srv.hitCount("rss"), "content event must not re-fetch rss")
	assert.Equal(t, messagesBefore, srv.hitCount("messages"))
}

func TestPresenceEventIsIgnored(t *testing.T) {
	srv := newStubServer()
	defer srv.srv.Close()

	e := newTestEngine(t, srv)
	defer e.Stop()

	e.SyncAll(context.Background())
	total := func() int {
		return srv.hitCount("screen") + srv.hitCount("content") + srv.hitCount("rss") + srv.hitCount("messages")
	}
	before := total()

	e.HandleEvent(context.Background(), hub.PresenceChanged("s1", time.Now()))
	assert.Equal(t, before, total(), "presence echo must not trigger any fetch")
}

func TestScreenDeletedClearsSnapshot(t *testing.T) {
	srv := newStubServer()
	defer srv.srv.Close()

	e := newTestEngine(t, srv)
	defer e.Stop()

	e.SyncAll(context.Background())
	require.NotEmpty(t, e.Snapshot().Content)

	e.HandleEvent(context.Background(), hub.ScreenDeleted("s1"))

	snap := e.Snapshot()
	assert.Nil(t, snap.Screen)
	assert.Empty(t, snap.Content)
	assert.Equal(t, 0, e.contentRot.Count())
}

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newSocketTestServer upgrades /api/tv/socket connections, reads the
// join command, and drops the connection from the server side.
func newSocketTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tv/socket" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_, _, _ = conn.ReadMessage()
		_ = conn.Close()
	}))
}

func TestSocketEndpointScheme(t *testing.T) {
	s := NewSocket("https://signage.example/base/", "s1", nil)
	endpoint, err := s.endpoint()
	require.NoError(t, err)
	assert.Equal(t, "wss://signage.example/base/api/tv/socket", endpoint)

	s = NewSocket("http://localhost:8080", "s1", nil)
	endpoint, err = s.endpoint()
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/api/tv/socket", endpoint)
}

// Every connection attempt owns its watcher goroutine; a server-side
// disconnect must release it rather than leaving it parked until
// process shutdown, or a flaky network grows one goroutine per
// reconnect cycle.
func TestSocketConnectionsDoNotLeakGoroutines(t *testing.T) {
	srv := newSocketTestServer(t)
	defer srv.Close()

	engine := NewEngine(NewAPIClient(srv.URL), nil, NewRotator(0, nil), NewRotator(0, nil), SyncConfig{ScreenID: "s1"})
	defer engine.Stop()
	sock := NewSocket(srv.URL, "s1", engine)

	endpoint := strings.Replace(srv.URL, "http", "ws", 1) + "/api/tv/socket"
	ctx := context.Background()

	// settle once so lazily-started runtime goroutines don't skew the baseline
	_ = sock.connectOnce(ctx, endpoint)
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for i := 0; i < 8; i++ {
		err := sock.connectOnce(ctx, endpoint)
		assert.Error(t, err, "server closes the connection, read loop must report it")
	}

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline+2
	}, 2*time.Second, 20*time.Millisecond,
		"watcher goroutines must exit with their connection")
}

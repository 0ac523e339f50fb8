package test

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brightline-Tech/argus/internal/db"
)

var initPostgres sync.Once

// postgresStore returns the shared test store, skipping the test when
// no TEST_DATABASE_URL is configured.
func postgresStore(t *testing.T) db.Store {
	t.Helper()
	if os.Getenv("TEST_DATABASE_URL") == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres integration test")
	}
	initPostgres.Do(func() {
		if err := db.InitTestDB("../migrations"); err != nil {
			t.Errorf("init test db: %v", err)
		}
	})
	if db.TestStore == nil {
		t.Fatal("test database unavailable")
	}
	return db.TestStore
}

// TestHeartbeatUpsertAgainstPostgres exercises the real INSERT ... ON
// CONFLICT path, including the created flag derived from xmax.
func TestHeartbeatUpsertAgainstPostgres(t *testing.T) {
	store := postgresStore(t)
	id := "itest-hb-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { _ = store.DeleteScreen(id) })

	t0 := time.Now().UTC().Truncate(time.Microsecond)
	first, err := store.RecordViewerHeartbeat(id, t0)
	require.NoError(t, err)
	assert.True(t, first.Created)

	t1 := t0.Add(10 * time.Second)
	second, err := store.RecordViewerHeartbeat(id, t1)
	require.NoError(t, err)
	assert.False(t, second.Created, "second heartbeat must update, not insert")
	assert.True(t, second.LastSeen.Equal(t1))

	screen, err := store.GetScreenByID(id)
	require.NoError(t, err)
	require.NotNil(t, screen.LastSeen)
	assert.True(t, screen.LastSeen.Equal(t1))
}

func TestEnsureScreenAgainstPostgres(t *testing.T) {
	store := postgresStore(t)
	id := "itest-ensure-" + time.Now().Format("150405.000000000")
	t.Cleanup(func() { _ = store.DeleteScreen(id) })

	screen, created, err := store.EnsureScreen(id)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, id, screen.ID)
	assert.Nil(t, screen.LastSeen, "lazy creation must not set last_seen")

	_, created, err = store.EnsureScreen(id)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestScreenDeleteCascadesAgainstPostgres(t *testing.T) {
	store := postgresStore(t)
	id := "itest-cascade-" + time.Now().Format("150405.000000000")

	_, _, err := store.EnsureScreen(id)
	require.NoError(t, err)
	_, err = store.CreateContent(id, "promo", "image", "http://x/a.png", 10)
	require.NoError(t, err)
	_, err = store.CreateMessage(id, "welcome")
	require.NoError(t, err)

	require.NoError(t, store.DeleteScreen(id))

	content, err := store.ListContentForScreen(id)
	require.NoError(t, err)
	assert.Empty(t, content)
	messages, err := store.ListMessagesForScreen(id)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s *Subscriber) []Event {
	t.Helper()
	var out []Event
	for {
		select {
		case raw, ok := <-s.Events():
			if !ok {
				return out
			}
			var ev Event
			require.NoError(t, json.Unmarshal(raw, &ev))
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestPublishReachesRoomMembers(t *testing.T) {
	h := New()
	viewer := h.Register(false)
	other := h.Register(false)
	h.JoinScreen(viewer, "s1")
	h.JoinScreen(other, "s2")

	h.Publish(ContentChanged("s1"))

	got := drain(t, viewer)
	require.Len(t, got, 1)
	assert.Equal(t, EventContentChanged, got[0].Type)
	assert.Equal(t, "s1", got[0].ScreenID)

	assert.Empty(t, drain(t, other), "subscriber in another room must not see the event")
}

func TestAdminsSeeAllRooms(t *testing.T) {
	h := New()
	admin := h.Register(true)

	h.Publish(ContentChanged("s1"))
	h.Publish(MessagesChanged("s2"))

	got := drain(t, admin)
	require.Len(t, got, 2)
}

// An admin joined to a screen room must not receive the same event twice.
func TestAdminInRoomDeliveredOnce(t *testing.T) {
	h := New()
	admin := h.Register(true)
	h.JoinScreen(admin, "s1")

	h.Publish(ContentChanged("s1"))

	assert.Len(t, drain(t, admin), 1)
}

func TestSubscriberBelongsToOneRoom(t *testing.T) {
	h := New()
	sub := h.Register(false)

	h.JoinScreen(sub, "s1")
	h.JoinScreen(sub, "s2")

	assert.Equal(t, 0, h.RoomSize("s1"))
	assert.Equal(t, 1, h.RoomSize("s2"))

	h.Publish(ContentChanged("s1"))
	assert.Empty(t, drain(t, sub))

	h.Publish(ContentChanged("s2"))
	assert.Len(t, drain(t, sub), 1)
}

func TestEventsDeliveredInEmissionOrder(t *testing.T) {
	h := New()
	sub := h.Register(false)
	h.JoinScreen(sub, "s1")

	h.Publish(ContentChanged("s1"))
	h.Publish(MessagesChanged("s1"))
	h.Publish(ScreenRenamed("s1", "lobby"))

	got := drain(t, sub)
	require.Len(t, got, 3)
	assert.Equal(t, EventContentChanged, got[0].Type)
	assert.Equal(t, EventMessagesChanged, got[1].Type)
	assert.Equal(t, EventScreenRenamed, got[2].Type)
}

func TestUnregisterRemovesFromRoomAndClosesChannel(t *testing.T) {
	h := New()
	sub := h.Register(false)
	h.JoinScreen(sub, "s1")

	h.Unregister(sub)
	assert.Equal(t, 0, h.RoomSize("s1"))

	// publishing after unregister must not panic or deliver
	h.Publish(ContentChanged("s1"))

	_, ok := <-sub.Events()
	assert.False(t, ok, "events channel should be closed")
}

// A backed-up subscriber loses events instead of blocking fan-out.
func TestFullSubscriberDropsSilently(t *testing.T) {
	h := New()
	h.sendBuffer = 1
	slow := h.Register(false)
	h.sendBuffer = 64
	fast := h.Register(false)
	h.JoinScreen(slow, "s1")
	h.JoinScreen(fast, "s1")

	h.Publish(ContentChanged("s1"))
	h.Publish(MessagesChanged("s1"))

	assert.Len(t, drain(t, slow), 1, "second event dropped for full buffer")
	assert.Len(t, drain(t, fast), 2)
}

func TestPresenceChangedCarriesLastSeen(t *testing.T) {
	h := New()
	sub := h.Register(false)
	h.JoinScreen(sub, "s1")

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h.Publish(PresenceChanged("s1", ts))

	got := drain(t, sub)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].LastSeen)
	assert.True(t, got[0].LastSeen.Equal(ts))
}

// Package hub fans domain events out to connected admin and screen
// sessions. Delivery is fire-and-forget, at-most-once per subscriber;
// the clients' periodic resync is the correctness backstop, the hub is
// a latency optimization.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Mirror receives a copy of every published event (optional; used to
// bridge events onto MQTT for devices that cannot hold a WebSocket).
type Mirror interface {
	Mirror(ev Event, payload []byte)
}

// Subscriber is one connected session. Events arrive on Events() in
// emission order; a subscriber that cannot keep up has events dropped
// rather than stalling fan-out to the rest.
type Subscriber struct {
	ID    string
	admin bool
	send  chan []byte

	mu     sync.Mutex
	room   string // screen scope key, empty when not joined
	closed bool
}

// Events is the subscriber's delivery channel. It is closed when the
// subscriber is unregistered.
func (s *Subscriber) Events() <-chan []byte { return s.send }

// push enqueues a payload unless the subscriber is gone or backed up.
func (s *Subscriber) push(payload []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Hub is the room registry. A subscriber belongs to at most one
// screen room at a time; admin subscribers additionally receive every
// event regardless of room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Subscriber]struct{} // screen id -> members
	admins map[*Subscriber]struct{}
	mirror Mirror

	sendBuffer int
}

func New() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Subscriber]struct{}),
		admins:     make(map[*Subscriber]struct{}),
		sendBuffer: 64,
	}
}

// SetMirror attaches an optional event mirror (e.g. the MQTT bridge).
func (h *Hub) SetMirror(m Mirror) { h.mirror = m }

// Register creates a subscriber. Admin subscribers see all events.
func (h *Hub) Register(admin bool) *Subscriber {
	s := &Subscriber{
		ID:    uuid.NewString(),
		admin: admin,
		send:  make(chan []byte, h.sendBuffer),
	}
	if admin {
		h.mu.Lock()
		h.admins[s] = struct{}{}
		h.mu.Unlock()
	}
	log.Debug().Str("subscriber_id", s.ID).Bool("admin", admin).Msg("subscriber registered")
	return s
}

// JoinScreen moves the subscriber into a screen room, leaving any
// previous room first. Clients must re-join after every reconnect;
// the hub keeps no room memory across connections.
func (h *Hub) JoinScreen(s *Subscriber, screenID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s.mu.Lock()
	prev := s.room
	s.room = screenID
	s.mu.Unlock()

	if prev != "" {
		h.removeFromRoom(prev, s)
	}
	if h.rooms[screenID] == nil {
		h.rooms[screenID] = make(map[*Subscriber]struct{})
	}
	h.rooms[screenID][s] = struct{}{}
	log.Debug().Str("subscriber_id", s.ID).Str("screen_id", screenID).Msg("subscriber joined room")
}

// LeaveScreen removes the subscriber from its current room, if any.
func (h *Hub) LeaveScreen(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s.mu.Lock()
	prev := s.room
	s.room = ""
	s.mu.Unlock()

	if prev != "" {
		h.removeFromRoom(prev, s)
	}
}

// Unregister removes the subscriber from all scopes and closes its
// delivery channel. Must be called exactly once, on disconnect.
func (h *Hub) Unregister(s *Subscriber) {
	h.mu.Lock()
	s.mu.Lock()
	prev := s.room
	s.room = ""
	alreadyClosed := s.closed
	s.closed = true
	s.mu.Unlock()

	if prev != "" {
		h.removeFromRoom(prev, s)
	}
	delete(h.admins, s)
	h.mu.Unlock()

	if !alreadyClosed {
		close(s.send)
	}
	log.Debug().Str("subscriber_id", s.ID).Msg("subscriber unregistered")
}

// caller must hold h.mu
func (h *Hub) removeFromRoom(screenID string, s *Subscriber) {
	if m, ok := h.rooms[screenID]; ok {
		delete(m, s)
		if len(m) == 0 {
			delete(h.rooms, screenID)
		}
	}
}

// Publish delivers the event to the screen's room members and to all
// admin subscribers. The payload is marshalled once; a full or stale
// subscriber is skipped silently so one slow session never blocks the
// rest of the fan-out.
func (h *Hub) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("type", string(ev.Type)).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	targets := make([]*Subscriber, 0, len(h.admins)+len(h.rooms[ev.ScreenID]))
	seen := make(map[*Subscriber]struct{}, len(h.admins)+len(h.rooms[ev.ScreenID]))
	for s := range h.rooms[ev.ScreenID] {
		targets = append(targets, s)
		seen[s] = struct{}{}
	}
	for s := range h.admins {
		if _, ok := seen[s]; !ok {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if !s.push(payload) {
			log.Warn().Str("subscriber_id", s.ID).Str("type", string(ev.Type)).
				Msg("dropping event for stale or backed-up subscriber")
		}
	}

	if h.mirror != nil {
		h.mirror.Mirror(ev, payload)
	}
}

// RoomSize reports how many subscribers are in a screen room.
func (h *Hub) RoomSize(screenID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[screenID])
}

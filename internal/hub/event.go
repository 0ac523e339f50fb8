package hub

import "time"

// EventType names a domain event pushed to connected sessions.
type EventType string

const (
	EventPresenceChanged   EventType = "presence_changed"
	EventContentChanged    EventType = "content_changed"
	EventMessagesChanged   EventType = "messages_changed"
	EventScreenRenamed     EventType = "screen_renamed"
	EventScreenLogoChanged EventType = "screen_logo_changed"
	EventScreenDeleted     EventType = "screen_deleted"
)

// Event is the wire envelope broadcast to subscribers. Delivery is
// best-effort to currently-connected sessions; clients reconcile via
// their periodic resync, so no replay is kept.
type Event struct {
	Type     EventType  `json:"type"`
	ScreenID string     `json:"screen_id"`
	Name     string     `json:"name,omitempty"`
	LogoURL  string     `json:"logo_url,omitempty"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

func PresenceChanged(screenID string, lastSeen time.Time) Event {
	return Event{Type: EventPresenceChanged, ScreenID: screenID, LastSeen: &lastSeen}
}

func ContentChanged(screenID string) Event {
	return Event{Type: EventContentChanged, ScreenID: screenID}
}

func MessagesChanged(screenID string) Event {
	return Event{Type: EventMessagesChanged, ScreenID: screenID}
}

func ScreenRenamed(screenID, name string) Event {
	return Event{Type: EventScreenRenamed, ScreenID: screenID, Name: name}
}

func ScreenLogoChanged(screenID, logoURL string) Event {
	return Event{Type: EventScreenLogoChanged, ScreenID: screenID, LogoURL: logoURL}
}

func ScreenDeleted(screenID string) Event {
	return Event{Type: EventScreenDeleted, ScreenID: screenID}
}

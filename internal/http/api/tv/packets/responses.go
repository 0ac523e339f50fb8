package packets

import "time"

type HeartbeatResponse struct {
	Created  bool       `json:"created"`
	Updated  bool       `json:"updated"`
	LastSeen *time.Time `json:"last_seen,omitempty"`
}

// ScreenResponse is the public view of a screen served to rendering
// clients. Volatile admin-only fields are not exposed.
type ScreenResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Location *string `json:"location"`
	LogoURL  *string `json:"logo_url"`
}

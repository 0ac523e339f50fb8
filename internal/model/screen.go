package model

import "time"

// Screen represents a display device in the system. The ID is the
// opaque device identifier reported by the rendering client.
type Screen struct {
	ID        string     `db:"id"         json:"id"`
	Name      string     `db:"name"       json:"name"`
	Location  *string    `db:"location"   json:"location"`
	LogoURL   *string    `db:"logo_url"   json:"logo_url"`
	LastSeen  *time.Time `db:"last_seen"  json:"last_seen"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

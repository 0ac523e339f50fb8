package model

import "time"

// RSSItem is one ticker headline. Items are ingested by an external
// feed worker; this service only stores and serves them per screen.
type RSSItem struct {
	ID        int       `db:"id"         json:"id"`
	ScreenID  string    `db:"screen_id"  json:"screen_id"`
	Title     string    `db:"title"      json:"title"`
	Link      string    `db:"link"       json:"link"`
	Published time.Time `db:"published"  json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package model

import "time"

// Message is a scrolling text message shown on a screen's ticker.
type Message struct {
	ID        int       `db:"id"         json:"id"`
	ScreenID  string    `db:"screen_id"  json:"screen_id"`
	Body      string    `db:"body"       json:"body"`
	Position  int       `db:"position"   json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

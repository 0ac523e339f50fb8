package model

import "time"

type Content struct {
	ID        int       `db:"id"         json:"id"`
	ScreenID  string    `db:"screen_id"  json:"screen_id"`
	Name      string    `db:"name"       json:"name"`
	Type      string    `db:"type"       json:"type"`
	URL       string    `db:"url"        json:"url"`
	Duration  int       `db:"duration"   json:"duration"`
	Position  int       `db:"position"   json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

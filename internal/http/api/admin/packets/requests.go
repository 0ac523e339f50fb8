package packets

import "time"

type UpdateScreenRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	LogoURL  *string `json:"logo_url"`
}

type AssignScreenRequest struct {
	UserID int `json:"user_id" binding:"required"`
}

type ClaimScreenRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
}

type CreateContentRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	URL      string `json:"url" binding:"required"`
	Duration int    `json:"duration"`
}

type UpdateContentRequest struct {
	Name     *string `json:"name"`
	Type     *string `json:"type"`
	URL      *string `json:"url"`
	Duration *int    `json:"duration"`
}

type CreateMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type UpdateMessageRequest struct {
	Body     *string `json:"body"`
	Position *int    `json:"position"`
}

type RSSItemPayload struct {
	Title     string    `json:"title" binding:"required"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
}

type ReplaceRSSRequest struct {
	Items []RSSItemPayload `json:"items"`
}

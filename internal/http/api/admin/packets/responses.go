package packets

// ScreenResponse mirrors model.Screen but flattens times to RFC3339 and
// attaches the derived presence state.
type ScreenResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Location  *string `json:"location"`
	LogoURL   *string `json:"logo_url"`
	LastSeen  *string `json:"last_seen"`
	Presence  string  `json:"presence"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type ContentResponse struct {
	ID        int    `json:"id"`
	ScreenID  string `json:"screen_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Duration  int    `json:"duration"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type MessageResponse struct {
	ID        int    `json:"id"`
	ScreenID  string `json:"screen_id"`
	Body      string `json:"body"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

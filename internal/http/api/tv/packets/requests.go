package packets

// HeartbeatRequest carries the caller-supplied client kind. Legacy
// players send an empty body and are classified heuristically.
type HeartbeatRequest struct {
	Kind string `json:"kind"` // "viewer" or "operator"
}

// RegisterPairingCodeRequest binds a short code a device shows on
// screen to its opaque screen id.
type RegisterPairingCodeRequest struct {
	PairingCode string `json:"pairing_code" binding:"required"`
	ScreenID    string `json:"screen_id" binding:"required"`
}

// SocketCommand is a client -> server message on the event socket.
type SocketCommand struct {
	Action   string `json:"action"` // "join" or "leave"
	ScreenID string `json:"screen_id"`
}

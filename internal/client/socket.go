package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/hub"
)

const (
	socketDialTimeout      = 10 * time.Second
	socketReconnectBackoff = 5 * time.Second
)

// Socket keeps the event channel to the server alive. On every
// (re)connection it joins the screen's room again, since the hub keeps
// no membership across connections, and tells the engine to run an
// out-of-band sync covering whatever was missed while disconnected.
type Socket struct {
	serverURL string
	screenID  string
	engine    *Engine
}

func NewSocket(serverURL, screenID string, engine *Engine) *Socket {
	return &Socket{serverURL: serverURL, screenID: screenID, engine: engine}
}

func (s *Socket) endpoint() (string, error) {
	u, err := url.Parse(s.serverURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/tv/socket"
	return u.String(), nil
}

// Run dials, joins, and pumps events until ctx is cancelled,
// reconnecting with a fixed backoff.
func (s *Socket) Run(ctx context.Context) {
	endpoint, err := s.endpoint()
	if err != nil {
		log.Error().Err(err).Str("server", s.serverURL).Msg("invalid server url, event socket disabled")
		return
	}

	first := true
	for ctx.Err() == nil {
		if !first {
			select {
			case <-time.After(socketReconnectBackoff):
			case <-ctx.Done():
				return
			}
		}
		first = false

		if err := s.connectOnce(ctx, endpoint); err != nil {
			log.Warn().Err(err).Msg("event socket connection lost")
		}
	}
}

func (s *Socket) connectOnce(ctx context.Context, endpoint string) error {
	dialer := websocket.Dialer{HandshakeTimeout: socketDialTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	join, _ := json.Marshal(map[string]string{"action": "join", "screen_id": s.screenID})
	if err := conn.WriteMessage(websocket.TextMessage, join); err != nil {
		return err
	}

	// room joined; catch up on anything missed while disconnected
	s.engine.Reconnected(ctx)

	// the watcher must not outlive this connection; done releases it
	// when the read loop exits on its own
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev hub.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			log.Warn().Msg("ignoring malformed event payload")
			continue
		}
		s.engine.HandleEvent(ctx, ev)
	}
}

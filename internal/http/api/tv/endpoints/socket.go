package endpoints

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/http/middleware"
	"github.com/Brightline-Tech/argus/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const (
	socketWriteWait = 10 * time.Second
	socketPingEvery = 30 * time.Second
)

// SocketModule mounts the real-time event channel. Rendering clients
// connect anonymously and join their screen's room; admin panels pass
// ?token=<jwt> and additionally receive every event.
func SocketModule(secret string, store db.Store, events *hub.Hub) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Raw(http.MethodGet, "/socket", serveSocket(secret, store, events))
	})
}

func serveSocket(secret string, store db.Store, events *hub.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := false
		if token := c.Query("token"); token != "" {
			userID, err := middleware.ParseJWT(token, secret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			if _, err := store.GetUserByID(userID); err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
			admin = true
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		sub := events.Register(admin)
		log.Info().Str("subscriber_id", sub.ID).Bool("admin", admin).Msg("socket connected")

		go socketWriter(conn, sub)
		socketReader(conn, sub, events)

		events.Unregister(sub)
		_ = conn.Close()
		log.Info().Str("subscriber_id", sub.ID).Msg("socket disconnected")
	}
}

// socketReader handles join/leave commands until the connection drops.
// Room membership dies with the connection; clients re-join after every
// reconnect.
func socketReader(conn *websocket.Conn, sub *hub.Subscriber, events *hub.Hub) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd packets.SocketCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			log.Warn().Str("subscriber_id", sub.ID).Msg("ignoring malformed socket command")
			continue
		}

		switch cmd.Action {
		case "join":
			if cmd.ScreenID != "" {
				events.JoinScreen(sub, cmd.ScreenID)
			}
		case "leave":
			events.LeaveScreen(sub)
		default:
			log.Warn().Str("action", cmd.Action).Msg("unknown socket command")
		}
	}
}

// socketWriter drains the subscriber's event channel onto the wire and
// keeps the connection alive with pings.
func socketWriter(conn *websocket.Conn, sub *hub.Subscriber) {
	ticker := time.NewTicker(socketPingEvery)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(socketWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

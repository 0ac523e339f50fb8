package endpoints

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	"github.com/Brightline-Tech/argus/internal/hub"
)

// ViewerClientHeader tags a request as coming from a rendering client.
// Players set it to "player"; the admin panel sets it to "panel".
const ViewerClientHeader = "X-Argus-Client"

type ScreenController struct {
	store  db.Store
	events *hub.Hub
}

func newScreenController(store db.Store, events *hub.Hub) *ScreenController {
	return &ScreenController{store: store, events: events}
}

// ScreenModule mounts the public endpoints rendering clients consume.
func ScreenModule(store db.Store, events *hub.Hub) api.Module {
	ctl := newScreenController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/screens/:id", ctl.getScreen)
		c.PUBLIC_POST("/screens/:id/heartbeat", ctl.heartbeat)
		c.PUBLIC_GET("/screens/:id/content", ctl.getContent)
		c.PUBLIC_GET("/screens/:id/rss-content", ctl.getRSS)
		c.PUBLIC_GET("/screens/:id/messages", ctl.getMessages)
	})
}

// GET /api/tv/screens/:id
// Fetch-or-lazily-create. First contact creates the row and grants all
// existing admins visibility; presence is untouched.
func (t *ScreenController) getScreen(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")

	screen, created, err := t.store.EnsureScreen(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load screen"}
	}
	if created {
		if err := t.store.GrantScreenToAllAdmins(screen.ID); err != nil {
			log.Error().Err(err).Str("screen_id", screen.ID).Msg("failed to grant new screen to admins")
		}
	}

	return packets.ScreenResponse{
		ID:       screen.ID,
		Name:     screen.Name,
		Location: screen.Location,
		LogoURL:  screen.LogoURL,
	}, nil
}

// heartbeatKind resolves the heartbeat source. An explicit kind in the
// body wins; otherwise the client header and referrer are sniffed, and
// anything ambiguous defaults to viewer, since under-counting liveness
// is worse than an extra timestamp bump from an admin tab. The fallback
// path is logged so misclassification stays observable.
func heartbeatKind(ctx *gin.Context, request packets.HeartbeatRequest) string {
	switch request.Kind {
	case "viewer", "operator":
		return request.Kind
	}

	kind := "viewer"
	client := ctx.GetHeader(ViewerClientHeader)
	referer := ctx.GetHeader("Referer")
	if client == "panel" || strings.Contains(referer, "/admin") {
		kind = "operator"
	}
	log.Info().
		Str("screen_id", ctx.Param("id")).
		Str("client_header", client).
		Str("resolved_kind", kind).
		Msg("heartbeat kind resolved heuristically")
	return kind
}

// POST /api/tv/screens/:id/heartbeat
// Viewer heartbeats upsert the screen row and bump last_seen; operator
// heartbeats are acknowledged with no side effect. A heartbeat never
// fails the caller over classification ambiguity.
func (t *ScreenController) heartbeat(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")

	var request packets.HeartbeatRequest
	// empty body is fine; legacy players send none
	_ = ctx.ShouldBindJSON(&request)

	if heartbeatKind(ctx, request) == "operator" {
		return packets.HeartbeatResponse{}, nil
	}

	result, err := t.store.RecordViewerHeartbeat(id, time.Now())
	if err != nil {
		// the upsert retries the insert race internally; a second
		// failure is a genuine store fault
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not record heartbeat"}
	}
	if result.Created {
		if err := t.store.GrantScreenToAllAdmins(id); err != nil {
			log.Error().Err(err).Str("screen_id", id).Msg("failed to grant new screen to admins")
		}
	}

	t.events.Publish(hub.PresenceChanged(id, result.LastSeen))

	return packets.HeartbeatResponse{
		Created:  result.Created,
		Updated:  !result.Created,
		LastSeen: &result.LastSeen,
	}, nil
}

// GET /api/tv/screens/:id/content
func (t *ScreenController) getContent(ctx *gin.Context) (any, *api.APIError) {
	items, err := t.store.ListContentForScreen(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list content"}
	}
	return items, nil
}

// GET /api/tv/screens/:id/rss-content
func (t *ScreenController) getRSS(ctx *gin.Context) (any, *api.APIError) {
	items, err := t.store.ListRSSForScreen(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list rss items"}
	}
	return items, nil
}

// GET /api/tv/screens/:id/messages
func (t *ScreenController) getMessages(ctx *gin.Context) (any, *api.APIError) {
	items, err := t.store.ListMessagesForScreen(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list messages"}
	}
	return items, nil
}

package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/admin/packets"
	"github.com/Brightline-Tech/argus/internal/hub"
	"github.com/Brightline-Tech/argus/internal/model"
	"github.com/Brightline-Tech/argus/internal/presence"
	redisclient "github.com/Brightline-Tech/argus/internal/redis"
)

type ScreenController struct {
	store  db.Store
	events *hub.Hub
}

func newScreenController(store db.Store, events *hub.Hub) *ScreenController {
	return &ScreenController{store: store, events: events}
}

// ScreenModule mounts all authenticated /screens endpoints.
func ScreenModule(store db.Store, events *hub.Hub) api.Module {
	ctl := newScreenController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens", ctl.listScreens)
		c.GET("/screens/:id", ctl.getScreen)
		c.PUT("/screens/:id", ctl.updateScreen)
		c.DELETE("/screens/:id", ctl.deleteScreen)

		// pairing & assignment
		c.POST("/screens/claim", ctl.claimScreen)
		c.POST("/screens/:id/assign", ctl.assignScreenToUser)
	})
}

func screenResponse(s model.Screen, now time.Time) packets.ScreenResponse {
	var lastSeen *string
	if s.LastSeen != nil {
		v := s.LastSeen.Format(time.RFC3339)
		lastSeen = &v
	}
	return packets.ScreenResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		LogoURL:   s.LogoURL,
		LastSeen:  lastSeen,
		Presence:  string(presence.Classify(s.LastSeen, now)),
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/screens
func (t *ScreenController) listScreens(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListScreensForUser(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	now := time.Now()
	out := make([]packets.ScreenResponse, 0, len(all))
	for _, s := range all {
		out = append(out, screenResponse(s, now))
	}
	return out, nil
}

// GET /api/admin/screens/:id
func (t *ScreenController) getScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.authorizedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}
	return screenResponse(screen, time.Now()), nil
}

// PUT /api/admin/screens/:id
// Renames a screen or swaps its logo; either change is fanned out to
// connected sessions.
func (t *ScreenController) updateScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.authorizedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.UpdateScreen(screen.ID, request.Name, request.Location, request.LogoURL); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update screen"}
	}

	if request.Name != nil && *request.Name != screen.Name {
		t.events.Publish(hub.ScreenRenamed(screen.ID, *request.Name))
	}
	if request.LogoURL != nil {
		t.events.Publish(hub.ScreenLogoChanged(screen.ID, *request.LogoURL))
	}

	updated, err := t.store.GetScreenByID(screen.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated screen"}
	}
	return screenResponse(updated, time.Now()), nil
}

// DELETE /api/admin/screens/:id
func (t *ScreenController) deleteScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.authorizedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := t.store.DeleteScreen(screen.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete screen"}
	}

	t.events.Publish(hub.ScreenDeleted(screen.ID))
	return gin.H{"deleted": true}, nil
}

// POST /api/admin/screens/claim
// Claims a pairing code a device registered earlier and grants the
// calling admin access to the bound screen.
func (t *ScreenController) claimScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ClaimScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	screenID, err := redisclient.Get(ctx, request.PairingCode)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "pairing lookup failed"}
	}
	if screenID == "" {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "unknown pairing code"}
	}

	screen, _, err := t.store.EnsureScreen(screenID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create screen"}
	}
	if err := t.store.AssignScreenToUser(screen.ID, user.ID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not assign screen"}
	}
	redisclient.Del(ctx, request.PairingCode)

	log.Info().Str("screen_id", screen.ID).Int("user_id", user.ID).Msg("screen claimed via pairing code")
	return screenResponse(screen, time.Now()), nil
}

// POST /api/admin/screens/:id/assign
func (t *ScreenController) assignScreenToUser(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screen, apiErr := t.authorizedScreen(ctx, user)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.AssignScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := t.store.AssignScreenToUser(screen.ID, request.UserID); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not assign screen"}
	}
	return gin.H{"assigned": true}, nil
}

// authorizedScreen loads the :id screen and checks the caller can see it.
func (t *ScreenController) authorizedScreen(ctx *gin.Context, user *model.User) (model.Screen, *api.APIError) {
	id := ctx.Param("id")
	if id == "" {
		return model.Screen{}, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	screen, err := t.store.GetScreenByID(id)
	if err != nil {
		return model.Screen{}, &api.APIError{Code: http.StatusNotFound, Message: "screen not found"}
	}

	allowed, err := t.store.HasScreenPermission(screen.ID, user.ID)
	if err != nil {
		return model.Screen{}, &api.APIError{Code: http.StatusInternalServerError, Message: "permission check failed"}
	}
	if !allowed {
		log.Error().
			Int("user_id", user.ID).
			Str("screen_id", screen.ID).
			Msg("forbidden access to screen")
		return model.Screen{}, &api.APIError{Code: http.StatusForbidden, Message: "forbidden"}
	}
	return screen, nil
}

package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/admin/packets"
	"github.com/Brightline-Tech/argus/internal/hub"
	"github.com/Brightline-Tech/argus/internal/model"
)

type ContentController struct {
	store  db.Store
	events *hub.Hub
}

func newContentController(store db.Store, events *hub.Hub) *ContentController {
	return &ContentController{store: store, events: events}
}

// ContentModule mounts the per-screen content endpoints. Every mutation
// fans a content_changed event out so connected views refetch.
func ContentModule(store db.Store, events *hub.Hub) api.Module {
	ctl := newContentController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens/:id/content", ctl.listContent)
		c.POST("/screens/:id/content", ctl.createContent)
		c.PUT("/content/:id", ctl.updateContent)
		c.DELETE("/content/:id", ctl.deleteContent)
	})
}

func contentResponse(c model.Content) packets.ContentResponse {
	return packets.ContentResponse{
		ID:        c.ID,
		ScreenID:  c.ScreenID,
		Name:      c.Name,
		Type:      c.Type,
		URL:       c.URL,
		Duration:  c.Duration,
		Position:  c.Position,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/screens/:id/content
func (c *ContentController) listContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screenID := ctx.Param("id")
	all, err := c.store.ListContentForScreen(screenID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	out := make([]packets.ContentResponse, 0, len(all))
	for _, item := range all {
		out = append(out, contentResponse(item))
	}
	return out, nil
}

// POST /api/admin/screens/:id/content
func (c *ContentController) createContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screenID := ctx.Param("id")

	var request packets.CreateContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if request.Duration <= 0 {
		request.Duration = 10
	}

	created, err := c.store.CreateContent(screenID, request.Name, request.Type, request.URL, request.Duration)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create content"}
	}

	c.events.Publish(hub.ContentChanged(screenID))
	return contentResponse(created), nil
}

// PUT /api/admin/content/:id
func (c *ContentController) updateContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := c.store.GetContentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}

	var request packets.UpdateContentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := c.store.UpdateContent(id, request.Name, request.Type, request.URL, request.Duration); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update content"}
	}

	c.events.Publish(hub.ContentChanged(existing.ScreenID))

	updated, err := c.store.GetContentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated content"}
	}
	return contentResponse(updated), nil
}

// DELETE /api/admin/content/:id
func (c *ContentController) deleteContent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := c.store.GetContentByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "content not found"}
	}

	if err := c.store.DeleteContent(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete content"}
	}

	c.events.Publish(hub.ContentChanged(existing.ScreenID))
	return gin.H{"deleted": true}, nil
}

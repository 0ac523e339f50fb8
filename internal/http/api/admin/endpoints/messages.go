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

type MessageController struct {
	store  db.Store
	events *hub.Hub
}

func newMessageController(store db.Store, events *hub.Hub) *MessageController {
	return &MessageController{store: store, events: events}
}

// MessageModule mounts the scrolling-message endpoints.
func MessageModule(store db.Store, events *hub.Hub) api.Module {
	ctl := newMessageController(store, events)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens/:id/messages", ctl.listMessages)
		c.POST("/screens/:id/messages", ctl.createMessage)
		c.PUT("/messages/:id", ctl.updateMessage)
		c.DELETE("/messages/:id", ctl.deleteMessage)
	})
}

func messageResponse(m model.Message) packets.MessageResponse {
	return packets.MessageResponse{
		ID:        m.ID,
		ScreenID:  m.ScreenID,
		Body:      m.Body,
		Position:  m.Position,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/screens/:id/messages
func (m *MessageController) listMessages(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screenID := ctx.Param("id")
	all, err := m.store.ListMessagesForScreen(screenID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	out := make([]packets.MessageResponse, 0, len(all))
	for _, msg := range all {
		out = append(out, messageResponse(msg))
	}
	return out, nil
}

// POST /api/admin/screens/:id/messages
func (m *MessageController) createMessage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screenID := ctx.Param("id")

	var request packets.CreateMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	created, err := m.store.CreateMessage(screenID, request.Body)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create message"}
	}

	m.events.Publish(hub.MessagesChanged(screenID))
	return messageResponse(created), nil
}

// PUT /api/admin/messages/:id
func (m *MessageController) updateMessage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := m.store.GetMessageByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "message not found"}
	}

	var request packets.UpdateMessageRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	if err := m.store.UpdateMessage(id, request.Body, request.Position); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update message"}
	}

	m.events.Publish(hub.MessagesChanged(existing.ScreenID))

	updated, err := m.store.GetMessageByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch updated message"}
	}
	return messageResponse(updated), nil
}

// DELETE /api/admin/messages/:id
func (m *MessageController) deleteMessage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := m.store.GetMessageByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "message not found"}
	}

	if err := m.store.DeleteMessage(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete message"}
	}

	m.events.Publish(hub.MessagesChanged(existing.ScreenID))
	return gin.H{"deleted": true}, nil
}

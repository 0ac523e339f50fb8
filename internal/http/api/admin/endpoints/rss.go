package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/admin/packets"
	"github.com/Brightline-Tech/argus/internal/model"
)

type RSSController struct {
	store db.Store
}

// RSSModule mounts the ticker-item endpoints. The external feed worker
// pushes parsed items through the replace endpoint; clients pick the
// change up on their periodic resync (no dedicated bus event).
func RSSModule(store db.Store) api.Module {
	ctl := &RSSController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/screens/:id/rss-content", ctl.listRSS)
		c.PUT("/screens/:id/rss-content", ctl.replaceRSS)
	})
}

// GET /api/admin/screens/:id/rss-content
func (r *RSSController) listRSS(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screenID := ctx.Param("id")
	items, err := r.store.ListRSSForScreen(screenID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	return items, nil
}

// PUT /api/admin/screens/:id/rss-content
func (r *RSSController) replaceRSS(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	screenID := ctx.Param("id")

	var request packets.ReplaceRSSRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	items := make([]model.RSSItem, 0, len(request.Items))
	for _, p := range request.Items {
		items = append(items, model.RSSItem{
			ScreenID:  screenID,
			Title:     p.Title,
			Link:      p.Link,
			Published: p.Published,
		})
	}

	if err := r.store.ReplaceRSSForScreen(screenID, items); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not replace rss items"}
	}
	return gin.H{"replaced": len(items)}, nil
}

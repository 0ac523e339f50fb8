package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/http/api"
	adminapi "github.com/Brightline-Tech/argus/internal/http/api/admin/endpoints"
	authapi "github.com/Brightline-Tech/argus/internal/http/api/admin/auth/endpoints"
	clientapi "github.com/Brightline-Tech/argus/internal/http/api/tv/endpoints"
	"github.com/Brightline-Tech/argus/internal/hub"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, events *hub.Hub) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			clientapi.ViewerClientHeader,
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.ScreenModule(store, events),
		adminapi.ContentModule(store, events),
		adminapi.MessageModule(store, events),
		adminapi.RSSModule(store),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/tv",
	},
		clientapi.ScreenModule(store, events),
		clientapi.PairingModule(),
		clientapi.SocketModule(env.SecretKey, store, events),
	)
}

package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/http/api"
	"github.com/Brightline-Tech/argus/internal/http/api/tv/packets"
	redisclient "github.com/Brightline-Tech/argus/internal/redis"
)

// pairing codes expire if no admin claims them
const pairingCodeTTL = 15 * time.Minute

// PairingModule mounts the device-side pairing endpoint. The device
// shows a short code on screen; an admin claims it to get access to
// the screen record. Pairing never touches presence.
func PairingModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/register", registerPairingCode)
	})
}

// registerPairingCode stores pairing_code -> screen_id in redis with a
// TTL and echoes the screen id back to the device.
func registerPairingCode(ctx *gin.Context) (any, *api.APIError) {
	var request packets.RegisterPairingCodeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	redisclient.Set(ctx, request.PairingCode, request.ScreenID, pairingCodeTTL)

	log.Info().Str("screen_id", request.ScreenID).Msg("pairing code registered")
	return gin.H{"screen_id": request.ScreenID}, nil
}

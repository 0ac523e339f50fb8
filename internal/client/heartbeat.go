package client

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultHeartbeatInterval = 10 * time.Second

// RunHeartbeat pings the server on a fixed cadence so the admin panel
// sees the screen as online. Failures are logged and retried next tick;
// a missed beat only ages the presence state, it never stops playback.
func RunHeartbeat(ctx context.Context, api *APIClient, screenID string, interval time.Duration) {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resp, err := api.Heartbeat(ctx, screenID)
			if err != nil {
				log.Warn().Err(err).Str("screen_id", screenID).Msg("heartbeat failed")
				continue
			}
			if resp.Created {
				log.Info().Str("screen_id", screenID).Msg("screen registered on first heartbeat")
			}
		}
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Brightline-Tech/argus/internal/client"
)

var (
	serverURL         string
	screenID          string
	cacheDir          string
	heartbeatInterval time.Duration
	refreshInterval   time.Duration
	resyncInterval    time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "argus-player",
	Short: "Argus rendering client: plays screen content and reports liveness",
	RunE:  runPlayer,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", envOr("ARGUS_SERVER", "http://localhost:8080"), "argus server base URL")
	rootCmd.Flags().StringVar(&screenID, "screen-id", os.Getenv("ARGUS_SCREEN_ID"), "opaque screen identifier")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", envOr("ARGUS_CACHE_DIR", defaultCacheDir()), "snapshot cache directory")
	rootCmd.Flags().DurationVar(&heartbeatInterval, "heartbeat-interval", 10*time.Second, "liveness ping cadence")
	rootCmd.Flags().DurationVar(&refreshInterval, "refresh-interval", 30*time.Second, "connectivity-check sync cadence")
	rootCmd.Flags().DurationVar(&resyncInterval, "resync-interval", time.Hour, "full resync cadence")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".argus-cache"
	}
	return dir + "/argus"
}

func runPlayer(cmd *cobra.Command, args []string) error {
	if screenID == "" {
		return cmd.Help()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.NewAPIClient(serverURL)

	cache, err := client.NewCache(cacheDir, screenID)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, running without offline fallback")
		cache = nil
	}

	contentRot := client.NewRotator(10*time.Second, func(idx int) {
		log.Debug().Int("index", idx).Msg("content advanced")
	})
	rssRot := client.NewRotator(6*time.Second, func(idx int) {
		log.Debug().Int("index", idx).Msg("ticker advanced")
	})

	engine := client.NewEngine(api, cache, contentRot, rssRot, client.SyncConfig{
		ScreenID:   screenID,
		Refresh:    refreshInterval,
		FullResync: resyncInterval,
	})

	// cached data renders immediately; the first fetch runs right after
	engine.Bootstrap()
	engine.SyncAll(ctx)

	go client.RunHeartbeat(ctx, api, screenID, heartbeatInterval)
	go client.NewSocket(serverURL, screenID, engine).Run(ctx)

	engine.Run(ctx)
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("player exited")
	}
}

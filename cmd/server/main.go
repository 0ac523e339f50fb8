package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Brightline-Tech/argus/internal/db"
	"github.com/Brightline-Tech/argus/internal/hub"
	"github.com/Brightline-Tech/argus/internal/redis"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	env := LoadEnvironment()

	// initialize PostgreSQL
	conn, err := db.Init(env.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(conn, env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore(conn)

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	events := hub.New()
	if env.MQTTBrokerURL != "" {
		bridge, err := hub.NewMQTTBridge(env.MQTTBrokerURL, "argus-server")
		if err != nil {
			log.Fatal().Err(err).Msg("mqtt bridge init")
		}
		defer bridge.Close()
		events.SetMirror(bridge)
	}

	r := gin.Default()
	RegisterRoutes(r, env, store, events)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

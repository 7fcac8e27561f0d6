package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/masjid-cloud/minbar/internal/db"
	"github.com/masjid-cloud/minbar/internal/http/middleware"
	"github.com/masjid-cloud/minbar/internal/realtime"
	"github.com/masjid-cloud/minbar/internal/redis"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	env := LoadEnvironment()
	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	store := db.NewStore()
	middleware.SetStore(store)

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	files := InitStorage(env)
	registry := realtime.NewRegistry()

	r := gin.Default()
	RegisterRoutes(r, env, store, files, registry)

	log.Info().Str("address", env.ServerAddress).Msg("server listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

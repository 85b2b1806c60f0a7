package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/judgegodwins/chess-rooms/api"
	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/store"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	config, err := util.LoadConfig()

	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := util.NewLogger(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mirror store.Mirror = store.NopMirror{}

	if config.RedisAddress != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.RedisAddress,
			Password: config.RedisPassword,
			DB:       0,
		})
		defer rdb.Close()

		// check redis connection status
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", config.RedisAddress).Msg("cannot reach redis")
		}

		redisMirror := store.NewRedisMirror(rdb, config.RedisRoomTTL, config.MirrorBuffer, logger)
		go redisMirror.Run(ctx)
		mirror = redisMirror
	}

	server := api.NewServer(config, game.NewRegistry(), mirror, logger)

	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/judgegodwins/chess-rooms/game"
	"github.com/judgegodwins/chess-rooms/store"
	"github.com/judgegodwins/chess-rooms/util"
	"github.com/judgegodwins/chess-rooms/ws"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config    *util.Config
	wsManager *ws.Manager
	registry  *game.Registry
	router    *gin.Engine
	log       zerolog.Logger
}

func NewServer(config *util.Config, registry *game.Registry, mirror store.Mirror, log zerolog.Logger) *Server {
	router := gin.New()

	server := &Server{
		config:    config,
		wsManager: ws.NewManager(config, registry, mirror, log),
		registry:  registry,
		router:    router,
		log:       log.With().Str("component", "api").Logger(),
	}

	router.Use(gin.Recovery(), server.RequestLogger, cors.New(corsConfig(config)))

	router.GET("/ws", server.wsManager.ServeWS)
	router.GET("/healthz", server.Health)
	router.GET("/rooms/:id", server.GetRoom)

	return server
}

func corsConfig(config *util.Config) cors.Config {
	c := cors.DefaultConfig()

	if config.AllowsAnyOrigin() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = config.AllowedOrigins
	}

	c.AllowMethods = []string{http.MethodGet, http.MethodOptions}

	return c
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%v", s.config.Port),
		Handler: s.router,
	}

	errChan := make(chan error, 1)

	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

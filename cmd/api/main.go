package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/slotwise/scheduling-api/internal/config"
	dbpkg "github.com/slotwise/scheduling-api/internal/db"
	"github.com/slotwise/scheduling-api/internal/logging"
	"github.com/slotwise/scheduling-api/internal/notification"
	"github.com/slotwise/scheduling-api/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logging.New("scheduling-api", cfg.LogLevel)

	db := dbpkg.NewDB(cfg, log)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	notify := notification.NewDispatcher(
		notification.NewLogSender(db, log),
		cfg.NotifyQueueSize,
		cfg.NotifyTimeout,
		log,
	)
	defer notify.Close()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, notify, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-library-records/config"
	"github.com/oksasatya/go-library-records/internal/bootstrap"
	"github.com/oksasatya/go-library-records/internal/container"
	"github.com/oksasatya/go-library-records/internal/router"
	"github.com/oksasatya/go-library-records/pkg/helpers"
	"github.com/oksasatya/go-library-records/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	// Redis backs rate limiting and auth sessions
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	pub, closePub, err := bootstrap.OpenPublisher(cfg)
	if err != nil {
		logger.Fatalf("failed to init event publisher: %v", err)
	}
	defer closePub()

	indexer, err := bootstrap.OpenIndexer(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to init search: %v", err)
	}

	c := container.New(cfg, logger, container.Deps{
		Store:     store,
		Redis:     rdb,
		Publisher: pub,
		Indexer:   indexer,
	})
	r := router.New(c)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s (store=%s)", cfg.Port, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

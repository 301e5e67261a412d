package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"chatrum/internal/config"
	"chatrum/internal/devserver"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("zap.NewDevelopment: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.LoadConfig()
	if err != nil {
		sugar.Fatalf("cannot load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		sugar.Fatalf("invalid config: %v", err)
	}

	storage, err := devserver.OpenStorage(cfg.DatabasePath)
	if err != nil {
		sugar.Fatalf("cannot open storage at %s: %v", cfg.DatabasePath, err)
	}

	var flags devserver.FlagStore
	if cfg.RedisURL != "" {
		flags, err = devserver.NewRedisFlags(cfg.RedisURL)
		if err != nil {
			sugar.Fatalf("cannot connect to redis at %s: %v", cfg.RedisURL, err)
		}
		sugar.Infof("notification flags stored in redis at %s", cfg.RedisURL)
	} else {
		flags = devserver.NewMemoryFlags()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := devserver.NewServer(storage, flags, sugar)
	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.DevServerPort),
		Handler: srv.Router(cfg.RateLimitRPS),
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		sugar.Info("Shutting down HTTP server")
		if err := httpServer.Shutdown(context.Background()); err != nil {
			sugar.Errorf("httpServer.Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	sugar.Infof("Starting dev server on %s", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		sugar.Fatalf("httpServer.ListenAndServe: %v", err)
	}
	<-idleConnsClosed
}

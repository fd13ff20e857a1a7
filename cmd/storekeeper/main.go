package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/storekeeper/internal/config"
	"github.com/Spok95/storekeeper/internal/infra/db"
	httpx "github.com/Spok95/storekeeper/internal/infra/http"
	"github.com/Spok95/storekeeper/internal/infra/logger"
	"github.com/Spok95/storekeeper/internal/service"
)

func main() {
	defaultPath := os.Getenv("APP_CONFIG")
	if defaultPath == "" {
		defaultPath = "config/example.yaml"
	}
	path := flag.String("config", defaultPath, "path to config file")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Env:        cfg.App.Env,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})

	if err := db.Migrate(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	log.Info("db connected")

	svc := service.New(pool, log)
	srv := httpx.New(cfg.HTTP.Addr, log, httpx.NewHandler(log, svc), cfg.Metrics.Enabled)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			stop()
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

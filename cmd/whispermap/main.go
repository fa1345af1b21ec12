package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejerf/suture/v4"

	"whispermap/internal/config"
	"whispermap/internal/db"
	httpx "whispermap/internal/http"
	"whispermap/internal/logging"
	"whispermap/internal/realtime"
	"whispermap/internal/story"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("connect database")
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		logging.Fatal().Err(err).Msg("migrate database")
	}

	hub := realtime.NewHub()
	svc := &story.Service{DB: gdb, Pub: hub}
	reconciler := &story.Reconciler{DB: gdb, Interval: cfg.ReconcileInterval}
	srv := httpx.NewServer(cfg.HTTPAddr, httpx.NewRouter(cfg, svc, hub))

	root := suture.New("whispermap", suture.Spec{
		EventHook: func(e suture.Event) {
			logging.Warn().Fields(e.Map()).Msg(e.String())
		},
		Timeout: 10 * time.Second,
	})
	root.Add(hub)
	root.Add(reconciler)
	root.Add(srv)

	if !cfg.AdminEnabled() {
		logging.Info().Msg("admin endpoints disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.HTTPAddr).Msg("starting whispermap")
	if err := root.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("supervisor stopped")
		os.Exit(1)
	}
	logging.Info().Msg("shutdown complete")
}

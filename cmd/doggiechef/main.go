package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doggiechef/backend/internal/api"
	"github.com/doggiechef/backend/internal/config"
	"github.com/doggiechef/backend/internal/env"
	"github.com/doggiechef/backend/internal/log"
	"github.com/doggiechef/backend/internal/recipe"
	"github.com/doggiechef/backend/internal/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	const setupTime = 30 * time.Second
	setupCtx, cancel := context.WithTimeout(ctx, setupTime)
	defer cancel()

	logger := log.New(nil)

	conf, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := setup.Database(setupCtx, conf)
	if err != nil {
		logger.Error("failed to setup database", slog.Any("error", err))
		os.Exit(1)
	}

	sink, files, err := setup.PhotoSink(setupCtx, conf, logger)
	if err != nil {
		logger.Error("failed to setup photo sink", slog.Any("error", err))
		os.Exit(1)
	}

	environment := &env.Env{
		Logger:  logger,
		Recipes: recipe.NewService(db, sink, logger),
		Files:   files,
		Config:  conf,
	}

	logger.Info("starting up",
		slog.String("env", conf.Env),
		slog.String("photo_backend", conf.Photos.Backend),
		slog.String("listen_addr", conf.ListenAddr))

	if err := api.Start(ctx, environment); err != nil {
		logger.Error("API failed", slog.Any("error", err))
		os.Exit(1)
	}
}

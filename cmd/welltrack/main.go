package main

import (
	"context"
	"fmt"

	"github.com/akaretnikov/welltrack/internal/client"
	"github.com/akaretnikov/welltrack/internal/config"
	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/service"
	"github.com/akaretnikov/welltrack/internal/store"
	"github.com/akaretnikov/welltrack/internal/tui"
	"github.com/akaretnikov/welltrack/internal/workers"
	"github.com/akaretnikov/welltrack/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewAppLogger("welltrack")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer func() {
		if closeErr := storages.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("close local storage")
		}
	}()

	hub := notify.NewHub()
	services := service.NewServices(storages, hub, cfg.App, log)

	// a version from the config file or APP_VERSION overrides the one
	// stamped at link time
	version := buildVersion
	if cfg.App.Version != "" {
		version = cfg.App.Version
	}

	ui, err := tui.New(services, hub, models.NewAppBuildInfo(version, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	ws := workers.New(
		workers.NewRetentionWorker(ctx, services.RetentionJob, cfg.Workers.RetentionInterval),
		workers.NewSessionSweeper(ctx, services.Auth, cfg.Workers.SessionSweepInterval, log),
	)

	app, err := client.NewApp(services, ui, ws, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}

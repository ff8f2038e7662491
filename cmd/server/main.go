package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"dynmcp/internal/config"
	"dynmcp/internal/domain/datasource"
	"dynmcp/internal/infrastructure/logger"
	_ "dynmcp/internal/infrastructure/metrics" // Register Prometheus metrics
	"dynmcp/internal/interfaces/httpserver"
)

type Application struct {
	config     *config.Config
	httpServer *httpserver.HTTPServer
	dataSource *datasource.DataSource
}

func (app *Application) Start(ctx context.Context) error {
	// Load the cache and launch the watch loops before accepting traffic.
	if err := app.dataSource.Start(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", app.config.App.Host, app.config.App.Port)
	log.Info().Str("address", addr).Msg("Server listening")
	return app.httpServer.Run()
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Dir, cfg.Log.Name); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}
	log.Info().
		Str("data_source", cfg.App.DataSource).
		Str("log_level", cfg.Log.Level).
		Msg("Starting dynmcp gateway")

	application, err := CreateApplication(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create application")
	}

	if err := application.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

package main

import (
	"fmt"
	"net/http"
	"os"

	"support-monitor/internal/config"
	"support-monitor/internal/db"
	httphandler "support-monitor/internal/http"
	"support-monitor/internal/logger"
	"support-monitor/internal/render"
	"support-monitor/internal/repository"
	"support-monitor/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	var recorder service.LoadRecorder = service.NopRecorder{}
	if cfg.DB.Enabled() {
		database, err := db.New(cfg, appLogger)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to connect database")
		}
		recorder = repository.NewLoadRepository(database)
	} else {
		appLogger.Info().Msg("DB_DSN not set, load log disabled")
	}

	upstream := repository.NewUpstreamRepository(cfg.Upstream.URL, &http.Client{})
	monitorService := service.NewMonitorService(upstream, recorder, appLogger)

	location, err := cfg.Display.Location()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("invalid display timezone")
	}

	renderer, err := render.NewHTMLRenderer()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to build templates")
	}

	handler := httphandler.NewHandler(monitorService, httphandler.DisplayOptions{
		HideFutureHours: cfg.Display.HideFutureHours,
		Location:        location,
	}, appLogger)
	router := httphandler.NewRouter(handler, renderer, cfg.HTTP.CORSOrigins, cfg.Environment, appLogger)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Str("upstream", upstream.Endpoint()).Msg("starting support monitor")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}

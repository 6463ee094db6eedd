package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/ParapenteColina/weather-api/internal/api/http"
	"github.com/ParapenteColina/weather-api/internal/config"
	"github.com/ParapenteColina/weather-api/internal/retention"
	"github.com/ParapenteColina/weather-api/internal/store"
	"github.com/ParapenteColina/weather-api/internal/weather"
	"github.com/ParapenteColina/weather-api/internal/weather/providers"
)

func main() {
	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zl.Sync()
	sugar := zl.Sugar()

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalw("failed to load config", "error", err)
	}

	// Snapshot cache: Postgres when configured, in-memory otherwise. An
	// unreachable database degrades to the in-memory store rather than
	// refusing to boot; cache trouble never blocks weather lookups.
	var snapshots weather.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(cfg.DatabaseURL, zl)
		if err != nil {
			sugar.Warnw("database unavailable, using in-memory store", "error", err)
			snapshots = store.NewMemoryStore()
		} else {
			snapshots = pg
		}
	} else {
		sugar.Info("no DATABASE_URL configured, using in-memory store")
		snapshots = store.NewMemoryStore()
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var current weather.CurrentProvider
	var forecast weather.ForecastProvider
	if cfg.OpenWeatherAPIKey != "" {
		ow := providers.NewOpenWeatherProvider(
			httpClient,
			cfg.OpenWeatherAPIKey,
			cfg.LocationCountry,
			cfg.UpstreamRPS,
			cfg.UpstreamBurst,
		)
		current, forecast = ow, ow
	} else {
		sugar.Info("no OPENWEATHER_API_KEY configured, current weather will be mocked")
	}

	service := weather.NewService(snapshots, weather.ServiceOptions{
		Current:     current,
		Forecast:    forecast,
		Mock:        providers.NewMockProvider(),
		CurrentTTL:  cfg.CurrentTTL,
		ForecastTTL: cfg.ForecastTTL,
		Logger:      sugar,
	})

	pruner := retention.New(snapshots, cfg.StoreMaxAge, cfg.PruneInterval, sugar)
	if err := pruner.Start(); err != nil {
		sugar.Fatalw("failed to start retention job", "error", err)
	}
	defer pruner.Stop()

	app := httpapi.NewApp(service, cfg.DefaultLocation)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			sugar.Errorw("server stopped", "error", err)
		}
	}()
	sugar.Infow("weather-api listening", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		sugar.Errorw("error during shutdown", "error", err)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"solar-estimator/internal/cities"
	"solar-estimator/internal/config"
	"solar-estimator/internal/handlers"
	"solar-estimator/internal/services"
	"solar-estimator/internal/weather"
	"solar-estimator/pkg/httpclient"
	"solar-estimator/pkg/logging"
	"solar-estimator/pkg/metrics"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("solar-api", version, logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting solar estimator API server", logging.Fields{
		"version":        version,
		"server_host":    cfg.Server.Host,
		"server_port":    cfg.Server.Port,
		"weather_url":    cfg.Weather.BaseURL,
		"cities_file":    cfg.Cities.File,
		"nominal_power":  cfg.Panel.NominalPowerW,
		"efficiency_pct": cfg.Panel.EfficiencyPct,
	})

	metricsCollector := metrics.NewCollector("solar_estimator", prometheus.DefaultRegisterer)

	// The catalog is loaded once and shared read-only
	catalog, err := cities.Load(cfg.Cities.File)
	if err != nil {
		logger.Warn(ctx, "[STARTUP_CITIES_FALLBACK] Using built-in city list", logging.Fields{
			"cities_file": cfg.Cities.File,
			"error":       err.Error(),
		})
	}
	metricsCollector.CatalogCities.Set(float64(catalog.Len()))
	logger.Info(ctx, "[STARTUP_CITIES] City catalog loaded", logging.Fields{
		"source": catalog.Source(),
		"count":  catalog.Len(),
	})

	weatherClient := weather.NewOpenWeatherClient(
		cfg.Weather.BaseURL,
		cfg.Weather.APIKey,
		httpclient.New("SolarEstimator", version, cfg.Weather.Timeout),
		logger,
		metricsCollector,
	)

	solarService := services.NewSolarService(weatherClient, logger, metricsCollector)
	solarHandler := handlers.NewSolarHandler(solarService, catalog, cfg.Panel, logger, metricsCollector)

	router := mux.NewRouter()
	solarHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{}, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{})
}

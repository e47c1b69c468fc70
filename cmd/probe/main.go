package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"solar-estimator/internal/config"
	"solar-estimator/internal/weather"
	"solar-estimator/pkg/httpclient"
	"solar-estimator/pkg/logging"
	"solar-estimator/pkg/metrics"
)

const version = "1.0.0"

func main() {
	city := flag.String("city", "Bogota", "City to query")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if strings.TrimSpace(cfg.Weather.APIKey) == "" {
		fmt.Fprintln(os.Stderr, "OPENWEATHER_API_KEY is not set")
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("solar-probe", version, logging.ParseLevel(cfg.Logging.Level))
	logger.SetOutput(os.Stderr)

	client := weather.NewOpenWeatherClient(
		cfg.Weather.BaseURL,
		cfg.Weather.APIKey,
		httpclient.New("SolarEstimator", version, cfg.Weather.Timeout),
		logger,
		metrics.NewCollector("solar_probe", prometheus.NewRegistry()),
	)

	os.Exit(probe(context.Background(), client, *city, os.Stdout))
}

// probe checks that the API key works for city and reports the outcome on out.
// It returns the process exit code.
func probe(ctx context.Context, provider weather.Provider, city string, out io.Writer) int {
	fmt.Fprintf(out, "--- Testing OpenWeather connection for %s ---\n", city)

	conditions, err := provider.Current(ctx, city)
	if err == nil {
		fmt.Fprintln(out, "SUCCESS! Your API key is active and working.")
		fmt.Fprintf(out, "Current weather: %s\n", conditions.Description)
		fmt.Fprintf(out, "Temperature: %.2f°C\n", conditions.TemperatureC)
		return 0
	}

	var apiErr *weather.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.IsUnauthorized():
		fmt.Fprintln(out, "Error 401: API key is not yet active.")
		fmt.Fprintln(out, "Note: OpenWeather can take between 30 min to 2 hours to activate new keys.")
	case errors.As(err, &apiErr):
		fmt.Fprintf(out, "Error %d: %s\n", apiErr.StatusCode, apiErr.Message)
	default:
		fmt.Fprintf(out, "A network error occurred: %v\n", err)
	}
	return 1
}

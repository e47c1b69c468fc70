package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solar-estimator/internal/models"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Weather WeatherConfig
	Cities  CitiesConfig
	Panel   models.PanelConfig
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level string
}

// WeatherConfig configures the OpenWeatherMap client
type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// CitiesConfig points at the optional city catalog file
type CitiesConfig struct {
	File string
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var errs []error
	p := &parser{errs: &errs}

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         p.intVar("SERVER_PORT", 8080),
			ReadTimeout:  p.durationVar("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: p.durationVar("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  p.durationVar("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Weather: WeatherConfig{
			APIKey:  os.Getenv("OPENWEATHER_API_KEY"),
			BaseURL: getEnv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),
			Timeout: p.durationVar("WEATHER_TIMEOUT", 10*time.Second),
		},
		Cities: CitiesConfig{
			File: getEnv("CITIES_FILE", "configs/cities.txt"),
		},
		Panel: models.PanelConfig{
			NominalPowerW: p.floatVar("PANEL_NOMINAL_POWER", models.DefaultNominalPowerW),
			EfficiencyPct: p.floatVar("PANEL_EFFICIENCY", models.DefaultEfficiencyPct),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return errors.New("OPENWEATHER_API_KEY is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Weather.Timeout <= 0 {
		return fmt.Errorf("WEATHER_TIMEOUT must be positive, got %s", c.Weather.Timeout)
	}

	if err := c.Panel.Validate(); err != nil {
		return fmt.Errorf("invalid default panel: %w", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// parser collects every malformed variable instead of stopping at the first
type parser struct {
	errs *[]error
}

func (p *parser) intVar(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: invalid integer %q", key, value))
		return defaultValue
	}
	return n
}

func (p *parser) floatVar(key string, defaultValue float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: invalid number %q", key, value))
		return defaultValue
	}
	return f
}

func (p *parser) durationVar(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Errorf("%s: invalid duration %q", key, value))
		return defaultValue
	}
	return d
}

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"solar-estimator/internal/models"
	"solar-estimator/pkg/logging"
	"solar-estimator/pkg/metrics"
)

// DefaultBaseURL is the OpenWeatherMap API root
const DefaultBaseURL = "https://api.openweathermap.org"

// maxBodyBytes bounds how much of a provider response is read
const maxBodyBytes = 1 << 20

// Provider returns current weather conditions for a city
type Provider interface {
	Current(ctx context.Context, city string) (*models.Conditions, error)
}

// APIError is returned when the provider answers with a non-200 status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("weather provider returned %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports a rejected API key. New OpenWeatherMap keys can take
// up to two hours to activate.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports an unknown city
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// OpenWeatherClient fetches current conditions from the OpenWeatherMap
// current weather endpoint in metric units.
type OpenWeatherClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logging.ContextLogger
	metrics *metrics.Collector
}

// NewOpenWeatherClient creates a client. An empty baseURL uses DefaultBaseURL.
func NewOpenWeatherClient(baseURL, apiKey string, client *http.Client, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &OpenWeatherClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger.WithFields(logging.Fields{"provider": "openweathermap"}),
		metrics: metricsCollector,
	}
}

type currentWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

// Current fetches the current conditions for city
func (c *OpenWeatherClient) Current(ctx context.Context, city string) (*models.Conditions, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, &models.ValidationError{Field: "city", Value: city, Message: "city name is required"}
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	endpoint := c.baseURL + "/data/2.5/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", redact(err))
	}

	timer := c.metrics.NewTimer(c.metrics.WeatherLookupDuration)
	resp, err := c.client.Do(req)
	duration := timer.ObserveDuration()
	if err != nil {
		err = redact(err)
		c.metrics.RecordWeatherLookup("network_error")
		c.logger.Error(ctx, "[WEATHER_LOOKUP_ERROR] Weather request failed", logging.Fields{
			"city": city,
		}, err)
		return nil, fmt.Errorf("weather request for %s failed: %w", city, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.RecordWeatherLookup("network_error")
		return nil, fmt.Errorf("failed to read weather response for %s: %w", city, err)
	}

	var payload currentWeatherResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode != http.StatusOK {
		message := payload.Message
		if decodeErr != nil || message == "" {
			message = "unknown error"
		}
		c.metrics.RecordWeatherLookup("api_error")
		c.logger.Warn(ctx, "[WEATHER_LOOKUP_REJECTED] Weather provider returned an error", logging.Fields{
			"city":        city,
			"status_code": resp.StatusCode,
			"message":     message,
		})
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		c.metrics.RecordWeatherLookup("decode_error")
		return nil, fmt.Errorf("failed to decode weather response for %s: %w", city, decodeErr)
	}

	conditions := &models.Conditions{
		City:         city,
		TemperatureC: payload.Main.Temp,
		CloudPct:     payload.Clouds.All,
		HumidityPct:  payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		conditions.Description = payload.Weather[0].Description
	}

	c.metrics.RecordWeatherLookup("success")
	c.logger.Debug(ctx, "[WEATHER_LOOKUP] Weather conditions fetched", logging.Fields{
		"city":          city,
		"temperature_c": conditions.TemperatureC,
		"cloud_pct":     conditions.CloudPct,
		"duration_ms":   duration.Milliseconds(),
	})

	return conditions, nil
}

// redact strips the query string, which carries the API key, from URL errors
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
			u.RawQuery = ""
			urlErr.URL = u.String()
		}
	}
	return err
}

package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-estimator/internal/models"
	"solar-estimator/pkg/logging"
	"solar-estimator/pkg/metrics"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*OpenWeatherClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewOpenWeatherClient(
		server.URL+"/",
		"test-key",
		&http.Client{Timeout: 2 * time.Second},
		logging.NewNopLogger(),
		metrics.NewCollector("weather_test", prometheus.NewRegistry()),
	)
	return client, server
}

func TestOpenWeatherClient_Current(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "Bogota", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weather": [{"id": 803, "main": "Clouds", "description": "broken clouds"}],
			"main": {"temp": 14.7, "humidity": 77, "pressure": 1028},
			"clouds": {"all": 75},
			"name": "Bogotá",
			"cod": 200
		}`))
	})

	got, err := client.Current(context.Background(), " Bogota ")
	require.NoError(t, err)

	assert.Equal(t, &models.Conditions{
		City:         "Bogota",
		TemperatureC: 14.7,
		CloudPct:     75,
		HumidityPct:  77,
		Description:  "broken clouds",
	}, got)
}

func TestOpenWeatherClient_MissingWeatherArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": {"temp": 30, "humidity": 40}, "clouds": {"all": 0}}`))
	})

	got, err := client.Current(context.Background(), "Cali")
	require.NoError(t, err)
	assert.Empty(t, got.Description)
	assert.Equal(t, 30.0, got.TemperatureC)
}

func TestOpenWeatherClient_APIErrors(t *testing.T) {
	tests := []struct {
		name             string
		status           int
		body             string
		wantMessage      string
		wantUnauthorized bool
		wantNotFound     bool
	}{
		{
			name:             "invalid key",
			status:           http.StatusUnauthorized,
			body:             `{"cod": 401, "message": "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`,
			wantMessage:      "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info.",
			wantUnauthorized: true,
		},
		{
			name:         "unknown city",
			status:       http.StatusNotFound,
			body:         `{"cod": "404", "message": "city not found"}`,
			wantMessage:  "city not found",
			wantNotFound: true,
		},
		{
			name:        "non-json body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Current(context.Background(), "Atlantis")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantUnauthorized, apiErr.IsUnauthorized())
			assert.Equal(t, tt.wantNotFound, apiErr.IsNotFound())
		})
	}
}

func TestOpenWeatherClient_DecodeError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": `))
	})

	_, err := client.Current(context.Background(), "Lima")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestOpenWeatherClient_NetworkErrorHidesAPIKey(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Current(context.Background(), "Quito")
	require.Error(t, err)
	assert.False(t, strings.Contains(err.Error(), "test-key"), "error leaks api key: %v", err)
}

func TestOpenWeatherClient_ContextCanceled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Current(ctx, "Quito")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestOpenWeatherClient_EmptyCity(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Current(context.Background(), "  ")

	var validationErr *models.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "city", validationErr.Field)
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector provides application metrics collection
type Collector struct {
	// API Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrorsTotal     *prometheus.CounterVec

	// Weather provider metrics
	WeatherLookupsTotal   *prometheus.CounterVec
	WeatherLookupDuration prometheus.Histogram

	// Estimation metrics
	EstimatesTotal       prometheus.Counter
	EstimatedPowerWatts  prometheus.Histogram
	LastPowerOutputWatts *prometheus.GaugeVec
	ComparisonCities     prometheus.Histogram

	// Catalog metrics
	CatalogCities prometheus.Gauge
}

// NewCollector creates a new metrics collector registered against reg.
// Pass prometheus.DefaultRegisterer to expose the metrics on promhttp.Handler().
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of API requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		APIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors by type",
			},
			[]string{"error_type", "endpoint"},
		),

		WeatherLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weather_lookups_total",
				Help:      "Total number of weather provider lookups by outcome",
			},
			[]string{"outcome"}, // "success", "api_error", "network_error", "decode_error"
		),

		WeatherLookupDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weather_lookup_duration_seconds",
				Help:      "Duration of weather provider lookups in seconds",
				Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
		),

		EstimatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solar_estimates_total",
				Help:      "Total number of solar output estimates computed",
			},
		),

		EstimatedPowerWatts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solar_estimated_power_watts",
				Help:      "Distribution of estimated panel power output in watts",
				Buckets:   []float64{0, 25, 50, 100, 150, 200, 250, 300, 400, 500, 1000},
			},
		),

		LastPowerOutputWatts: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "solar_last_power_output_watts",
				Help:      "Most recent estimated power output per city",
			},
			[]string{"city"},
		),

		ComparisonCities: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "solar_comparison_cities",
				Help:      "Number of cities per comparison request",
				Buckets:   []float64{1, 2, 3, 5, 10, 20},
			},
		),

		CatalogCities: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "catalog_cities",
				Help:      "Number of cities in the loaded city catalog",
			},
		),
	}
}

// Timer provides timing functionality for operations
type Timer struct {
	start    time.Time
	observer prometheus.Observer
}

// NewTimer creates a new timer
func (c *Collector) NewTimer(histogram prometheus.Observer) *Timer {
	return &Timer{
		start:    time.Now(),
		observer: histogram,
	}
}

// ObserveDuration records the elapsed time since timer creation
func (t *Timer) ObserveDuration() time.Duration {
	duration := time.Since(t.start)
	if t.observer != nil {
		t.observer.Observe(duration.Seconds())
	}
	return duration
}

// RecordAPIRequest increments API request counter
func (c *Collector) RecordAPIRequest(endpoint, method, status string) {
	c.APIRequestsTotal.WithLabelValues(endpoint, method, status).Inc()
}

// RecordAPIError increments API error counter
func (c *Collector) RecordAPIError(errorType, endpoint string) {
	c.APIErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordWeatherLookup increments the weather lookup counter for outcome
func (c *Collector) RecordWeatherLookup(outcome string) {
	c.WeatherLookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordEstimate records a computed power output, labelled by city when known
func (c *Collector) RecordEstimate(city string, powerW float64) {
	c.EstimatesTotal.Inc()
	c.EstimatedPowerWatts.Observe(powerW)
	if city != "" {
		c.LastPowerOutputWatts.WithLabelValues(city).Set(powerW)
	}
}

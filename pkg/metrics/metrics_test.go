package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatherNames(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	values := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				values[mf.GetName()] += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				values[mf.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return values
}

func TestCollector_RecordEstimate(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("solar_test", reg)

	c.RecordEstimate("Bogota", 305.25)
	c.RecordEstimate("", 120)

	values := gatherNames(t, reg)
	assert.Equal(t, 2.0, values["solar_test_solar_estimates_total"])
	assert.Equal(t, 2.0, values["solar_test_solar_estimated_power_watts"])
	assert.Equal(t, 305.25, values["solar_test_solar_last_power_output_watts"])
}

func TestCollector_RecordAPIAndWeather(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("solar_test", reg)

	c.RecordAPIRequest("/api/solar", "GET", "200")
	c.RecordAPIRequest("/api/solar", "GET", "502")
	c.RecordAPIError("upstream_error", "/api/solar")
	c.RecordWeatherLookup("success")
	c.CatalogCities.Set(5)

	values := gatherNames(t, reg)
	assert.Equal(t, 2.0, values["solar_test_api_requests_total"])
	assert.Equal(t, 1.0, values["solar_test_api_errors_total"])
	assert.Equal(t, 1.0, values["solar_test_weather_lookups_total"])
	assert.Equal(t, 5.0, values["solar_test_catalog_cities"])
}

func TestCollector_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewCollector("solar_test", prometheus.NewRegistry())
		NewCollector("solar_test", prometheus.NewRegistry())
	})
}

func TestTimer_ObserveDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("solar_test", reg)

	timer := c.NewTimer(c.WeatherLookupDuration)
	time.Sleep(time.Millisecond)
	elapsed := timer.ObserveDuration()

	assert.GreaterOrEqual(t, elapsed, time.Millisecond)
	assert.Equal(t, 1.0, gatherNames(t, reg)["solar_test_weather_lookup_duration_seconds"])
}

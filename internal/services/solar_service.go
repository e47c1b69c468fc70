package services

import (
	"context"
	"fmt"
	"time"

	"solar-estimator/internal/models"
	"solar-estimator/internal/solar"
	"solar-estimator/internal/weather"
	"solar-estimator/pkg/logging"
	"solar-estimator/pkg/metrics"
)

// SolarService combines weather lookups with the solar output estimator
type SolarService struct {
	provider weather.Provider
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
	now      func() time.Time
}

// NewSolarService creates a new solar service
func NewSolarService(provider weather.Provider, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SolarService {
	return &SolarService{
		provider: provider,
		logger:   logger,
		metrics:  metricsCollector,
		now:      time.Now,
	}
}

// Assess fetches the current weather for city and estimates panel output
func (s *SolarService) Assess(ctx context.Context, city string, panel models.PanelConfig) (*models.SolarAssessment, error) {
	if err := panel.Validate(); err != nil {
		return nil, err
	}

	conditions, err := s.provider.Current(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("failed to get weather for %s: %w", city, err)
	}

	assessment := models.NewSolarAssessment(*conditions, panel, s.now())
	s.metrics.RecordEstimate(assessment.City, assessment.Estimate.PowerOutput)

	s.logger.Info(ctx, "[SOLAR_ASSESS] Solar output estimated", logging.Fields{
		"city":           assessment.City,
		"temperature_c":  conditions.TemperatureC,
		"cloud_pct":      conditions.CloudPct,
		"irradiance":     assessment.Estimate.Irradiance,
		"thermal_factor": assessment.Estimate.ThermalFactor,
		"power_output_w": assessment.Estimate.PowerOutput,
	})

	return assessment, nil
}

// Compare assesses each city in turn. A failed lookup is recorded on that
// city's result and does not stop the remaining cities.
func (s *SolarService) Compare(ctx context.Context, cities []string, panel models.PanelConfig) (*models.Comparison, error) {
	if err := panel.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	s.metrics.ComparisonCities.Observe(float64(len(cities)))

	results := make([]models.CityResult, 0, len(cities))
	for _, city := range cities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		assessment, err := s.Assess(ctx, city, panel)
		if err != nil {
			s.logger.Warn(ctx, "[SOLAR_COMPARE_CITY_ERROR] City skipped in comparison", logging.Fields{
				"city":  city,
				"error": err.Error(),
			})
			results = append(results, models.CityResult{City: city, Error: err.Error()})
			continue
		}

		results = append(results, models.CityResult{City: city, Assessment: assessment})
	}

	comparison := models.NewComparison(panel, results)

	s.logger.Info(ctx, "[SOLAR_COMPARE_COMPLETE] City comparison completed", logging.Fields{
		"cities":          len(cities),
		"succeeded":       comparison.Succeeded,
		"failed":          comparison.Failed,
		"best":            comparison.Best,
		"average_power_w": comparison.AveragePowerW,
		"duration_ms":     time.Since(startTime).Milliseconds(),
	})

	return comparison, nil
}

// EstimateRaw runs the estimator on caller supplied values without any range checks
func (s *SolarService) EstimateRaw(ctx context.Context, temperatureC, cloudPct, nominalPowerW, efficiencyPct float64) solar.Estimate {
	estimate := solar.Calculate(temperatureC, cloudPct, nominalPowerW, efficiencyPct)
	s.metrics.RecordEstimate("", estimate.PowerOutput)

	s.logger.Debug(ctx, "[SOLAR_ESTIMATE] Raw estimate computed", logging.Fields{
		"temperature_c":   temperatureC,
		"cloud_pct":       cloudPct,
		"nominal_power_w": nominalPowerW,
		"efficiency_pct":  efficiencyPct,
		"power_output_w":  estimate.PowerOutput,
	})

	return estimate
}

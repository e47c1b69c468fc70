package models

import (
	"fmt"
	"math"
	"time"

	"solar-estimator/internal/solar"
)

const (
	// MinEfficiencyPct and MaxEfficiencyPct bound the user-selectable system efficiency
	MinEfficiencyPct = 10.0
	MaxEfficiencyPct = 25.0

	DefaultNominalPowerW = 330.0
	DefaultEfficiencyPct = 18.5
)

// PanelConfig describes the photovoltaic installation being evaluated
type PanelConfig struct {
	NominalPowerW float64 `json:"nominal_power_w"`
	EfficiencyPct float64 `json:"efficiency_pct"`
}

// DefaultPanelConfig returns a standard 330 W panel at 18.5% efficiency
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		NominalPowerW: DefaultNominalPowerW,
		EfficiencyPct: DefaultEfficiencyPct,
	}
}

// Validate checks the panel against the ranges offered to users.
// The estimator itself accepts any finite value.
func (p PanelConfig) Validate() error {
	if math.IsNaN(p.NominalPowerW) || math.IsInf(p.NominalPowerW, 0) || p.NominalPowerW <= 0 {
		return &ValidationError{
			Field:   "nominal_power",
			Value:   fmt.Sprintf("%v", p.NominalPowerW),
			Message: "nominal power must be a positive number of watts",
		}
	}

	if math.IsNaN(p.EfficiencyPct) || p.EfficiencyPct < MinEfficiencyPct || p.EfficiencyPct > MaxEfficiencyPct {
		return &ValidationError{
			Field:   "efficiency",
			Value:   fmt.Sprintf("%v", p.EfficiencyPct),
			Message: fmt.Sprintf("efficiency must be between %.1f and %.1f percent", MinEfficiencyPct, MaxEfficiencyPct),
		}
	}

	return nil
}

// Conditions is the current weather for a city as reported by the weather provider
type Conditions struct {
	City         string  `json:"city"`
	TemperatureC float64 `json:"temperature_celsius"`
	CloudPct     float64 `json:"cloud_pct"`
	HumidityPct  float64 `json:"humidity_pct"`
	Description  string  `json:"description"`
}

// SolarAssessment combines the weather for a city with the estimated panel output
type SolarAssessment struct {
	City                string         `json:"city"`
	Conditions          Conditions     `json:"conditions"`
	Panel               PanelConfig    `json:"panel"`
	Estimate            solar.Estimate `json:"estimate"`
	CapacityUtilization float64        `json:"capacity_utilization"`
	GeneratedAt         time.Time      `json:"generated_at"`
}

// NewSolarAssessment runs the estimator for the given conditions and panel
func NewSolarAssessment(conditions Conditions, panel PanelConfig, now time.Time) *SolarAssessment {
	estimate := solar.Calculate(conditions.TemperatureC, conditions.CloudPct, panel.NominalPowerW, panel.EfficiencyPct)

	return &SolarAssessment{
		City:                conditions.City,
		Conditions:          conditions,
		Panel:               panel,
		Estimate:            estimate,
		CapacityUtilization: CapacityUtilization(estimate.PowerOutput, panel.NominalPowerW),
		GeneratedAt:         now.UTC(),
	}
}

// CapacityUtilization returns output as a fraction of nominal power, clamped to [0, 1]
func CapacityUtilization(powerW, nominalPowerW float64) float64 {
	if nominalPowerW <= 0 {
		return 0
	}

	ratio := powerW / nominalPowerW
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	default:
		return ratio
	}
}

// CityResult is one entry of a multi-city comparison.
// Exactly one of Assessment or Error is set.
type CityResult struct {
	City       string           `json:"city"`
	Assessment *SolarAssessment `json:"assessment,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Comparison summarizes estimated output across several cities
type Comparison struct {
	Panel         PanelConfig  `json:"panel"`
	Results       []CityResult `json:"results"`
	Best          string       `json:"best,omitempty"`
	AveragePowerW float64      `json:"average_power_w"`
	Succeeded     int          `json:"succeeded"`
	Failed        int          `json:"failed"`
}

// NewComparison aggregates per-city results in their original order
func NewComparison(panel PanelConfig, results []CityResult) *Comparison {
	c := &Comparison{
		Panel:   panel,
		Results: results,
	}

	bestPower := math.Inf(-1)
	total := 0.0
	for _, r := range results {
		if r.Assessment == nil {
			c.Failed++
			continue
		}

		c.Succeeded++
		power := r.Assessment.Estimate.PowerOutput
		total += power
		if power > bestPower {
			bestPower = power
			c.Best = r.City
		}
	}

	if c.Succeeded > 0 {
		c.AveragePowerW = math.Round(total/float64(c.Succeeded)*100) / 100
	}

	return c
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}

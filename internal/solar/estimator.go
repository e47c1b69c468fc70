package solar

import "math"

const (
	// ClearSkyIrradiance is the baseline irradiance in W/m² at 0% cloud coverage
	ClearSkyIrradiance = 1000.0

	// MaxCloudAttenuation is the fraction of irradiance removed at 100% cloud coverage
	MaxCloudAttenuation = 0.75

	// ReferenceTemperatureC is the standard test condition cell temperature
	ReferenceTemperatureC = 25.0

	// TemperatureCoefficient is the efficiency loss per °C above the reference
	TemperatureCoefficient = 0.0045

	// ReferenceEfficiency is the efficiency of a standard panel (20%)
	ReferenceEfficiency = 0.20
)

// Estimate holds the result of a single photovoltaic output estimation.
// Values are rounded: irradiance and power to 2 decimals, thermal factor to 3.
type Estimate struct {
	Irradiance    float64 `json:"irradiance"`
	ThermalFactor float64 `json:"thermal_factor"`
	PowerOutput   float64 `json:"power_output"`
}

// Calculate estimates panel output from ambient temperature (°C), cloud
// coverage (%), nominal panel power (W) and the assumed system efficiency (%).
//
// Inputs are not range-checked. Out-of-range inputs produce out-of-range
// results (negative thermal factor above ~247°C, negative power for negative
// nominal power) and it is up to the caller to validate if that matters.
func Calculate(temperatureC, cloudPct, nominalPowerW, efficiencyPct float64) Estimate {
	irradiance := ClearSkyIrradiance * (1 - (cloudPct/100)*MaxCloudAttenuation)

	thermalFactor := 1.0
	if temperatureC > ReferenceTemperatureC {
		thermalFactor = 1 - TemperatureCoefficient*(temperatureC-ReferenceTemperatureC)
	}

	effFactor := efficiencyPct / 100
	power := nominalPowerW * (irradiance / ClearSkyIrradiance) * thermalFactor * (effFactor / ReferenceEfficiency)

	return Estimate{
		Irradiance:    round(irradiance, 2),
		ThermalFactor: round(thermalFactor, 3),
		PowerOutput:   round(power, 2),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	scaled := v * scale
	// values this large carry no fractional digits
	if math.IsInf(scaled, 0) {
		return v
	}
	return math.Round(scaled) / scale
}

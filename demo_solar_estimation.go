package main

import (
	"context"
	"fmt"
	"strings"

	"solar-estimator/internal/cities"
	"solar-estimator/internal/models"
	"solar-estimator/internal/solar"
	"solar-estimator/pkg/logging"
)

// Demonstrates the solar estimator over a weather grid without calling the weather API
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("SOLAR ENERGY ESTIMATOR - CALCULATION DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	logger := logging.NewStructuredLogger("demo", "1.0.0", logging.InfoLevel)
	ctx := context.Background()

	panel := models.DefaultPanelConfig()
	fmt.Printf("Panel: %.0f W nominal, %.1f%% efficiency\n\n", panel.NominalPowerW, panel.EfficiencyPct)

	temperatures := []float64{-5, 15, 25, 35, 45}
	clouds := []float64{0, 25, 50, 75, 100}

	fmt.Println("Power output (W) by cloud coverage (rows) and temperature (columns)")
	fmt.Printf("%-8s", "clouds")
	for _, temp := range temperatures {
		fmt.Printf("%10.0f°C", temp)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("─", 8+12*len(temperatures)))

	for _, cloud := range clouds {
		fmt.Printf("%6.0f%% ", cloud)
		for _, temp := range temperatures {
			estimate := solar.Calculate(temp, cloud, panel.NominalPowerW, panel.EfficiencyPct)
			fmt.Printf("%12.2f", estimate.PowerOutput)
		}
		fmt.Println()
	}
	fmt.Println()

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("THERMAL DERATING")
	fmt.Println("════════════════════════════════════════════════════════════════")
	for _, temp := range []float64{25, 35, 50, 100, 250} {
		estimate := solar.Calculate(temp, 0, panel.NominalPowerW, panel.EfficiencyPct)
		marker := ""
		if estimate.ThermalFactor < 0 {
			marker = "  ⚠ NEGATIVE (unclamped)"
		}
		fmt.Printf("  %6.1f°C  factor %6.3f  power %8.2f W%s\n", temp, estimate.ThermalFactor, estimate.PowerOutput, marker)
	}
	fmt.Println()

	catalog := cities.Default()
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("BUILT-IN CITY CATALOG")
	fmt.Println("════════════════════════════════════════════════════════════════")
	for i, name := range catalog.Names() {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
	fmt.Println()

	logger.Info(ctx, "[DEMO_COMPLETE] Demonstration finished", logging.Fields{
		"grid_points": len(temperatures) * len(clouds),
		"cities":      catalog.Len(),
	})
}

package main

import (
	"context"
	"fmt"
	"os"

	"predictability-platform/internal/forecast"
	"predictability-platform/pkg/logging"
)

// Demonstrates the validation protocol comparison without a database
func main() {
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("PREDICTABILITY PLATFORM - PROTOCOL COMPARISON DEMONSTRATION")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()

	// Initialize logger
	logger := logging.NewStructuredLogger("demo", "1.0.0", logging.InfoLevel)
	ctx := context.Background()

	params := forecast.DefaultParams()
	seriesHours := 17520
	seed := int64(42)

	fmt.Printf("Generating synthetic hourly PM10 series: %d hours, seed %d\n", seriesHours, seed)
	series := forecast.GenerateSyntheticPM10(seriesHours, seed)
	fmt.Printf("Series span: %s to %s\n\n",
		series.Timestamp(0).Format("2006-01-02 15:04"),
		series.Timestamp(series.Len()-1).Format("2006-01-02 15:04"))

	static := forecast.NewStaticLeakyProtocol(logger)
	rolling := forecast.NewRollingOriginProtocol(logger)

	staticRecords, err := static.Evaluate(ctx, series, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Static evaluation failed: %v\n", err)
		os.Exit(1)
	}

	rollingRecords, err := rolling.Evaluate(ctx, series, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rolling evaluation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Printf("%-10s %14s %14s\n", "Horizon", "Static Skill", "Rolling Skill")
	fmt.Println("─────────────────────────────────────────────────────────────")

	for _, h := range params.Horizons {
		staticSkill := "-"
		if rec, ok := staticRecords[h]; ok {
			staticSkill = fmt.Sprintf("%.4f", rec.Skill)
		}
		rollingSkill := "-"
		if rec, ok := rollingRecords[h]; ok {
			rollingSkill = fmt.Sprintf("%.4f", rec.Skill)
		}
		fmt.Printf("%-10s %14s %14s\n", fmt.Sprintf("%dh", h), staticSkill, rollingSkill)
	}

	staticHStar := forecast.HStar(staticRecords, 0)
	rollingHStar := forecast.HStar(rollingRecords, 0)

	fmt.Println("─────────────────────────────────────────────────────────────")
	fmt.Printf("Static H*:  %d hours (leaky split, single forecast)\n", staticHStar)
	fmt.Printf("Rolling H*: %d hours (causal rolling origins)\n", rollingHStar)
	fmt.Println()

	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println("✅ PROTOCOL COMPARISON DEMONSTRATION COMPLETE")
	fmt.Println("════════════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Println("The system successfully:")
	fmt.Println("  ✓ Generated a seasonal synthetic PM10 series")
	fmt.Println("  ✓ Fit AR ridge models on smoothed lag features")
	fmt.Println("  ✓ Scored both validation protocols against persistence")
	fmt.Println("  ✓ Computed the operational predictability limit for each")
	fmt.Println()
	fmt.Println("With a database, this would:")
	fmt.Println("  • Store runs in the benchmark_runs table")
	fmt.Println("  • Store per-horizon scores in the horizon_skills table")
	fmt.Println("  • Serve results via REST API endpoints")
	fmt.Println("  • Provide real-time metrics and monitoring")
	fmt.Println()
}

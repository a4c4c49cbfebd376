package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"predictability-platform/internal/config"
	"predictability-platform/internal/models"
	"predictability-platform/internal/repository"
	"predictability-platform/internal/services"
	"predictability-platform/pkg/database"
	"predictability-platform/pkg/logging"
	"predictability-platform/pkg/metrics"
)

func main() {
	// Parse command-line flags
	hours := flag.Int("hours", 17520, "Length of the synthetic PM10 series in hours")
	seed := flag.Int64("seed", 42, "Seed for the synthetic series generator")
	horizonsCSV := flag.String("horizons", "1,6,12,24,48,72", "Comma-separated forecast horizons in hours")
	lagOrder := flag.Int("lag-order", 24, "Number of autoregressive lags")
	smoothWindow := flag.Int("smooth-window", 24, "Trailing moving-average window in hours")
	trainFrac := flag.Float64("train-frac", 0.75, "Training fraction for the static split")
	warmup := flag.Int("warmup", 8760, "Minimum training hours before the first rolling origin")
	step := flag.Int("step", 168, "Hours between rolling origins")
	alpha := flag.Float64("alpha", 1.0, "Ridge regularization strength")
	threshold := flag.Float64("threshold", 0.0, "Skill threshold for the operational limit")
	parallelism := flag.Int("parallelism", 0, "Concurrent rolling origins (0 = number of CPUs)")
	persist := flag.Bool("persist", false, "Persist results to PostgreSQL")
	flag.Parse()

	horizons, err := parseHorizons(*horizonsCSV)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid -horizons: %v\n", err)
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := logging.NewStructuredLogger("predictability-benchmark", "1.0.0", logging.ParseLevel(cfg.Logging.Level))

	ctx := context.Background()
	logger.Info(ctx, "[BENCHMARK_CLI_START] Starting benchmark", logging.Fields{
		"version":  "1.0.0",
		"hours":    *hours,
		"seed":     *seed,
		"horizons": horizons,
		"persist":  *persist,
	})

	// Initialize metrics collector
	metricsCollector := metrics.NewCollector("predictability_benchmark")

	// Database is only needed when persisting results
	var benchmarkRepo repository.BenchmarkRepository
	if *persist {
		dbConfig := &database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.Database,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		}

		db, err := database.NewPostgresDB(dbConfig, logger, metricsCollector)
		if err != nil {
			logger.Fatal(ctx, "[BENCHMARK_CLI_ERROR] Failed to connect to database", logging.Fields{}, err)
		}
		defer db.Close()

		benchmarkRepo = repository.NewBenchmarkRepository(db, logger)
	}

	benchmarkService := services.NewBenchmarkService(benchmarkRepo, logger, metricsCollector)

	spec := models.BenchmarkSpec{
		SeriesHours:     *hours,
		Seed:            *seed,
		Horizons:        horizons,
		LagOrder:        *lagOrder,
		SmoothingWindow: *smoothWindow,
		TrainFraction:   *trainFrac,
		WarmupHours:     *warmup,
		StepHours:       *step,
		RidgeAlpha:      *alpha,
		SkillThreshold:  *threshold,
		Parallelism:     *parallelism,
		Persist:         *persist,
	}

	comparison, err := benchmarkService.Run(ctx, spec)
	if err != nil {
		logger.Fatal(ctx, "[BENCHMARK_CLI_ERROR] Benchmark failed", logging.Fields{
			"error": err.Error(),
		}, err)
	}

	printComparison(comparison)

	logger.Info(ctx, "[BENCHMARK_CLI_COMPLETE] Benchmark completed", logging.Fields{
		"run_id":        comparison.Run.RunID,
		"static_hstar":  comparison.Run.StaticHStar,
		"rolling_hstar": comparison.Run.RollingHStar,
		"duration_ms":   comparison.Run.DurationMS,
	})
}

// parseHorizons parses the comma-separated horizons flag
func parseHorizons(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	horizons := make([]int, 0, len(parts))
	for _, part := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid horizon %q", part)
		}
		horizons = append(horizons, h)
	}
	return horizons, nil
}

// printComparison renders the run as a side-by-side table on stdout
func printComparison(c *models.BenchmarkComparison) {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("VALIDATION PROTOCOL COMPARISON")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("Run ID:        %s\n", c.Run.RunID)
	fmt.Printf("Series:        %d hours, seed %d\n", c.Run.SeriesHours, c.Run.Seed)
	fmt.Printf("Model:         AR(%d) ridge (alpha=%g), %dh trailing smoothing\n",
		c.Run.LagOrder, c.Run.RidgeAlpha, c.Run.SmoothingWindow)
	fmt.Printf("Duration:      %d ms\n", c.Run.DurationMS)
	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%-10s %13s %13s %13s %13s %12s\n",
		"Horizon", "Static RMSE", "Static Skill", "Rolling RMSE", "Rolling Skill", "Inflation")
	fmt.Println(strings.Repeat("-", 80))

	for _, h := range c.Horizons {
		fmt.Printf("%-10s %13s %13s %13s %13s %12s\n",
			fmt.Sprintf("%dh", h.HorizonHours),
			formatFloat(h.StaticRMSE),
			formatFloat(h.StaticSkill),
			formatFloat(h.RollingRMSE),
			formatFloat(h.RollingSkill),
			formatPct(h.SkillInflationPct),
		)
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("Static H*:     %d hours\n", c.Run.StaticHStar)
	fmt.Printf("Rolling H*:    %d hours\n", c.Run.RollingHStar)
	if c.InflationPct != nil {
		fmt.Printf("H* inflation:  %+.1f%%\n", *c.InflationPct)
	} else {
		fmt.Println("H* inflation:  n/a (rolling limit is zero)")
	}
	fmt.Println(strings.Repeat("=", 80))
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}

func formatPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}
